package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateEntity inserts a catalog entity. parentID is nil for roots.
func (s *Store) CreateEntity(ctx context.Context, parentID *int64, title string) (*Entity, error) {
	var parent any
	if parentID != nil {
		parent = *parentID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entities (parent_id, title, created_at) VALUES (?, ?, ?)`,
		parent, title, timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntity(ctx, id)
}

// GetEntity fetches an entity by identifier. Returns nil when absent.
func (s *Store) GetEntity(ctx context.Context, id int64) (*Entity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, parent_id, title, created_at FROM entities WHERE id = ?`, id)

	var (
		entity   Entity
		parentID sql.NullInt64
		created  sql.NullString
	)
	if err := row.Scan(&entity.ID, &parentID, &entity.Title, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entity: %w", err)
	}
	if parentID.Valid {
		v := parentID.Int64
		entity.ParentID = &v
	}
	if t, err := parseTimeString(created.String); err == nil {
		entity.CreatedAt = t
	}
	return &entity, nil
}

// DeleteEntity removes an entity row. Link rows pointing at it become dangling
// and are the hygiene pass's responsibility.
func (s *Store) DeleteEntity(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Lineage returns the titles of the entity's ancestor chain, root first,
// ending with the entity's own title. Returns nil when the entity is absent.
func (s *Store) Lineage(ctx context.Context, entityID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        WITH RECURSIVE chain(id, parent_id, title, depth) AS (
            SELECT id, parent_id, title, 0 FROM entities WHERE id = ?
            UNION ALL
            SELECT e.id, e.parent_id, e.title, chain.depth + 1
            FROM entities e JOIN chain ON e.id = chain.parent_id
        )
        SELECT title FROM chain ORDER BY depth DESC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query lineage: %w", err)
	}
	defer rows.Close()

	var lineage []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		lineage = append(lineage, title)
	}
	return lineage, rows.Err()
}
