package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateLink records that an object fills a slot on an entity.
func (s *Store) CreateLink(ctx context.Context, objectID, ownerEntityID int64, slotName string) (*LinkRecord, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+s.linkTable+` (object_id, owner_entity_id, slot_name, created_at) VALUES (?, ?, ?, ?)`,
		objectID, ownerEntityID, slotName, timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetLink(ctx, id)
}

// GetLink fetches a link row by identifier. Returns nil when absent.
func (s *Store) GetLink(ctx context.Context, id int64) (*LinkRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, object_id, owner_entity_id, slot_name, created_at FROM `+s.linkTable+` WHERE id = ?`, id)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

// LinksForSlot returns the links filling a slot on an entity.
func (s *Store) LinksForSlot(ctx context.Context, ownerEntityID int64, slotName string) ([]*LinkRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, object_id, owner_entity_id, slot_name, created_at FROM `+s.linkTable+`
         WHERE owner_entity_id = ? AND slot_name = ? ORDER BY id`, ownerEntityID, slotName)
	if err != nil {
		return nil, fmt.Errorf("query links for slot: %w", err)
	}
	defer rows.Close()
	return collectLinks(rows)
}

// DeleteLink removes a link row.
func (s *Store) DeleteLink(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.linkTable+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete link: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// LinkedObjects enumerates every link joined with its stored object, for the
// relocation pass. Links whose object row is missing are excluded; the hygiene
// pass owns those. Ordered by link id so successive runs visit items in the
// same order.
func (s *Store) LinkedObjects(ctx context.Context) ([]*LinkedObject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.id, l.object_id, l.owner_entity_id, l.slot_name, l.created_at, `+prefixedObjectColumns("o")+`
         FROM `+s.linkTable+` l
         JOIN stored_objects o ON o.id = l.object_id
         ORDER BY l.id`)
	if err != nil {
		return nil, fmt.Errorf("query linked objects: %w", err)
	}
	defer rows.Close()

	var linked []*LinkedObject
	for rows.Next() {
		var (
			link       LinkRecord
			createdRaw sql.NullString
			obj        StoredObject
			objCreated sql.NullString
			objUpdated sql.NullString
		)
		if err := rows.Scan(
			&link.ID, &link.ObjectID, &link.OwnerEntityID, &link.SlotName, &createdRaw,
			&obj.ID, &obj.LogicalName, &obj.Extension, &obj.ContentType, &obj.ContentHash,
			&obj.CurrentKey, &obj.PublicURL, &obj.SizeBytes, &objCreated, &objUpdated,
		); err != nil {
			return nil, err
		}
		if t, err := parseTimeString(createdRaw.String); err == nil {
			link.CreatedAt = t
		}
		if t, err := parseTimeString(objCreated.String); err == nil {
			obj.CreatedAt = t
		}
		if t, err := parseTimeString(objUpdated.String); err == nil {
			obj.UpdatedAt = t
		}
		linked = append(linked, &LinkedObject{Link: link, Object: obj})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Lineage is resolved per owner, not per link, so shared owners hit the
	// recursive query once.
	lineages := make(map[int64][]string)
	for _, item := range linked {
		if _, ok := lineages[item.Link.OwnerEntityID]; ok {
			continue
		}
		lineage, err := s.Lineage(ctx, item.Link.OwnerEntityID)
		if err != nil {
			return nil, err
		}
		lineages[item.Link.OwnerEntityID] = lineage
	}
	for _, item := range linked {
		item.Lineage = lineages[item.Link.OwnerEntityID]
	}
	return linked, nil
}

func prefixedObjectColumns(alias string) string {
	return alias + ".id, " + alias + ".logical_name, " + alias + ".extension, " +
		alias + ".content_type, " + alias + ".content_hash, " + alias + ".current_key, " +
		alias + ".public_url, " + alias + ".size_bytes, " + alias + ".created_at, " + alias + ".updated_at"
}

func scanLink(scanner interface{ Scan(dest ...any) error }) (*LinkRecord, error) {
	var (
		link       LinkRecord
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&link.ID, &link.ObjectID, &link.OwnerEntityID, &link.SlotName, &createdRaw); err != nil {
		return nil, err
	}
	if t, err := parseTimeString(createdRaw.String); err == nil {
		link.CreatedAt = t
	}
	return &link, nil
}

func collectLinks(rows *sql.Rows) ([]*LinkRecord, error) {
	var links []*LinkRecord
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
