package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const objectColumns = "id, logical_name, extension, content_type, content_hash, current_key, public_url, size_bytes, created_at, updated_at"

// CreateObject records a newly stored object.
func (s *Store) CreateObject(ctx context.Context, obj *StoredObject) (*StoredObject, error) {
	if obj == nil {
		return nil, errors.New("object is nil")
	}
	now := timestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO stored_objects (
            logical_name, extension, content_type, content_hash,
            current_key, public_url, size_bytes, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		obj.LogicalName,
		obj.Extension,
		obj.ContentType,
		obj.ContentHash,
		obj.CurrentKey,
		obj.PublicURL,
		obj.SizeBytes,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert object: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetObject(ctx, id)
}

// GetObject fetches a stored object by identifier. Returns nil when absent.
func (s *Store) GetObject(ctx context.Context, id int64) (*StoredObject, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+objectColumns+` FROM stored_objects WHERE id = ?`, id)
	obj, err := scanObject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return obj, nil
}

// UpdateObjectKey updates the location pointer and public URL in one write.
// Callers invoke this only after a relocate is confirmed durable.
func (s *Store) UpdateObjectKey(ctx context.Context, id int64, key, publicURL string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE stored_objects SET current_key = ?, public_url = ?, updated_at = ? WHERE id = ?`,
		key, publicURL, timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("update object key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update object key: object %d not found", id)
	}
	return nil
}

// DeleteObject removes a stored object row.
func (s *Store) DeleteObject(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stored_objects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete object: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanObject(scanner interface{ Scan(dest ...any) error }) (*StoredObject, error) {
	var (
		obj        StoredObject
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(
		&obj.ID,
		&obj.LogicalName,
		&obj.Extension,
		&obj.ContentType,
		&obj.ContentHash,
		&obj.CurrentKey,
		&obj.PublicURL,
		&obj.SizeBytes,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if t, err := parseTimeString(createdRaw.String); err == nil {
		obj.CreatedAt = t
	}
	if t, err := parseTimeString(updatedRaw.String); err == nil {
		obj.UpdatedAt = t
	}
	return &obj, nil
}
