package catalog

import (
	"context"
	"fmt"
)

// Hygiene queries. Each corruption class has a count (dry-run) and a delete
// (execute) form built from the same predicate so the two can never disagree.

func (s *Store) orphanPredicate() string {
	return `object_id NOT IN (SELECT id FROM stored_objects)`
}

func (s *Store) danglingPredicate() string {
	return `owner_entity_id NOT IN (SELECT id FROM entities)`
}

// duplicatePredicate matches every duplicate row except the lowest id in its
// (object_id, owner_entity_id, slot_name) group, which is kept.
func (s *Store) duplicatePredicate() string {
	return `id NOT IN (
        SELECT MIN(id) FROM ` + s.linkTable + `
        GROUP BY object_id, owner_entity_id, slot_name
    )`
}

// CountOrphanedLinks counts links whose object row no longer exists.
func (s *Store) CountOrphanedLinks(ctx context.Context) (int64, error) {
	return s.countWhere(ctx, s.orphanPredicate())
}

// DeleteOrphanedLinks removes links whose object row no longer exists.
func (s *Store) DeleteOrphanedLinks(ctx context.Context) (int64, error) {
	return s.deleteWhere(ctx, s.orphanPredicate())
}

// CountDanglingLinks counts links whose owner entity no longer exists.
func (s *Store) CountDanglingLinks(ctx context.Context) (int64, error) {
	return s.countWhere(ctx, s.danglingPredicate())
}

// DeleteDanglingLinks removes links whose owner entity no longer exists.
func (s *Store) DeleteDanglingLinks(ctx context.Context) (int64, error) {
	return s.deleteWhere(ctx, s.danglingPredicate())
}

// CountDuplicateLinks counts redundant copies of (object, owner, slot) rows.
func (s *Store) CountDuplicateLinks(ctx context.Context) (int64, error) {
	return s.countWhere(ctx, s.duplicatePredicate())
}

// DeleteDuplicateLinks removes redundant copies, keeping exactly one row
// (the lowest id) per (object, owner, slot) group.
func (s *Store) DeleteDuplicateLinks(ctx context.Context) (int64, error) {
	return s.deleteWhere(ctx, s.duplicatePredicate())
}

func (s *Store) countWhere(ctx context.Context, predicate string) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+s.linkTable+` WHERE `+predicate)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count links: %w", err)
	}
	return count, nil
}

func (s *Store) deleteWhere(ctx context.Context, predicate string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+s.linkTable+` WHERE `+predicate)
	if err != nil {
		return 0, fmt.Errorf("delete links: %w", err)
	}
	return res.RowsAffected()
}
