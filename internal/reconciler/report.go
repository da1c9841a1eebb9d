package reconciler

// ItemFailure records one per-item problem without aborting the pass.
type ItemFailure struct {
	ObjectID int64
	LinkID   int64
	Key      string
	Reason   string
}

// PlannedMove is one relocation the pass would perform (dry-run) or has
// performed (execute).
type PlannedMove struct {
	ObjectID   int64
	CurrentKey string
	TargetKey  string
	SizeBytes  int64
}

// RelocationReport aggregates the relocation pass counters. Per-item failures
// never abort the batch; they land in Failures and the Errored count.
type RelocationReport struct {
	DryRun bool

	Processed     int
	Moved         int
	AlreadyPlaced int
	SourceMissing int
	Unresolvable  int
	Errored       int
	BytesMoved    int64

	Moves    []PlannedMove
	Failures []ItemFailure
}

// Skipped returns the combined count of no-op and unresolvable items.
func (r RelocationReport) Skipped() int {
	return r.AlreadyPlaced + r.SourceMissing + r.Unresolvable
}

// HygieneReport aggregates the catalog hygiene pass. In dry-run the counts are
// what would be removed; in execute they are rows actually deleted.
type HygieneReport struct {
	DryRun bool

	Orphaned   int64
	Dangling   int64
	Duplicates int64

	Failures []string
}

// Total returns the combined number of rows found (or removed).
func (r HygieneReport) Total() int64 {
	return r.Orphaned + r.Dangling + r.Duplicates
}
