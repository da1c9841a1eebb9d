package catalog

import "time"

// Entity is a catalog node in the classification hierarchy. A nil ParentID
// marks a root (top-level group).
type Entity struct {
	ID        int64
	ParentID  *int64
	Title     string
	CreatedAt time.Time
}

// StoredObject is the catalog's record of one binary object in the remote
// store. CurrentKey is the single source of truth for its location and is
// mutated only after a relocate is confirmed durable.
type StoredObject struct {
	ID          int64
	LogicalName string
	Extension   string
	ContentType string
	ContentHash string
	CurrentKey  string
	PublicURL   string
	SizeBytes   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FileName returns the object's logical file name with extension.
func (o *StoredObject) FileName() string {
	if o.Extension == "" {
		return o.LogicalName
	}
	return o.LogicalName + "." + o.Extension
}

// LinkRecord associates a stored object with the entity slot it fills.
// Steady state is one link per filled slot; duplicates exist only transiently
// during reassignment and are cleaned up by the hygiene pass.
type LinkRecord struct {
	ID            int64
	ObjectID      int64
	OwnerEntityID int64
	SlotName      string
	CreatedAt     time.Time
}

// LinkedObject bundles a link with its object and the owner's lineage titles,
// root first. This is the unit the relocation pass iterates over.
type LinkedObject struct {
	Link    LinkRecord
	Object  StoredObject
	Lineage []string
}
