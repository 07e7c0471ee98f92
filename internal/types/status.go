package types

// Status is a type for the record status of a resource in the database.
// This tracks row lifecycle and is independent of any domain-level status
// such as the invoice lifecycle status.
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)
