package entities

import "fmt"

// TableNotFoundError is returned when a table id is not registered.
type TableNotFoundError struct {
	ID string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.ID)
}

// DuplicateTableError is returned when a table id is registered twice.
type DuplicateTableError struct {
	ID string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("table %q already registered", e.ID)
}

// RelationshipNotFoundError is returned for an unknown relationship id.
type RelationshipNotFoundError struct {
	ID string
}

func (e *RelationshipNotFoundError) Error() string {
	return fmt.Sprintf("relationship %q not found", e.ID)
}

// ConflictNotFoundError is returned for an unknown conflict id.
type ConflictNotFoundError struct {
	ID string
}

func (e *ConflictNotFoundError) Error() string {
	return fmt.Sprintf("conflict %q not found", e.ID)
}

// AllianceNotFoundError is returned for an unknown alliance id.
type AllianceNotFoundError struct {
	ID string
}

func (e *AllianceNotFoundError) Error() string {
	return fmt.Sprintf("alliance %q not found", e.ID)
}

// ThreadNotFoundError is returned for an unknown plot thread id.
type ThreadNotFoundError struct {
	ID string
}

func (e *ThreadNotFoundError) Error() string {
	return fmt.Sprintf("plot thread %q not found", e.ID)
}

// SnapshotNotFoundError is returned when a saved session does not exist.
type SnapshotNotFoundError struct {
	Name string
}

func (e *SnapshotNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", e.Name)
}
