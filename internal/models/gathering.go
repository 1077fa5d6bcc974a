package models

// Gathering represents a group of users splitting shared expenses.
type Gathering struct {
	// ID is the unique identifier for the gathering (UUID format).
	ID string

	// Name is the display name (e.g. "Ski trip", "Friday dinner").
	Name string

	// Description is an optional free-form note.
	Description string

	// OwnerID is the user who created the gathering. The owner is
	// auto-enrolled as a participant in the same transaction that
	// creates the gathering.
	OwnerID string

	// CreatedAt is the Unix timestamp when the gathering was created.
	CreatedAt int64
}

// Participant is the enrollment of a user in a gathering.
// The (GatheringID, UserID) pair is unique; rows are inserted on join
// and only removed by cascade when the gathering or user is deleted.
type Participant struct {
	GatheringID string
	UserID      string

	// Nickname is the user's handle, denormalized into participant
	// listings so summaries don't need a second lookup.
	Nickname string

	// JoinedAt is the Unix timestamp of enrollment.
	JoinedAt int64
}
