package models

// Group is the anchor for a set of shared expenses.
// Membership is managed outside this service; the row exists so that
// deleting a group cascades to its ledger, expenses and settlements.
type Group struct {
	// ID is the unique identifier for the group.
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates").
	// Empty when the group was created implicitly by its first expense.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the group row was created.
	CreatedAt int64 `json:"created_at"`
}
