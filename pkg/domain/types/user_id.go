package types

// UserID represents a unique identifier for a user. Unlike execution IDs,
// user IDs are assigned by the caller (e.g. an upstream identity system)
// and are treated as opaque strings.
type UserID string

// String returns the string representation of UserID
func (id UserID) String() string {
	return string(id)
}

// IsValid checks that the UserID is non-empty
func (id UserID) IsValid() bool {
	return id != ""
}
