package types

// TenantID represents a unique identifier for a tenant (customer or
// organization). Assigned by the caller and treated as an opaque string.
type TenantID string

// String returns the string representation of TenantID
func (id TenantID) String() string {
	return string(id)
}

// IsValid checks that the TenantID is non-empty
func (id TenantID) IsValid() bool {
	return id != ""
}
