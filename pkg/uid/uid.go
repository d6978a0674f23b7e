package uid

import "github.com/google/uuid"

// New generates a new unique identifier for cart lines, wishlist entries and requests.
func New() string {
	return uuid.New().String()
}

// NewOrdered generates a time-ordered (v7) identifier. Used for notification ids so the
// feed sorts by creation.
func NewOrdered() string {
	return uuid.Must(uuid.NewV7()).String()
}

// IsValid checks if a string is a valid UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
