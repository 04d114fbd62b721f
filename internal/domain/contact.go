package domain

import "time"

// Contact is a durable pairing of two users created when one of them acts on
// a match result. At most one contact exists per unordered user pair.
type Contact struct {
	ID            string
	RequesterID   string
	CounterpartID string
	Score         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Other returns the member of the pair that is not userID.
func (c *Contact) Other(userID string) string {
	if c.RequesterID == userID {
		return c.CounterpartID
	}
	return c.RequesterID
}

// HasMember reports whether userID is one side of the pair.
func (c *Contact) HasMember(userID string) bool {
	return c.RequesterID == userID || c.CounterpartID == userID
}
