package users

// Service defines the interface for the subscriber registry
// External packages should use this interface, not the concrete implementations
type Service interface {
	// Add registers a subscriber; returns false if already subscribed
	Add(userID int64) bool

	// Remove unregisters a subscriber; returns false if not subscribed
	Remove(userID int64) bool

	// List returns all subscriber IDs
	List() []int64

	// Count returns the number of subscribers
	Count() int
}
