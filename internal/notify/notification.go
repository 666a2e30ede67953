package notify

import "time"

// Notification is one entry of a user's feed. The list lives in Redis,
// newest first, capped; reads and writes go through Service.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}
