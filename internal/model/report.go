package model

import "time"

// Report is an activity report posted by a staff member, optionally
// tied to a resident.
type Report struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	ResidentID string      `json:"residentId,omitempty"`
	Author     *ActorStamp `json:"author,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is an internal note exchanged between staff members.
type Message struct {
	ID     string      `json:"id"`
	Body   string      `json:"body"`
	Sender *ActorStamp `json:"sender,omitempty"`

	// ReadBy lists the ids of users who have opened the message.
	ReadBy []string `json:"readBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasRead reports whether the given user already opened the message.
func (m Message) HasRead(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
