package store

import (
	"context"
	"fmt"
	"time"
)

// User is a row in the users table.
type User struct {
	ID           int64     `json:"id,omitempty"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Event is an astronomy or space event.
type Event struct {
	ID          int64  `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"` // YYYY-MM-DD
	EventType   string `json:"event_type"`
}

// SavedEvent links a user to an event they saved. Event is populated when
// the query embeds the joined events row.
type SavedEvent struct {
	ID      int64  `json:"id,omitempty"`
	UserID  int64  `json:"user_id"`
	EventID int64  `json:"event_id"`
	Event   *Event `json:"events,omitempty"`
}

// Users provides access to the users table.
type Users struct {
	c *Client
}

// NewUsers creates the users repository.
func NewUsers(c *Client) *Users { return &Users{c: c} }

// Create inserts a new user and returns the stored row. An insert that
// succeeds but returns no representation (row-level security hiding the
// row, or a misconfigured Prefer header) is reported as an error.
func (r *Users) Create(ctx context.Context, email, username, passwordHash string) (*User, error) {
	var created []User
	record := User{Email: email, Username: username, PasswordHash: passwordHash}
	if err := r.c.Insert(ctx, "users", record, &created); err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("store: insert into users returned no representation")
	}
	return &created[0], nil
}

// FindByEmail returns the user with the given email, or nil if none exists.
func (r *Users) FindByEmail(ctx context.Context, email string) (*User, error) {
	var users []User
	if err := r.c.From("users").Select("*").Eq("email", email).Execute(ctx, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// FindByID returns the user with the given ID, or nil if none exists.
func (r *Users) FindByID(ctx context.Context, id int64) (*User, error) {
	var users []User
	if err := r.c.From("users").Select("*").Eq("id", id).Execute(ctx, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// Events provides access to the events table.
type Events struct {
	c *Client
}

// NewEvents creates the events repository.
func NewEvents(c *Client) *Events { return &Events{c: c} }

// All returns every event ordered by date.
func (r *Events) All(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.c.From("events").Select("*").Order("event_date", true).Execute(ctx, &events)
	return events, err
}

// Upcoming returns up to limit events ordered by date.
func (r *Events) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	err := r.c.From("events").Select("*").Order("event_date", true).Limit(limit).Execute(ctx, &events)
	return events, err
}

// Create inserts a new event.
func (r *Events) Create(ctx context.Context, ev Event) error {
	return r.c.Insert(ctx, "events", ev, nil)
}

// SavedEvents provides access to the saved_events join table.
type SavedEvents struct {
	c *Client
}

// NewSavedEvents creates the saved-events repository.
func NewSavedEvents(c *Client) *SavedEvents { return &SavedEvents{c: c} }

// Save records that a user saved an event.
func (r *SavedEvents) Save(ctx context.Context, userID, eventID int64) error {
	record := SavedEvent{UserID: userID, EventID: eventID}
	return r.c.Insert(ctx, "saved_events", record, nil)
}

// ForUser returns a user's saved events with the joined event rows.
func (r *SavedEvents) ForUser(ctx context.Context, userID int64) ([]SavedEvent, error) {
	var saved []SavedEvent
	err := r.c.From("saved_events").Select("*, events(*)").Eq("user_id", userID).Execute(ctx, &saved)
	return saved, err
}

// Remove deletes a user's saved event.
func (r *SavedEvents) Remove(ctx context.Context, userID, eventID int64) error {
	return r.c.Delete(ctx, "saved_events", map[string]any{
		"user_id":  userID,
		"event_id": eventID,
	})
}
