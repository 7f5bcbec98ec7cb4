package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// PostCreated is appended to the backend outbox when a video post document
// is written, for downstream indexing.
type PostCreated struct {
	eventID    uuid.UUID
	postID     uuid.UUID
	creator    string
	title      string
	occurredAt time.Time
}

func NewPostCreated(postID uuid.UUID, creator, title string) *PostCreated {
	return &PostCreated{
		eventID:    uuid.New(),
		postID:     postID,
		creator:    creator,
		title:      title,
		occurredAt: time.Now(),
	}
}

func (e *PostCreated) EventID() uuid.UUID     { return e.eventID }
func (e *PostCreated) EventType() string      { return "PostCreated" }
func (e *PostCreated) AggregateID() uuid.UUID { return e.postID }
func (e *PostCreated) OccurredAt() time.Time  { return e.occurredAt }

func (e *PostCreated) Creator() string { return e.creator }
func (e *PostCreated) Title() string   { return e.title }

func (e *PostCreated) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EventID    uuid.UUID `json:"event_id"`
		PostID     uuid.UUID `json:"post_id"`
		Creator    string    `json:"creator"`
		Title      string    `json:"title"`
		OccurredAt time.Time `json:"occurred_at"`
	}{
		EventID:    e.eventID,
		PostID:     e.postID,
		Creator:    e.creator,
		Title:      e.title,
		OccurredAt: e.occurredAt,
	})
}
