package note

import (
	"errors"
	"time"
)

// ErrNotFound reports that the note does not exist for the caller. A note
// owned by someone else looks exactly the same, existence never leaks.
var ErrNotFound = errors.New("note not found")

// ErrEmptyContent reports a note body with no content.
var ErrEmptyContent = errors.New("content must not be empty")

// ErrAttachmentTooLarge reports an attachment over the configured limit.
// It is raised before any byte reaches the blob store.
var ErrAttachmentTooLarge = errors.New("attachment exceeds the configured maximum size")

type Note struct {
	ID            string    `json:"id" example:"3e8f0f9a-9327-4db4-9635-8d03ab35fefa"`
	OwnerID       string    `json:"ownerId" example:"u1"`
	Content       string    `json:"content" example:"Buy milk"`
	AttachmentKey string    `json:"attachmentKey,omitempty" example:"u1/9f6c-grocery.jpg"`
	UpdatedAt     time.Time `json:"updatedAt" example:"2006-01-02T15:04:05Z"`
	CreatedAt     time.Time `json:"createdAt" example:"2006-01-02T15:04:05Z"`
}

type NewNote struct {
	Content        string `json:"content" binding:"required"`
	Attachment     []byte `json:"attachment,omitempty"`
	AttachmentName string `json:"attachmentName,omitempty"`
}

type UpdateNote struct {
	Content        *string `json:"content,omitempty"`
	Attachment     []byte  `json:"attachment,omitempty"`
	AttachmentName string  `json:"attachmentName,omitempty"`
	// ClearAttachment drops the current attachment. An absent attachment
	// field alone means unchanged.
	ClearAttachment bool `json:"clearAttachment,omitempty"`
}

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
	// EventRelease carries an attachment key whose inline deletion failed,
	// the sweeper retries it.
	EventRelease = "release"
)

// DeletedNote is the payload of a deleted event.
type DeletedNote struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	AttachmentKey string `json:"attachmentKey,omitempty"`
}
