package note

import (
	"errors"
	"time"
)

const noteKey = "notes.%s.%s"

// ErrNotFound reports that a note does not exist for the given owner.
// A note owned by someone else is reported exactly the same way.
var ErrNotFound = errors.New("note not found")

// ErrEmptyContent reports an attempt to store a note with no content.
var ErrEmptyContent = errors.New("content must not be empty")

type Note struct {
	ID            string
	OwnerID       string
	Content       string
	AttachmentKey string
	UpdatedAt     time.Time
	CreatedAt     time.Time
}

// Patch carries the fields an update applies. Nil means unchanged,
// a non-nil empty AttachmentKey clears the attachment.
type Patch struct {
	Content       *string
	AttachmentKey *string
}

// row mirrors the notes table, timestamps are stored as unix microseconds
// so ordering keeps sub-second resolution without driver time parsing.
type row struct {
	id            string
	ownerID       string
	content       string
	attachmentKey string
	updatedAt     int64
	createdAt     int64
}

func (r row) note() Note {
	return Note{
		ID:            r.id,
		OwnerID:       r.ownerID,
		Content:       r.content,
		AttachmentKey: r.attachmentKey,
		UpdatedAt:     time.UnixMicro(r.updatedAt).UTC(),
		CreatedAt:     time.UnixMicro(r.createdAt).UTC(),
	}
}
