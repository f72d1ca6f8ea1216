// Package note owns the note lifecycle: validation, owner scoping,
// attachment orchestration and lifecycle events.
package note

import (
	"context"
	"encoding/json"
	"time"

	store "github.com/notably/notes-api/persistence/v1/note"
	"github.com/notably/notes-api/platform/attach"
	"go.uber.org/zap"
	"gocloud.dev/pubsub"
)

const releaseTimeout = 10 * time.Second

type Core struct {
	log            *zap.SugaredLogger
	store          *store.Store
	attachments    attach.Store
	events         *pubsub.Topic
	maxAttachment  int64
	publishTimeout time.Duration
}

// NewCore wires the note core. The events topic may be nil, lifecycle
// events are then only logged.
func NewCore(log *zap.SugaredLogger, st *store.Store, attachments attach.Store, events *pubsub.Topic, maxAttachment int64, publishTimeout time.Duration) *Core {
	return &Core{
		log:            log,
		store:          st,
		attachments:    attachments,
		events:         events,
		maxAttachment:  maxAttachment,
		publishTimeout: publishTimeout,
	}
}

func toNote(n store.Note) Note {
	return Note{
		ID:            n.ID,
		OwnerID:       n.OwnerID,
		Content:       n.Content,
		AttachmentKey: n.AttachmentKey,
		UpdatedAt:     n.UpdatedAt,
		CreatedAt:     n.CreatedAt,
	}
}

// release deletes a blob best effort. When the deletion fails the key goes
// out as a release event so the sweeper retries it.
func (c *Core) release(key string) {
	if key == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := c.attachments.Delete(ctx, key); err != nil {
		c.log.Errorw("release attachment", "key", key, "ERROR", err)
		c.publish(EventRelease, key)
	}
}

// publish sends a lifecycle event best effort, a failed publish never fails
// the operation that produced it.
func (c *Core) publish(eventType string, data any) {
	if c.events == nil {
		return
	}

	body, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		c.log.Errorw("marshal event", "type", eventType, "ERROR", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.publishTimeout)
	defer cancel()

	if err := c.events.Send(ctx, &pubsub.Message{Body: body}); err != nil {
		c.log.Errorw("publish event", "type", eventType, "ERROR", err)
	}
}
