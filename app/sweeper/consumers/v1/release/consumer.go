package release

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/notably/notes-api/business/v1/note"
	"github.com/notably/notes-api/platform/attach"
	"go.uber.org/zap"
	"gocloud.dev/pubsub"
)

const deleteTimeout = 30 * time.Second

// Consume drains release events and deletes the attachment keys they carry.
// Other lifecycle events on the topic are acked and skipped. A key whose
// deletion fails here is picked up later by the reconciliation sweep.
// Every spawned handler runs to completion and acks before Consume returns.
func Consume(ctx context.Context, log *zap.SugaredLogger, sub *pubsub.Subscription, attachments attach.Store, maxWorkers int) error {
	workers := make(chan int, maxWorkers)
	var handlers sync.WaitGroup

	for {
		message, err := sub.Receive(ctx)
		if err != nil {
			handlers.Wait()
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		// take the slot before spawning so shutdown never strands a handler
		workers <- 1
		handlers.Add(1)
		go func(m *pubsub.Message) {
			defer handlers.Done()
			defer func() { <-workers }()
			defer m.Ack()

			var e note.Event
			if err := json.Unmarshal(m.Body, &e); err != nil {
				log.Error("failed to parse body: ", err)
				return
			}

			if e.Type != note.EventRelease {
				log.Debugf("skipping %s event", e.Type)
				return
			}

			key, ok := e.Data.(string)
			if !ok || key == "" {
				log.Errorf("release event without a key: %+v", e.Data)
				return
			}

			delCtx, delCancel := context.WithTimeout(context.Background(), deleteTimeout)
			defer delCancel()
			if err := attachments.Delete(delCtx, key); err != nil {
				log.Errorw("release attachment", "key", key, "ERROR", err)
				return
			}
			log.Infow("released attachment", "key", key)
		}(message)
	}
}
