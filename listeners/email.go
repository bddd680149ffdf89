package listeners

import (
	"context"

	"github.com/gobuffalo/events"

	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
	"github.com/treconstruction/changeorderino-api/queue"
)

// emailQueued hands a new email log entry to the Redis delivery queue
func emailQueued(e events.Event) {
	if e.Kind != domain.EventApiEmailQueued {
		return
	}

	defer panicRecover(e.Kind)

	var entry models.EmailLog
	if err := findObject(e.Payload, &entry, e.Kind); err != nil {
		return
	}

	if err := queue.EnqueueEmail(context.Background(), entry.ID); err != nil {
		log.Errorf("failed to enqueue email log %s: %s", entry.ID, err)
	}
}
