// Package queue moves queued email log entries through Redis to a delivery
// worker, so a slow or failing mail provider never blocks a request.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/messages"
	"github.com/treconstruction/changeorderino-api/models"
	"github.com/treconstruction/changeorderino-api/notifications"
)

const popTimeout = 5 * time.Second

var client *redis.Client

// EmailJob is the unit of work pushed through Redis. The email log row holds
// everything else.
type EmailJob struct {
	EmailLogID uuid.UUID `json:"email_log_id"`
}

// Init connects the Redis client. Call once at startup.
func Init() error {
	opts, err := redis.ParseURL(domain.Env.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = popTimeout + time.Second

	client = redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// EnqueueEmail pushes a queued email log entry to the delivery worker
func EnqueueEmail(ctx context.Context, emailLogID uuid.UUID) error {
	if client == nil {
		return errors.New("email queue is not initialized")
	}

	payload, err := json.Marshal(EmailJob{EmailLogID: emailLogID})
	if err != nil {
		return fmt.Errorf("failed to marshal email job: %w", err)
	}

	if err := client.LPush(ctx, domain.Env.EmailQueueName, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue email job: %w", err)
	}
	return nil
}

// ConsumeEmails blocks on the queue and delivers jobs until the context is
// cancelled. Run it in its own goroutine.
func ConsumeEmails(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := client.BRPop(ctx, popTimeout, domain.Env.EmailQueueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Errorf("error popping email job from queue: %s", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value]
		if len(result) < 2 {
			continue
		}

		var job EmailJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Errorf("discarding malformed email job: %s", err)
			continue
		}

		deliverEmail(job)
	}
}

// deliverEmail builds and sends one queued email, recording the outcome on
// its email log row
func deliverEmail(job EmailJob) {
	tx := models.DB

	var entry models.EmailLog
	if err := entry.FindByID(tx, job.EmailLogID); err != nil {
		log.Errorf("email job references missing email log %s: %s", job.EmailLogID, err)
		return
	}

	if entry.Status != models.EmailStatusQueued {
		log.Infof("skipping email log %s in status %s", entry.ID, entry.Status)
		return
	}

	msg, err := messages.BuildForEmailLog(tx, &entry)
	if err != nil {
		log.Errorf("failed to build email for log %s: %s", entry.ID, err)
		if err := entry.MarkFailed(tx, err); err != nil {
			log.Errorf("failed to mark email log %s failed: %s", entry.ID, err)
		}
		return
	}

	if err := notifications.Send(msg); err != nil {
		log.Errorf("failed to send email for log %s: %s", entry.ID, err)
		if err := entry.MarkFailed(tx, err); err != nil {
			log.Errorf("failed to mark email log %s failed: %s", entry.ID, err)
		}
		return
	}

	if err := entry.MarkSent(tx); err != nil {
		log.Errorf("failed to mark email log %s sent: %s", entry.ID, err)
	}
}
