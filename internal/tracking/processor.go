package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// EventStore persists tracking events.
type EventStore interface {
	// InsertEvent stores evt and reports whether it is the first event of
	// its type for that job and recipient.
	InsertEvent(ctx context.Context, evt *domain.TrackingEvent) (bool, error)
	// IncrementJobCounter bumps opened_emails or clicked_emails on the job.
	IncrementJobCounter(ctx context.Context, jobID int64, t domain.TrackingEventType) error
}

// Suppressor adds unsubscribing recipients to the suppression list.
type Suppressor interface {
	Suppress(ctx context.Context, email string, reason domain.SuppressionReason, source domain.SuppressionSource, jobID *int64) error
}

// Recorder records one event with all its side effects.
type Recorder interface {
	Record(ctx context.Context, evt domain.TrackingEvent) error
}

// Processor is the Recorder backed by the event store and suppression list.
type Processor struct {
	store      EventStore
	suppressor Suppressor
	log        *logger.Logger
}

// NewProcessor creates a Processor. suppressor may be nil, in which case
// unsubscribes are stored as events only.
func NewProcessor(store EventStore, suppressor Suppressor) *Processor {
	return &Processor{
		store:      store,
		suppressor: suppressor,
		log:        logger.Default().With("component", "tracking"),
	}
}

func (p *Processor) Record(ctx context.Context, evt domain.TrackingEvent) error {
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	evt.Email = strings.ToLower(strings.TrimSpace(evt.Email))
	evt.Device = detectDevice(evt.UserAgent)

	first, err := p.store.InsertEvent(ctx, &evt)
	if err != nil {
		return fmt.Errorf("store %s event: %w", evt.EventType, err)
	}

	switch evt.EventType {
	case domain.EventOpen, domain.EventClick:
		// an empty recipient cannot be deduplicated, so it is never counted
		if first && evt.Email != "" {
			if err := p.store.IncrementJobCounter(ctx, evt.JobID, evt.EventType); err != nil {
				return fmt.Errorf("count %s: %w", evt.EventType, err)
			}
		}
	case domain.EventUnsubscribe:
		if p.suppressor != nil && evt.Email != "" {
			jobID := evt.JobID
			if err := p.suppressor.Suppress(ctx, evt.Email, domain.ReasonUnsubscribe, domain.SourceTracking, &jobID); err != nil {
				return fmt.Errorf("suppress: %w", err)
			}
		}
	}

	p.log.Info("tracking event recorded", "event", string(evt.EventType), "job_id", evt.JobID, "recipient", evt.Email, "first", first)
	return nil
}

func detectDevice(ua string) string {
	ua = strings.ToLower(ua)
	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		return "tablet"
	}
	if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone") {
		return "mobile"
	}
	if ua == "" {
		return "unknown"
	}
	return "desktop"
}
