package tracking

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/ignite/campaign-studio/internal/domain"
	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// Sink accepts events from the HTTP handlers. Publish must not fail the
// request; errors are logged.
type Sink interface {
	Publish(ctx context.Context, evt domain.TrackingEvent)
}

const publishTimeout = 5 * time.Second

// DirectSink records events in-process.
type DirectSink struct {
	rec Recorder
	log *logger.Logger
}

// NewDirectSink creates a sink that calls rec before returning.
func NewDirectSink(rec Recorder) *DirectSink {
	return &DirectSink{rec: rec, log: logger.Default().With("component", "tracking")}
}

func (s *DirectSink) Publish(ctx context.Context, evt domain.TrackingEvent) {
	// a client hanging up must not lose the event
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.rec.Record(ctx, evt); err != nil {
		s.log.Error("recording tracking event", "event", string(evt.EventType), "job_id", evt.JobID, "error", err.Error())
	}
}

// SQSSender is the part of the SQS client the publisher uses.
type SQSSender interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Publisher queues events on SQS without blocking the request. Close waits
// for sends still in flight.
type Publisher struct {
	client   SQSSender
	queueURL string
	log      *logger.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewPublisher creates an SQS-backed sink.
func NewPublisher(client SQSSender, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL, log: logger.Default().With("component", "tracking")}
}

func (p *Publisher) Publish(ctx context.Context, evt domain.TrackingEvent) {
	body, err := json.Marshal(evt)
	if err != nil {
		p.log.Error("marshal tracking event", "error", err.Error())
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		// late requests during shutdown send inline
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := p.send(sendCtx, body); err != nil {
			p.log.Error("publishing tracking event", "event", string(evt.EventType), "error", err.Error())
		}
		return
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.send(ctx, body); err != nil {
			p.log.Error("publishing tracking event", "event", string(evt.EventType), "error", err.Error())
		}
	}()
}

// Close waits until every queued send has finished or ctx is done.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) send(ctx context.Context, body []byte) error {
	_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	return err
}
