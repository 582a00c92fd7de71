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

// SQSReceiver is the part of the SQS client the consumer uses.
type SQSReceiver interface {
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Consumer drains the tracking queue into a Recorder. A message that fails
// to record stays on the queue for redelivery; an unparseable one is dropped.
type Consumer struct {
	client     SQSReceiver
	queueURL   string
	rec        Recorder
	log        *logger.Logger
	errBackoff time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates a consumer for queueURL.
func NewConsumer(client SQSReceiver, queueURL string, rec Recorder) *Consumer {
	return &Consumer{
		client:     client,
		queueURL:   queueURL,
		rec:        rec,
		log:        logger.Default().With("component", "tracking_consumer"),
		errBackoff: 5 * time.Second,
	}
}

// Start begins polling in the background.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.log.Info("tracking consumer started", "queue", c.queueURL)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.poll(ctx)
	}()
}

// Stop ends polling and waits for the current batch.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

func (c *Consumer) poll(ctx context.Context) {
	for ctx.Err() == nil {
		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("sqs receive", "error", err.Error())
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.errBackoff):
			}
			continue
		}
		for _, msg := range out.Messages {
			c.handle(ctx, msg.Body, msg.ReceiptHandle)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body, receipt *string) {
	var evt domain.TrackingEvent
	if body == nil || json.Unmarshal([]byte(*body), &evt) != nil {
		c.log.Warn("dropping malformed tracking message")
		c.delete(ctx, receipt)
		return
	}
	if err := c.rec.Record(ctx, evt); err != nil {
		c.log.Error("recording queued event", "event", string(evt.EventType), "job_id", evt.JobID, "error", err.Error())
		return
	}
	c.delete(ctx, receipt)
}

func (c *Consumer) delete(ctx context.Context, receipt *string) {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: receipt,
	})
	if err != nil && ctx.Err() == nil {
		c.log.Warn("sqs delete", "error", err.Error())
	}
}
