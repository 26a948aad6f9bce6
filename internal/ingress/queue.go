package ingress

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/iaros/repricer-engine/internal/config"
	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/metrics"
	"github.com/iaros/repricer-engine/internal/normalizer"
)

// Message is one queue delivery, backend-agnostic.
type Message struct {
	Body                    string
	ReceiptHandle           string
	ApproximateReceiveCount int
}

// QueueConsumer abstracts the long-poll receive/ack/nack cycle so the SQS-
// style resty poller and the Kafka alternate can share the worker pool and
// DLQ logic below, per spec.md §5 and SPEC_FULL.md's DOMAIN STACK table.
type QueueConsumer interface {
	Receive(ctx context.Context) ([]Message, error)
	Ack(ctx context.Context, m Message) error
	Nack(ctx context.Context, m Message) error
	SendToDLQ(ctx context.Context, m Message) error
}

// RestyQueueConsumer polls an SQS-compatible HTTP queue endpoint with long
// polling (MaxNumberOfMessages=10, WaitTimeSeconds=20), built on
// go-resty/resty/v2 per SPEC_FULL.md's DOMAIN STACK assignment.
type RestyQueueConsumer struct {
	client       *resty.Client
	queueURL     string
	dlqURL       string
	waitSeconds  int
	maxMessages  int
}

func NewRestyQueueConsumer(cfg *config.Config) *RestyQueueConsumer {
	return &RestyQueueConsumer{
		client:      resty.New().SetTimeout(time.Duration(cfg.LongPollSeconds+5) * time.Second),
		queueURL:    cfg.QueueURL,
		dlqURL:      cfg.DLQURL,
		waitSeconds: cfg.LongPollSeconds,
		maxMessages: 10,
	}
}

type sqsReceiveResponse struct {
	Messages []struct {
		Body                   string            `json:"Body"`
		ReceiptHandle          string            `json:"ReceiptHandle"`
		Attributes             map[string]string `json:"Attributes"`
	} `json:"Messages"`
}

func (c *RestyQueueConsumer) Receive(ctx context.Context) ([]Message, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("Action", "ReceiveMessage").
		SetQueryParam("MaxNumberOfMessages", strconv.Itoa(c.maxMessages)).
		SetQueryParam("WaitTimeSeconds", strconv.Itoa(c.waitSeconds)).
		SetQueryParam("AttributeNames", "ApproximateReceiveCount").
		Get(c.queueURL)
	if err != nil {
		return nil, err
	}

	var parsed sqsReceiveResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(parsed.Messages))
	for _, m := range parsed.Messages {
		count := 0
		if raw, ok := m.Attributes["ApproximateReceiveCount"]; ok {
			count = atoiSafe(raw)
		}
		out = append(out, Message{Body: m.Body, ReceiptHandle: m.ReceiptHandle, ApproximateReceiveCount: count})
	}
	return out, nil
}

func (c *RestyQueueConsumer) Ack(ctx context.Context, m Message) error {
	_, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("Action", "DeleteMessage").
		SetQueryParam("ReceiptHandle", m.ReceiptHandle).
		Get(c.queueURL)
	return err
}

// Nack is a no-op: letting the visibility timeout expire naturally
// redelivers the message, matching SQS semantics.
func (c *RestyQueueConsumer) Nack(ctx context.Context, m Message) error {
	return nil
}

func (c *RestyQueueConsumer) SendToDLQ(ctx context.Context, m Message) error {
	if c.dlqURL == "" {
		return nil
	}
	_, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("Action", "SendMessage").
		SetQueryParam("MessageBody", m.Body).
		Get(c.dlqURL)
	if err != nil {
		return err
	}
	return c.Ack(ctx, m)
}

// Consumer runs the bounded-concurrency worker pool over a QueueConsumer,
// per spec.md §5: WorkerCount workers draining a channel buffered at
// 2×worker_count, redelivery-count-based DLQ routing.
type Consumer struct {
	queue    QueueConsumer
	pipeline *Pipeline
	cfg      *config.Config
}

func NewConsumer(queue QueueConsumer, pipeline *Pipeline, cfg *config.Config) *Consumer {
	return &Consumer{queue: queue, pipeline: pipeline, cfg: cfg}
}

// Run polls and dispatches until ctx is cancelled, then drains in-flight
// work before returning, per spec.md §5's graceful shutdown requirement.
func (c *Consumer) Run(ctx context.Context) {
	work := make(chan Message, c.cfg.WorkerCount*2)
	var wg sync.WaitGroup

	for i := 0; i < c.cfg.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range work {
				c.handle(ctx, m)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return
		default:
		}

		msgs, err := c.queue.Receive(ctx)
		if err != nil {
			logging.Global().Warn("queue receive failed", zap.Error(err))
			continue
		}
		for _, m := range msgs {
			select {
			case work <- m:
			case <-ctx.Done():
				close(work)
				wg.Wait()
				return
			}
		}
	}
}

// handle normalizes one message, runs it through the pipeline, and decides
// ack/nack/DLQ based on the outcome and redelivery count, per spec.md §5.
func (c *Consumer) handle(ctx context.Context, m Message) {
	metrics.QueueDepth.Inc()
	defer metrics.QueueDepth.Dec()

	eventCtx, cancel := context.WithTimeout(ctx, c.cfg.PerEventTimeout)
	defer cancel()

	oc, err := normalizer.ParseAmazonMessage(normalizer.AmazonQueueMessage{
		Body:                    m.Body,
		ApproximateReceiveCount: m.ApproximateReceiveCount,
	})
	if err != nil {
		// Malformed payloads never succeed on redelivery.
		logging.Global().LogIngress("amazon_queue", "malformed")
		_ = c.queue.SendToDLQ(ctx, m)
		return
	}

	result := c.pipeline.Process(eventCtx, oc)
	metrics.Outcome("amazon_queue", result.Outcome.IsSkipped(), result.Outcome.IsErrored(), result.Outcome.Reason, outcomeKind(result))

	switch {
	case result.Outcome.IsErrored() && result.Outcome.Err != nil && result.Outcome.Err.Retryable:
		if m.ApproximateReceiveCount >= c.cfg.MaxRetries {
			logging.Global().LogIngress("amazon_queue", "dlq")
			_ = c.queue.SendToDLQ(ctx, m)
			return
		}
		_ = c.queue.Nack(ctx, m)
	case result.Outcome.IsErrored():
		logging.Global().LogIngress("amazon_queue", "dlq")
		_ = c.queue.SendToDLQ(ctx, m)
	default:
		_ = c.queue.Ack(ctx, m)
	}
}

func outcomeKind(r Result) string {
	if r.Outcome.IsErrored() && r.Outcome.Err != nil {
		return string(r.Outcome.Err.Kind)
	}
	return ""
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
