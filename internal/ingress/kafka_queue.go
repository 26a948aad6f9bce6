package ingress

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/iaros/repricer-engine/internal/config"
)

// KafkaQueueConsumer is the alternate Ingress backend SPEC_FULL.md's DOMAIN
// STACK table assigns to segmentio/kafka-go, for sellers whose Amazon feed
// arrives over a Kafka topic rather than an SQS-style queue. It satisfies
// the same QueueConsumer interface as RestyQueueConsumer so Consumer.Run
// doesn't need to know which backend it's driving.
type KafkaQueueConsumer struct {
	reader *kafka.Reader
	writer *kafka.Writer
	dlqTopic string
}

func NewKafkaQueueConsumer(cfg *config.Config) *KafkaQueueConsumer {
	return &KafkaQueueConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  "repricer-engine",
			MaxBytes: 10e6,
		}),
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Balancer: &kafka.LeastBytes{},
		},
		dlqTopic: cfg.KafkaTopic + ".dlq",
	}
}

// Receive fetches a single message without committing it, using the offset
// as the receipt handle so Ack can commit it explicitly.
func (c *KafkaQueueConsumer) Receive(ctx context.Context) ([]Message, error) {
	m, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	return []Message{{
		Body:                    string(m.Value),
		ReceiptHandle:           strconv.FormatInt(m.Offset, 10),
		ApproximateReceiveCount: headerInt(m.Headers, "x-receive-count"),
	}}, nil
}

func (c *KafkaQueueConsumer) Ack(ctx context.Context, m Message) error {
	offset, _ := strconv.ParseInt(m.ReceiptHandle, 10, 64)
	return c.reader.CommitMessages(ctx, kafka.Message{Offset: offset})
}

// Nack is a no-op: not committing the offset means the consumer group will
// redeliver it on the next rebalance, mirroring the resty consumer's
// visibility-timeout-expiry redelivery.
func (c *KafkaQueueConsumer) Nack(ctx context.Context, m Message) error {
	return nil
}

func (c *KafkaQueueConsumer) SendToDLQ(ctx context.Context, m Message) error {
	err := c.writer.WriteMessages(ctx, kafka.Message{
		Topic: c.dlqTopic,
		Value: []byte(m.Body),
	})
	if err != nil {
		return err
	}
	return c.Ack(ctx, m)
}

func headerInt(headers []kafka.Header, key string) int {
	for _, h := range headers {
		if h.Key == key {
			n, err := strconv.Atoi(string(h.Value))
			if err == nil {
				return n
			}
		}
	}
	return 0
}
