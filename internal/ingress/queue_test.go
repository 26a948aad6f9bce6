package ingress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/config"
	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

type fakeQueue struct {
	mu        sync.Mutex
	messages  []Message
	acked     []Message
	nacked    []Message
	dlqd      []Message
	delivered bool
}

func (f *fakeQueue) Receive(ctx context.Context) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delivered {
		return nil, nil
	}
	f.delivered = true
	return f.messages, nil
}

func (f *fakeQueue) Ack(ctx context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, m)
	return nil
}

func (f *fakeQueue) Nack(ctx context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked = append(f.nacked, m)
	return nil
}

func (f *fakeQueue) SendToDLQ(ctx context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dlqd = append(f.dlqd, m)
	return nil
}

const validAmazonBody = `{"Payload":{"AnyOfferChangedNotification":{"ASIN":"A1","SellerId":"S1","MarketplaceId":"ATVPDKIKX0DER","Offers":[{"sellerId":"RIVAL","listingPrice":{"amount":17.0}}]}}}`

func newTestConsumerFixture(t *testing.T) (*store.MemoryStore, *config.Config) {
	t.Helper()
	s := store.NewMemoryStore()
	strat := &model.Strategy{ID: "strat-1", SellerID: "S1", CompeteWith: model.CompeteLowestPrice, MinPriceRule: model.RuleDoNothing, MaxPriceRule: model.RuleDoNothing, Enabled: true}
	s.PutStrategy(strat)
	s.PutProduct(&model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "S1", ListedPrice: decimal.NewFromInt(20), Quantity: 2, Status: model.StatusActive, StrategyID: strat.ID})
	cfg := config.Default()
	cfg.WorkerCount = 2
	cfg.PerEventTimeout = time.Second
	cfg.MaxRetries = 3
	return s, cfg
}

func TestConsumer_Handle_AcksOnSuccessfulPricing(t *testing.T) {
	s, cfg := newTestConsumerFixture(t)
	fq := &fakeQueue{messages: []Message{{Body: validAmazonBody}}}
	c := NewConsumer(fq, NewPipeline(s), cfg)

	c.handle(context.Background(), Message{Body: validAmazonBody})

	fq.mu.Lock()
	defer fq.mu.Unlock()
	assert.Len(t, fq.acked, 1)
	assert.Empty(t, fq.dlqd)
}

func TestConsumer_Handle_MalformedSendsToDLQ(t *testing.T) {
	s, cfg := newTestConsumerFixture(t)
	fq := &fakeQueue{}
	c := NewConsumer(fq, NewPipeline(s), cfg)

	c.handle(context.Background(), Message{Body: "not json"})

	fq.mu.Lock()
	defer fq.mu.Unlock()
	assert.Len(t, fq.dlqd, 1)
	assert.Empty(t, fq.acked)
}

func TestConsumer_Run_DrainsAndStopsOnCancel(t *testing.T) {
	s, cfg := newTestConsumerFixture(t)
	fq := &fakeQueue{messages: []Message{{Body: validAmazonBody}}}
	c := NewConsumer(fq, NewPipeline(s), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	fq.mu.Lock()
	defer fq.mu.Unlock()
	assert.Len(t, fq.acked, 1)
}

func TestAtoiSafe_InvalidReturnsZero(t *testing.T) {
	require.Equal(t, 0, atoiSafe("not-a-number"))
	require.Equal(t, 5, atoiSafe("5"))
}
