// Package events publishes a best-effort "calculated price changed" event
// after persistence succeeds, the downstream notification SPEC_FULL.md's
// DOMAIN STACK table assigns to nats-io/nats.go. Publish failures are
// logged and swallowed: the calculated price is already durable in the
// Store, and this is purely a notification for other systems.
package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/model"
)

// Publisher wraps a NATS connection; a nil *Publisher is valid and makes
// Publish a no-op, so NATS can be left unconfigured in environments that
// don't need the downstream fan-out.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func Connect(url, subject string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := nats.Connect(url, nats.MaxReconnects(5))
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

type calculatedPriceEvent struct {
	ASIN         string `json:"asin"`
	SKU          string `json:"sku"`
	SellerID     string `json:"seller_id"`
	OldPrice     string `json:"old_price"`
	NewPrice     string `json:"new_price"`
	StrategyUsed string `json:"strategy_used"`
}

// Publish sends the event asynchronously and never blocks the caller on
// network I/O; errors are logged, not returned, per this package's
// best-effort contract.
func (p *Publisher) Publish(cp *model.CalculatedPrice) {
	if p == nil || p.conn == nil {
		return
	}
	payload, err := json.Marshal(calculatedPriceEvent{
		ASIN:         cp.ASIN,
		SKU:          cp.SKU,
		SellerID:     cp.SellerID,
		OldPrice:     cp.OldPrice.String(),
		NewPrice:     cp.NewPrice.String(),
		StrategyUsed: cp.StrategyUsed,
	})
	if err != nil {
		logging.Global().Warn("failed to marshal calculated price event")
		return
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		logging.Global().Warn("failed to publish calculated price event")
	}
}

func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
