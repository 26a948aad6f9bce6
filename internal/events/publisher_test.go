package events

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iaros/repricer-engine/internal/model"
)

func TestPublish_NilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() {
		p.Publish(&model.CalculatedPrice{ASIN: "A1", NewPrice: decimal.NewFromInt(10), OldPrice: decimal.NewFromInt(9)})
	})
}

func TestClose_NilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	assert.NotPanics(t, func() { p.Close() })
}

func TestConnect_EmptyURLReturnsNilPublisher(t *testing.T) {
	p, err := Connect("", "subject")
	assert.NoError(t, err)
	assert.Nil(t, p)
}
