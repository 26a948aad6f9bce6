package ingress

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestHeaderInt_FindsMatchingHeader(t *testing.T) {
	headers := []kafka.Header{{Key: "x-receive-count", Value: []byte("3")}}
	assert.Equal(t, 3, headerInt(headers, "x-receive-count"))
}

func TestHeaderInt_MissingHeaderReturnsZero(t *testing.T) {
	assert.Equal(t, 0, headerInt(nil, "x-receive-count"))
}

func TestHeaderInt_MalformedValueReturnsZero(t *testing.T) {
	headers := []kafka.Header{{Key: "x-receive-count", Value: []byte("not-a-number")}}
	assert.Equal(t, 0, headerInt(headers, "x-receive-count"))
}
