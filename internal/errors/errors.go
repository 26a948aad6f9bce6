// Package errors implements the repricing pipeline's error taxonomy,
// generalized from common/utils/ErrorHandling.go's IAROSError pattern:
// a single tagged error type with an HTTP-status and retry policy baked in,
// plus the explicit Outcome sum type Design Notes §9 calls for so that
// skips are never represented as raised exceptions.
package errors

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Kind is the taxonomy of spec.md §7.
type Kind string

const (
	KindMalformed       Kind = "Malformed"
	KindSkipRepricing   Kind = "SkipRepricing"
	KindPriceBoundsError Kind = "PriceBoundsError"
	KindTransient       Kind = "Transient"
	KindFatal           Kind = "Fatal"
)

// RepricerError is the wire/log representation of a pipeline failure. It is
// never used as pipeline control flow between stages (see Outcome below);
// it is constructed at the Ingress boundary when a stage returns an error,
// and when the HTTP surface needs to render a structured response.
type RepricerError struct {
	ID        string
	Kind      Kind
	Reason    string
	Retryable bool
	Cause     error
	Fields    map[string]interface{}
	Timestamp time.Time
}

func (e *RepricerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *RepricerError) Unwrap() error { return e.Cause }

// HTTPStatus maps a Kind to the status code the webhook/manual endpoints use.
func (e *RepricerError) HTTPStatus() int {
	switch e.Kind {
	case KindMalformed:
		return http.StatusBadRequest
	case KindPriceBoundsError:
		return http.StatusBadRequest
	case KindSkipRepricing:
		return http.StatusOK
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, reason string, retryable bool, cause error) *RepricerError {
	return &RepricerError{
		ID:        uuid.NewString(),
		Kind:      kind,
		Reason:    reason,
		Retryable: retryable,
		Cause:     cause,
		Fields:    map[string]interface{}{},
		Timestamp: time.Now().UTC(),
	}
}

// Malformed wraps a payload the Normalizer could not parse. Not retryable:
// the event goes straight to the DLQ.
func Malformed(reason string, cause error) *RepricerError {
	return newError(KindMalformed, reason, false, cause)
}

// Transient wraps a store/queue/network failure eligible for redelivery.
func Transient(reason string, cause error) *RepricerError {
	return newError(KindTransient, reason, true, cause)
}

// Fatal wraps an unexpected invariant violation that should alert and DLQ.
func Fatal(reason string, cause error) *RepricerError {
	return newError(KindFatal, reason, false, cause)
}

// PriceBounds wraps a candidate price that fell outside [min, max].
type PriceBounds struct {
	Candidate, Min, Max string
}

func (p PriceBounds) Error() string {
	return fmt.Sprintf("candidate %s outside bounds [%s, %s]", p.Candidate, p.Min, p.Max)
}

// OutcomeKind tags which arm of Outcome is populated.
type OutcomeKind int

const (
	OutcomePriced OutcomeKind = iota
	OutcomeSkipped
	OutcomeErrored
)

// Outcome is the explicit sum type Design Notes §9 requires in place of the
// source's exceptions-as-control-flow: every pipeline stage that can fail
// without it being a bug returns an Outcome instead of (value, error).
//
//	Outcome = Priced(price) | Skipped(reason) | Errored(err)
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Err    *RepricerError
}

func Skipped(reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: reason}
}

func Errored(err *RepricerError) Outcome {
	return Outcome{Kind: OutcomeErrored, Err: err}
}

func Priced() Outcome {
	return Outcome{Kind: OutcomePriced}
}

func (o Outcome) IsSkipped() bool { return o.Kind == OutcomeSkipped }
func (o Outcome) IsErrored() bool { return o.Kind == OutcomeErrored }
func (o Outcome) IsPriced() bool  { return o.Kind == OutcomePriced }
