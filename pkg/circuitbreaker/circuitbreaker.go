package circuitbreaker

import (
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests is the number of requests a breaker must have
	// observed before it can trip.
	MaxNumOfFailingRequests = 20
	// FailingRatio is the ratio of failing requests that trips a breaker.
	FailingRatio = 0.7
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// named after the endpoint it protects. It trips once more than
// MaxNumOfFailingRequests requests have been observed and the failing ratio has
// met FailingRatio, and logs every state change.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger := log.WithField("endpoint", name)
			if to == gobreaker.StateOpen {
				logger.Warn("endpoint seems down, stop allowing requests")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				logger.Info("checking endpoint status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				logger.Info("endpoint seems ok, restart allowing requests")
			}
		},
	})
}
