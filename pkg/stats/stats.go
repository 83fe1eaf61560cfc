package stats

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

const namespace = "nanowallet"

var (
	// RPCRequests counts the requests sent to every endpoint, by action and
	// outcome (ok, failed).
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Requests sent to the ledger endpoints.",
	}, []string{"action", "outcome"})

	// FeedReconnections counts the attempts to (re)open the live feed.
	FeedReconnections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "connection_attempts_total",
		Help:      "Attempts to open the live feed connection.",
	})

	// FeedMessages counts the messages read from the live feed.
	FeedMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "messages_total",
		Help:      "Messages received from the live feed.",
	})

	// AutoReceives counts the automatic receives by outcome (ok, failed,
	// duplicate, ignored, malformed).
	AutoReceives = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wallet",
		Name:      "auto_receives_total",
		Help:      "Confirmations handled by the auto-receive pipeline.",
	}, []string{"outcome"})
)

var collectors = []prometheus.Collector{
	RPCRequests, FeedReconnections, FeedMessages, AutoReceives,
}

// Register adds the wallet collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// EnableStatistics starts a go routine that periodically logs the wallet
// counters and the number of running go routines until ctx is done.
func EnableStatistics(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintStatistics()
			case <-ctx.Done():
				PrintStatistics()
				return
			}
		}
	}()
}

// PrintStatistics logs the current value of the wallet counters.
func PrintStatistics() {
	log.WithFields(log.Fields{
		"rpc_ok":          sumVec(RPCRequests, "outcome", "ok"),
		"rpc_failed":      sumVec(RPCRequests, "outcome", "failed"),
		"feed_attempts":   counterValue(FeedReconnections),
		"feed_messages":   counterValue(FeedMessages),
		"auto_receive_ok": sumVec(AutoReceives, "outcome", "ok"),
		"go_routines":     runtime.NumGoroutine(),
	}).Info("wallet statistics")
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func sumVec(vec *prometheus.CounterVec, label, value string) float64 {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		vec.Collect(ch)
		close(ch)
	}()

	sum := 0.0
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err != nil {
			continue
		}
		for _, l := range m.GetLabel() {
			if l.GetName() == label && l.GetValue() == value {
				sum += m.GetCounter().GetValue()
			}
		}
	}
	return sum
}
