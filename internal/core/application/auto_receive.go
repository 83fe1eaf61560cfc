package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/pkg/stats"
	"github.com/nanoflow/nanowallet/pkg/ttlset"

	log "github.com/sirupsen/logrus"
)

type receiveFunc func(
	ctx context.Context, account string, tx domain.PendingTransaction,
) (string, error)

// autoReceiver consumes the feed messages and receives the sends confirmed
// to managed accounts. Failures are logged and never retried.
type autoReceiver struct {
	messages  <-chan []byte
	processed *ttlset.Set
	registry  *accountRegistry
	prefix    string
	enabled   bool
	receive   receiveFunc

	loop     sync.WaitGroup
	inFlight sync.WaitGroup
}

func (r *autoReceiver) start(ctx context.Context) {
	r.loop.Add(1)
	go func() {
		defer r.loop.Done()
		for {
			select {
			case msg, ok := <-r.messages:
				if !ok {
					return
				}
				r.handleMessage(ctx, msg)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// wait blocks until the message loop and every receive it started return.
func (r *autoReceiver) wait() {
	r.loop.Wait()
	r.inFlight.Wait()
}

func (r *autoReceiver) handleMessage(ctx context.Context, data []byte) {
	if n := r.processed.Purge(); n > 0 {
		log.WithField("count", n).Trace("purged expired processed hashes")
	}

	msg, err := domain.ParseConfirmationMessage(data)
	if err != nil {
		stats.AutoReceives.WithLabelValues("malformed").Inc()
		log.WithError(err).Warn("error handling feed message")
		return
	}
	if !msg.IsIncomingSend() || !r.enabled {
		return
	}

	tx := msg.PendingTransaction()
	if !r.processed.Add(tx.Hash) {
		stats.AutoReceives.WithLabelValues("duplicate").Inc()
		log.WithField("hash", tx.Hash).Debug("skipping already processed block")
		return
	}

	recipient := domain.ReplacePrefix(msg.Message.Block.LinkAsAccount, r.prefix)
	account, ok := r.registry.get(recipient)
	if !ok {
		stats.AutoReceives.WithLabelValues("ignored").Inc()
		return
	}

	r.inFlight.Add(1)
	go func() {
		defer r.inFlight.Done()
		defer func() {
			if rec := recover(); rec != nil {
				stats.AutoReceives.WithLabelValues("failed").Inc()
				log.WithError(fmt.Errorf("%v", rec)).WithField("account", account.Address).
					Error("auto-receive panicked")
			}
		}()

		hash, err := r.receive(ctx, account.Address, tx)
		if err != nil {
			stats.AutoReceives.WithLabelValues("failed").Inc()
			log.WithError(err).WithFields(log.Fields{
				"account": account.Address,
				"source":  tx.Hash,
			}).Warn("auto-receive failed")
			return
		}

		stats.AutoReceives.WithLabelValues("ok").Inc()
		log.WithFields(log.Fields{
			"account": account.Address,
			"source":  tx.Hash,
			"hash":    hash,
		}).Debug("auto-received block")
	}()
}
