package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/nanoflow/nanowallet/internal/config"
	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/internal/infrastructure/wsfeed"
	"github.com/nanoflow/nanowallet/pkg/ttlset"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var errFeedDisconnected = errors.New("feed disconnected, reconnection attempts exhausted")

var watch = cli.Command{
	Name:      "watch",
	Usage:     "print the confirmations of blocks sent to the given accounts",
	ArgsUsage: "<address> [<address>...]",
	Action:    watchAction,
}

func watchAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	if err := loadConfig(ctx); err != nil {
		return err
	}

	url := config.GetString(config.WSURLKey)
	if url == "" {
		return domain.NewMissingConfigurationError("wsUrl")
	}
	prefix := config.GetString(config.AddressPrefixKey)

	accounts := ctx.Args().Slice()
	for _, account := range accounts {
		if err := domain.ValidateAddress(account, prefix); err != nil {
			return err
		}
	}

	feed, err := wsfeed.NewService(url, wsfeed.ReconnectPolicy{})
	if err != nil {
		return err
	}
	if err := feed.Subscribe(accounts...); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	if err := feed.Start(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Debug("exiting")
		return feed.Close()
	})

	g.Go(func() error {
		processed := ttlset.New(ttlset.DefaultWindow, nil)
		for raw := range feed.Messages() {
			processed.Purge()

			msg, err := domain.ParseConfirmationMessage(raw)
			if err != nil {
				log.WithError(err).Warn("error handling feed message")
				continue
			}
			if !msg.IsIncomingSend() || !processed.Add(msg.Message.Hash) {
				continue
			}

			printJSON(map[string]string{
				"account": domain.ReplacePrefix(msg.Message.Block.LinkAsAccount, prefix),
				"hash":    msg.Message.Hash,
				"amount":  msg.Message.Amount,
			})
		}
		if gctx.Err() != nil {
			return nil
		}
		return errFeedDisconnected
	})

	return g.Wait()
}
