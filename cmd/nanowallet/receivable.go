package main

import (
	"github.com/nanoflow/nanowallet/internal/config"
	"github.com/nanoflow/nanowallet/internal/core/domain"

	"github.com/urfave/cli/v2"
)

var receivable = cli.Command{
	Name:      "receivable",
	Usage:     "list the blocks an account can receive",
	ArgsUsage: "<address>",
	Action:    receivableAction,
}

func receivableAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	client, err := getLedgerClient(ctx)
	if err != nil {
		return err
	}

	address := ctx.Args().First()
	if err := domain.ValidateAddress(address, config.GetString(config.AddressPrefixKey)); err != nil {
		return err
	}

	txs, err := client.Receivable(ctx.Context, address)
	if err != nil {
		return err
	}

	printJSON(txs)
	return nil
}
