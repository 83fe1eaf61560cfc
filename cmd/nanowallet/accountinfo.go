package main

import (
	"github.com/nanoflow/nanowallet/internal/config"
	"github.com/nanoflow/nanowallet/internal/core/domain"

	"github.com/urfave/cli/v2"
)

var accountinfo = cli.Command{
	Name:      "accountinfo",
	Usage:     "get the ledger state of an account",
	ArgsUsage: "<address>",
	Action:    accountInfoAction,
}

func accountInfoAction(ctx *cli.Context) error {
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

	info, err := client.AccountInfo(ctx.Context, address)
	if err != nil {
		return err
	}
	if !info.Exists() {
		return domain.NewAccountError(info.Error)
	}

	printJSON(info)
	return nil
}
