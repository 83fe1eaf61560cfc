package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var work = cli.Command{
	Name:      "work",
	Usage:     "generate the proof of work of a block hash or public key",
	ArgsUsage: "<hash>",
	Action:    workAction,
}

func workAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	client, err := getLedgerClient(ctx)
	if err != nil {
		return err
	}

	res, err := client.WorkGenerate(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(res)
	return nil
}
