package main

import (
	"fmt"

	"github.com/nanoflow/nanowallet/internal/core/domain"
	"github.com/nanoflow/nanowallet/pkg/mathutil"

	"github.com/urfave/cli/v2"
)

var decimalsFlag = cli.IntFlag{
	Name:  "decimals",
	Usage: "decimal places between raw and mega units",
	Value: domain.DefaultDecimalPlaces,
}

var convert = cli.Command{
	Name:  "convert",
	Usage: "convert amounts between raw and mega units",
	Subcommands: []*cli.Command{
		{
			Name:      "mega-to-raw",
			Usage:     "convert an amount in mega units to raw",
			ArgsUsage: "<amount>",
			Flags:     []cli.Flag{&decimalsFlag},
			Action:    megaToRawAction,
		},
		{
			Name:      "raw-to-mega",
			Usage:     "convert an amount in raw to mega units",
			ArgsUsage: "<raw>",
			Flags:     []cli.Flag{&decimalsFlag},
			Action:    rawToMegaAction,
		},
	},
}

func megaToRawAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	raw, err := mathutil.MegaToRaw(ctx.Args().First(), int32(ctx.Int(decimalsFlag.Name)))
	if err != nil {
		return err
	}

	fmt.Println(raw)
	return nil
}

func rawToMegaAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	mega, err := mathutil.RawToMega(ctx.Args().First(), int32(ctx.Int(decimalsFlag.Name)))
	if err != nil {
		return err
	}

	fmt.Println(mega)
	return nil
}
