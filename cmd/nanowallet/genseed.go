package main

import (
	"fmt"

	"github.com/nanoflow/nanowallet/internal/core/domain"

	"github.com/urfave/cli/v2"
)

var genseed = cli.Command{
	Name:   "genseed",
	Usage:  "generate a random wallet seed",
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	seed, err := domain.NewSeed()
	if err != nil {
		return err
	}

	fmt.Println(seed)
	return nil
}
