package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nanoflow/nanowallet/internal/config"

	"github.com/urfave/cli/v2"
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "print the resolved configuration",
	Action: configAction,
}

func configAction(ctx *cli.Context) error {
	if err := loadConfig(ctx); err != nil {
		return err
	}

	cfg := config.WalletConfig()
	seed := "<not set>"
	if cfg.Seed != "" {
		seed = "<set>"
	}

	opts := config.RPCOptions()
	headers := make([]string, 0, len(opts.Headers))
	for key := range opts.Headers {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	fmt.Println("rpc urls: " + strings.Join(cfg.RPCURLs, ", "))
	fmt.Println("work urls: " + strings.Join(cfg.WorkURLs, ", "))
	fmt.Println("feed url: " + config.GetString(config.WSURLKey))
	fmt.Println("seed: " + seed)
	fmt.Println("default representative: " + cfg.DefaultRepresentative)
	fmt.Printf("auto receive: %t\n", !cfg.DisableAutoReceive)
	fmt.Println("address prefix: " + cfg.AddressPrefix)
	fmt.Printf("decimal places: %d\n", cfg.DecimalPlaces)
	fmt.Println("custom headers: " + strings.Join(headers, ", "))
	fmt.Printf("max pending operations: %d\n", cfg.MaxPendingOperations)
	return nil
}
