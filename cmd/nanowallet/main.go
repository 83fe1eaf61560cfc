package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nanoflow/nanowallet/internal/config"
	"github.com/nanoflow/nanowallet/internal/infrastructure/noderpc"
	"github.com/nanoflow/nanowallet/pkg/stats"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var configFlag = cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path of a config file, env variables prefixed with NANOWALLET_ take precedence",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "nanowallet"
	app.Usage = "Command line tools for the nanowallet orchestration core"
	app.Flags = []cli.Flag{&configFlag}
	app.Commands = append(
		app.Commands,
		&configCmd,
		&genseed,
		&accountinfo,
		&receivable,
		&work,
		&convert,
		&watch,
	)
	return app
}

// loadConfig reads and validates the configuration, then sets up logging
// and statistics accordingly.
func loadConfig(ctx *cli.Context) error {
	if err := config.InitConfig(ctx.String(configFlag.Name)); err != nil {
		return err
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	if err := stats.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	if interval := config.GetInt(config.StatsIntervalKey); interval > 0 {
		stats.EnableStatistics(ctx.Context, time.Duration(interval)*time.Second)
	}
	return nil
}

func getLedgerClient(ctx *cli.Context) (*noderpc.Client, error) {
	if err := loadConfig(ctx); err != nil {
		return nil, err
	}
	return noderpc.NewClient(config.RPCOptions()), nil
}

func printJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[nanowallet] %v\n", err)
	}
	os.Exit(1)
}
