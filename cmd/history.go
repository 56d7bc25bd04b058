package cmd

import (
	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
	"github.com/chexy/chexy/internal/history"
)

var (
	historyLimit int

	historyFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "limit, n",
			Usage:       "number of entries to show",
			Value:       history.DefaultListLimit,
			Destination: &historyLimit,
		},
	}
)

func historyCmd(ctx *cli.Context) error {
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	entries, err := client.History(rctx, historyLimit)
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "list_history", err)
		return nil
	}
	printHistory(entries)
	return nil
}
