package cmd

import (
	"time"

	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
	rpc "github.com/chexy/chexy/common"
)

var (
	listView   string
	listDate   string
	listSearch string

	lsFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "view, w",
			Usage:       "today, upcoming, starred, completed or all",
			Value:       "all",
			Destination: &listView,
		},
		cli.StringFlag{
			Name:        "date, d",
			Usage:       "only tasks due on this date (YYYY-MM-DD or MM-DD-YYYY)",
			Destination: &listDate,
		},
		cli.StringFlag{
			Name:        "search, s",
			Usage:       "keyword to look for in task names",
			Destination: &listSearch,
		},
	}
)

// listParams translates the list flags. MM-DD-YYYY dates are normalized to
// the wire layout.
func listParams() (*rpc.ListParams, error) {
	p := &rpc.ListParams{View: listView, Search: listSearch}
	if listDate != "" {
		day, err := parseDue(listDate)
		if err != nil {
			return nil, err
		}
		p.Date = day.Format(rpc.ListDateLayout)
	}
	return p, nil
}

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	p, err := listParams()
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	tasks, err := client.List(rctx, p)
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	printTasks(tasks, time.Now())
	return nil
}
