package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
)

func tick(ctx *cli.Context) error {
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "tick", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	res, err := client.Tick(rctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "tick", "run_tick", err)
		return nil
	}
	switch {
	case !res.Ran:
		fmt.Println("A check is already in progress, try again shortly")
	case res.Error != "":
		common.PrintRuntimeErr(ctx, "tick", "save_state", errors.New(res.Error))
		fmt.Printf("%d notifications sent\n", res.Notified)
	default:
		fmt.Printf("%d notifications sent\n", res.Notified)
	}
	return nil
}
