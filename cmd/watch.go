package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
	rpc "github.com/chexy/chexy/common"
	"github.com/chexy/chexy/pkg/chexycli"
)

func formatEvent(ev chexycli.Event) string {
	switch ev.Method {
	case rpc.PushTaskDue:
		if ev.Due == nil {
			return ""
		}
		return fmt.Sprintf("[%s] %s: %s", ev.Due.Importance, ev.Due.Title, ev.Due.Message)
	case rpc.PushTaskAcknowledged:
		return fmt.Sprintf("acknowledged task %s", ev.TaskID)
	}
	return ""
}

func watch(ctx *cli.Context) error {
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "new_client", err)
		return nil
	}
	defer client.Close()

	sctx, cancel := setupShutdownHandler()
	defer cancel()
	fmt.Println("Watching for notifications (Ctrl+C to stop)...")
	err = client.Watch(sctx, func(ev chexycli.Event) {
		if line := formatEvent(ev); line != "" {
			fmt.Println(line)
		}
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "subscribe", err)
	}
	return nil
}
