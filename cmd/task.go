package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
	rpc "github.com/chexy/chexy/common"
)

var (
	taskImportance string
	taskDue        string
	taskInCharge   string
	taskRemind     int
	taskRepeat     string
	undoDone       bool

	addFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "importance, i",
			Usage:       "low, medium or high",
			Value:       "low",
			Destination: &taskImportance,
		},
		cli.StringFlag{
			Name:        "due, d",
			Usage:       "due date, e.g. 11-30-2026 or \"2026-11-30 17:00\"",
			Destination: &taskDue,
		},
		cli.StringFlag{
			Name:        "in-charge, c",
			Usage:       "person responsible for the task",
			Destination: &taskInCharge,
		},
		cli.IntFlag{
			Name:        "remind, r",
			Usage:       "custom reminder, days before the due date",
			Value:       1,
			Destination: &taskRemind,
		},
		cli.StringFlag{
			Name:        "repeat",
			Usage:       "5-field cron expression for recurring tasks",
			Destination: &taskRepeat,
		},
	}

	modifyFlags = []cli.Flag{
		cli.StringFlag{Name: "name, n", Usage: "new task name"},
		cli.StringFlag{Name: "importance, i", Usage: "low, medium or high"},
		cli.StringFlag{Name: "due, d", Usage: "new due date"},
		cli.StringFlag{Name: "in-charge, c", Usage: "person responsible for the task"},
		cli.IntFlag{Name: "remind, r", Usage: "custom reminder, days before the due date"},
		cli.StringFlag{Name: "repeat", Usage: "cron expression, empty to stop repeating"},
	}

	doneFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "undo, u",
			Usage:       "reopen a completed task",
			Destination: &undoDone,
		},
	}
)

func add(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	name := strings.TrimSpace(strings.Join(ctx.Args(), " "))
	if name == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no task name provided"))
	}
	if taskDue == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("missing --due"))
	}
	due, err := parseDue(taskDue)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}

	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	t, err := client.Add(rctx, &rpc.AddParams{
		Name:           name,
		Importance:     taskImportance,
		CompletionTime: due,
		InCharge:       taskInCharge,
		ReminderTime:   taskRemind,
		Recurrence:     taskRepeat,
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "add_task", err)
		if t != nil {
			fmt.Printf("Task %q was kept by the daemon as %s; do not add it again\n", t.Name, t.ID)
		}
		return nil
	}
	tDue := t.CompletionTime
	fmt.Printf("Added task %q [%s], due %s (id %s)\n", t.Name, t.Importance, common.FormatDate(&tDue), t.ID)
	return nil
}

// modifyParams builds the patch from the flags the user actually set.
func modifyParams(ctx *cli.Context, id string) (*rpc.ModifyParams, error) {
	p := &rpc.ModifyParams{ID: id}
	if ctx.IsSet("name") {
		v := ctx.String("name")
		p.Name = &v
	}
	if ctx.IsSet("importance") {
		v := ctx.String("importance")
		p.Importance = &v
	}
	if ctx.IsSet("due") {
		due, err := parseDue(ctx.String("due"))
		if err != nil {
			return nil, err
		}
		p.CompletionTime = &due
	}
	if ctx.IsSet("in-charge") {
		v := ctx.String("in-charge")
		p.InCharge = &v
	}
	if ctx.IsSet("remind") {
		v := ctx.Int("remind")
		p.ReminderTime = &v
	}
	if ctx.IsSet("repeat") {
		v := ctx.String("repeat")
		p.Recurrence = &v
	}
	if p.Name == nil && p.Importance == nil && p.CompletionTime == nil &&
		p.InCharge == nil && p.ReminderTime == nil && p.Recurrence == nil {
		return nil, errors.New("nothing to change")
	}
	return p, nil
}

func modify(ctx *cli.Context) error {
	id, err := taskArg(ctx.Args())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	p, err := modifyParams(ctx, id)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "modify", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	t, err := client.Modify(rctx, p)
	if err != nil {
		common.PrintRuntimeErr(ctx, "modify", "modify_task", err)
		return nil
	}
	fmt.Printf("Updated task %q\n", t.Name)
	return nil
}

func remove(ctx *cli.Context) error {
	id, err := taskArg(ctx.Args())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "rm", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	if err := client.Delete(rctx, id); err != nil {
		common.PrintRuntimeErr(ctx, "rm", "delete_task", err)
		return nil
	}
	fmt.Println("Deleted task", id)
	return nil
}

func done(ctx *cli.Context) error {
	id, err := taskArg(ctx.Args())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "done", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	res, err := client.Complete(rctx, id, undoDone)
	if err != nil {
		common.PrintRuntimeErr(ctx, "done", "complete_task", err)
		return nil
	}
	if undoDone {
		fmt.Printf("Reopened task %q\n", res.Task.Name)
		return nil
	}
	fmt.Printf("Completed task %q\n", res.Task.Name)
	if res.Next != nil {
		next := res.Next.CompletionTime
		fmt.Printf("Next occurrence due %s %s (id %s)\n",
			common.FormatDate(&next), next.Local().Format("15:04"), res.Next.ID)
	}
	return nil
}

func star(ctx *cli.Context) error {
	id, err := taskArg(ctx.Args())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "star", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	t, err := client.Star(rctx, id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "star", "star_task", err)
		return nil
	}
	if t.Starred {
		fmt.Printf("Starred task %q\n", t.Name)
	} else {
		fmt.Printf("Unstarred task %q\n", t.Name)
	}
	return nil
}

func show(ctx *cli.Context) error {
	id, err := taskArg(ctx.Args())
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "show", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	t, err := client.Get(rctx, id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "show", "get_task", err)
		return nil
	}
	printTask(t, time.Now())
	return nil
}
