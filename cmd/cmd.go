package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs is set by Execute for the daemon version report.
var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "CheXy",
		HelpName:              "chexy",
		Usage:                 "A task tracker that reminds you before deadlines.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "chexy <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Usage:              "run the background service",
				Action:             runDaemon,
				Flags:              daemonFlags,
				Description:        DaemonDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:   "stop-daemon",
				Usage:  "stop the background service",
				Action: stopDaemon,
			},
			{
				Name:                   "add",
				Aliases:                []string{"a"},
				Usage:                  "create a task",
				UsageText:              "add [flags] <name>",
				Action:                 add,
				Flags:                  addFlags,
				Description:            AddDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				UseShortOptionHandling: true,
			},
			{
				Name:                   "modify",
				Aliases:                []string{"m"},
				Usage:                  "change fields of a task",
				UsageText:              "modify [flags] <task id>",
				Action:                 modify,
				Flags:                  modifyFlags,
				Description:            ModifyDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				UseShortOptionHandling: true,
			},
			{
				Name:               "rm",
				Usage:              "delete a task",
				UsageText:          "rm <task id>",
				Action:             remove,
				Description:        RemoveDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:               "done",
				Usage:              "mark a task as completed",
				UsageText:          "done [--undo] <task id>",
				Action:             done,
				Flags:              doneFlags,
				Description:        DoneDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:               "star",
				Usage:              "toggle the starred flag of a task",
				UsageText:          "star <task id>",
				Action:             star,
				Description:        StarDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:                   "list",
				Aliases:                []string{"l", "ls"},
				Usage:                  "display tasks",
				Action:                 list,
				Flags:                  lsFlags,
				Description:            ListDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				UseShortOptionHandling: true,
			},
			{
				Name:               "show",
				Usage:              "print all fields of a task",
				UsageText:          "show <task id>",
				Action:             show,
				Description:        ShowDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:               "export",
				Usage:              "write all tasks to a spreadsheet",
				UsageText:          "export <path>",
				Action:             export,
				Description:        ExportDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:               "history",
				Usage:              "list recent notifications",
				Action:             historyCmd,
				Flags:              historyFlags,
				Description:        HistoryDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
			},
			{
				Name:               "tick",
				Usage:              "check for due tasks now",
				Action:             tick,
				Description:        TickDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "watch",
				Usage:              "print notifications as they fire",
				Action:             watch,
				Description:        WatchDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of chexy",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      list,
		Flags:       lsFlags,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
