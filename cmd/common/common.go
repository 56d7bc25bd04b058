// Package common holds the help, version and error printing helpers shared
// by the chexy commands, plus the small text formatters used for tables.
package common

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/urfave/cli"
)

// VersionCmdStr is the text printed by the version command. Execute fills it
// in from the build arguments.
var VersionCmdStr string

// DateLayout is how dates are shown in tables and accepted on the command line.
const DateLayout = "01-02-2006"

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// Help shows the app help, or the help of the command named by the first
// argument.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	if err := showCommandHelp(ctx, arg); err != nil {
		return PrintErrWithHelp(ctx, err)
	}
	return nil
}

// GetVersion prints VersionCmdStr.
func GetVersion(ctx *cli.Context) error {
	fmt.Println(VersionCmdStr)
	return nil
}

// PrintRuntimeErr prints err as "app: cmd[action]: err". ctx may be nil.
func PrintRuntimeErr(ctx *cli.Context, cmd, action string, err error) {
	if err == nil {
		fmt.Println("err is nil", "[", cmd, "|", action, "]")
		return
	}
	var name string
	if ctx != nil {
		name = ctx.App.HelpName
	} else {
		name = os.Args[0]
	}
	fmt.Printf("%s: %s[%s]: %s\n", name, cmd, action, err.Error())
}

// PrintErrWithCmdHelp prints err followed by the current command's help.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
				fmt.Println(err.Error())
			}
		},
	)
}

// PrintErrWithHelp prints err followed by the app help and exits with 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			showAppHelpAndExit(ctx, 1)
		},
	)
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	estr := strings.ToLower(err.Error())
	if estr == "flag: help requested" {
		return Help(ctx)
	}
	if strings.Contains(estr, "-version") {
		return GetVersion(ctx)
	}
	fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError hook of the app and its commands.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}

// Beaut centers s within a field of width n.
func Beaut(s string, n int) string {
	x := n - utf8.RuneCountInString(s)
	if x <= 0 {
		return s
	}
	pad := strings.Repeat(" ", x/2)
	b := pad + s + pad
	if x%2 != 0 {
		b += " "
	}
	return b
}

// Truncate shortens s to n runes, marking the cut with "..".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 2 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-2]) + ".."
}

// Pad left-aligns s in a field of width n, truncating when longer.
func Pad(s string, n int) string {
	s = Truncate(s, n)
	return s + strings.Repeat(" ", n-utf8.RuneCountInString(s))
}

// FormatDate renders t with DateLayout, or "N/A" for nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Local().Format(DateLayout)
}
