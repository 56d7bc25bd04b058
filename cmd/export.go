package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/chexy/chexy/cmd/common"
	rpc "github.com/chexy/chexy/common"
	"github.com/chexy/chexy/pkg/tasklib"
)

// exportFs is where export writes; tests swap in a memory filesystem.
var exportFs = afero.NewOsFs()

func export(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no output path provided"))
	}
	client, err := connect()
	if err != nil {
		common.PrintRuntimeErr(ctx, "export", "new_client", err)
		return nil
	}
	defer client.Close()
	rctx, cancel := requestContext()
	defer cancel()
	tasks, err := client.List(rctx, &rpc.ListParams{View: string(tasklib.ViewAll)})
	if err != nil {
		common.PrintRuntimeErr(ctx, "export", "get_list", err)
		return nil
	}
	out, err := writeExport(exportFs, path, tasks)
	if err != nil {
		common.PrintRuntimeErr(ctx, "export", "write_file", err)
		return nil
	}
	fmt.Printf("Exported %d tasks to %s\n", len(tasks), out)
	return nil
}

// writeExport writes tasks to path (or path.xlsx) and returns the final path.
func writeExport(fs afero.Fs, path string, tasks []*tasklib.Task) (string, error) {
	out := tasklib.ExportPath(path)
	f, err := fs.Create(out)
	if err != nil {
		return "", err
	}
	if err := tasklib.Export(f, out, tasks); err != nil {
		f.Close()
		return "", err
	}
	return out, f.Close()
}
