package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/archyve/pkg/fileops"
)

var removeCmd = &cobra.Command{
	Use:   "remove <paths...>",
	Short: "删除文件，不存在的路径视为已删除",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		failures := fileops.NewRemover(appFs, fileops.WithDryRun(dryRun)).Remove(args...)
		fmt.Fprint(cmd.OutOrStdout(), renderFailures(failures))
		return failures.Err()
	},
}

func init() {
	removeCmd.Flags().Bool("dry-run", false, "预览模式，不实际删除")

	rootCmd.AddCommand(removeCmd)
}
