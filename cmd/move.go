package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/archyve/pkg/fileops"
)

var moveCmd = &cobra.Command{
	Use:   "move <source> <destination>",
	Short: "安全移动文件或目录下的文件，从不覆盖",
	Long: `移动文件到目标位置。目标是已存在的目录时放到该目录下；
源是目录时只移动其中的文件，子目录保持原位。
文件名冲突时自动添加序号，例如 a.txt 变为 a_1.txt。`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		moves, err := fileops.NewMover(appFs, fileops.WithDryRun(dryRun)).Move(args[0], args[1])
		out := cmd.OutOrStdout()
		for _, m := range moves {
			fmt.Fprintf(out, "%s -> %s\n", m.From, filePathStyle.Render(m.To))
		}
		return err
	},
}

func init() {
	moveCmd.Flags().Bool("dry-run", false, "预览模式，只显示目标路径")

	rootCmd.AddCommand(moveCmd)
}
