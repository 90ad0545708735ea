package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/archyve/config"
	"github.com/moyu-x/archyve/pkg/library"
)

var searchCmd = &cobra.Command{
	Use:   "search <directories...> --term <text>",
	Short: "按路径关键字查找文件",
	Long: `查找路径中包含关键字的文件，区分大小写。
默认包含任一关键字即匹配，--all 要求包含全部关键字。`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	terms, _ := cmd.Flags().GetStringArray("term")
	all, _ := cmd.Flags().GetBool("all")
	mode := library.MatchAny
	if all {
		mode = library.MatchAll
	}

	lib, err := library.New(appFs, args,
		library.WithExcludes(cfg.Scanner.Exclude...),
		library.WithIncludeHidden(cfg.Scanner.IncludeHidden),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	entries, failures := library.Collect(lib.Search(mode, terms...))
	for _, e := range entries {
		fmt.Fprintln(out, e.Path())
	}
	fmt.Fprint(out, renderFailures(failures))
	return failures.Err()
}

func init() {
	searchCmd.Flags().StringArray("term", nil, "关键字，可重复指定")
	searchCmd.Flags().Bool("all", false, "要求路径包含全部关键字")

	rootCmd.AddCommand(searchCmd)
}
