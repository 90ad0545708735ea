package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/archyve/config"
	"github.com/moyu-x/archyve/pkg/classifier"
	"github.com/moyu-x/archyve/pkg/library"
)

var listCmd = &cobra.Command{
	Use:   "list <directories...>",
	Short: "列出文件及其类型、大小、创建时间",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	typeNames, _ := cmd.Flags().GetStringSlice("type")
	types, err := parseTypes(typeNames)
	if err != nil {
		return err
	}
	sniff, _ := cmd.Flags().GetBool("sniff")

	lib, err := library.New(appFs, args,
		library.WithExcludes(cfg.Scanner.Exclude...),
		library.WithIncludeHidden(cfg.Scanner.IncludeHidden),
	)
	if err != nil {
		return err
	}

	entries := lib.Entries()
	if len(types) > 0 {
		entries = library.OfType(entries, types...)
	}

	out := cmd.OutOrStdout()
	collected, failures := library.Collect(entries)
	for _, e := range collected {
		size, err := e.Size()
		if err != nil {
			failures.Add(e.Path(), err)
			continue
		}
		created, err := e.CreatedAt()
		if err != nil {
			failures.Add(e.Path(), err)
			continue
		}

		line := fmt.Sprintf("%-8s %10s  %s  %s", e.MediaType(), formatBytes(size), created.Format("2006-01-02 15:04:05"), filePathStyle.Render(e.Path()))
		if sniff {
			actual, err := classifier.Sniff(appFs, e.Path())
			if err != nil {
				failures.Add(e.Path(), err)
			} else if actual != classifier.Unknown && actual != e.MediaType() {
				line += errorStyle.Render(fmt.Sprintf("  (内容: %s)", actual))
			}
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprint(out, renderFailures(failures))
	return failures.Err()
}

func init() {
	listCmd.Flags().StringSlice("type", nil, "只列出这些类型: image, audio, video, text, unknown")
	listCmd.Flags().Bool("sniff", false, "读取文件头，标出扩展名与内容不符的文件")

	rootCmd.AddCommand(listCmd)
}
