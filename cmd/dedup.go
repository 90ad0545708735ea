package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moyu-x/archyve/config"
	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/internal/app"
	"github.com/moyu-x/archyve/pkg/classifier"
	"github.com/moyu-x/archyve/pkg/library"
	"github.com/moyu-x/archyve/pkg/logger"
	"github.com/moyu-x/archyve/pkg/progress"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup <directories...>",
	Short: "检测并删除/移动重复文件",
	Long: `遍历指定目录中的所有文件，按内容哈希检测重复文件。
每组重复文件保留最早创建的一个（图片优先使用 EXIF 拍摄时间），
其余文件按模式删除、移动到目标目录，或只输出报告。`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDedup,
}

func runDedup(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	flags := cmd.Flags()

	modeStr := cfg.Dedup.Mode
	if flags.Changed("mode") {
		modeStr, _ = flags.GetString("mode")
	}
	mode, err := internal.ParseOperationMode(modeStr)
	if err != nil {
		return err
	}

	targetDir := cfg.Dedup.TargetDir
	if flags.Changed("target-dir") {
		targetDir, _ = flags.GetString("target-dir")
	}
	workers := cfg.Performance.Workers
	if flags.Changed("workers") {
		workers, _ = flags.GetInt("workers")
	}
	algorithm := cfg.Hash.Algorithm
	if flags.Changed("hash") {
		algorithm, _ = flags.GetString("hash")
	}

	typeNames, _ := flags.GetStringSlice("type")
	types, err := parseTypes(typeNames)
	if err != nil {
		return err
	}
	excludes, _ := flags.GetStringSlice("exclude")
	excludes = append(append([]string(nil), cfg.Scanner.Exclude...), excludes...)
	dryRun, _ := flags.GetBool("dry-run")
	showProgress, _ := flags.GetBool("progress")

	opts := &app.DedupOptions{
		Roots:         args,
		Mode:          mode,
		TargetDir:     targetDir,
		Types:         types,
		Excludes:      excludes,
		IncludeHidden: cfg.Scanner.IncludeHidden,
		Workers:       workers,
		Algorithm:     algorithm,
		DryRun:        dryRun,
	}

	if showProgress {
		reporter, err := newBarReporter(args, excludes, cfg.Scanner.IncludeHidden, types)
		if err != nil {
			return err
		}
		opts.Reporter = reporter
	}

	result, err := app.RunDedup(appFs, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, group := range result.Groups {
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("[%s] %d 个相同文件", group.Hash.Short(), len(group.Entries))))
		for i, e := range group.Entries {
			if i == 0 {
				fmt.Fprintln(out, keepStyle.Render("  保留 "+e.Path()))
				continue
			}
			fmt.Fprintln(out, dupeStyle.Render("  重复 "+e.Path()))
		}
	}
	for _, m := range result.Moves {
		fmt.Fprintf(out, "%s -> %s\n", m.From, filePathStyle.Render(m.To))
	}
	fmt.Fprint(out, renderFailures(result.Failures))
	fmt.Fprintln(out, renderStats(result.Stats, args))

	return result.Failures.Err()
}

// newBarReporter 按与去重相同的过滤条件统计文件数，作为进度条的总数
func newBarReporter(roots, excludes []string, includeHidden bool, types []classifier.MediaType) (progress.Reporter, error) {
	lib, err := library.New(appFs, roots, library.WithExcludes(excludes...), library.WithIncludeHidden(includeHidden))
	if err != nil {
		return nil, err
	}
	total := countCandidates(lib, types)
	logger.Get().Debug().Int("total", total).Msg("进度总数")
	return progress.NewBarReporter(os.Stderr, total), nil
}

// countCandidates 统计会参与哈希的文件数，目录读取错误不计入
func countCandidates(lib *library.Library, types []classifier.MediaType) int {
	candidates := lib.Entries()
	if len(types) > 0 {
		candidates = library.OfType(candidates, types...)
	}
	total := 0
	for _, err := range candidates {
		if err == nil {
			total++
		}
	}
	return total
}

func parseTypes(names []string) ([]classifier.MediaType, error) {
	var types []classifier.MediaType
	for _, name := range names {
		m, err := classifier.ParseMediaType(name)
		if err != nil {
			return nil, &internal.UsageError{Message: err.Error()}
		}
		types = append(types, m)
	}
	return types, nil
}

func init() {
	dedupCmd.Flags().StringP("mode", "m", string(internal.ModeReport), "操作模式: report, delete 或 move")
	dedupCmd.Flags().StringP("target-dir", "t", "", "移动模式的目标目录")
	dedupCmd.Flags().StringSlice("type", nil, "只处理这些类型: image, audio, video, text, unknown")
	dedupCmd.Flags().StringSlice("exclude", nil, "排除的目录，相对路径相对于每个根目录")
	dedupCmd.Flags().IntP("workers", "w", internal.DefaultWorkers, "并行计算哈希的协程数")
	dedupCmd.Flags().String("hash", internal.DefaultHashAlgorithm, "哈希算法: xxhash, md5, sha256")
	dedupCmd.Flags().Bool("dry-run", false, "预览模式，不实际修改文件")
	dedupCmd.Flags().Bool("progress", false, "显示进度条")

	rootCmd.AddCommand(dedupCmd)
}
