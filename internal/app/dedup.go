package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/classifier"
	"github.com/moyu-x/archyve/pkg/fileops"
	"github.com/moyu-x/archyve/pkg/hasher"
	"github.com/moyu-x/archyve/pkg/library"
	"github.com/moyu-x/archyve/pkg/logger"
	"github.com/moyu-x/archyve/pkg/progress"
)

type DedupOptions struct {
	Roots         []string
	Mode          internal.OperationMode
	TargetDir     string
	Types         []classifier.MediaType
	Excludes      []string
	IncludeHidden bool
	Workers       int
	Algorithm     string
	DryRun        bool
	Reporter      progress.Reporter
}

// DedupResult 每个 Group 的 Entries 已按创建时间排好序，第一个是保留的文件
type DedupResult struct {
	Stats    internal.ProcessStats
	Groups   []library.Group
	Moves    []fileops.Move
	Failures internal.Failures
}

// RunDedup 查找重复文件，每组保留最早创建的一个，其余按模式删除、移动或只报告
func RunDedup(fs afero.Fs, opts *DedupOptions) (*DedupResult, error) {
	if opts.Mode == "" {
		opts.Mode = internal.ModeReport
	}
	if _, err := internal.ParseOperationMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if opts.Mode == internal.ModeMove && opts.TargetDir == "" {
		return nil, &internal.UsageError{Message: "move mode requires --target-dir"}
	}

	result := &DedupResult{Failures: internal.Failures{}}
	result.Stats.StartTime = time.Now()

	h, err := hasher.New(fs, opts.Algorithm)
	if err != nil {
		return nil, err
	}

	libOpts := []library.Option{
		library.WithHasher(h),
		library.WithExcludes(opts.Excludes...),
		library.WithIncludeHidden(opts.IncludeHidden),
		library.WithWorkers(opts.Workers),
	}
	if opts.Reporter != nil {
		libOpts = append(libOpts, library.WithReporter(opts.Reporter))
	}
	lib, err := library.New(fs, opts.Roots, libOpts...)
	if err != nil {
		return nil, err
	}

	logger.Get().Info().Msgf("操作模式: %s", opts.Mode)
	if opts.TargetDir != "" {
		logger.Get().Info().Msgf("目标目录: %s", opts.TargetDir)
	}
	if opts.DryRun {
		logger.Get().Info().Msg("=== 预览模式，不会实际修改文件 ===")
	}

	candidates := lib.Entries()
	if len(opts.Types) > 0 {
		candidates = library.OfType(candidates, opts.Types...)
	}
	scanned := 0
	candidates = library.Filter(candidates, func(*library.Entry) bool {
		scanned++
		return true
	})

	groups, failures := lib.Duplicates(candidates)
	result.Stats.TotalScanned = scanned
	for path, err := range failures {
		result.Failures.Add(path, err)
	}

	remover := fileops.NewRemover(fs, fileops.WithDryRun(opts.DryRun))
	mover := fileops.NewMover(fs, fileops.WithDryRun(opts.DryRun))

	for _, group := range groups {
		if err := library.SortByCreated(group.Entries); err != nil {
			logger.Get().Error().Err(err).Str("hash", group.Hash.Short()).Msg("读取创建时间失败，跳过该组")
			result.Failures.Add(failedPath(err, group), err)
			continue
		}
		result.Groups = append(result.Groups, group)
		result.Stats.Groups++

		keep, dupes := group.Entries[0], group.Entries[1:]
		result.Stats.Duplicates += len(dupes)
		logger.Get().Info().Str("hash", group.Hash.Short()).Str("keep", keep.Path()).Int("duplicates", len(dupes)).Msg("发现重复组")

		switch opts.Mode {
		case internal.ModeReport:
			for _, d := range dupes {
				logger.Get().Info().Msgf("发现重复: %s (与 %s 相同)", d.Path(), keep.Path())
			}
		case internal.ModeDelete:
			deleteDuplicates(remover, dupes, result)
		case internal.ModeMove:
			moveDuplicates(mover, dupes, opts.TargetDir, result)
		}
	}

	result.Stats.Failed = len(result.Failures)
	result.Stats.EndTime = time.Now()

	logger.Get().Info().
		Int("scanned", result.Stats.TotalScanned).
		Int("groups", result.Stats.Groups).
		Int("duplicates", result.Stats.Duplicates).
		Int("failed", result.Stats.Failed).
		Str("freed", humanize.IBytes(uint64(result.Stats.FreedSpace))).
		Msg("去重完成")

	return result, nil
}

func deleteDuplicates(remover *fileops.Remover, dupes []*library.Entry, result *DedupResult) {
	paths := make([]string, len(dupes))
	for i, d := range dupes {
		paths[i] = d.Path()
		// 删除前读取大小，结果缓存在 Entry 中
		_, _ = d.Size()
	}

	failed := remover.Remove(paths...)
	for _, d := range dupes {
		if err, ok := failed[d.Path()]; ok {
			result.Failures.Add(d.Path(), err)
			continue
		}
		size, _ := d.Size()
		result.Stats.Deleted++
		result.Stats.FreedSpace += size
		logger.Get().Info().Msgf("发现重复: %s (%s, 已删除)", d.Path(), humanize.IBytes(uint64(size)))
	}
}

func moveDuplicates(mover *fileops.Mover, dupes []*library.Entry, targetDir string, result *DedupResult) {
	for _, d := range dupes {
		size, _ := d.Size()
		moves, err := mover.Move(d.Path(), filepath.Join(targetDir, filepath.Base(d.Path())))
		if err != nil {
			logger.Get().Error().Err(err).Msgf("移动文件失败: %s", d.Path())
			result.Failures.Add(d.Path(), err)
			continue
		}
		result.Moves = append(result.Moves, moves...)
		result.Stats.Moved++
		result.Stats.FreedSpace += size
		logger.Get().Info().Msgf("发现重复: %s (%s, 已移动到 %s)", d.Path(), humanize.IBytes(uint64(size)), moves[0].To)
	}
}

func failedPath(err error, group library.Group) string {
	var pathErr *internal.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return fmt.Sprintf("group %s", group.Hash.Short())
}
