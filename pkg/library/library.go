package library

import (
	"errors"
	"iter"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/hasher"
	"github.com/moyu-x/archyve/pkg/logger"
	"github.com/moyu-x/archyve/pkg/metadata"
	"github.com/moyu-x/archyve/pkg/progress"
	"github.com/moyu-x/archyve/pkg/scanner"
)

// Library 管理一组根目录及其下的所有文件。
// 不保存索引，每次调用都重新遍历文件系统。
type Library struct {
	roots    []string
	src      *Source
	walker   *scanner.FileWalker
	workers  int
	reporter progress.Reporter

	excludes      []string
	includeHidden bool
	absPaths      bool
}

type Option func(*Library)

func WithHasher(h *hasher.Hasher) Option {
	return func(l *Library) { l.src.Hasher = h }
}

func WithMetadata(r *metadata.Reader) Option {
	return func(l *Library) { l.src.Metadata = r }
}

// WithExcludes 排除的目录；相对路径相对于每个根目录
func WithExcludes(dirs ...string) Option {
	return func(l *Library) { l.excludes = append(l.excludes, dirs...) }
}

func WithIncludeHidden(include bool) Option {
	return func(l *Library) { l.includeHidden = include }
}

// WithWorkers 大于 1 时并发计算哈希，结果与顺序执行完全一致
func WithWorkers(n int) Option {
	return func(l *Library) { l.workers = n }
}

func WithReporter(r progress.Reporter) Option {
	return func(l *Library) { l.reporter = r }
}

// New 创建 Library，每个根目录都必须存在且是目录，否则立即返回错误
func New(fs afero.Fs, roots []string, opts ...Option) (*Library, error) {
	if len(roots) == 0 {
		return nil, &internal.UsageError{Message: "library needs at least one root directory"}
	}

	l := &Library{
		src:           &Source{Fs: fs},
		workers:       internal.DefaultWorkers,
		reporter:      progress.Nop{},
		includeHidden: true,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.src.Hasher == nil {
		h, err := hasher.New(fs, internal.DefaultHashAlgorithm)
		if err != nil {
			return nil, err
		}
		l.src.Hasher = h
	}
	if l.src.Metadata == nil {
		l.src.Metadata = metadata.NewReader(fs)
	}

	_, l.absPaths = fs.(*afero.OsFs)
	for _, root := range roots {
		l.roots = append(l.roots, l.normalize(root))
	}

	var excluded []string
	for _, x := range l.excludes {
		if filepath.IsAbs(x) {
			excluded = append(excluded, x)
			continue
		}
		for _, root := range l.roots {
			excluded = append(excluded, filepath.Join(root, x))
		}
	}
	l.walker = scanner.NewFileWalker(fs,
		scanner.WithIncludeHidden(l.includeHidden),
		scanner.WithExcludes(excluded...),
	)

	for _, root := range l.roots {
		if err := l.walker.CheckRoot(root); err != nil {
			return nil, err
		}
	}

	logger.Get().Debug().
		Strs("roots", l.roots).
		Str("hash", l.src.Hasher.Algorithm()).
		Int("workers", l.workers).
		Msg("创建文件库")

	return l, nil
}

func (l *Library) Roots() []string {
	return append([]string(nil), l.roots...)
}

// Entry 为任意路径构造 Entry，路径不必位于根目录之下
func (l *Library) Entry(path string) *Entry {
	return NewEntry(l.normalize(path), l.src)
}

// normalize 在真实文件系统上把路径转换为绝对路径，与根目录的写法保持一致
func (l *Library) normalize(path string) string {
	path = filepath.Clean(path)
	if l.absPaths {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	}
	return path
}

// Entries 按根目录顺序惰性产出所有文件；目录读取失败时产出 (nil, err)
func (l *Library) Entries() iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for _, root := range l.roots {
			for path, err := range l.walker.Paths(root) {
				var entry *Entry
				if err == nil {
					entry = l.Entry(path)
				}
				if !yield(entry, err) {
					return
				}
			}
		}
	}
}

// FromPaths 把一组路径转换为 Entry 序列，用于限定 Duplicates 的候选范围
func (l *Library) FromPaths(paths ...string) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for _, p := range paths {
			if !yield(l.Entry(p), nil) {
				return
			}
		}
	}
}

// Count 统计库中的文件数，用于进度总数
func (l *Library) Count() (int, error) {
	return l.walker.CountFiles(l.roots)
}

// errorPath 取出错误关联的路径
func errorPath(err error) string {
	var pathErr *internal.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Path
	}
	return ""
}
