package scanner

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/logger"
)

// errStop 用于在迭代器消费方提前退出时终止遍历
var errStop = errors.New("stop walk")

type FileWalker struct {
	fs            afero.Fs
	IncludeHidden bool
	excludes      []string
}

type Option func(*FileWalker)

// WithIncludeHidden 是否包含以 '.' 开头的文件和目录
func WithIncludeHidden(include bool) Option {
	return func(w *FileWalker) { w.IncludeHidden = include }
}

// WithExcludes 排除这些目录（及其下所有内容），按路径前缀匹配
func WithExcludes(dirs ...string) Option {
	return func(w *FileWalker) {
		for _, d := range dirs {
			d = strings.TrimSpace(d)
			if d == "" {
				continue
			}
			w.excludes = append(w.excludes, filepath.Clean(d))
		}
	}
}

func NewFileWalker(fs afero.Fs, opts ...Option) *FileWalker {
	w := &FileWalker{
		fs:            fs,
		IncludeHidden: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CheckRoot 确认 root 存在且是目录
func (w *FileWalker) CheckRoot(root string) error {
	info, err := w.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return internal.NewPathError("walk", root, internal.ErrNotFound, nil)
		}
		return internal.NewPathError("walk", root, internal.ErrIO, err)
	}
	if !info.IsDir() {
		return internal.NewPathError("walk", root, internal.ErrNotADirectory, nil)
	}
	return nil
}

// Walk 深度优先遍历 root 下的所有普通文件，目录本身不会传给 callback。
// 使用显式栈，子项按名称顺序访问。
// 无法读取的子目录通过 onErr 上报后跳过；onErr 为 nil 时直接忽略。
// callback 返回错误时遍历终止并返回该错误。
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return w.walk(root, callback, nil)
}

func (w *FileWalker) walk(root string, callback func(path string, info os.FileInfo) error, onErr func(path string, err error) error) error {
	root = filepath.Clean(root)
	if err := w.CheckRoot(root); err != nil {
		return err
	}

	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := afero.ReadDir(w.fs, dir)
		if err != nil {
			logger.Get().Warn().Err(err).Str("path", dir).Msg("读取目录失败，跳过")
			if onErr != nil {
				if err := onErr(dir, internal.NewPathError("readdir", dir, internal.ErrIO, err)); err != nil {
					return err
				}
			}
			continue
		}

		// 先处理本目录的文件，再把子目录逆序压栈，保证按名称顺序深入
		var subdirs []string
		for _, child := range children {
			path := filepath.Join(dir, child.Name())

			if !w.IncludeHidden && strings.HasPrefix(child.Name(), ".") {
				continue
			}
			if w.isExcluded(path) {
				logger.Get().Debug().Str("path", path).Msg("已排除")
				continue
			}

			if child.IsDir() {
				subdirs = append(subdirs, path)
				continue
			}
			if !child.Mode().IsRegular() {
				continue
			}

			if err := callback(path, child); err != nil {
				return err
			}
		}

		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}

	return nil
}

// Paths 返回 root 下所有文件路径的惰性序列，每次 range 都重新遍历。
// root 本身不合法时序列只产出一个错误；子目录读取失败也作为错误产出，遍历继续。
func (w *FileWalker) Paths(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := w.walk(root,
			func(path string, _ os.FileInfo) error {
				if !yield(path, nil) {
					return errStop
				}
				return nil
			},
			func(path string, err error) error {
				if !yield(path, err) {
					return errStop
				}
				return nil
			})
		if err != nil && !errors.Is(err, errStop) {
			yield(filepath.Clean(root), err)
		}
	}
}

func (w *FileWalker) CountFiles(dirs []string) (int, error) {
	logger.Get().Info().Msgf("开始统计文件数量，共 %d 个目录", len(dirs))

	count := 0
	for _, dir := range dirs {
		logger.Get().Debug().Msgf("扫描目录: %s", dir)
		err := w.Walk(dir, func(path string, info os.FileInfo) error {
			count++
			return nil
		})
		if err != nil {
			logger.Get().Error().Err(err).Msgf("扫描目录失败: %s", dir)
			return 0, err
		}
	}

	logger.Get().Info().Msgf("文件统计完成，共找到 %d 个文件", count)
	return count, nil
}

func (w *FileWalker) isExcluded(path string) bool {
	for _, base := range w.excludes {
		if IsUnder(path, base) {
			return true
		}
	}
	return false
}

// IsUnder 判断 path 是否等于 base 或位于 base 之下。
// 按路径分隔符比较，"/lib/photos2" 不在 "/lib/photos" 之下。
func IsUnder(path, base string) bool {
	path = filepath.Clean(path)
	base = filepath.Clean(base)
	if path == base {
		return true
	}
	if base == string(filepath.Separator) {
		return strings.HasPrefix(path, base)
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}
