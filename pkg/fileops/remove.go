package fileops

import (
	"os"

	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/logger"
)

type Remover struct {
	fs     afero.Fs
	dryRun bool
}

func NewRemover(fs afero.Fs, opts ...Option) *Remover {
	s := apply(opts)
	return &Remover{fs: fs, dryRun: s.dryRun}
}

// Remove 逐个删除文件，返回失败的路径及原因，全部成功时返回空 map。
// 不存在的路径视为已经删除，不算失败；目录一律拒绝删除。
func (r *Remover) Remove(paths ...string) internal.Failures {
	failed := internal.Failures{}

	for _, path := range paths {
		info, err := r.lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Get().Debug().Str("path", path).Msg("文件不存在，跳过删除")
				continue
			}
			failed.Add(path, internal.NewPathError("remove", path, internal.ErrIO, err))
			continue
		}
		if info.IsDir() {
			failed.Add(path, internal.NewPathError("remove", path, internal.ErrIsADirectory, nil))
			continue
		}

		if r.dryRun {
			logger.Get().Info().Str("path", path).Msg("[dry-run] 删除文件")
			continue
		}

		if err := r.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Get().Error().Err(err).Str("path", path).Msg("删除文件失败")
			failed.Add(path, internal.NewPathError("remove", path, internal.ErrIO, err))
			continue
		}
		logger.Get().Debug().Str("path", path).Msg("已删除")
	}

	return failed
}

// lstat 不跟随符号链接，悬空的链接本身也能被删除
func (r *Remover) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := r.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return r.fs.Stat(path)
}
