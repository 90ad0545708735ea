package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/logger"
)

// Move 一次实际（或 dry-run 下计划）完成的移动
type Move struct {
	From string
	To   string
}

type Mover struct {
	fs     afero.Fs
	dryRun bool
	rename func(oldpath, newpath string) error

	// dry-run 下记录已经分配出去的目标路径，后续移动不会再选中它们
	planned map[string]bool
}

func NewMover(fs afero.Fs, opts ...Option) *Mover {
	s := apply(opts)
	return &Mover{
		fs:      fs,
		dryRun:  s.dryRun,
		rename:  fs.Rename,
		planned: make(map[string]bool),
	}
}

// Move 移动 src 到 dst，从不覆盖已有文件。
//
// src 是文件时：dst 为已存在的目录则移动到 dst/<文件名>，否则 dst 就是目标路径，
// 缺少的父目录会自动创建。src 是目录时：创建 dst，只移动 src 下的直接子文件，
// 子目录保持原位；单个文件失败不会中断，所有失败一起以 *internal.BatchError 返回。
// 目标文件名冲突时依次尝试 name_1.ext、name_2.ext ……
func (m *Mover) Move(src, dst string) ([]Move, error) {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	info, err := m.fs.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, internal.NewPathError("move", src, internal.ErrNotFound, nil)
		}
		return nil, internal.NewPathError("move", src, internal.ErrIO, err)
	}

	switch {
	case info.Mode().IsRegular():
		move, err := m.moveFile(src, dst)
		if err != nil {
			return nil, err
		}
		return []Move{move}, nil
	case info.IsDir():
		return m.moveDir(src, dst)
	default:
		return nil, internal.NewPathError("move", src, internal.ErrNotAFileOrDir, nil)
	}
}

func (m *Mover) moveDir(src, dst string) ([]Move, error) {
	if !m.dryRun {
		if err := m.fs.MkdirAll(dst, 0755); err != nil {
			return nil, internal.NewPathError("mkdir", dst, internal.ErrIO, err)
		}
	}

	children, err := afero.ReadDir(m.fs, src)
	if err != nil {
		return nil, internal.NewPathError("readdir", src, internal.ErrIO, err)
	}

	var moves []Move
	failed := internal.Failures{}
	for _, child := range children {
		if !child.Mode().IsRegular() {
			continue
		}
		path := filepath.Join(src, child.Name())
		move, err := m.place(path, filepath.Join(dst, child.Name()))
		if err != nil {
			logger.Get().Error().Err(err).Str("path", path).Msg("移动文件失败")
			failed.Add(path, err)
			continue
		}
		moves = append(moves, move)
	}

	return moves, failed.Err()
}

func (m *Mover) moveFile(src, dst string) (Move, error) {
	target := dst
	if info, err := m.fs.Stat(dst); err == nil && info.IsDir() {
		target = filepath.Join(dst, filepath.Base(src))
	}
	return m.place(src, target)
}

// place 把 src 移动到 target，target 被占用时改用第一个空闲的带序号名称
func (m *Mover) place(src, target string) (Move, error) {
	if target == src {
		return Move{From: src, To: src}, nil
	}

	if !m.dryRun {
		if err := m.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return Move{}, internal.NewPathError("mkdir", filepath.Dir(target), internal.ErrIO, err)
		}
	}

	target, err := m.freeName(target)
	if err != nil {
		return Move{}, err
	}

	if m.dryRun {
		m.planned[target] = true
		logger.Get().Info().Str("from", src).Str("to", target).Msg("[dry-run] 移动文件")
		return Move{From: src, To: target}, nil
	}

	if err := m.rename(src, target); err != nil {
		if !isEXDEV(err) {
			return Move{}, internal.NewPathError("move", src, internal.ErrIO, err)
		}
		logger.Get().Debug().Err(err).Str("from", src).Str("to", target).Msg("跨设备移动，改为复制后删除")
		if err := m.copyAcross(src, target); err != nil {
			return Move{}, err
		}
	}

	logger.Get().Debug().Str("from", src).Str("to", target).Msg("已移动")
	return Move{From: src, To: target}, nil
}

// freeName 返回第一个未被占用的目标路径
func (m *Mover) freeName(target string) (string, error) {
	dir := filepath.Dir(target)
	name := filepath.Base(target)
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)

	candidate := target
	for n := 1; ; n++ {
		err := m.claim(candidate)
		if err == nil {
			if candidate != target {
				logger.Get().Debug().Str("original", target).Str("renamed", candidate).Msg("文件名冲突，自动重命名")
			}
			return candidate, nil
		}
		if !errors.Is(err, internal.ErrNameCollision) {
			return "", err
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

func (m *Mover) claim(path string) error {
	if m.planned[path] {
		return internal.ErrNameCollision
	}
	ok, err := afero.Exists(m.fs, path)
	if err != nil {
		return internal.NewPathError("stat", path, internal.ErrIO, err)
	}
	if ok {
		return internal.ErrNameCollision
	}
	return nil
}

// copyAcross 先复制到目标目录下的临时文件，再 rename 到最终位置，最后删除源文件
func (m *Mover) copyAcross(src, target string) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return internal.NewPathError("move", src, internal.ErrIO, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return internal.NewPathError("move", src, internal.ErrIO, err)
	}

	tmp := filepath.Join(filepath.Dir(target), "."+uuid.NewString()+".tmp")
	out, err := m.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return internal.NewPathError("move", tmp, internal.ErrIO, err)
	}

	buffer := make([]byte, internal.DefaultBufferSize)
	if _, err := io.CopyBuffer(out, in, buffer); err != nil {
		out.Close()
		_ = m.fs.Remove(tmp)
		return internal.NewPathError("copy", src, internal.ErrIO, err)
	}
	if err := out.Close(); err != nil {
		_ = m.fs.Remove(tmp)
		return internal.NewPathError("copy", src, internal.ErrIO, err)
	}

	if err := m.fs.Rename(tmp, target); err != nil {
		_ = m.fs.Remove(tmp)
		return internal.NewPathError("move", tmp, internal.ErrIO, err)
	}
	if err := m.fs.Remove(src); err != nil {
		return internal.NewPathError("remove", src, internal.ErrIO, err)
	}
	return nil
}
