package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("no such file or directory")
	ErrNotADirectory = errors.New("not a directory")
	ErrIsADirectory  = errors.New("is a directory")
	ErrNotAFileOrDir = errors.New("neither a regular file nor a directory")
	ErrIO            = errors.New("i/o error")
	ErrNameCollision = errors.New("name collision")
)

// PathError 记录失败的操作与路径。
// errors.Is 同时匹配分类错误 Kind 与底层错误 Err。
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewPathError 构造 PathError
func NewPathError(op, path string, kind, err error) *PathError {
	return &PathError{Op: op, Path: path, Kind: kind, Err: err}
}

// Failures 批量操作中按路径记录的失败原因
type Failures map[string]error

// Add 记录一个失败；同一路径只保留第一个原因
func (f Failures) Add(path string, err error) {
	if _, ok := f[path]; !ok {
		f[path] = err
	}
}

// Paths 返回排序后的失败路径
func (f Failures) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Err 没有失败时返回 nil
func (f Failures) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &BatchError{Failures: f}
}

// BatchError 把 Failures 包装成 error
type BatchError struct {
	Failures Failures
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d path(s) failed", len(e.Failures))
	for _, p := range e.Failures.Paths() {
		fmt.Fprintf(&b, "\n  %s: %v", p, e.Failures[p])
	}
	return b.String()
}

// UsageError 命令行参数或配置值非法
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %s", e.Message)
}
