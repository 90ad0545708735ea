package library

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/classifier"
	"github.com/moyu-x/archyve/pkg/hasher"
	"github.com/moyu-x/archyve/pkg/logger"
	"github.com/moyu-x/archyve/pkg/metadata"
)

// Source 提供 Entry 计算派生属性所需的依赖
type Source struct {
	Fs       afero.Fs
	Hasher   *hasher.Hasher
	Metadata *metadata.Reader
}

// Entry 表示库中的一个文件。
// 身份是路径；判断是否重复只看内容摘要。
// 摘要、大小只在第一次访问时计算并缓存，Entry 不是并发安全的。
type Entry struct {
	path string
	src  *Source

	hashed  bool
	hash    hasher.Digest
	hashErr error

	sized   bool
	size    int64
	sizeErr error
}

// NewEntry 构造时不做任何 I/O
func NewEntry(path string, src *Source) *Entry {
	return &Entry{path: filepath.Clean(path), src: src}
}

func (e *Entry) Path() string {
	return e.path
}

func (e *Entry) String() string {
	return e.path
}

func (e *Entry) MediaType() classifier.MediaType {
	return classifier.Classify(e.path)
}

func (e *Entry) Is(types ...classifier.MediaType) bool {
	m := e.MediaType()
	for _, t := range types {
		if m == t {
			return true
		}
	}
	return false
}

// Hash 返回文件内容摘要，结果（包括错误）在 Entry 生命周期内缓存
func (e *Entry) Hash() (hasher.Digest, error) {
	if !e.hashed {
		e.hash, e.hashErr = e.src.Hasher.Hash(e.path)
		e.hashed = true
	}
	return e.hash, e.hashErr
}

func (e *Entry) Size() (int64, error) {
	if !e.sized {
		info, err := e.src.Fs.Stat(e.path)
		switch {
		case err == nil:
			e.size = info.Size()
		case os.IsNotExist(err):
			e.sizeErr = internal.NewPathError("stat", e.path, internal.ErrNotFound, err)
		default:
			e.sizeErr = internal.NewPathError("stat", e.path, internal.ErrIO, err)
		}
		e.sized = true
	}
	return e.size, e.sizeErr
}

// CreatedAt 图片优先使用 EXIF 拍摄时间，没有时退回文件系统创建时间；
// 其他类型直接使用文件系统创建时间。
// 元数据缺失不会报错，只有文件本身无法 stat 时才返回错误。
func (e *Entry) CreatedAt() (time.Time, error) {
	if e.MediaType() == classifier.Image {
		t, err := e.src.Metadata.CaptureTime(e.path)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, metadata.ErrNoCaptureTime) {
			logger.Get().Debug().Err(err).Str("path", e.path).Msg("读取 EXIF 失败，使用文件创建时间")
		}
	}
	return e.src.Metadata.CreationTime(e.path)
}

// SameContent 两个 Entry 的内容摘要是否一致
func (e *Entry) SameContent(other *Entry) (bool, error) {
	a, err := e.Hash()
	if err != nil {
		return false, err
	}
	b, err := other.Hash()
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// SortBySize 按大小升序排列，大小相同时按路径排列。
// 任何一个文件无法 stat 时返回错误，entries 保持原样。
func SortBySize(entries []*Entry) error {
	sizes := make(map[*Entry]int64, len(entries))
	for _, e := range entries {
		size, err := e.Size()
		if err != nil {
			return err
		}
		sizes[e] = size
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if sizes[a] != sizes[b] {
			return sizes[a] < sizes[b]
		}
		return a.path < b.path
	})
	return nil
}

// SortByCreated 按创建时间升序排列（最早的在前），时间相同时按路径排列
func SortByCreated(entries []*Entry) error {
	times := make(map[*Entry]time.Time, len(entries))
	for _, e := range entries {
		t, err := e.CreatedAt()
		if err != nil {
			return err
		}
		times[e] = t
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !times[a].Equal(times[b]) {
			return times[a].Before(times[b])
		}
		return a.path < b.path
	})
	return nil
}
