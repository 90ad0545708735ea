package hasher

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/logger"
)

// Digest 文件内容摘要的十六进制表示，可直接用 == 比较
type Digest string

func (d Digest) Short() string {
	if len(d) > 12 {
		return string(d[:12])
	}
	return string(d)
}

// Algorithm 描述一个摘要算法
type Algorithm struct {
	Name string
	Size int
	New  func() hash.Hash
}

var algorithms = map[string]*Algorithm{
	"xxhash": {Name: "xxhash", Size: 8, New: func() hash.Hash { return xxhash.New() }},
	"md5":    {Name: "md5", Size: md5.Size, New: md5.New},
	"sha256": {Name: "sha256", Size: sha256.Size, New: sha256.New},
}

// Lookup 按名称查找算法，名称大小写不敏感
func Lookup(name string) (*Algorithm, error) {
	algo, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return algo, nil
}

// Names 返回所有支持的算法名称
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Hasher struct {
	fs         afero.Fs
	algo       *Algorithm
	bufferSize int
}

func New(fs afero.Fs, algorithm string) (*Hasher, error) {
	if algorithm == "" {
		algorithm = internal.DefaultHashAlgorithm
	}
	algo, err := Lookup(algorithm)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		fs:         fs,
		algo:       algo,
		bufferSize: internal.DefaultBufferSize,
	}, nil
}

func (h *Hasher) Algorithm() string {
	return h.algo.Name
}

// Hash 以固定大小的缓冲区流式读取整个文件并计算摘要。
// 文件不存在返回 ErrNotFound，其他打开或读取失败返回 ErrIO。
func (h *Hasher) Hash(filePath string) (Digest, error) {
	logger.Get().Trace().Str("path", filePath).Msg("计算文件哈希")

	file, err := h.fs.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", internal.NewPathError("hash", filePath, internal.ErrNotFound, err)
		}
		return "", internal.NewPathError("hash", filePath, internal.ErrIO, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", internal.NewPathError("hash", filePath, internal.ErrIO, err)
	}
	if info.IsDir() {
		return "", internal.NewPathError("hash", filePath, internal.ErrIsADirectory, nil)
	}

	digest := h.algo.New()
	buf := make([]byte, h.bufferSize)
	if _, err := io.CopyBuffer(digest, file, buf); err != nil {
		return "", internal.NewPathError("hash", filePath, internal.ErrIO, err)
	}

	return Digest(hex.EncodeToString(digest.Sum(nil))), nil
}
