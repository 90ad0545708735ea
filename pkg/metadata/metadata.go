// Package metadata 提供文件的时间信息：图片的 EXIF 拍摄时间与文件系统创建时间。
package metadata

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
)

// exifLayout EXIF 日期字段的格式
const exifLayout = "2006:01:02 15:04:05"

var ErrNoCaptureTime = errors.New("no capture time in metadata")

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// CaptureTime 读取图片 EXIF 中的 DateTimeOriginal。
// 文件没有 EXIF、没有该字段或字段无法解析时返回 ErrNoCaptureTime。
func (r *Reader) CaptureTime(path string) (time.Time, error) {
	file, err := r.fs.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, ErrNoCaptureTime
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, ErrNoCaptureTime
	}

	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, ErrNoCaptureTime
	}

	t, err := time.ParseInLocation(exifLayout, strings.TrimRight(strings.TrimSpace(value), "\x00"), time.Local)
	if err != nil || t.IsZero() {
		return time.Time{}, ErrNoCaptureTime
	}
	return t, nil
}

// CreationTime 返回文件系统记录的创建时间。
// 真实文件系统上优先取 birth time，拿不到时依次退回 inode 变更时间与修改时间；
// 其他 afero 文件系统直接使用修改时间。
func (r *Reader) CreationTime(path string) (time.Time, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, internal.NewPathError("stat", path, internal.ErrNotFound, err)
		}
		return time.Time{}, internal.NewPathError("stat", path, internal.ErrIO, err)
	}

	if _, ok := r.fs.(*afero.OsFs); ok {
		if t, ok := birthTime(path); ok {
			return t, nil
		}
	}
	return info.ModTime(), nil
}
