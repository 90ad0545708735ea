package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
)

// tiffWithDateTimeOriginal 构造一个最小的 little-endian TIFF：
// IFD0 只有 ExifIFDPointer，Exif IFD 只有 DateTimeOriginal。
func tiffWithDateTimeOriginal(value string) []byte {
	le := binary.LittleEndian
	var buf bytes.Buffer

	buf.WriteString("II")
	binary.Write(&buf, le, uint16(42))
	binary.Write(&buf, le, uint32(8))

	// IFD0 @8
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(0x8769)) // ExifIFDPointer
	binary.Write(&buf, le, uint16(4))      // LONG
	binary.Write(&buf, le, uint32(1))
	binary.Write(&buf, le, uint32(26))
	binary.Write(&buf, le, uint32(0))

	// Exif IFD @26
	data := append([]byte(value), 0)
	binary.Write(&buf, le, uint16(1))
	binary.Write(&buf, le, uint16(0x9003)) // DateTimeOriginal
	binary.Write(&buf, le, uint16(2))      // ASCII
	binary.Write(&buf, le, uint32(len(data)))
	binary.Write(&buf, le, uint32(44))
	binary.Write(&buf, le, uint32(0))

	// 数据 @44
	buf.Write(data)
	return buf.Bytes()
}

func TestCaptureTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/photos/scan.tif", tiffWithDateTimeOriginal("2001:02:03 04:05:06"), 0644); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}

	got, err := NewReader(fs).CaptureTime("/photos/scan.tif")
	if err != nil {
		t.Fatalf("CaptureTime() error = %v", err)
	}

	want := time.Date(2001, 2, 3, 4, 5, 6, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("CaptureTime() = %v, want %v", got, want)
	}
}

func TestCaptureTime_NoExif(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string][]byte{
		"/photos/plain.jpg": []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"),
		"/photos/empty.png": nil,
		"/photos/bad.tif":   tiffWithDateTimeOriginal("not a date"),
	}
	for name, content := range files {
		if err := afero.WriteFile(fs, name, content, 0644); err != nil {
			t.Fatalf("创建测试文件失败: %v", err)
		}
	}

	r := NewReader(fs)
	for name := range files {
		if _, err := r.CaptureTime(name); !errors.Is(err, ErrNoCaptureTime) {
			t.Errorf("CaptureTime(%s) error = %v, want ErrNoCaptureTime", name, err)
		}
	}

	if _, err := r.CaptureTime("/photos/missing.jpg"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCreationTime_MemFsUsesModTime(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/docs/a.txt", []byte("a"), 0644); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}

	stamp := time.Date(2010, 5, 6, 7, 8, 9, 0, time.UTC)
	if err := fs.Chtimes("/docs/a.txt", stamp, stamp); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	got, err := NewReader(fs).CreationTime("/docs/a.txt")
	if err != nil {
		t.Fatalf("CreationTime() error = %v", err)
	}
	if !got.Equal(stamp) {
		t.Errorf("CreationTime() = %v, want %v", got, stamp)
	}
}

func TestCreationTime_OsFs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	before := time.Now().Add(-time.Minute)
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}

	got, err := NewReader(afero.NewOsFs()).CreationTime(path)
	if err != nil {
		t.Fatalf("CreationTime() error = %v", err)
	}
	if got.Before(before) || got.After(time.Now().Add(time.Minute)) {
		t.Errorf("CreationTime() = %v, expected close to now", got)
	}
}

func TestCreationTime_Missing(t *testing.T) {
	_, err := NewReader(afero.NewMemMapFs()).CreationTime("/nope")
	if !errors.Is(err, internal.ErrNotFound) {
		t.Errorf("CreationTime() error = %v, want ErrNotFound", err)
	}
}
