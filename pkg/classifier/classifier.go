package classifier

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/spf13/afero"

	"github.com/moyu-x/archyve/internal"
)

type MediaType int

const (
	Unknown MediaType = iota
	Image
	Audio
	Video
	Text
)

// All 按固定顺序列出全部媒体类型
var All = []MediaType{Image, Audio, Video, Text, Unknown}

func (m MediaType) String() string {
	switch m {
	case Image:
		return "image"
	case Audio:
		return "audio"
	case Video:
		return "video"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// ParseMediaType 解析 "image"、"videos" 这类名称，大小写不敏感
func ParseMediaType(s string) (MediaType, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	for _, m := range All {
		if m.String() == name {
			return m, nil
		}
	}
	return Unknown, fmt.Errorf("unknown media type %q", s)
}

var extensions = map[string]MediaType{
	"bmp": Image, "cod": Image, "gif": Image, "ico": Image, "ief": Image,
	"jpe": Image, "jpeg": Image, "jpg": Image, "pbm": Image, "pgm": Image,
	"png": Image, "pnm": Image, "ppm": Image, "ras": Image, "rgb": Image,
	"svg": Image, "tif": Image, "tiff": Image, "xbm": Image, "xpm": Image,
	"xwd": Image,

	"3g2": Video, "3gp": Video, "avi": Video, "flv": Video, "h264": Video,
	"m4v": Video, "mkv": Video, "mov": Video, "mp4": Video, "mpeg": Video,
	"mpg": Video, "rm": Video, "swf": Video, "vob": Video, "wmv": Video,

	"aif": Audio, "aifc": Audio, "aiff": Audio, "au": Audio, "flac": Audio,
	"m4a": Audio, "mp3": Audio, "ogg": Audio, "ra": Audio, "wav": Audio,
	"wma": Audio,

	"doc": Text, "docx": Text, "htm": Text, "html": Text, "odt": Text,
	"pdf": Text, "rtf": Text, "txt": Text, "wpd": Text, "wps": Text,
	"xml": Text, "xps": Text,
}

// Extension 返回文件名最后一个 '.' 之后的部分（已转小写）。
// 没有扩展名或只是隐藏文件名（如 ".profile"）时返回空串。
func Extension(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// Classify 只根据扩展名判断媒体类型，不做任何 I/O。
// 扩展名比较不区分大小写：photo.JPG 与 photo.jpg 都是 Image。
func Classify(path string) MediaType {
	ext := Extension(path)
	if ext == "" {
		return Unknown
	}
	if m, ok := extensions[ext]; ok {
		return m
	}
	// 表中没有的扩展名交给 filetype 的扩展名表兜底
	return fromType(filetype.GetType(ext))
}

// Sniff 读取文件头部，根据魔数判断真实的媒体类型
func Sniff(fs afero.Fs, path string) (MediaType, error) {
	file, err := fs.Open(path)
	if err != nil {
		return Unknown, internal.NewPathError("sniff", path, internal.ErrIO, err)
	}
	defer file.Close()

	buffer := make([]byte, internal.SniffSize)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, internal.NewPathError("sniff", path, internal.ErrIO, err)
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil {
		return Unknown, nil
	}
	if m := fromType(kind); m != Unknown {
		return m, nil
	}
	// filetype 没有纯文本的魔数，按扩展名表里的文档类扩展名补充
	if m, ok := extensions[kind.Extension]; ok {
		return m, nil
	}
	return Unknown, nil
}

func fromType(kind types.Type) MediaType {
	if kind == types.Unknown {
		return Unknown
	}
	switch kind.MIME.Type {
	case "image":
		return Image
	case "audio":
		return Audio
	case "video":
		return Video
	}
	return Unknown
}
