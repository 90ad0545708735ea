package classifier

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want MediaType
	}{
		{"/media/image.jpg", Image},
		{"/media/image.png", Image},
		{"/media/audio.wav", Audio},
		{"/media/audio.mp3", Audio},
		{"/media/video.mp4", Video},
		{"/media/video.mpeg", Video},
		{"/media/notes.txt", Text},
		{"/media/report.pdf", Text},
		{"/media/unknown", Unknown},
		{"/media/unknown.1234", Unknown},
		{"/media/.profile", Unknown},
		{"/media/trailing.", Unknown},
		{"/media/archive.tar.gz", Unknown},
		{"relative/dir.with.dots/clip.mkv", Video},
	}

	for _, tt := range tests {
		if got := Classify(tt.path); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	pairs := [][2]string{
		{"photo.JPG", "photo.jpg"},
		{"clip.MOV", "clip.mov"},
		{"song.Mp3", "song.mp3"},
		{"README.TXT", "readme.txt"},
	}

	for _, p := range pairs {
		upper, lower := Classify(p[0]), Classify(p[1])
		if upper != lower {
			t.Errorf("Classify(%q) = %v, Classify(%q) = %v; want equal", p[0], upper, p[1], lower)
		}
		if upper == Unknown {
			t.Errorf("Classify(%q) = Unknown", p[0])
		}
	}
}

func TestClassify_FallbackTable(t *testing.T) {
	// webp 不在静态表中，由 filetype 的扩展名表补充
	if got := Classify("/media/sticker.webp"); got != Image {
		t.Errorf("Classify(webp) = %v, want %v", got, Image)
	}
}

func TestClassify_PureFunctionOfExtension(t *testing.T) {
	paths := []string{"/a/x.flac", "/b/c/y.flac", "z.flac", "/tmp/.hidden/w.flac"}
	for _, p := range paths {
		if got := Classify(p); got != Audio {
			t.Errorf("Classify(%q) = %v, want %v", p, got, Audio)
		}
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in      string
		want    MediaType
		wantErr bool
	}{
		{"image", Image, false},
		{"Images", Image, false},
		{"videos", Video, false},
		{"audio", Audio, false},
		{"text", Text, false},
		{"unknowns", Unknown, false},
		{"document", Unknown, true},
	}

	for _, tt := range tests {
		got, err := ParseMediaType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMediaType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMediaType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMediaType_String(t *testing.T) {
	for _, m := range All {
		parsed, err := ParseMediaType(m.String())
		if err != nil {
			t.Fatalf("ParseMediaType(%q) error = %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("ParseMediaType(%q) = %v, want %v", m.String(), parsed, m)
		}
	}
}

func TestSniff(t *testing.T) {
	fs := afero.NewMemMapFs()

	testFiles := map[string]string{
		"real.jpg":      "\xff\xd8\xff\xe0\x00\x10JFIF",
		"renamed.txt":   "\x89PNG\r\n\x1a\n",
		"song.bin":      "ID3\x04\x00\x00\x00\x00\x00\x00",
		"doc.dat":       "%PDF-1.4",
		"plain.unknown": "random content",
		"empty.jpg":     "",
	}
	for name, content := range testFiles {
		if err := afero.WriteFile(fs, filepath.Join("/src", name), []byte(content), 0644); err != nil {
			t.Fatalf("创建测试文件失败: %v", err)
		}
	}

	want := map[string]MediaType{
		"real.jpg":      Image,
		"renamed.txt":   Image,
		"song.bin":      Audio,
		"doc.dat":       Text,
		"plain.unknown": Unknown,
		"empty.jpg":     Unknown,
	}

	for name, wantType := range want {
		got, err := Sniff(fs, filepath.Join("/src", name))
		if err != nil {
			t.Errorf("Sniff(%s) error = %v", name, err)
			continue
		}
		if got != wantType {
			t.Errorf("Sniff(%s) = %v, want %v", name, got, wantType)
		}
	}

	if _, err := Sniff(fs, "/src/missing.jpg"); err == nil {
		t.Error("Expected error for missing file")
	}
}
