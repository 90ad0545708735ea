package library

import (
	"iter"
	"strings"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/classifier"
)

// MatchMode 决定 Search 的多个关键字是任一匹配还是全部匹配
type MatchMode int

const (
	MatchAny MatchMode = iota
	MatchAll
)

// Filter 保留 keep 返回 true 的 Entry，错误原样透传
func Filter(seq iter.Seq2[*Entry, error], keep func(*Entry) bool) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for e, err := range seq {
			if err == nil && !keep(e) {
				continue
			}
			if !yield(e, err) {
				return
			}
		}
	}
}

func OfType(seq iter.Seq2[*Entry, error], types ...classifier.MediaType) iter.Seq2[*Entry, error] {
	return Filter(seq, func(e *Entry) bool { return e.Is(types...) })
}

// Concat 依次连接多个序列
func Concat(seqs ...iter.Seq2[*Entry, error]) iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		for _, seq := range seqs {
			for e, err := range seq {
				if !yield(e, err) {
					return
				}
			}
		}
	}
}

// Collect 把序列展开为切片，错误按路径收集
func Collect(seq iter.Seq2[*Entry, error]) ([]*Entry, internal.Failures) {
	var entries []*Entry
	failed := internal.Failures{}
	for e, err := range seq {
		if err != nil {
			failed.Add(errorPath(err), err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, failed
}

func (l *Library) Images() iter.Seq2[*Entry, error] {
	return OfType(l.Entries(), classifier.Image)
}

func (l *Library) Audios() iter.Seq2[*Entry, error] {
	return OfType(l.Entries(), classifier.Audio)
}

func (l *Library) Videos() iter.Seq2[*Entry, error] {
	return OfType(l.Entries(), classifier.Video)
}

func (l *Library) Texts() iter.Seq2[*Entry, error] {
	return OfType(l.Entries(), classifier.Text)
}

func (l *Library) Unknowns() iter.Seq2[*Entry, error] {
	return OfType(l.Entries(), classifier.Unknown)
}

// Search 返回路径包含关键字的 Entry，区分大小写。
// 没有关键字时 MatchAll 匹配全部，MatchAny 不匹配任何文件。
func (l *Library) Search(mode MatchMode, terms ...string) iter.Seq2[*Entry, error] {
	return Filter(l.Entries(), func(e *Entry) bool {
		return Matches(e.Path(), mode, terms...)
	})
}

func Matches(path string, mode MatchMode, terms ...string) bool {
	if mode == MatchAll {
		for _, term := range terms {
			if !strings.Contains(path, term) {
				return false
			}
		}
		return true
	}
	for _, term := range terms {
		if strings.Contains(path, term) {
			return true
		}
	}
	return false
}
