package library

import (
	"iter"

	"github.com/moyu-x/archyve/internal"
	"github.com/moyu-x/archyve/pkg/hasher"
	"github.com/moyu-x/archyve/pkg/logger"
)

// Group 内容摘要相同的一组文件，至少两个
type Group struct {
	Hash    hasher.Digest
	Entries []*Entry
}

// Paths 返回组内所有文件路径
func (g Group) Paths() []string {
	paths := make([]string, len(g.Entries))
	for i, e := range g.Entries {
		paths[i] = e.Path()
	}
	return paths
}

// buckets 按摘要分桶，并记录每个摘要第一次出现的顺序
type buckets struct {
	order []hasher.Digest
	byKey map[hasher.Digest][]*Entry
}

func newBuckets() *buckets {
	return &buckets{byKey: make(map[hasher.Digest][]*Entry)}
}

func (b *buckets) add(digest hasher.Digest, e *Entry) {
	if _, ok := b.byKey[digest]; !ok {
		b.order = append(b.order, digest)
	}
	b.byKey[digest] = append(b.byKey[digest], e)
}

// groups 只返回文件数不少于 2 的桶，按摘要首次出现的顺序排列
func (b *buckets) groups() []Group {
	var result []Group
	for _, digest := range b.order {
		entries := b.byKey[digest]
		if len(entries) < 2 {
			continue
		}
		result = append(result, Group{Hash: digest, Entries: entries})
	}
	return result
}

// Duplicates 按内容摘要对候选文件分组，返回所有重复组。
// candidates 为 nil 时使用库中的全部文件。
// 单个文件的哈希失败或目录读取失败按路径记录在 Failures 中，不会中断整个批次。
// 同一路径在候选序列中出现多次时只计算一次。
func (l *Library) Duplicates(candidates iter.Seq2[*Entry, error]) ([]Group, internal.Failures) {
	if candidates == nil {
		candidates = l.Entries()
	}

	failures := internal.Failures{}
	var groups []Group
	if l.workers > 1 {
		groups = l.duplicatesParallel(candidates, failures)
	} else {
		groups = l.duplicatesSequential(candidates, failures)
	}

	logger.Get().Info().
		Int("groups", len(groups)).
		Int("failed", len(failures)).
		Msg("重复文件分组完成")
	return groups, failures
}

func (l *Library) duplicatesSequential(candidates iter.Seq2[*Entry, error], failures internal.Failures) []Group {
	b := newBuckets()
	seen := make(map[string]bool)
	done := 0

	for entry, err := range candidates {
		if err != nil {
			failures.Add(errorPath(err), err)
			continue
		}
		if seen[entry.Path()] {
			continue
		}
		seen[entry.Path()] = true

		digest, err := entry.Hash()
		done++
		l.reporter.Report("hash", done, 0)
		if err != nil {
			logger.Get().Warn().Err(err).Str("path", entry.Path()).Msg("计算哈希失败")
			failures.Add(entry.Path(), err)
			continue
		}
		logger.Get().Debug().Str("path", entry.Path()).Str("hash", string(digest)).Msg("文件哈希")
		b.add(digest, entry)
	}

	return b.groups()
}

// duplicatesParallel 先按顺序收集候选文件并编号，哈希交给协程池并发计算，
// 再按编号顺序分桶，因此输出与顺序执行相同。
func (l *Library) duplicatesParallel(candidates iter.Seq2[*Entry, error], failures internal.Failures) []Group {
	pool, err := hasher.NewPool(l.src.Hasher, l.workers)
	if err != nil {
		logger.Get().Warn().Err(err).Msg("创建协程池失败，改为顺序计算")
		return l.duplicatesSequential(candidates, failures)
	}
	defer pool.Release()

	var entries []*Entry
	seen := make(map[string]bool)
	for entry, err := range candidates {
		if err != nil {
			failures.Add(errorPath(err), err)
			continue
		}
		if seen[entry.Path()] {
			continue
		}
		seen[entry.Path()] = true

		if entry.hashed {
			// 已缓存的摘要不必重算，但仍按原顺序参与分组
			entries = append(entries, entry)
			continue
		}
		if err := pool.Submit(hasher.Task{Index: len(entries), Path: entry.Path()}); err != nil {
			failures.Add(entry.Path(), err)
			continue
		}
		entries = append(entries, entry)
	}

	results := pool.Wait()
	for _, r := range results {
		e := entries[r.Index]
		e.hash, e.hashErr, e.hashed = r.Hash, r.Err, true
	}

	b := newBuckets()
	for i, entry := range entries {
		l.reporter.Report("hash", i+1, len(entries))
		digest, err := entry.Hash()
		if err != nil {
			logger.Get().Warn().Err(err).Str("path", entry.Path()).Msg("计算哈希失败")
			failures.Add(entry.Path(), err)
			continue
		}
		b.add(digest, entry)
	}

	return b.groups()
}
