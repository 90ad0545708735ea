package hasher

import (
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/moyu-x/archyve/pkg/logger"
)

type Task struct {
	Index int
	Path  string
}

type Result struct {
	Index int
	Path  string
	Hash  Digest
	Err   error
}

// Pool 使用 ants 协程池并发计算哈希。
// 结果在互斥锁保护下收集，Wait 按 Index 排序后返回。
type Pool struct {
	hasher  *Hasher
	pool    *ants.Pool
	wg      sync.WaitGroup
	mu      sync.Mutex
	results []Result
}

func NewPool(h *Hasher, workers int) (*Pool, error) {
	if workers < 1 {
		workers = 1
	}
	logger.Get().Debug().Msgf("创建哈希计算池，工作线程数: %d", workers)

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &Pool{hasher: h, pool: pool}, nil
}

// Submit 提交一个任务；池满时阻塞直到有空闲 worker
func (p *Pool) Submit(task Task) error {
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		digest, err := p.hasher.Hash(task.Path)

		p.mu.Lock()
		p.results = append(p.results, Result{
			Index: task.Index,
			Path:  task.Path,
			Hash:  digest,
			Err:   err,
		})
		p.mu.Unlock()
	})
	if err != nil {
		p.wg.Done()
		return err
	}
	return nil
}

// Wait 等待已提交的任务全部完成，返回按 Index 排序的结果并清空内部缓存
func (p *Pool) Wait() []Result {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	results := p.results
	p.results = nil
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

func (p *Pool) Release() {
	p.pool.Release()
}
