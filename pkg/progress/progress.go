package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/moyu-x/archyve/pkg/logger"
)

// Reporter 接收长时间任务的进度，不影响任务结果。
// total 为 0 表示总数未知，实现可以使用自己预先设置的总数。
type Reporter interface {
	Report(stage string, current, total int)
}

type Nop struct{}

func (Nop) Report(string, int, int) {}

// LogReporter 每隔 every 步输出一条日志
type LogReporter struct {
	mu    sync.Mutex
	total int
	every int
}

func NewLogReporter(total, every int) *LogReporter {
	if every < 1 {
		every = 1
	}
	return &LogReporter{total: total, every: every}
}

func (r *LogReporter) Report(stage string, current, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total == 0 {
		total = r.total
	}
	if current%r.every != 0 && current != total {
		return
	}

	event := logger.Get().Info().Str("stage", stage).Int("current", current)
	if total > 0 {
		event = event.Int("total", total).Float64("percentage", float64(current)/float64(total)*100)
	}
	event.Msg("处理进度")
}

// BarReporter 在终端上原地刷新一条进度条
type BarReporter struct {
	mu       sync.Mutex
	out      io.Writer
	bar      progress.Model
	total    int
	interval time.Duration
	last     time.Time
}

func NewBarReporter(out io.Writer, total int) *BarReporter {
	return &BarReporter{
		out:      out,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total:    total,
		interval: 100 * time.Millisecond,
	}
}

func (r *BarReporter) Report(stage string, current, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total == 0 {
		total = r.total
	}
	if total <= 0 {
		return
	}

	finished := current >= total
	if !finished && time.Since(r.last) < r.interval {
		return
	}
	r.last = time.Now()

	fmt.Fprintf(r.out, "\r%-6s %s %d/%d", stage, r.bar.ViewAs(Percent(current, total)), current, total)
	if finished {
		fmt.Fprintln(r.out)
	}
}

// Percent 返回 [0, 1] 范围内的完成比例
func Percent(current, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(current) / float64(total)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}
