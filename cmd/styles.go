package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/moyu-x/archyve/internal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	keepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	dupeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	filePathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147"))

	statsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
)

func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

func renderFailures(failures internal.Failures) string {
	var b strings.Builder
	for _, p := range failures.Paths() {
		b.WriteString(errorStyle.Render(fmt.Sprintf("失败: %s: %v", p, failures[p])))
		b.WriteString("\n")
	}
	return b.String()
}

func renderStats(stats internal.ProcessStats, dirs []string) string {
	elapsed := stats.EndTime.Sub(stats.StartTime).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("处理完成"),
		fmt.Sprintf("扫描目录数: %d", len(dirs)),
	}
	for i, dir := range dirs {
		lines = append(lines, fmt.Sprintf("  [%d] %s", i+1, dir))
	}
	lines = append(lines,
		fmt.Sprintf("总文件数: %d", stats.TotalScanned),
		fmt.Sprintf("重复组: %d", stats.Groups),
		fmt.Sprintf("重复文件: %d 个", stats.Duplicates),
		fmt.Sprintf("  - 已删除: %d 个", stats.Deleted),
		fmt.Sprintf("  - 已移动: %d 个", stats.Moved),
		fmt.Sprintf("失败: %d 个", stats.Failed),
		fmt.Sprintf("释放空间: %s", formatBytes(stats.FreedSpace)),
		fmt.Sprintf("总耗时: %v", elapsed),
	)
	return statsBoxStyle.Render(strings.Join(lines, "\n"))
}
