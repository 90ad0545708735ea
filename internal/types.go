package internal

import "time"

// 操作模式
type OperationMode string

const (
	ModeReport OperationMode = "report"
	ModeDelete OperationMode = "delete"
	ModeMove   OperationMode = "move"
)

// ParseOperationMode 解析命令行或配置中的模式字符串
func ParseOperationMode(s string) (OperationMode, error) {
	switch OperationMode(s) {
	case ModeReport, ModeDelete, ModeMove:
		return OperationMode(s), nil
	default:
		return "", &UsageError{Message: "unknown mode " + s + " (want report, delete or move)"}
	}
}

// 处理统计
type ProcessStats struct {
	TotalScanned int
	Groups       int
	Duplicates   int
	Deleted      int
	Moved        int
	Failed       int
	FreedSpace   int64
	StartTime    time.Time
	EndTime      time.Time
}
