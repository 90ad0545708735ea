package internal

const (
	// 配置文件默认目录
	DefaultConfigDir = "$HOME/.archyve"

	// 默认哈希算法
	DefaultHashAlgorithm = "xxhash"

	// 读取文件时的缓冲区大小
	DefaultBufferSize = 32 * 1024

	// 内容嗅探读取的字节数
	SniffSize = 8192

	// 并行哈希的默认工作线程数，1 表示顺序执行
	DefaultWorkers = 1
)
