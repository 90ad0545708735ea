package fileops

type settings struct {
	dryRun bool
}

type Option func(*settings)

// WithDryRun 只记录将要执行的操作，不修改文件系统
func WithDryRun(dryRun bool) Option {
	return func(s *settings) { s.dryRun = dryRun }
}

func apply(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
