package kar

import "log/slog"

// packConfig holds configuration for Pack.
type packConfig struct {
	workers  int
	progress ProgressFunc
	logger   *slog.Logger
}

// PackOption configures a Pack operation.
type PackOption func(*packConfig)

// PackWithWorkers sets the number of parallel file readers. Values
// below 2 select the sequential writer. The parallel engine restores
// enumeration order before committing bytes, so its output is
// byte-identical to the sequential writer's.
func PackWithWorkers(n int) PackOption {
	return func(c *packConfig) {
		c.workers = n
	}
}

// PackWithProgress registers a callback for per-file progress updates.
func PackWithProgress(fn ProgressFunc) PackOption {
	return func(c *packConfig) {
		c.progress = fn
	}
}

// PackWithLogger sets the logger for debug output. Nil discards.
func PackWithLogger(l *slog.Logger) PackOption {
	return func(c *packConfig) {
		c.logger = l
	}
}

func (c *packConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

func (c *packConfig) report(ev ProgressEvent) {
	if c.progress != nil {
		c.progress(ev)
	}
}
