package kar

import "log/slog"

// unpackConfig holds configuration for Unpack.
type unpackConfig struct {
	progress      ProgressFunc
	logger        *slog.Logger
	preserveTimes bool
}

// UnpackOption configures an Unpack operation.
type UnpackOption func(*unpackConfig)

// UnpackWithProgress registers a callback for per-file progress updates.
func UnpackWithProgress(fn ProgressFunc) UnpackOption {
	return func(c *unpackConfig) {
		c.progress = fn
	}
}

// UnpackWithLogger sets the logger for debug output. Nil discards.
func UnpackWithLogger(l *slog.Logger) UnpackOption {
	return func(c *unpackConfig) {
		c.logger = l
	}
}

// UnpackWithPreserveTimes restores each file's modification time from
// the archive. By default extracted files carry the current time.
func UnpackWithPreserveTimes(preserve bool) UnpackOption {
	return func(c *unpackConfig) {
		c.preserveTimes = preserve
	}
}

func (c *unpackConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

func (c *unpackConfig) report(ev ProgressEvent) {
	if c.progress != nil {
		c.progress(ev)
	}
}
