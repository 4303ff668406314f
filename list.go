package kar

import (
	"context"
	"io/fs"
	"log/slog"
	"time"
)

// listConfig holds configuration for List.
type listConfig struct {
	logger *slog.Logger
}

// ListOption configures a List operation.
type ListOption func(*listConfig)

// ListWithLogger sets the logger for debug output. Nil discards.
func ListWithLogger(l *slog.Logger) ListOption {
	return func(c *listConfig) {
		c.logger = l
	}
}

func (c *listConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// List reads the archive's global header and entry headers without
// touching content bytes, which are skipped with forward seeks. No
// checksum verification occurs: List is a fast inspection path, not a
// validity check. It never mutates the archive.
func List(ctx context.Context, archivePath string, opts ...ListOption) (*Info, error) {
	cfg := listConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	total := int(r.header.EntryCount)
	info := &Info{
		Path:      archivePath,
		Version:   r.header.Version,
		CreatedAt: time.Unix(int64(r.header.CreatedAt), 0),
		// Cap the initial allocation; entry_count is attacker-controlled.
		Entries: make([]Entry, 0, min(total, 4096)),
	}
	for range total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, path, err := r.next()
		if err != nil {
			return nil, err
		}
		if err := r.skip(hdr.ContentSize); err != nil {
			return nil, err
		}
		info.Entries = append(info.Entries, Entry{
			Path:     path,
			Size:     hdr.ContentSize,
			ModTime:  time.Unix(int64(hdr.ModTime), 0),
			Mode:     fs.FileMode(hdr.Perm) & fs.ModePerm,
			Checksum: hdr.Checksum,
		})
		cfg.log().Debug("listed entry", "path", path, "size", hdr.ContentSize)
	}
	return info, nil
}
