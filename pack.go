package kar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/meigma/kar/internal/checksum"
	"github.com/meigma/kar/internal/format"
)

// Pack serializes the regular files under sourceDir into a single
// archive at archivePath.
//
// The source tree is enumerated fully before any bytes are written,
// because the global header carries the final entry count. Entries are
// written in fs.WalkDir lexical order. Symlinks and other non-regular
// files are skipped.
//
// The archive is written to a temporary file next to archivePath and
// renamed into place on success, so a failing pack never leaves a
// partial archive at the destination.
//
// The context can be used for cancellation of long-running packs.
func Pack(ctx context.Context, sourceDir, archivePath string, opts ...PackOption) (*Summary, error) {
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSource, sourceDir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSource, sourceDir)
	}

	root, err := os.OpenRoot(sourceDir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	files, err := enumerate(ctx, root, &cfg)
	if err != nil {
		return nil, err
	}
	if uint64(len(files)) > math.MaxUint32 {
		return nil, fmt.Errorf("kar: too many files: %d", len(files))
	}

	sum, err := writeArchiveAtomic(ctx, root, files, archivePath, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.log().Debug("archive created", "path", archivePath, "files", sum.Files, "bytes", sum.Bytes)
	return sum, nil
}

// fileMeta is one regular file found during enumeration. Content is
// read later, at write time.
type fileMeta struct {
	path    string // slash-separated, relative to the source root
	mode    fs.FileMode
	modTime time.Time
}

// enumerate walks the source tree and collects every regular file.
func enumerate(ctx context.Context, root *os.Root, cfg *packConfig) ([]fileMeta, error) {
	var files []fileMeta
	err := fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			cfg.log().Debug("skipping non-regular file", "path", path)
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, fileMeta{path: path, mode: info.Mode(), modTime: info.ModTime()})
		cfg.report(ProgressEvent{Stage: StageEnumerating, Path: path, Index: len(files)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// writeArchiveAtomic writes the archive to a temp file in archivePath's
// directory and renames it into place on success.
func writeArchiveAtomic(ctx context.Context, root *os.Root, files []fileMeta, archivePath string, cfg *packConfig) (*Summary, error) {
	tmp, err := os.CreateTemp(filepath.Dir(archivePath), ".kar-*")
	if err != nil {
		return nil, fmt.Errorf("create archive %s: %w", archivePath, err)
	}
	tmpPath := tmp.Name()

	sum, err := writeArchive(ctx, root, files, tmp, cfg)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}
	return sum, nil
}

// writeArchive commits the global header and all entries to w.
func writeArchive(ctx context.Context, root *os.Root, files []fileMeta, w io.Writer, cfg *packConfig) (*Summary, error) {
	bw := bufio.NewWriterSize(w, 256<<10)

	hdr := format.Header{
		Version:    format.Version,
		EntryCount: uint32(len(files)),
		CreatedAt:  uint64(time.Now().Unix()),
	}
	if _, err := bw.Write(hdr.AppendBinary(nil)); err != nil {
		return nil, err
	}

	var written uint64
	var err error
	if cfg.workers > 1 && len(files) > 1 {
		written, err = packParallel(ctx, root, files, bw, cfg)
	} else {
		written, err = packSequential(ctx, root, files, bw, cfg)
	}
	if err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return &Summary{Files: len(files), Bytes: written}, nil
}

func packSequential(ctx context.Context, root *os.Root, files []fileMeta, w io.Writer, cfg *packConfig) (uint64, error) {
	var written uint64
	scratch := make([]byte, 0, format.EntryHeaderSize)
	for i, fm := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		hdr, content, err := buildEntry(root, fm)
		if err != nil {
			return written, err
		}
		if err := writeEntry(w, scratch, hdr, fm.path, content); err != nil {
			return written, err
		}
		written += hdr.ContentSize
		cfg.report(ProgressEvent{Stage: StagePacking, Path: fm.path, Index: i + 1, Total: len(files)})
		cfg.log().Debug("added file", "path", fm.path, "size", hdr.ContentSize)
	}
	return written, nil
}

// buildEntry reads one file's content and fills in its entry header.
// A file that disappeared between enumeration and read fails the whole
// pack; the temp-file write keeps the destination clean.
func buildEntry(root *os.Root, fm fileMeta) (format.EntryHeader, []byte, error) {
	content, err := fs.ReadFile(root.FS(), fm.path)
	if err != nil {
		return format.EntryHeader{}, nil, err
	}
	// The wire field is unsigned; a pre-1970 mtime clamps to the epoch
	// rather than wrapping into the far future.
	mtime := fm.modTime.Unix()
	if mtime < 0 {
		mtime = 0
	}
	return format.EntryHeader{
		PathLength:  uint32(len(fm.path)),
		ContentSize: uint64(len(content)),
		ModTime:     uint64(mtime),
		Checksum:    checksum.Sum(content),
		Perm:        uint16(fm.mode.Perm()),
	}, content, nil
}

// writeEntry appends header, path bytes, then content bytes to w.
func writeEntry(w io.Writer, scratch []byte, hdr format.EntryHeader, path string, content []byte) error {
	if _, err := w.Write(hdr.AppendBinary(scratch[:0])); err != nil {
		return err
	}
	if _, err := io.WriteString(w, path); err != nil {
		return err
	}
	_, err := w.Write(content)
	return err
}
