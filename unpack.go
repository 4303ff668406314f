package kar

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/meigma/kar/internal/checksum"
	"github.com/meigma/kar/internal/format"
)

// Unpack reads the archive at archivePath and materializes its entries
// under targetDir, restoring permission bits.
//
// Every entry's CRC-32 is recomputed over the content bytes and
// compared to the stored value. A mismatch aborts the whole operation
// with a *ChecksumError: corruption in the stream makes every
// subsequent offset suspect, so no later entry is extracted. Entries
// extracted before the failure remain on disk; callers needing
// atomicity should extract into a staging directory and rename.
//
// Extraction is confined to targetDir via os.Root, so a crafted path
// cannot escape it.
func Unpack(ctx context.Context, archivePath, targetDir string, opts ...UnpackOption) (*Summary, error) {
	cfg := unpackConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r, err := openArchive(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("create target directory: %w", err)
	}
	root, err := os.OpenRoot(targetDir)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	sum := &Summary{}
	total := int(r.header.EntryCount)
	buf := make([]byte, 32*1024)
	for i := range total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, path, err := r.next()
		if err != nil {
			return nil, err
		}
		if err := extractEntry(ctx, root, r, hdr, path, buf, &cfg); err != nil {
			return nil, err
		}
		sum.Files++
		sum.Bytes += hdr.ContentSize
		cfg.report(ProgressEvent{Stage: StageExtracting, Path: path, Index: i + 1, Total: total})
	}
	return sum, nil
}

// extractEntry materializes one entry under root. Content is streamed
// through the checksum digest into the target file; on a mismatch the
// just-written file is removed before the operation aborts.
func extractEntry(ctx context.Context, root *os.Root, r *archiveReader, hdr format.EntryHeader, path string, buf []byte, cfg *unpackConfig) error {
	rel := filepath.FromSlash(path)
	if dir := filepath.Dir(rel); dir != "." {
		if err := root.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	mode := fs.FileMode(hdr.Perm) & fs.ModePerm
	f, err := root.OpenFile(rel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}

	digest := checksum.New()
	_, err = copyWithContext(ctx, f, io.TeeReader(r.contentReader(hdr.ContentSize), digest), buf)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		removePartial(root, rel, path, cfg)
		return fmt.Errorf("extract %s: %w", path, err)
	}

	if got := digest.Sum32(); got != hdr.Checksum {
		removePartial(root, rel, path, cfg)
		return &ChecksumError{Path: path, Want: hdr.Checksum, Got: got}
	}

	// OpenFile's mode is subject to the umask; restore the bits exactly.
	if err := root.Chmod(rel, mode); err != nil {
		return fmt.Errorf("restore permissions %s: %w", path, err)
	}
	if cfg.preserveTimes {
		mtime := time.Unix(int64(hdr.ModTime), 0)
		if err := root.Chtimes(rel, time.Time{}, mtime); err != nil {
			return fmt.Errorf("restore times %s: %w", path, err)
		}
	}
	cfg.log().Debug("extracted", "path", path, "size", hdr.ContentSize)
	return nil
}

// removePartial deletes a partially written or corrupt file while the
// extraction aborts. The abort error is already on its way to the
// caller, so a failed removal is only logged.
func removePartial(root *os.Root, rel, path string, cfg *unpackConfig) {
	if err := root.Remove(rel); err != nil {
		cfg.log().Debug("could not remove partial file", "path", path, "error", err)
	}
}
