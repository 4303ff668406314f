package kar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/meigma/kar/internal/format"
)

// archiveReader performs the forward-only sequential scan shared by
// Unpack and List. It tracks the bytes remaining in the stream so every
// declared length field is bounds-checked before it is trusted.
type archiveReader struct {
	f         *os.File
	br        *bufio.Reader
	header    format.Header
	remaining int64
}

// openArchive opens path and reads and validates the global header.
func openArchive(path string) (*archiveReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	br := bufio.NewReader(f)
	hdr, err := format.ReadHeader(br)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &archiveReader{
		f:         f,
		br:        br,
		header:    hdr,
		remaining: info.Size() - format.HeaderSize,
	}, nil
}

func (r *archiveReader) Close() error { return r.f.Close() }

// next reads one entry header and its path. It verifies that the
// declared path and content lengths fit in the remaining stream, so the
// caller may read or skip exactly ContentSize bytes afterwards.
func (r *archiveReader) next() (format.EntryHeader, string, error) {
	if r.remaining < format.EntryHeaderSize {
		return format.EntryHeader{}, "", format.ErrTruncated
	}
	hdr, err := format.ReadEntryHeader(r.br)
	if err != nil {
		return format.EntryHeader{}, "", err
	}
	r.remaining -= format.EntryHeaderSize

	if int64(hdr.PathLength) > r.remaining {
		return format.EntryHeader{}, "", fmt.Errorf("%w: path length %d exceeds %d remaining bytes",
			format.ErrTruncated, hdr.PathLength, r.remaining)
	}
	pathBuf := make([]byte, hdr.PathLength)
	if _, err := io.ReadFull(r.br, pathBuf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return format.EntryHeader{}, "", format.ErrTruncated
		}
		return format.EntryHeader{}, "", err
	}
	r.remaining -= int64(hdr.PathLength)

	if hdr.ContentSize > uint64(r.remaining) {
		return format.EntryHeader{}, "", fmt.Errorf("%w: content size %d exceeds %d remaining bytes",
			format.ErrTruncated, hdr.ContentSize, r.remaining)
	}

	if !utf8.Valid(pathBuf) {
		return format.EntryHeader{}, "", fmt.Errorf("%w: path is not valid UTF-8", ErrInsecurePath)
	}
	path := string(pathBuf)
	if path == "." || !fs.ValidPath(path) {
		return format.EntryHeader{}, "", fmt.Errorf("%w: %q", ErrInsecurePath, path)
	}
	return hdr, path, nil
}

// contentReader returns a reader over the next n content bytes. next
// has already verified that n bytes remain.
func (r *archiveReader) contentReader(n uint64) io.Reader {
	r.remaining -= int64(n)
	return io.LimitReader(r.br, int64(n))
}

// skip advances past n content bytes without reading them, seeking
// forward on the underlying file when the bytes are not already
// buffered.
func (r *archiveReader) skip(n uint64) error {
	buffered := int64(r.br.Buffered())
	if int64(n) <= buffered {
		if _, err := r.br.Discard(int(n)); err != nil {
			return err
		}
	} else {
		if _, err := r.f.Seek(int64(n)-buffered, io.SeekCurrent); err != nil {
			return err
		}
		r.br.Reset(r.f)
	}
	r.remaining -= int64(n)
	return nil
}
