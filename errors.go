package kar

import (
	"errors"
	"fmt"

	"github.com/meigma/kar/internal/format"
)

// Errors re-exported from internal/format.
var (
	// ErrInvalidFormat is returned when the archive's magic value does
	// not match the format sentinel.
	ErrInvalidFormat = format.ErrBadMagic

	// ErrUnsupportedVersion is returned when the archive declares a
	// format version this package does not implement.
	ErrUnsupportedVersion = format.ErrVersion

	// ErrTruncated is returned when fewer bytes remain in the archive
	// than a header or a declared length field requires.
	ErrTruncated = format.ErrTruncated
)

// Sentinel errors specific to the kar package.
var (
	// ErrInvalidSource is returned when a pack source is missing or is
	// not a directory.
	ErrInvalidSource = errors.New("kar: source is not a directory")

	// ErrChecksumMismatch is returned when a decoded entry's recomputed
	// CRC-32 differs from its stored value.
	ErrChecksumMismatch = errors.New("kar: checksum mismatch")

	// ErrInsecurePath is returned when a stored path is empty, absolute,
	// not valid UTF-8, or would escape the extraction target.
	ErrInsecurePath = errors.New("kar: insecure path in archive")
)

// ChecksumError reports a CRC-32 verification failure for one entry.
// It unwraps to ErrChecksumMismatch.
type ChecksumError struct {
	Path string
	Want uint32 // stored in the entry header
	Got  uint32 // recomputed over the content bytes
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("kar: checksum mismatch for %s: expected %08x, got %08x", e.Path, e.Want, e.Got)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }
