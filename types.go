package kar

import (
	"io/fs"
	"time"
)

// Entry describes one file in an archive.
type Entry struct {
	// Path is the slash-separated path relative to the packed root.
	Path string

	// Size is the content length in bytes.
	Size uint64

	// ModTime is the file's last modification time, truncated to
	// seconds by the wire format.
	ModTime time.Time

	// Mode holds the POSIX permission bits.
	Mode fs.FileMode

	// Checksum is the CRC-32 of the content bytes.
	Checksum uint32
}

// Info describes a whole archive as reported by List.
type Info struct {
	// Path is the archive file that was read.
	Path string

	// Version is the format version from the global header.
	Version uint16

	// CreatedAt is the pack timestamp from the global header.
	CreatedAt time.Time

	// Entries lists the archive's files in stored order.
	Entries []Entry
}

// Summary reports what a completed Pack or Unpack did.
type Summary struct {
	// Files is the number of entries written or extracted.
	Files int

	// Bytes is the total content bytes written or extracted, excluding
	// header and path overhead.
	Bytes uint64
}
