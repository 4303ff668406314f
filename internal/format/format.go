// Package format defines the on-disk layout of kar archives.
//
// An archive is a fixed-width global header followed by exactly
// EntryCount records, each a fixed-width entry header, then the relative
// path bytes, then the content bytes. All integers are little-endian and
// fields are packed with no padding or alignment gaps. The layout is a
// cross-implementation contract, so encoding and decoding are explicit,
// field by field, and never rely on in-memory struct layout.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Magic identifies a kar archive. The little-endian encoding spells
	// "KAAR" on disk.
	Magic uint32 = 0x5241414B

	// Version is the only format version this package reads or writes.
	Version uint16 = 1

	// HeaderSize is the encoded size of the global header.
	HeaderSize = 22

	// EntryHeaderSize is the encoded size of one entry header.
	EntryHeaderSize = 26
)

var (
	// ErrBadMagic is returned when a stream does not start with Magic.
	ErrBadMagic = errors.New("kar: invalid archive format (bad magic)")

	// ErrVersion is returned when the header carries an unknown version.
	ErrVersion = errors.New("kar: unsupported archive version")

	// ErrTruncated is returned when fewer bytes remain in the stream
	// than a header or a declared length requires.
	ErrTruncated = errors.New("kar: truncated archive")
)

// Header is the global archive header.
type Header struct {
	Version    uint16
	EntryCount uint32
	CreatedAt  uint64 // Unix seconds at pack time
	Reserved   uint32 // zero on write, ignored on read
}

// AppendBinary appends the HeaderSize-byte encoding of h to b.
func (h Header) AppendBinary(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, Magic)
	b = binary.LittleEndian.AppendUint16(b, h.Version)
	b = binary.LittleEndian.AppendUint32(b, h.EntryCount)
	b = binary.LittleEndian.AppendUint64(b, h.CreatedAt)
	b = binary.LittleEndian.AppendUint32(b, h.Reserved)
	return b
}

// DecodeHeader parses a global header from the first HeaderSize bytes
// of b, rejecting unknown magic values and versions.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrTruncated
	}
	if binary.LittleEndian.Uint32(b[0:4]) != Magic {
		return Header{}, ErrBadMagic
	}
	h := Header{
		Version:    binary.LittleEndian.Uint16(b[4:6]),
		EntryCount: binary.LittleEndian.Uint32(b[6:10]),
		CreatedAt:  binary.LittleEndian.Uint64(b[10:18]),
		Reserved:   binary.LittleEndian.Uint32(b[18:22]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	return h, nil
}

// ReadHeader reads and decodes the global header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrTruncated
		}
		return Header{}, err
	}
	return DecodeHeader(buf[:])
}

// EntryHeader precedes each entry's path and content bytes.
type EntryHeader struct {
	PathLength  uint32 // byte length of the UTF-8 relative path
	ContentSize uint64 // byte length of the content that follows the path
	ModTime     uint64 // Unix seconds
	Checksum    uint32 // CRC-32 of the content bytes
	Perm        uint16 // POSIX permission bits
}

// AppendBinary appends the EntryHeaderSize-byte encoding of e to b.
func (e EntryHeader) AppendBinary(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, e.PathLength)
	b = binary.LittleEndian.AppendUint64(b, e.ContentSize)
	b = binary.LittleEndian.AppendUint64(b, e.ModTime)
	b = binary.LittleEndian.AppendUint32(b, e.Checksum)
	b = binary.LittleEndian.AppendUint16(b, e.Perm)
	return b
}

// DecodeEntryHeader parses an entry header from the first
// EntryHeaderSize bytes of b. Length fields are not validated here;
// readers must bounds-check them against the remaining stream length
// before trusting them.
func DecodeEntryHeader(b []byte) (EntryHeader, error) {
	if len(b) < EntryHeaderSize {
		return EntryHeader{}, ErrTruncated
	}
	return EntryHeader{
		PathLength:  binary.LittleEndian.Uint32(b[0:4]),
		ContentSize: binary.LittleEndian.Uint64(b[4:12]),
		ModTime:     binary.LittleEndian.Uint64(b[12:20]),
		Checksum:    binary.LittleEndian.Uint32(b[20:24]),
		Perm:        binary.LittleEndian.Uint16(b[24:26]),
	}, nil
}

// ReadEntryHeader reads and decodes one entry header from r.
func ReadEntryHeader(r io.Reader) (EntryHeader, error) {
	var buf [EntryHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return EntryHeader{}, ErrTruncated
		}
		return EntryHeader{}, err
	}
	return DecodeEntryHeader(buf[:])
}
