// Package kar serializes a directory tree into a single seekable
// archive stream and reconstructs it back, with per-file CRC-32
// integrity verification.
//
// An archive is a fixed global header followed by one length-prefixed
// record per regular file: a fixed-width entry header, the relative
// path, then the raw content. The byte layout is little-endian with no
// padding and is stable across implementations; see the internal/format
// package for the exact contract.
//
// # Quick Start
//
// Pack a directory:
//
//	sum, err := kar.Pack(ctx, "./src", "src.kar")
//
// Extract it elsewhere:
//
//	sum, err := kar.Unpack(ctx, "src.kar", "./restored")
//
// Inspect without extracting:
//
//	info, err := kar.List(ctx, "src.kar")
//	for _, e := range info.Entries {
//	    fmt.Println(e.Path, e.Size)
//	}
//
// Unpack verifies every entry's checksum and stops at the first
// mismatch; List reads only headers and paths and performs no
// verification.
package kar
