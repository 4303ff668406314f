// Package checksum implements the CRC-32 used for entry integrity.
//
// The table-driven construction uses the reflected IEEE 802.3 polynomial
// 0xEDB88320 with an initial value of 0xFFFFFFFF and a final XOR, so
// results agree bit-for-bit with hash/crc32.ChecksumIEEE and with common
// external tooling (zlib, cksum -o 3). Archives are meant to be
// inspectable with general tools, so this equivalence is part of the
// format contract.
package checksum

import "hash"

const poly = 0xEDB88320

// table is computed once at process start and is read-only afterwards.
var table = makeTable()

func makeTable() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		crc := uint32(i)
		for range 8 {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ poly
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return &t
}

// Sum returns the CRC-32 of p. The sum of empty input is 0.
func Sum(p []byte) uint32 {
	d := New()
	d.Write(p) //nolint:errcheck // Write never fails
	return d.Sum32()
}

// Digest computes a CRC-32 incrementally over a stream of writes.
// The zero value is not valid; use New.
type Digest struct {
	crc uint32
}

var _ hash.Hash32 = (*Digest)(nil)

// New returns a Digest ready for use.
func New() *Digest {
	return &Digest{crc: 0xFFFFFFFF}
}

// Write folds p into the running checksum. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	crc := d.crc
	for _, b := range p {
		crc = (crc >> 8) ^ table[byte(crc)^b]
	}
	d.crc = crc
	return len(p), nil
}

// Sum32 returns the checksum of the bytes written so far.
func (d *Digest) Sum32() uint32 {
	return d.crc ^ 0xFFFFFFFF
}

// Sum appends the big-endian checksum to in, per the hash.Hash contract.
func (d *Digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}

// Reset restores the Digest to its initial state.
func (d *Digest) Reset() {
	d.crc = 0xFFFFFFFF
}

// Size returns the checksum width in bytes.
func (d *Digest) Size() int { return 4 }

// BlockSize returns 1; the digest accepts writes of any length.
func (d *Digest) BlockSize() int { return 1 }
