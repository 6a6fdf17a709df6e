// Package checksum implements the 16-bit XOR fold used by the credential
// record and the directory manifest.
//
// The input is read as big-endian 16-bit words (first byte high). An odd
// trailing byte is padded with a zero low byte. All words are XORed together.
// The fold only detects gross mismatches; it is not a cryptographic hash.
package checksum

import (
	"fmt"
	"hash"
	"io"
)

// Size is the size of a checksum in bytes.
const Size = 2

// Sum returns the checksum of data.
func Sum(data []byte) uint16 {
	var sum uint16
	n := len(data)
	for i := 0; i < n; i += 2 {
		word := uint16(data[i]) << 8
		if i+1 < n {
			word |= uint16(data[i+1])
		}
		sum ^= word
	}
	return sum
}

// String returns the checksum of the UTF-8 bytes of s.
func String(s string) uint16 {
	return Sum([]byte(s))
}

// SumReader returns the checksum of everything read from r.
func SumReader(r io.Reader) (uint16, error) {
	d := New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}
	return d.Sum16(), nil
}

// Digest is a streaming checksum. Splitting the input across Write calls
// does not change the result.
type Digest struct {
	sum     uint16
	high    byte
	pending bool
}

var _ hash.Hash = (*Digest)(nil)

// New returns an empty Digest.
func New() *Digest {
	return &Digest{}
}

// Write folds p into the digest. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	n := len(p)
	if d.pending && len(p) > 0 {
		d.sum ^= uint16(d.high)<<8 | uint16(p[0])
		d.pending = false
		p = p[1:]
	}
	even := len(p) &^ 1
	d.sum ^= Sum(p[:even])
	if even < len(p) {
		d.high = p[even]
		d.pending = true
	}
	return n, nil
}

// Sum16 returns the checksum of the data written so far, padding a pending
// odd byte with zero. It does not change the digest state.
func (d *Digest) Sum16() uint16 {
	if d.pending {
		return d.sum ^ uint16(d.high)<<8
	}
	return d.sum
}

// Sum appends the big-endian checksum to b.
func (d *Digest) Sum(b []byte) []byte {
	s := d.Sum16()
	return append(b, byte(s>>8), byte(s))
}

// Reset clears the digest.
func (d *Digest) Reset() {
	*d = Digest{}
}

// Size returns Size.
func (d *Digest) Size() int { return Size }

// BlockSize returns the word size of the fold.
func (d *Digest) BlockSize() int { return Size }
