// Package stego hides a byte payload in the line endings of a text
// container. A line ending in a space carries bit 1, any other line bit 0.
//
// The payload is framed by a 4-byte big-endian length header. Bits are
// emitted most significant first, one per line, starting at the first line.
package stego

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const headerSize = 4

var (
	// ErrEmptyPayload is returned when there is nothing to hide.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrCapacity is returned when the container has too few lines.
	ErrCapacity = errors.New("container too small for payload")
	// ErrTruncated is returned when a container ends inside a frame.
	ErrTruncated = errors.New("container ends before the hidden payload")
)

// Line is one container line split from its ending.
type Line struct {
	Body   string
	Ending string
}

// SplitLines splits text into lines, keeping "\r\n" or "\n" endings. Text
// after the last newline forms a final line without an ending. A newline at
// the very end does not start an extra empty line.
func SplitLines(text string) []Line {
	var lines []Line
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, Line{Body: text})
			break
		}
		body, ending := text[:i], "\n"
		if strings.HasSuffix(body, "\r") {
			body, ending = body[:len(body)-1], "\r\n"
		}
		lines = append(lines, Line{Body: body, Ending: ending})
		text = text[i+1:]
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Body)
		b.WriteString(l.Ending)
	}
	return b.String()
}

// Capacity returns the largest payload, in bytes, the container can carry.
func Capacity(container string) int {
	n := len(SplitLines(container))/8 - headerSize
	if n < 0 {
		return 0
	}
	return n
}

// Embed hides payload in container and returns the new container text.
// Trailing spaces already present on carrying lines are removed first so
// they cannot be misread as bits. Lines after the frame are left untouched.
func Embed(container string, payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}
	lines := SplitLines(container)
	frame := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[headerSize:], payload)

	need := len(frame) * 8
	if len(lines) < need {
		return "", fmt.Errorf("%w: %d lines available, %d needed for %d bytes",
			ErrCapacity, len(lines), need, len(payload))
	}

	for i := 0; i < need; i++ {
		bit := frame[i/8] >> (7 - uint(i%8)) & 1
		body := strings.TrimRight(lines[i].Body, " ")
		if bit == 1 {
			body += " "
		}
		lines[i].Body = body
	}
	return JoinLines(lines), nil
}

// Extract recovers the payload hidden in container. A zero-length header
// yields an empty, non-nil payload.
func Extract(container string) ([]byte, error) {
	lines := SplitLines(container)
	if len(lines) < headerSize*8 {
		return nil, fmt.Errorf("%w: %d lines, header needs %d", ErrTruncated, len(lines), headerSize*8)
	}
	header := readBytes(lines[:headerSize*8])
	size := uint64(binary.BigEndian.Uint32(header))

	rest := lines[headerSize*8:]
	if uint64(len(rest)) < size*8 {
		return nil, fmt.Errorf("%w: header announces %d bytes, %d lines left", ErrTruncated, size, len(rest))
	}
	return readBytes(rest[:size*8]), nil
}

func readBytes(lines []Line) []byte {
	out := make([]byte, len(lines)/8)
	for i := range out {
		var b byte
		for _, l := range lines[i*8 : i*8+8] {
			b <<= 1
			if strings.HasSuffix(l.Body, " ") {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}
