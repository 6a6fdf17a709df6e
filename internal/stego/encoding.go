package stego

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownEncoding is returned for an unsupported text encoding name.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Supported payload text encodings.
const (
	CP1251 = "cp1251"
	UTF8   = "utf-8"
)

// lookup returns nil for UTF-8, which needs no transform.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case CP1251, "windows-1251":
		return charmap.Windows1251, nil
	case UTF8, "utf8":
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// EncodeText converts s to bytes in the named encoding. Characters the
// encoding cannot represent are replaced.
func EncodeText(name, s string) ([]byte, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(s), nil
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(s)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return []byte(out), nil
}

// DecodeText converts b from the named encoding to a UTF-8 string. Invalid
// UTF-8 input is repaired with replacement characters.
func DecodeText(name string, b []byte) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return strings.ToValidUTF8(string(b), "�"), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}
