// Package models defines the credential record stored by the gate.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MagicToken marks a record with no credential yet.
	MagicToken = "MAGIC"
	// BlockedToken marks a record that no longer accepts attempts.
	BlockedToken = "BLOCKED"
)

// ErrCorruptRecord is returned when record text is neither sentinel nor a
// checksum.
var ErrCorruptRecord = errors.New("corrupt credential record")

// RecordState is the semantic state of a credential record.
type RecordState uint8

const (
	// Uninitialized records hold MagicToken.
	Uninitialized RecordState = iota + 1
	// Locked records hold BlockedToken.
	Locked
	// Active records hold the checksum of the accepted secret.
	Active
)

func (s RecordState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Locked:
		return "locked"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("RecordState(%d)", uint8(s))
	}
}

// CredentialRecord is the decoded content of the record file.
type CredentialRecord struct {
	// State is the record's semantic state.
	State RecordState
	// Checksum is the stored checksum. It is meaningful only for Active.
	Checksum uint16
}

// NewUninitialized returns a record holding MagicToken.
func NewUninitialized() CredentialRecord {
	return CredentialRecord{State: Uninitialized}
}

// NewLocked returns a record holding BlockedToken.
func NewLocked() CredentialRecord {
	return CredentialRecord{State: Locked}
}

// NewActive returns a record holding sum.
func NewActive(sum uint16) CredentialRecord {
	return CredentialRecord{State: Active, Checksum: sum}
}

// String returns the exact file content for the record.
func (r CredentialRecord) String() string {
	switch r.State {
	case Uninitialized:
		return MagicToken
	case Locked:
		return BlockedToken
	default:
		return strconv.FormatUint(uint64(r.Checksum), 10)
	}
}

// ParseCredentialRecord classifies record text. Surrounding whitespace is
// ignored; everything else must match exactly. Checksums are unsigned
// decimal literals in the 16-bit range.
func ParseCredentialRecord(text string) (CredentialRecord, error) {
	content := strings.TrimSpace(text)
	switch content {
	case MagicToken:
		return NewUninitialized(), nil
	case BlockedToken:
		return NewLocked(), nil
	}
	if content == "" || strings.IndexFunc(content, isNotDigit) >= 0 {
		return CredentialRecord{}, fmt.Errorf("%w: unexpected content %q", ErrCorruptRecord, abbreviate(content))
	}
	sum, err := strconv.ParseUint(content, 10, 16)
	if err != nil {
		return CredentialRecord{}, fmt.Errorf("%w: checksum %q out of range", ErrCorruptRecord, abbreviate(content))
	}
	return NewActive(uint16(sum)), nil
}

func isNotDigit(r rune) bool {
	return r < '0' || r > '9'
}

func abbreviate(s string) string {
	const limit = 32
	if len([]rune(s)) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
