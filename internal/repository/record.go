// Package repository provides file-backed persistence for the credential
// record and the directory manifest.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/atinyakov/GophGate/internal/models"
)

// ErrNotFound is returned when the credential record file does not exist.
// The record is never created implicitly.
var ErrNotFound = errors.New("credential record not found")

// FileRecordRepository stores a credential record in a single text file.
//
// Every call opens and closes the file. Concurrent processes sharing a path
// are not coordinated: the last writer wins.
type FileRecordRepository struct {
	path string
}

// NewFileRecordRepository returns a repository for the record at path.
func NewFileRecordRepository(path string) *FileRecordRepository {
	return &FileRecordRepository{path: path}
}

// Path returns the record file path.
func (r *FileRecordRepository) Path() string {
	return r.path
}

// Load reads and classifies the record. It returns ErrNotFound when the file
// is missing and models.ErrCorruptRecord when the content is not a valid
// record. Invalid UTF-8 bytes are dropped before classification.
func (r *FileRecordRepository) Load(ctx context.Context) (models.CredentialRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.CredentialRecord{}, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.CredentialRecord{}, fmt.Errorf("%w: %s", ErrNotFound, r.path)
		}
		return models.CredentialRecord{}, fmt.Errorf("read record: %w", err)
	}
	rec, err := models.ParseCredentialRecord(strings.ToValidUTF8(string(data), ""))
	if err != nil {
		return models.CredentialRecord{}, fmt.Errorf("%s: %w", r.path, err)
	}
	return rec, nil
}

// Save replaces the file content with rec. Existing permissions are kept.
func (r *FileRecordRepository) Save(ctx context.Context, rec models.CredentialRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(r.path, []byte(rec.String()), 0o600); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
