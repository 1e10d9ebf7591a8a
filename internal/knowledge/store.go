// ABOUTME: Knowledge-base document types and the document store contract
// ABOUTME: Upload type checks happen here so every store rejects the same files

package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is one file in a knowledge base.
type Document struct {
	FileName string `json:"fileName"`
	Status   string `json:"status,omitempty"`
}

// Document statuses.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
)

// Store manages the documents of knowledge bases identified by ragID.
type Store interface {
	List(ctx context.Context, ragID string) ([]Document, error)
	Upload(ctx context.Context, ragID, fileName string, r io.Reader) error
	Delete(ctx context.Context, ragID string, fileNames []string) error
}

// AcceptedExtensions lists the file types a knowledge base accepts.
var AcceptedExtensions = []string{".pdf", ".docx", ".txt"}

// ErrUnsupportedType is returned for files outside AcceptedExtensions.
var ErrUnsupportedType = errors.New("unsupported file type")

// StoreError carries a failure message reported by the store itself.
// Its text is shown to the user verbatim.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string { return e.Message }

// CheckFileType returns ErrUnsupportedType unless fileName has an accepted
// extension. Matching is case-insensitive.
func CheckFileType(fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, accepted := range AcceptedExtensions {
		if ext == accepted {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedType, fileName, strings.Join(AcceptedExtensions, ", "))
}
