// ABOUTME: Knowledge-base panel model: document list, upload status, and delete
// ABOUTME: Failures stay inside the panel; list and delete failures are silent

package knowledge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Panel status messages.
const (
	UploadSucceeded = "Uploaded successfully"
	UploadFailed    = "Upload failed"
)

// Panel holds the document list shown for one knowledge base.
type Panel struct {
	store  Store
	ragID  string
	logger *slog.Logger

	mu        sync.Mutex
	docs      []Document
	status    string
	uploading bool
	loading   bool
}

// NewPanel creates a panel for ragID. Pass nil logger for default.
func NewPanel(store Store, ragID string, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Panel{
		store:  store,
		ragID:  ragID,
		logger: logger.With("component", "knowledge_panel"),
	}
}

// Refresh reloads the document list. On failure the previous list is kept.
func (p *Panel) Refresh(ctx context.Context) {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	docs, err := p.store.List(ctx, p.ragID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.logger.Debug("listing documents failed", "rag_id", p.ragID, "error", err)
		return
	}
	p.docs = docs
}

// Upload sends one file and records the outcome in Status. A successful
// upload refreshes the list.
func (p *Panel) Upload(ctx context.Context, fileName string, r io.Reader) {
	p.mu.Lock()
	p.uploading = true
	p.status = ""
	p.mu.Unlock()

	err := p.store.Upload(ctx, p.ragID, fileName, r)

	if err == nil {
		p.Refresh(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploading = false
	if err != nil {
		p.logger.Warn("upload failed", "rag_id", p.ragID, "file_name", fileName, "error", err)
		p.status = uploadFailureText(err)
		return
	}
	p.status = UploadSucceeded
}

// Delete removes one file. On success it leaves the local list; on failure
// nothing changes.
func (p *Panel) Delete(ctx context.Context, fileName string) {
	if err := p.store.Delete(ctx, p.ragID, []string{fileName}); err != nil {
		p.logger.Debug("deleting document failed", "rag_id", p.ragID, "file_name", fileName, "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.docs = slices.DeleteFunc(p.docs, func(d Document) bool { return d.FileName == fileName })
}

// Documents returns a copy of the current list.
func (p *Panel) Documents() []Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.docs)
}

// Status returns the last upload message, or "".
func (p *Panel) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Uploading reports whether an upload is in progress.
func (p *Panel) Uploading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploading
}

// Loading reports whether a list refresh is in progress.
func (p *Panel) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func uploadFailureText(err error) string {
	var se *StoreError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, ErrUnsupportedType) {
		return err.Error()
	}
	return UploadFailed
}
