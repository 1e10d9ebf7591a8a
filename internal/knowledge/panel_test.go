// ABOUTME: Tests for the knowledge-base panel model
// ABOUTME: Uses a scripted fake store to drive success and failure paths

package knowledge

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	docs      []Document
	listErr   error
	uploadErr error
	deleteErr error
	uploaded  []string
	deleted   [][]string
}

func (f *fakeStore) List(ctx context.Context, ragID string) ([]Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Document(nil), f.docs...), nil
}

func (f *fakeStore) Upload(ctx context.Context, ragID, fileName string, r io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, fileName)
	f.docs = append(f.docs, Document{FileName: fileName, Status: StatusReady})
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, ragID string, fileNames []string) error {
	f.deleted = append(f.deleted, fileNames)
	return f.deleteErr
}

func TestPanel_Refresh(t *testing.T) {
	store := &fakeStore{docs: []Document{{FileName: "a.txt"}}}
	p := NewPanel(store, "rag-1", nil)

	p.Refresh(t.Context())
	assert.Equal(t, []Document{{FileName: "a.txt"}}, p.Documents())
	assert.False(t, p.Loading())
}

func TestPanel_RefreshFailureKeepsList(t *testing.T) {
	store := &fakeStore{docs: []Document{{FileName: "a.txt"}}}
	p := NewPanel(store, "rag-1", nil)
	p.Refresh(t.Context())

	store.listErr = errors.New("offline")
	p.Refresh(t.Context())

	assert.Equal(t, []Document{{FileName: "a.txt"}}, p.Documents())
	assert.Empty(t, p.Status(), "list failures are silent")
}

func TestPanel_UploadSuccessRefreshes(t *testing.T) {
	store := &fakeStore{}
	p := NewPanel(store, "rag-1", nil)

	p.Upload(t.Context(), "notes.txt", strings.NewReader("hi"))

	assert.Equal(t, UploadSucceeded, p.Status())
	assert.False(t, p.Uploading())
	require.Len(t, p.Documents(), 1)
	assert.Equal(t, "notes.txt", p.Documents()[0].FileName)
}

func TestPanel_UploadFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"store message", &StoreError{Message: "quota exceeded"}, "quota exceeded"},
		{"wrapped store message", errors.Join(errors.New("ctx"), &StoreError{Message: "too big"}), "too big"},
		{"empty store message", &StoreError{}, UploadFailed},
		{"transport", errors.New("connection refused"), UploadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPanel(&fakeStore{uploadErr: tt.err}, "rag-1", nil)
			p.Upload(t.Context(), "notes.txt", strings.NewReader("hi"))
			assert.Equal(t, tt.want, p.Status())
			assert.False(t, p.Uploading())
		})
	}
}

func TestPanel_UploadUnsupportedTypeShowsReason(t *testing.T) {
	p := NewPanel(&fakeStore{uploadErr: CheckFileType("a.png")}, "rag-1", nil)
	p.Upload(t.Context(), "a.png", strings.NewReader("x"))
	assert.Contains(t, p.Status(), "unsupported file type")
}

func TestPanel_Delete(t *testing.T) {
	store := &fakeStore{docs: []Document{{FileName: "a.txt"}, {FileName: "b.txt"}}}
	p := NewPanel(store, "rag-1", nil)
	p.Refresh(t.Context())

	p.Delete(t.Context(), "a.txt")
	assert.Equal(t, []Document{{FileName: "b.txt"}}, p.Documents())
	assert.Equal(t, [][]string{{"a.txt"}}, store.deleted)
}

func TestPanel_DeleteFailureIsSilent(t *testing.T) {
	store := &fakeStore{docs: []Document{{FileName: "a.txt"}}, deleteErr: errors.New("nope")}
	p := NewPanel(store, "rag-1", nil)
	p.Refresh(t.Context())

	p.Delete(t.Context(), "a.txt")
	assert.Equal(t, []Document{{FileName: "a.txt"}}, p.Documents())
	assert.Empty(t, p.Status())
}
