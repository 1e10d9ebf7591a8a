// ABOUTME: Tests for the knowledge-base HTTP client against httptest servers
// ABOUTME: Covers list decoding, multipart upload, delete body, and error mapping

package knowledge

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rag/rag-1/documents", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		io.WriteString(w, `{"success":true,"documents":[
			{"fileName":"a.pdf","status":"ready"},
			{"fileName":42},
			{"status":"orphan"},
			{"fileName":"b.txt"}
		]}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "secret", nil, nil)
	docs, err := c.List(t.Context(), "rag-1")
	require.NoError(t, err)
	assert.Equal(t, []Document{
		{FileName: "a.pdf", Status: "ready"},
		{FileName: "b.txt"},
	}, docs)
}

func TestHTTPClient_ListWithoutDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, "", nil, nil).List(t.Context(), "rag-1")
	require.Error(t, err)
}

func TestHTTPClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "notes.txt", header.Filename)
		assert.Equal(t, "hello", string(body))
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "", nil, nil).Upload(t.Context(), "rag-1", "notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)
}

func TestHTTPClient_UploadRejectsTypeLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "", nil, nil).Upload(t.Context(), "rag-1", "x.exe", strings.NewReader("MZ"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.False(t, called)
}

func TestHTTPClient_StoreErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"success":false,"error":"quota exceeded"}`)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "", nil, nil).Upload(t.Context(), "rag-1", "a.txt", strings.NewReader("a"))
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "quota exceeded", se.Message)
}

func TestHTTPClient_NonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "", nil, nil).Delete(t.Context(), "rag-1", []string{"a.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	var se *StoreError
	assert.False(t, errors.As(err, &se))
}

func TestHTTPClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		var body struct {
			FileNames []string `json:"fileNames"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"a.txt", "b.pdf"}, body.FileNames)
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, "", nil, nil).Delete(t.Context(), "rag-1", []string{"a.txt", "b.pdf"})
	require.NoError(t, err)
}
