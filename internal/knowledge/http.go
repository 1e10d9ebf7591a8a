// ABOUTME: HTTP client for a remote knowledge-base document service
// ABOUTME: Speaks {base}/rag/{ragID}/documents with list, multipart upload, and delete

package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultHTTPTimeout = 60 * time.Second
	maxBodyBytes       = 4 << 20
)

// HTTPClient is a Store backed by a remote document service.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewHTTPClient creates a client for baseURL. A nil httpClient gets a
// default with a 60s timeout. Pass nil logger for default.
func NewHTTPClient(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		logger:  logger.With("component", "knowledge_client"),
	}
}

func (c *HTTPClient) documentsURL(ragID string) string {
	return c.baseURL + "/rag/" + url.PathEscape(ragID) + "/documents"
}

// List returns the documents of ragID.
func (c *HTTPClient) List(ctx context.Context, ragID string) ([]Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.documentsURL(ragID), nil)
	if err != nil {
		return nil, fmt.Errorf("building list request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := gjson.GetBytes(body, "documents")
	if !docs.IsArray() {
		return nil, fmt.Errorf("listing documents: response has no documents array")
	}

	out := make([]Document, 0, len(docs.Array()))
	for _, d := range docs.Array() {
		name := d.Get("fileName")
		if name.Type != gjson.String || name.String() == "" {
			continue
		}
		out = append(out, Document{FileName: name.String(), Status: d.Get("status").String()})
	}
	return out, nil
}

// Upload sends r as a multipart "file" field named fileName.
func (c *HTTPClient) Upload(ctx context.Context, ragID, fileName string, r io.Reader) error {
	if err := CheckFileType(fileName); err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("reading %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.documentsURL(ragID), &buf)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("uploading %s: %w", fileName, err)
	}
	c.logger.Info("uploaded document", "rag_id", ragID, "file_name", fileName)
	return nil
}

// Delete removes fileNames from ragID.
func (c *HTTPClient) Delete(ctx context.Context, ragID string, fileNames []string) error {
	payload, err := json.Marshal(struct {
		FileNames []string `json:"fileNames"`
	}{FileNames: fileNames})
	if err != nil {
		return fmt.Errorf("encoding delete request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.documentsURL(ragID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	return nil
}

// do sends req and returns the body of a {"success": true} reply. A
// {"success": false, "error": "..."} reply becomes a *StoreError.
func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("status %d: response is not JSON", resp.StatusCode)
	}
	if gjson.GetBytes(body, "success").Type != gjson.True {
		if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String && msg.String() != "" {
			return nil, &StoreError{Message: msg.String()}
		}
		return nil, fmt.Errorf("status %d: request was not successful", resp.StatusCode)
	}
	return body, nil
}
