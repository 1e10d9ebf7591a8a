// ABOUTME: Tests for the agent HTTP client and tolerant reply decoding
// ABOUTME: Uses httptest servers to exercise request shape, status handling and bad bodies

package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult_StringPayload(t *testing.T) {
	res, err := DecodeResult([]byte(`{"success":true,"response":{"result":"plain text"}}`))
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.NotNil(t, res.Response)
	assert.JSONEq(t, `"plain text"`, string(res.Response.Result))
}

func TestDecodeResult_ObjectPayload(t *testing.T) {
	res, err := DecodeResult([]byte(`{"success":true,"response":{"result":{"answer":"A"},"message":"ok"}}`))
	require.NoError(t, err)

	require.NotNil(t, res.Response)
	assert.JSONEq(t, `{"answer":"A"}`, string(res.Response.Result))
	assert.Equal(t, "ok", res.Response.Message)
}

func TestDecodeResult_WrongFieldTypesAreDropped(t *testing.T) {
	res, err := DecodeResult([]byte(`{"success":"yes","error":42,"response":{"result":null,"message":["x"]}}`))
	require.NoError(t, err)

	assert.False(t, res.Success, "only a JSON true counts as success")
	assert.Empty(t, res.Error)
	require.NotNil(t, res.Response)
	assert.Nil(t, res.Response.Result)
	assert.Empty(t, res.Response.Message)
}

func TestDecodeResult_ResponseNotObject(t *testing.T) {
	res, err := DecodeResult([]byte(`{"success":false,"response":"nope","error":"boom"}`))
	require.NoError(t, err)

	assert.Nil(t, res.Response)
	assert.Equal(t, "boom", res.Error)
}

func TestDecodeResult_Malformed(t *testing.T) {
	for _, body := range []string{``, `not json`, `[1,2]`, `"str"`} {
		_, err := DecodeResult([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedReply, "body %q", body)
	}
}

func TestClient_Invoke_SendsRequest(t *testing.T) {
	var got chatRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		apiKey = r.Header.Get("x-api-key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"response":{"result":"hi"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL, APIKey: "secret", UserID: "u-1"}, nil)
	res, err := c.Invoke(t.Context(), &Request{Prompt: "hello", AgentID: "agent-1", SessionID: "sess-1"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "secret", apiKey)
	assert.Equal(t, chatRequest{Message: "hello", AgentID: "agent-1", SessionID: "sess-1", UserID: "u-1"}, got)
}

func TestClient_Invoke_ErrorStatusWithEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":true,"response":{"message":"upstream down"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL}, nil)
	res, err := c.Invoke(t.Context(), &Request{Prompt: "hello"})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "agent returned status 502", res.Error)
	assert.Equal(t, "upstream down", res.Response.Message)
}

func TestClient_Invoke_ErrorStatusWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL}, nil)
	_, err := c.Invoke(t.Context(), &Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "504")
}

func TestClient_Invoke_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL, Timeout: 20 * time.Millisecond}, nil)
	_, err := c.Invoke(t.Context(), &Request{Prompt: "hello"})
	assert.Error(t, err)
}

func TestResultBuilders(t *testing.T) {
	text := TextResult(`{"answer":"A"}`)
	assert.True(t, text.Success)
	assert.JSONEq(t, `"{\"answer\":\"A\"}"`, string(text.Response.Result))

	obj, err := ObjectResult(map[string]any{"answer": "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":"A"}`, string(obj.Response.Result))

	fail := FailureResult("X")
	assert.False(t, fail.Success)
	assert.Equal(t, "X", fail.Error)
}
