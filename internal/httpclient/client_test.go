package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherboard/internal/errors"
)

func newMockClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := New(&Config{Transport: transport, DefaultTimeout: time.Second})
	t.Cleanup(client.Close)
	return client, transport
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		client := New(nil)
		assert.Equal(t, DefaultTimeout, client.defaultTimeout)
		assert.Equal(t, defaultUserAgent, client.userAgent)
	})

	t.Run("custom config", func(t *testing.T) {
		client := New(&Config{DefaultTimeout: 5 * time.Second, UserAgent: "TestAgent/1.0"})
		assert.Equal(t, 5*time.Second, client.defaultTimeout)
		assert.Equal(t, "TestAgent/1.0", client.userAgent)
	})

	t.Run("negative timeout uses default", func(t *testing.T) {
		client := New(&Config{DefaultTimeout: -time.Second})
		assert.Equal(t, DefaultTimeout, client.defaultTimeout)
	})
}

func TestDo_UserAgent(t *testing.T) {
	var receivedUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := New(&Config{UserAgent: "CustomAgent/2.0"})
	t.Cleanup(client.Close)

	resp, err := client.Get(t.Context(), server.URL)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, "CustomAgent/2.0", receivedUA)
}

func TestDo_DefaultTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client := New(&Config{DefaultTimeout: 50 * time.Millisecond})
	t.Cleanup(client.Close)

	start := time.Now()
	_, err := client.Get(t.Context(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDo_BodyReadableAfterReturn(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, "https://example.test/data",
		httpmock.NewStringResponder(http.StatusOK, "payload"))

	resp, err := client.Get(t.Context(), "https://example.test/data")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "payload", string(body))
}

func TestDo_NilRequest(t *testing.T) {
	client := New(nil)
	_, err := client.Do(t.Context(), nil)
	require.Error(t, err)
}

func TestGetJSON(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, "https://example.test/ok",
		httpmock.NewStringResponder(http.StatusOK, `{"name":"London","id":2643743}`))
	transport.RegisterResponder(http.MethodGet, "https://example.test/missing",
		httpmock.NewStringResponder(http.StatusNotFound, `{"cod":"404","message":"city not found"}`))
	transport.RegisterResponder(http.MethodGet, "https://example.test/broken",
		httpmock.NewStringResponder(http.StatusOK, `{"name":`))
	transport.RegisterResponder(http.MethodGet, "https://example.test/error",
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	t.Run("decodes body", func(t *testing.T) {
		var out struct {
			Name string `json:"name"`
			ID   int    `json:"id"`
		}
		require.NoError(t, client.GetJSON(t.Context(), "https://example.test/ok", &out))
		assert.Equal(t, "London", out.Name)
		assert.Equal(t, 2643743, out.ID)
	})

	t.Run("404 is not found", func(t *testing.T) {
		var out map[string]any
		err := client.GetJSON(t.Context(), "https://example.test/missing", &out)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("5xx is http error", func(t *testing.T) {
		var out map[string]any
		err := client.GetJSON(t.Context(), "https://example.test/error", &out)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryHTTP))
	})

	t.Run("malformed body", func(t *testing.T) {
		var out map[string]any
		err := client.GetJSON(t.Context(), "https://example.test/broken", &out)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
	})

	t.Run("transport error", func(t *testing.T) {
		var out map[string]any
		err := client.GetJSON(t.Context(), "https://example.test/unregistered", &out)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
	})
}

func TestAfterResponseHook(t *testing.T) {
	client, transport := newMockClient(t)
	transport.RegisterResponder(http.MethodGet, "https://example.test/hook",
		httpmock.NewStringResponder(http.StatusTeapot, ""))

	var calls atomic.Int32
	var lastStatus atomic.Int32
	client.SetAfterResponseHook(func(_ *http.Request, resp *http.Response, d time.Duration, err error) {
		calls.Add(1)
		if resp != nil {
			lastStatus.Store(int32(resp.StatusCode))
		}
		assert.GreaterOrEqual(t, d, time.Duration(0))
	})

	_, err := client.GetBody(t.Context(), "https://example.test/hook")
	require.Error(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(http.StatusTeapot), lastStatus.Load())
}
