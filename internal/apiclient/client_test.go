package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgmis/internal/records"
)

type captured struct {
	method, path, query, contentType, auth string
	body                                   []byte
}

func newServer(t *testing.T, status int, response string) (*Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.contentType = r.Header.Get("Content-Type")
		got.auth = r.Header.Get("Authorization")
		got.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), got
}

func TestRequest_JSONRoundTrip(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"ok":true,"n":3}`)

	var out struct {
		OK bool `json:"ok"`
		N  int  `json:"n"`
	}
	err := c.Request(context.Background(), "/api/things", Options{Method: http.MethodPost, Body: map[string]string{"a": "b"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/things", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.JSONEq(t, `{"a":"b"}`, string(got.body))
	assert.Empty(t, got.auth)
	assert.True(t, out.OK)
	assert.Equal(t, 3, out.N)
}

func TestRequest_HeaderOverride(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{}`)
	c.Token = "tok"

	err := c.Request(context.Background(), "/x", Options{Headers: map[string]string{"Content-Type": "text/plain"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", got.contentType)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Empty(t, got.body)
}

func TestRequest_HTTPError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusMultipleChoices} {
		c, _ := newServer(t, status, `{"error":"nope"}`)
		err := c.Request(context.Background(), "/x", Options{}, nil)

		var he *HTTPError
		require.True(t, errors.As(err, &he), "status %d", status)
		assert.Equal(t, status, he.Status)
		assert.Contains(t, he.Body, "nope")
	}
}

func TestRequest_EmptySuccessBody(t *testing.T) {
	c, _ := newServer(t, http.StatusNoContent, "")
	var out map[string]any
	require.NoError(t, c.Request(context.Background(), "/x", Options{Method: http.MethodDelete}, &out))
	assert.Nil(t, out)
}

func TestRequest_BadJSON(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{not json`)
	var out map[string]any
	assert.Error(t, c.Request(context.Background(), "/x", Options{}, &out))
}

func TestRequest_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL)
	srv.Close()

	err := c.Request(context.Background(), "/x", Options{}, nil)
	require.Error(t, err)
	var he *HTTPError
	assert.False(t, errors.As(err, &he))
}

func TestRequest_ContextCancelled(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Request(ctx, "/x", Options{}, nil), context.Canceled)
}

func TestVerbsUseAPIPrefix(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name       string
		call       func(c *Client) error
		method     string
		path       string
		query      string
		wantBodyIn string
		response   string
	}{
		{"get", func(c *Client) error { return c.Get(ctx, "/students", nil) }, http.MethodGet, "/api/students", "", "", ""},
		{"put", func(c *Client) error { return c.Put(ctx, "/students/1", map[string]int{"x": 1}, nil) }, http.MethodPut, "/api/students/1", "", `"x":1`, ""},
		{"delete", func(c *Client) error { return c.Delete(ctx, "/sessions/2", nil) }, http.MethodDelete, "/api/sessions/2", "", "", ""},
		{"students list", func(c *Client) error {
			_, err := c.Students().List(ctx, "data sci", "Active")
			return err
		}, http.MethodGet, "/api/students", "search=data+sci&status=Active", "", "[]"},
		{"student create", func(c *Client) error {
			_, err := c.Students().Create(ctx, records.Student{FirstName: "Ann"})
			return err
		}, http.MethodPost, "/api/students", "", `"firstName":"Ann"`, ""},
		{"sessions for student", func(c *Client) error {
			_, err := c.Sessions().ForStudent(ctx, "7")
			return err
		}, http.MethodGet, "/api/sessions/student/7", "", "", "[]"},
		{"dashboard", func(c *Client) error {
			_, err := c.Analytics().Dashboard(ctx)
			return err
		}, http.MethodGet, "/api/analytics/dashboard", "", "", ""},
		{"student progress", func(c *Client) error {
			_, err := c.Analytics().StudentProgress(ctx, "1")
			return err
		}, http.MethodGet, "/api/analytics/student/1", "", "", ""},
		{"session stats", func(c *Client) error {
			_, err := c.Analytics().SessionStatistics(ctx)
			return err
		}, http.MethodGet, "/api/analytics/sessions", "", "", ""},
		{"login", func(c *Client) error {
			_, err := c.Auth().Login(ctx, "a@b.c", "pw")
			return err
		}, http.MethodPost, "/auth/login", "", `"email":"a@b.c"`, ""},
		{"logout", func(c *Client) error { return c.Auth().Logout(ctx) }, http.MethodPost, "/auth/logout", "", "", ""},
		{"db query", func(c *Client) error {
			return c.DB().Query(ctx, "SELECT 1", []any{1}, nil)
		}, http.MethodPost, "/db/query", "", `"query":"SELECT 1"`, ""},
		{"db execute", func(c *Client) error {
			return c.DB().Execute(ctx, "DELETE FROM x", nil, nil)
		}, http.MethodPost, "/db/execute", "", `"query":"DELETE FROM x"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.response
			if resp == "" {
				resp = `{}`
			}
			c, got := newServer(t, http.StatusOK, resp)
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.path)
			assert.Equal(t, tt.query, got.query)
			if tt.wantBodyIn != "" {
				assert.Contains(t, string(got.body), tt.wantBodyIn)
				assert.True(t, json.Valid(got.body))
			}
		})
	}
}

func TestHealth(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":"ok"}`)
	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/healthz", got.path)

	c, _ = newServer(t, http.StatusServiceUnavailable, `{"status":"degraded"}`)
	var he *HTTPError
	require.ErrorAs(t, c.Health(context.Background()), &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Status)
}
