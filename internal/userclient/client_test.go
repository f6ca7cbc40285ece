package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/atelier/internal/model"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

func newTestServer(t *testing.T, status int, response any) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   string(body),
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if response != nil {
			if err := json.NewEncoder(w).Encode(response); err != nil {
				t.Errorf("encode: %v", err)
			}
		}
	}))
	t.Cleanup(ts.Close)

	return ts, &requests
}

func TestClient_List(t *testing.T) {
	ts, reqs := newTestServer(t, http.StatusOK, []model.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
	})

	users, err := NewClient(ts.URL+"/users").List(context.Background())
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodGet, (*reqs)[0].method)
	assert.Equal(t, "/users", (*reqs)[0].path)
	assert.Empty(t, (*reqs)[0].auth)

	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestClient_Get(t *testing.T) {
	ts, reqs := newTestServer(t, http.StatusOK, model.User{ID: 1, Name: "Alice", Email: "alice@example.com"})

	u, err := NewClient(ts.URL+"/users").Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "/users/1", (*reqs)[0].path)
	assert.Equal(t, model.User{ID: 1, Name: "Alice", Email: "alice@example.com"}, *u)
}

func TestClient_Create(t *testing.T) {
	ts, reqs := newTestServer(t, http.StatusCreated, model.User{ID: 3, Name: "Charlie", Email: "charlie@example.com"})

	u, err := NewClient(ts.URL+"/users").Create(context.Background(), model.User{Name: "Charlie", Email: "charlie@example.com"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, (*reqs)[0].method)
	assert.Equal(t, "/users", (*reqs)[0].path)
	assert.JSONEq(t, `{"name":"Charlie","email":"charlie@example.com"}`, (*reqs)[0].body)
	assert.Equal(t, int64(3), u.ID)
}

func TestClient_Update(t *testing.T) {
	updated := model.User{ID: 1, Name: "Alice Updated", Email: "alice.new@example.com"}
	ts, reqs := newTestServer(t, http.StatusOK, updated)

	u, err := NewClient(ts.URL+"/users").Update(context.Background(), 1, updated)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.Equal(t, "/users/1", (*reqs)[0].path)
	assert.JSONEq(t, `{"id":1,"name":"Alice Updated","email":"alice.new@example.com"}`, (*reqs)[0].body)
	assert.Equal(t, "Alice Updated", u.Name)
}

func TestClient_Delete(t *testing.T) {
	ts, reqs := newTestServer(t, http.StatusOK, DeleteResult{Success: true})

	res, err := NewClient(ts.URL+"/users").Delete(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, (*reqs)[0].method)
	assert.Equal(t, "/users/1", (*reqs)[0].path)
	assert.True(t, res.Success)
}

func TestClient_Search(t *testing.T) {
	tests := []struct {
		name      string
		search    string
		age       int
		wantQuery string
	}{
		{name: "name only", search: "Alice", wantQuery: "name=Alice"},
		{name: "name and age", search: "Alice", age: 25, wantQuery: "age=25&name=Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, reqs := newTestServer(t, http.StatusOK, []model.User{{ID: 1, Name: "Alice", Email: "alice@example.com"}})

			users, err := NewClient(ts.URL+"/users").Search(context.Background(), tt.search, tt.age)
			require.NoError(t, err)

			assert.Equal(t, "/users", (*reqs)[0].path)
			assert.Equal(t, tt.wantQuery, (*reqs)[0].query)
			assert.Len(t, users, 1)
		})
	}
}

func TestClient_ListWithAuth(t *testing.T) {
	ts, reqs := newTestServer(t, http.StatusOK, []model.User{})

	_, err := NewClient(ts.URL+"/users").ListWithAuth(context.Background(), "Bearer fake-token-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer fake-token-123", (*reqs)[0].auth)
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, reqs := newTestServer(t, tt.status, map[string]string{"error": "boom"})

			_, err := NewClient(ts.URL+"/users").Get(context.Background(), 999)
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.JSONEq(t, `{"error":"boom"}`, string(statusErr.Body))
			assert.Len(t, *reqs, 1, "errors must not be retried")
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewClient(url).List(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestNewClient_BaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://localhost:3000/users", NewClient("localhost:3000/users/").BaseURL())
}

func TestGo_Wait(t *testing.T) {
	ts, _ := newTestServer(t, http.StatusOK, []model.User{{ID: 1, Name: "Alice"}})
	c := NewClient(ts.URL + "/users")

	p := Go(context.Background(), c.List)

	users, err := p.Wait()
	require.NoError(t, err)
	assert.Len(t, users, 1)

	select {
	case <-p.Done():
	default:
		t.Fatalf("Done must be closed after Wait returns")
	}
}

func TestGo_Cancel(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(ts.URL + "/users")
	p := Go(context.Background(), c.List)
	p.Cancel()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("cancelled call did not finish")
	}

	_, err := p.Wait()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitAll_FirstFailureCancelsRest(t *testing.T) {
	slowCancelled := make(chan struct{})
	slow := Go(context.Background(), func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			close(slowCancelled)
			return 0, ctx.Err()
		case <-time.After(3 * time.Second):
			return 1, nil
		}
	})
	boom := errors.New("boom")
	fast := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	})

	start := time.Now()
	_, failed, err := WaitAll([]*Pending[int]{slow, fast})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, failed)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-slowCancelled:
	case <-time.After(time.Second):
		t.Fatalf("slow call was not cancelled")
	}
}

func TestWaitAll_KeepsOrder(t *testing.T) {
	late := Go(context.Background(), func(ctx context.Context) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "first", nil
	})
	early := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "second", nil
	})

	got, failed, err := WaitAll([]*Pending[string]{late, early})
	require.NoError(t, err)
	assert.Equal(t, -1, failed)
	assert.Equal(t, []string{"first", "second"}, got)
}
