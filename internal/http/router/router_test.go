package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-web/internal/http/handlers/web"
	"github.com/aanand-mishra/students-web/internal/storage"
	"github.com/aanand-mishra/students-web/internal/storage/memory"
	"github.com/aanand-mishra/students-web/internal/types"
	"github.com/aanand-mishra/students-web/internal/view"
)

var defaults = Options{AllowGetDelete: true, StrictUpdate: true}

func newServer(t *testing.T, opts Options) (*httptest.Server, storage.Storage) {
	t.Helper()

	renderer, err := view.New()
	require.NoError(t, err)

	store := memory.New()
	srv := httptest.NewServer(New(store, renderer, opts))
	t.Cleanup(srv.Close)

	return srv, store
}

// client does not follow redirects so tests can assert on the 302 itself.
func client() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func do(t *testing.T, method, target string, values url.Values) *http.Response {
	t.Helper()

	var body *strings.Reader
	if values != nil {
		body = strings.NewReader(values.Encode())
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func assertRedirectHome(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))
}

func TestWelcome(t *testing.T) {
	srv, _ := newServer(t, defaults)

	resp := do(t, http.MethodGet, srv.URL+"/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, web.WelcomeMessage, readBody(t, resp))
}

func TestStudentLifecycle(t *testing.T) {
	srv, store := newServer(t, defaults)
	ctx := context.Background()

	resp := do(t, http.MethodGet, srv.URL+"/add/student", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `action="/add/student"`)

	resp = do(t, http.MethodPost, srv.URL+"/add/student", url.Values{
		"name": {"Ana"}, "email": {"a@x.com"}, "course": {"CS"}, "phone": {"123"},
	})
	assertRedirectHome(t, resp)

	resp = do(t, http.MethodGet, srv.URL+"/home", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "<td>Ana</td>")
	assert.Contains(t, body, "<td>a@x.com</td>")

	resp = do(t, http.MethodGet, srv.URL+"/update/student/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `name="course" value="CS"`)

	resp = do(t, http.MethodPost, srv.URL+"/update/student/1", url.Values{
		"name": {"Bea"}, "email": {"b@y.org"}, "course": {"Math"}, "phone": {"456"},
	})
	assertRedirectHome(t, resp)

	got, err := store.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.StudentFields{Name: "Bea", Email: "b@y.org", Course: "Math", Phone: "456"}, got.Fields())

	resp = do(t, http.MethodGet, srv.URL+"/delete/student/1", nil)
	assertRedirectHome(t, resp)

	_, err = store.GetStudentByID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	resp = do(t, http.MethodGet, srv.URL+"/home", nil)
	assert.NotContains(t, readBody(t, resp), "Bea")
}

func TestUnknownIDs(t *testing.T) {
	srv, _ := newServer(t, defaults)
	full := url.Values{"name": {""}, "email": {""}, "course": {""}, "phone": {""}}

	tests := []struct {
		method string
		path   string
		values url.Values
	}{
		{http.MethodGet, "/update/student/1", nil},
		{http.MethodPost, "/update/student/1", full},
		{http.MethodPost, "/update/student/1", url.Values{}},
		{http.MethodGet, "/delete/student/1", nil},
		{http.MethodPost, "/delete/student/1", nil},
		{http.MethodGet, "/update/student/abc", nil},
		{http.MethodGet, "/delete/student/-1", nil},
	}

	for _, tt := range tests {
		resp := do(t, tt.method, srv.URL+tt.path, tt.values)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tt.method+" "+tt.path)
	}
}

func TestStrictUpdateRejectsMissingField(t *testing.T) {
	srv, store := newServer(t, defaults)
	_, err := store.CreateStudent(context.Background(), types.StudentFields{Name: "Ana"})
	require.NoError(t, err)

	resp := do(t, http.MethodPost, srv.URL+"/update/student/1", url.Values{"name": {"Bea"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLenientUpdateAcceptsMissingField(t *testing.T) {
	srv, store := newServer(t, Options{AllowGetDelete: true, StrictUpdate: false})
	_, err := store.CreateStudent(context.Background(), types.StudentFields{Name: "Ana", Phone: "1"})
	require.NoError(t, err)

	resp := do(t, http.MethodPost, srv.URL+"/update/student/1", url.Values{"name": {"Bea"}})
	assertRedirectHome(t, resp)

	got, err := store.GetStudentByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, types.StudentFields{Name: "Bea"}, got.Fields())
}

func TestDeleteRequiresPost(t *testing.T) {
	srv, store := newServer(t, Options{AllowGetDelete: false, StrictUpdate: true})
	_, err := store.CreateStudent(context.Background(), types.StudentFields{Name: "Ana"})
	require.NoError(t, err)

	resp := do(t, http.MethodGet, srv.URL+"/delete/student/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	_, err = store.GetStudentByID(context.Background(), 1)
	require.NoError(t, err)

	resp = do(t, http.MethodPost, srv.URL+"/delete/student/1", nil)
	assertRedirectHome(t, resp)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t, defaults)

	resp := do(t, http.MethodPost, srv.URL+"/home", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestJSONAPI(t *testing.T) {
	srv, _ := newServer(t, defaults)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/students",
		strings.NewReader(`{"name":"Ana","email":"a@x.com","course":"CS","phone":"123"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/students/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com","course":"CS","phone":"123"}`, readBody(t, resp))

	resp = do(t, http.MethodGet, srv.URL+"/api/students", nil)
	assert.JSONEq(t, `[{"id":1,"name":"Ana","email":"a@x.com","course":"CS","phone":"123"}]`, readBody(t, resp))

	resp = do(t, http.MethodDelete, srv.URL+"/api/students/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/students/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/students/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogsUnmatchedRequests(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	renderer, err := view.New()
	require.NoError(t, err)
	handler := New(memory.New(), renderer, defaults)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no/such/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/home", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	logs := buf.String()
	assert.Contains(t, logs, "path=/no/such/page status=404")
	assert.Contains(t, logs, "path=/home status=405")
}
