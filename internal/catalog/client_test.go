package catalog

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

const booksJSON = `[
  {"id": 1, "title": "Running Lean", "author": "Ash Maurya", "publisher": "O'REILLY", "categories": "process"},
  {"id": 2, "title": "Good to Great", "author": "Jim Collins", "publisher": "HarperBusiness", "categories": "business",
   "lastCheckedOut": "2018-02-24 18:39:43 UTC", "lastCheckedOutBy": "Ada"},
  {"id": 3, "title": "The Lean Startup", "author": "Eric Ries", "publisher": "Crown Business", "categories": "startup"}
]`

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL+"/" {
		t.Fatalf("url = %q, want %q", u.String(), DefaultBaseURL+"/")
	}

	u, err = parseBaseURL("127.0.0.1:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:8080" {
		t.Fatalf("url = %q, want http://127.0.0.1:8080", u.String())
	}

	u, err = parseBaseURL("https://example.com/api/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error for url without host")
	}
}

func TestClient_RoutesEveryOperation(t *testing.T) {
	t.Parallel()

	var (
		gotAddBody      string
		gotCheckoutBody string
		gotContentType  string
		gotUserAgent    string
		gotRequestIDs   []string
		gotRoutes       []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		gotRoutes = append(gotRoutes, route)
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestIDs = append(gotRequestIDs, r.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")

		switch route {
		case "GET /books":
			_, _ = w.Write([]byte(booksJSON))
		case "POST /books":
			gotAddBody = string(body)
			gotContentType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 7, "title": "T", "author": "X", "publisher": "P", "categories": "c"}`))
		case "PUT /books/2":
			gotCheckoutBody = string(body)
			_, _ = w.Write([]byte(`{"id": 2, "title": "Good to Great", "author": "Jim Collins", "publisher": "HarperBusiness",
				"categories": "business", "lastCheckedOut": "2026-10-14 09:30:00 UTC", "lastCheckedOutBy": "Grace"}`))
		case "DELETE /books/3":
			w.WriteHeader(http.StatusNoContent)
		case "DELETE /clean":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	books, err := c.FetchBooks(ctx)
	if err != nil {
		t.Fatalf("FetchBooks returned error: %v", err)
	}
	if len(books) != 3 || books[0].Title != "Running Lean" || books[0].ID != 1 {
		t.Fatalf("FetchBooks = %#v, want 3 books starting with Running Lean", books)
	}
	if !books[0].Available() {
		t.Fatalf("books[0] should be available, got checkout %#v", books[0].LastCheckout)
	}
	if books[1].LastCheckout == nil || books[1].LastCheckout.By != "Ada" {
		t.Fatalf("books[1] checkout = %#v, want Ada", books[1].LastCheckout)
	}

	created, err := c.AddBook(ctx, NewBook{Author: "X", Title: "T", Categories: "c", Publisher: "P"})
	if err != nil {
		t.Fatalf("AddBook returned error: %v", err)
	}
	if created.ID != 7 {
		t.Fatalf("AddBook id = %d, want 7", created.ID)
	}
	for _, field := range []string{`"author":"X"`, `"title":"T"`, `"categories":"c"`, `"publisher":"P"`} {
		if !strings.Contains(gotAddBody, field) {
			t.Fatalf("AddBook body = %s, want it to contain %s", gotAddBody, field)
		}
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}

	updated, err := c.Checkout(ctx, 2, "Grace")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if gotCheckoutBody != `{"lastCheckedOutBy":"Grace"}` {
		t.Fatalf("Checkout body = %s, want lastCheckedOutBy only", gotCheckoutBody)
	}
	want := time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)
	if updated.LastCheckout == nil || updated.LastCheckout.By != "Grace" || !updated.LastCheckout.At.Equal(want) {
		t.Fatalf("Checkout = %#v, want Grace at %v", updated.LastCheckout, want)
	}

	if err := c.DeleteBook(ctx, 3); err != nil {
		t.Fatalf("DeleteBook returned error: %v", err)
	}
	if err := c.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll returned error: %v", err)
	}

	wantRoutes := []string{"GET /books", "POST /books", "PUT /books/2", "DELETE /books/3", "DELETE /clean"}
	if strings.Join(gotRoutes, ",") != strings.Join(wantRoutes, ",") {
		t.Fatalf("routes = %v, want %v", gotRoutes, wantRoutes)
	}
	if !strings.HasPrefix(gotUserAgent, "shelf/") {
		t.Fatalf("User-Agent = %q, want shelf/*", gotUserAgent)
	}
	seen := map[string]bool{}
	for _, id := range gotRequestIDs {
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("request id %q is not a uuid: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("request id %q reused", id)
		}
		seen[id] = true
	}
}

func TestClient_KeepsBasePathPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/v1/")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.FetchBooks(context.Background()); err != nil {
		t.Fatalf("FetchBooks returned error: %v", err)
	}
	if gotPath != "/v1/books" {
		t.Fatalf("path = %q, want /v1/books", gotPath)
	}
}

func TestClient_StatusContracts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /books":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"something bad happened"}`))
		case "POST /books":
			_, _ = w.Write([]byte("{not-json"))
		case "PUT /books/1":
			_, _ = w.Write([]byte(`{"id": 1, "author": "A", "publisher": "P", "categories": "c"}`))
		case "DELETE /books/1":
			w.WriteHeader(http.StatusResetContent)
		case "DELETE /clean":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.FetchBooks(ctx)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("FetchBooks error = %v, want status 503", err)
	}
	if !errors.Is(err, ErrUnexpectedStatus) || !strings.Contains(err.Error(), "returned status 503") {
		t.Fatalf("FetchBooks error = %v, want ErrUnexpectedStatus", err)
	}

	_, err = c.AddBook(ctx, NewBook{Title: "T"})
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("AddBook error = %v, want decode response error", err)
	}

	_, err = c.Checkout(ctx, 1, "Ada")
	if err == nil || !strings.Contains(err.Error(), "missing required field: title") {
		t.Fatalf("Checkout error = %v, want missing title", err)
	}

	if err := c.DeleteBook(ctx, 1); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("DeleteBook error = %v, want 205 rejected", err)
	}
	if err := c.DeleteAll(ctx); err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("DeleteAll error = %v, want status 500 error", err)
	}
}

func TestClient_RequiresBookID(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.Checkout(context.Background(), 0, "Ada"); err == nil {
		t.Fatalf("Checkout returned nil error, want error")
	}
	if err := c.DeleteBook(context.Background(), -1); err == nil {
		t.Fatalf("DeleteBook returned nil error, want error")
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(url)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.FetchBooks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("FetchBooks error = %v, want execute request error", err)
	}
}
