package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSessionOpenerBuildsEscapedPath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		_, _ = io.WriteString(w, "audio")
	}))
	defer server.Close()

	opener := NewHTTPSessionOpener(server.URL+"/", nil)
	stream, err := opener.Open(context.Background(), "youtube", "watch?v=abc")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer stream.Close()

	want := "/v1/streams/youtube/watch%3Fv=abc"
	if path != want {
		t.Errorf("request path = %q, want %q", path, want)
	}

	body, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("reading stream failed: %v", err)
	}
	if string(body) != "audio" {
		t.Errorf("stream body = %q, want the gateway audio", body)
	}
}

func TestHTTPSessionOpenerRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	opener := NewHTTPSessionOpener(server.URL, nil)
	if _, err := opener.Open(context.Background(), "youtube", "abc"); err == nil {
		t.Fatal("Open() should fail on a non-2xx response")
	}
}
