package refimg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchReturnsImageBytes(t *testing.T) {
	want := []byte("jpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(want)
	}))
	defer srv.Close()

	f := NewFetcher(Options{})
	img, err := f.Fetch(context.Background(), srv.URL+"/mug.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(img.Data) != string(want) || img.MIME != "image/jpeg" {
		t.Errorf("image = %d bytes / %q", len(img.Data), img.MIME)
	}
}

func TestFetchServesRepeatsFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(Options{})
	url := srv.URL + "/same.png"
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), url); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("origin hit %d times, want 1", got)
	}
}

func TestFetchAllPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	f := NewFetcher(Options{MaxConcurrent: 2})
	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	images, err := f.FetchAll(context.Background(), urls)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(images) != 3 {
		t.Fatalf("got %d images, want 3", len(images))
	}
	for i, want := range []string{"/a", "/b", "/c"} {
		if string(images[i].Data) != want {
			t.Errorf("image %d = %q, want %q", i, images[i].Data, want)
		}
	}
}

func TestFetchRejectsBadInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := NewFetcher(Options{})
	cases := []struct {
		name string
		url  string
	}{
		{"unsupported scheme", "ftp://example.com/a.png"},
		{"not a url", "::nope::"},
		{"upstream 404", srv.URL + "/missing"},
		{"empty body", srv.URL + "/empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.Fetch(context.Background(), tc.url); err == nil {
				t.Fatalf("Fetch(%q) succeeded, want error", tc.url)
			}
		})
	}
}
