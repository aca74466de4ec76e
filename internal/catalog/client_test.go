package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const mockPagesResponse = `{"pages":[{"type":"text"},{"type":"code"},{"type":"command"},{"type":"image"},{"type":"slideshow"}]}`

func newMockServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/pages", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("Request method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, mockPagesResponse)
	})
	mux.HandleFunc("/pages/{index}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.PathValue("index") {
		case "0":
			fmt.Fprint(w, `{"content":["first","second","third"]}`)
		case "1":
			fmt.Fprint(w, `<pre><code>fmt.Println("hi")</code></pre>`)
		case "2":
			fmt.Fprint(w, `<pre>total 0</pre>`)
		case "3":
			fmt.Fprint(w, `<img src='diagram.png'>`)
		case "4":
			fmt.Fprint(w, `{"text_lines":["legacy"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/command/{index}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.PathValue("index") == "2" {
			fmt.Fprint(w, "ls -la\n")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &hits
}

func TestNewClient_TrimsSlash(t *testing.T) {
	client := NewClient("http://localhost:8080/")
	if client.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s, want http://localhost:8080", client.BaseURL)
	}
	if client.HTTPClient == nil || client.HTTPClient.Timeout != DefaultTimeout {
		t.Error("HTTPClient should use DefaultTimeout")
	}
}

func TestFetchAll_Success(t *testing.T) {
	server, _ := newMockServer(t)
	client := NewClient(server.URL)

	pages, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	want := []PageType{Text, Code, Command, Image, Text}
	if len(pages) != len(want) {
		t.Fatalf("len(pages) = %d, want %d", len(pages), len(want))
	}
	for i, p := range pages {
		if p.Index != i {
			t.Errorf("pages[%d].Index = %d", i, p.Index)
		}
		if p.Type != want[i] {
			t.Errorf("pages[%d].Type = %v, want %v", i, p.Type, want[i])
		}
	}
}

func TestFetchAll_ServerErrorLeavesCatalogEmpty(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchAll(context.Background())
	if !IsHTTPError(err) {
		t.Fatalf("FetchAll() error = %v, want HTTP error", err)
	}
	if len(client.Pages()) != 0 {
		t.Error("catalog should be empty after failed bootstrap")
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want exactly 1 (no retry)", hits.Load())
	}
}

func TestFetchAll_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pages": [`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchAll(context.Background()); !IsParseError(err) {
		t.Errorf("FetchAll() error = %v, want parse error", err)
	}
}

func TestFetchAll_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	if _, err := client.FetchAll(context.Background()); !IsNetworkError(err) {
		t.Errorf("FetchAll() error = %v, want network error", err)
	}
}

func TestFetchContent(t *testing.T) {
	server, _ := newMockServer(t)
	client := NewClient(server.URL)
	if _, err := client.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	t.Run("text", func(t *testing.T) {
		c, err := client.FetchContent(context.Background(), 0)
		if err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
		if c.Type != Text || strings.Join(c.Lines, "|") != "first|second|third" {
			t.Errorf("content = %+v", c)
		}
	})

	t.Run("code", func(t *testing.T) {
		c, err := client.FetchContent(context.Background(), 1)
		if err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
		if c.Type != Code || !strings.Contains(c.Markup, "fmt.Println") {
			t.Errorf("content = %+v", c)
		}
	})

	t.Run("image", func(t *testing.T) {
		c, err := client.FetchContent(context.Background(), 3)
		if err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
		if c.Type != Image || !strings.Contains(c.Markup, "diagram.png") {
			t.Errorf("content = %+v", c)
		}
	})

	t.Run("legacy text key", func(t *testing.T) {
		c, err := client.FetchContent(context.Background(), 4)
		if err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
		if len(c.Lines) != 1 || c.Lines[0] != "legacy" {
			t.Errorf("Lines = %v, want [legacy]", c.Lines)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		if _, err := client.FetchContent(context.Background(), 9); !IsOutOfRange(err) {
			t.Errorf("FetchContent(9) error = %v, want out of range", err)
		}
	})
}

func TestFetchContent_CommandMakesNoRequest(t *testing.T) {
	server, hits := newMockServer(t)
	client := NewClient(server.URL)
	if _, err := client.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	before := hits.Load()

	c, err := client.FetchContent(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if c.Type != Command {
		t.Errorf("Type = %v, want command", c.Type)
	}
	if hits.Load() != before {
		t.Error("Command page content should not hit the server")
	}
}

func TestFetchContent_NotCached(t *testing.T) {
	server, hits := newMockServer(t)
	client := NewClient(server.URL)
	if _, err := client.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	before := hits.Load()

	for i := 0; i < 3; i++ {
		if _, err := client.FetchContent(context.Background(), 0); err != nil {
			t.Fatalf("FetchContent() error = %v", err)
		}
	}
	if got := hits.Load() - before; got != 3 {
		t.Errorf("server hit %d times for 3 visits, want 3", got)
	}
}

func TestFetchFragment(t *testing.T) {
	server, _ := newMockServer(t)
	client := NewClient(server.URL)

	got, err := client.FetchFragment(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchFragment() error = %v", err)
	}
	if got != "<pre>total 0</pre>" {
		t.Errorf("FetchFragment() = %q", got)
	}
}

func TestFetchLabel(t *testing.T) {
	server, _ := newMockServer(t)
	client := NewClient(server.URL)

	got, err := client.FetchLabel(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchLabel() error = %v", err)
	}
	if got != "ls -la" {
		t.Errorf("FetchLabel() = %q, want %q", got, "ls -la")
	}

	if _, err := client.FetchLabel(context.Background(), 0); !IsHTTPError(err) {
		t.Errorf("FetchLabel(0) error = %v, want HTTP error", err)
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	server, _ := newMockServer(t)
	client := NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchLabel(ctx, 2); !IsNetworkError(err) {
		t.Errorf("FetchLabel() with canceled context error = %v, want network error", err)
	}
}
