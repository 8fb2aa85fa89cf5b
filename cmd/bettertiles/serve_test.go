package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sznuper/bettertiles/internal/config"
)

func testRuntime(t *testing.T, views ...config.View) *runtime {
	t.Helper()
	cfg := &config.Config{
		// Nothing listens on port 1, so every fetch fails.
		Livestatus: config.Livestatus{Address: "tcp://127.0.0.1:1"},
		User:       config.User{Name: "cmkadmin"},
		Views:      views,
	}
	rt, err := newRuntime(cfg, "/etc/bettertiles/config.yaml", slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("newRuntime: %v", err)
	}
	return rt
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(body)
}

func TestServer_Index(t *testing.T) {
	rt := testRuntime(t,
		config.View{Name: "groups", Title: "Host groups & more", Layout: "better_tiles", Datasource: "hostgroups"},
		config.View{Name: "problems", Layout: "better_tiles", Datasource: "services"},
	)
	code, body := get(t, newServer(rt).routes(), "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	for _, want := range []string{
		`<a href="/view/groups">Host groups &amp; more</a>`,
		`<a href="/view/problems">problems</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q:\n%s", want, body)
		}
	}
}

func TestServer_View(t *testing.T) {
	rt := testRuntime(t, config.View{
		Name: "hosts", Layout: "better_tiles", Datasource: "hosts",
		Columns: []config.Cell{{Painter: "host"}},
	})
	h := newServer(rt).routes()

	if code, _ := get(t, h, "/view/missing"); code != http.StatusNotFound {
		t.Errorf("missing view: status = %d, want 404", code)
	}

	code, body := get(t, h, "/view/hosts")
	if code != http.StatusBadGateway {
		t.Errorf("unreachable backend: status = %d, want 502", code)
	}
	if strings.Contains(body, "<table") {
		t.Error("partial page served on backend failure")
	}
}

func TestServer_Metrics(t *testing.T) {
	h := newServer(testRuntime(t, config.View{
		Name: "hosts", Layout: "better_tiles", Datasource: "hosts",
		Columns: []config.Cell{{Painter: "host"}},
	})).routes()
	get(t, h, "/view/hosts")

	code, body := get(t, h, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if !strings.Contains(body, `bettertiles_livestatus_queries_total{result="error",table="hosts"}`) {
		t.Errorf("metrics output has no bettertiles collectors:\n%s", body)
	}
}

func TestServer_Reload(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	old := testRuntime(t)
	old.path = path
	s := newServer(old)
	logger := slog.New(slog.DiscardHandler)

	// The file does not exist yet, so nothing is reloaded.
	s.reload(path, func(string) (*runtime, error) {
		t.Fatal("reload called for a missing file")
		return nil, nil
	}, logger)

	if err := os.WriteFile(path, []byte("views: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	next := testRuntime(t, config.View{Name: "new", Layout: "better_tiles", Datasource: "hosts"})
	s.reload(path, func(string) (*runtime, error) { return next, nil }, logger)
	if s.current() != next {
		t.Fatal("runtime not swapped after reload")
	}

	s.reload(path, func(string) (*runtime, error) { return nil, io.ErrUnexpectedEOF }, logger)
	if s.current() != next {
		t.Error("failed reload replaced the runtime")
	}
}
