package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/sznuper/bettertiles/internal/config"
	"github.com/sznuper/bettertiles/internal/metrics"
	"github.com/sznuper/bettertiles/internal/page"
	"github.com/sznuper/bettertiles/internal/view"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve views over HTTP",
	Long:  "Serves every configured view at /view/<name> and Prometheus metrics at /metrics. The config file is reloaded when it changes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		logger := setupLogger()

		rt, err := loadRuntime(cmd, logger)
		if err != nil {
			return err
		}
		if listen == "" {
			listen = rt.cfg.Listen
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := newServer(rt)
		go srv.watch(ctx, func(path string) (*runtime, error) {
			cfg, _, err := config.Resolve(path)
			if err != nil {
				return nil, err
			}
			if err := applyOptionFlags(cmd, cfg); err != nil {
				return nil, err
			}
			if userName != "" {
				cfg.User.Name = userName
			}
			return newRuntime(cfg, path, logger)
		})

		httpSrv := &http.Server{
			Addr:              listen,
			Handler:           srv.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", listen, "config", rt.path)
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (overrides the config)")
	rootCmd.AddCommand(serveCmd)
}

// server holds the runtime behind a lock so a config reload can swap it
// while requests are in flight.
type server struct {
	mu sync.RWMutex
	rt *runtime
}

func newServer(rt *runtime) *server {
	return &server{rt: rt}
}

func (s *server) current() *runtime {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rt
}

func (s *server) swap(rt *runtime) {
	s.mu.Lock()
	s.rt = rt
	s.mu.Unlock()
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /view/{name}", s.handleView)
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rt := s.current()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	writeDocument(w, "Views", func(out io.Writer) view.Result {
		pw := page.NewWriter(out)
		pw.Element("h1", "Views")
		pw.Open("ul")
		for _, v := range rt.cfg.Views {
			title := v.Title
			if title == "" {
				title = v.Name
			}
			pw.Open("li")
			pw.Element("a", page.Escape(title), page.Href("/view/"+url.PathEscape(v.Name)))
			pw.Close("li")
		}
		pw.Close("ul")
		return view.Result{Err: pw.Err()}
	})
}

func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	rt := s.current()
	name := r.PathValue("name")

	v := rt.views.FindView(name)
	if v == nil {
		http.NotFound(w, r)
		return
	}
	title := v.Title
	if title == "" {
		title = v.Name
	}

	// Render into a buffer first so a failing backend yields a proper
	// status code instead of half a page.
	var body bytes.Buffer
	res := writeDocument(&body, title, func(out io.Writer) view.Result {
		return rt.views.Render(r.Context(), out, name, nil, rt.cfg.User)
	})
	if res.Err != nil {
		code := http.StatusInternalServerError
		if res.ErrStage == "fetch" {
			code = http.StatusBadGateway
		}
		http.Error(w, fmt.Sprintf("%s: %v", res.ErrStage, res.Err), code)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = body.WriteTo(w)
}

// watch reloads the runtime whenever the config file changes. The parent
// directory is watched since editors usually replace files by rename.
func (s *server) watch(ctx context.Context, reload func(path string) (*runtime, error)) {
	path := s.current().path
	logger := s.current().logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watch disabled", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("config watch disabled", "path", path, "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watch error", "error", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			s.reload(path, reload, logger)
		}
	}
}

func (s *server) reload(path string, reload func(string) (*runtime, error), logger *slog.Logger) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	rt, err := reload(path)
	if err != nil {
		logger.Error("config reload failed, keeping previous config", "path", path, "error", err)
		return
	}
	s.swap(rt)
	logger.Info("config reloaded", "path", path, "views", len(rt.cfg.Views))
}
