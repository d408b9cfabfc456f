// Package server implements the preview server: it renders every artifact
// in memory, serves the results over HTTP, and pushes live-reload
// notifications to connected browsers when templates or the project
// configuration change.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/pilotgen/pilotgen/internal/config"
	"github.com/pilotgen/pilotgen/internal/generator"
	"github.com/pilotgen/pilotgen/internal/logging"
	"github.com/pilotgen/pilotgen/internal/registry"
	"github.com/pilotgen/pilotgen/internal/watcher"
)

// Client represents a connected live-reload browser.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

// PreviewServer serves rendered artifacts with live reload.
type PreviewServer struct {
	cfg         *config.Config
	gen         *generator.Generator
	watcher     *watcher.FileWatcher
	logger      logging.Logger
	httpServer  *http.Server
	serverMutex sync.RWMutex

	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn

	artifacts     map[string]generator.Artifact
	lastResult    *generator.Result
	lastRendered  time.Time
	artifactMutex sync.RWMutex

	shutdownOnce sync.Once
}

// UpdateMessage is pushed to browsers over the live-reload socket.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a preview server around a fresh generator and file watcher.
func New(cfg *config.Config, logger logging.Logger) (*PreviewServer, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	logger = logger.WithComponent("server")

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &PreviewServer{
		cfg:        cfg,
		gen:        generator.New(cfg, generator.WithLogger(logger)),
		watcher:    fw,
		logger:     logger,
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		artifacts:  make(map[string]generator.Artifact),
	}, nil
}

// Start renders the initial artifact set, wires the file watcher, and serves
// HTTP until the listener fails or Shutdown is called.
func (s *PreviewServer) Start(ctx context.Context) error {
	if err := s.gen.LoadTemplates(ctx); err != nil {
		return err
	}
	if err := s.regenerate(ctx); err != nil {
		s.logger.Warn(ctx, err, "initial render failed")
	}

	s.setupFileWatcher(ctx)
	go s.runWebSocketHub(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/artifacts", s.handleArtifacts)
	mux.HandleFunc("/artifact/", s.handleArtifact)
	mux.HandleFunc("/", s.handleIndex)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.withRequestLogging(mux),
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	if s.cfg.Server.Open {
		go s.openBrowser(ctx, fmt.Sprintf("http://%s", addr))
	}

	s.logger.Info(ctx, "preview server listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) {
	s.watcher.AddFilter(watcher.ProjectConfigFilter(s.cfg.Templates.Suffix))
	s.watcher.AddFilter(watcher.NoTempFilter)
	s.watcher.AddFilter(watcher.NoGitFilter)
	s.watcher.AddHandler(func(events []watcher.ChangeEvent) error {
		return s.handleFileChange(ctx, events)
	})

	paths := s.cfg.Watch.Paths
	if len(paths) == 0 {
		paths = []string{s.cfg.Templates.Dir, s.cfg.Project.ConfigFile}
	}
	for _, path := range paths {
		if err := s.watcher.AddRecursive(path); err != nil {
			s.logger.Warn(ctx, err, "failed to watch path", "path", path)
		}
	}

	if err := s.watcher.Start(ctx); err != nil {
		s.logger.Warn(ctx, err, "failed to start file watcher")
	}
}

// handleFileChange re-discovers templates and re-renders everything, then
// tells connected browsers to reload.
func (s *PreviewServer) handleFileChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Info(ctx, "file changed", "path", event.Path, "type", event.Type.String())
	}

	if err := s.gen.LoadTemplates(ctx); err != nil {
		s.logger.Warn(ctx, err, "template reload failed")
	}
	if err := s.regenerate(ctx); err != nil {
		s.broadcastMessage(UpdateMessage{
			Type:      "render_error",
			Content:   err.Error(),
			Timestamp: time.Now(),
		})
		return nil
	}

	s.broadcastMessage(UpdateMessage{
		Type:      "artifacts_updated",
		Timestamp: time.Now(),
	})
	return nil
}

// regenerate renders all artifacts into the in-memory preview cache; nothing
// is written to disk.
func (s *PreviewServer) regenerate(ctx context.Context) error {
	result, err := s.gen.Generate(ctx, generator.Request{DryRun: true})
	if err != nil {
		return err
	}

	s.artifactMutex.Lock()
	s.artifacts = make(map[string]generator.Artifact, len(result.Artifacts))
	for _, a := range result.Artifacts {
		s.artifacts[a.OutputPath] = a
	}
	s.lastResult = result
	s.lastRendered = time.Now()
	s.artifactMutex.Unlock()
	return nil
}

// ArtifactPaths lists rendered artifact paths in stable order.
func (s *PreviewServer) ArtifactPaths() []string {
	s.artifactMutex.RLock()
	defer s.artifactMutex.RUnlock()

	paths := make([]string, 0, len(s.artifacts))
	for path := range s.artifacts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Registry exposes the underlying template registry.
func (s *PreviewServer) Registry() *registry.TemplateRegistry {
	return s.gen.Registry()
}

func (s *PreviewServer) withRequestLogging(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		handler.ServeHTTP(w, r)
		s.logger.Debug(r.Context(), "request served",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

func (s *PreviewServer) openBrowser(ctx context.Context, url string) {
	time.Sleep(100 * time.Millisecond) // Give the listener time to come up.

	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}
	if err != nil {
		s.logger.Warn(ctx, err, "failed to open browser")
	}
}

func (s *PreviewServer) broadcastMessage(msg UpdateMessage) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		s.broadcast <- []byte(`{"type":"full_reload"}`)
		return
	}
	select {
	case s.broadcast <- jsonData:
	default:
	}
}

// Shutdown gracefully shuts down the server and cleans up resources.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "shutting down preview server")

		if s.watcher != nil {
			_ = s.watcher.Stop()
		}

		s.clientsMutex.Lock()
		for conn, client := range s.clients {
			close(client.send)
			_ = conn.Close(websocket.StatusNormalClosure, "")
		}
		s.clients = make(map[*websocket.Conn]*Client)
		s.clientsMutex.Unlock()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
