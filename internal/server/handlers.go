package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/pilotgen/pilotgen/internal/generator"
	"github.com/pilotgen/pilotgen/internal/version"
)

// artifactSummary is the JSON shape of one artifact in the /api/artifacts
// listing.
type artifactSummary struct {
	Template    string `json:"template"`
	OutputPath  string `json:"output_path"`
	Bytes       int    `json:"bytes"`
	Diagnostics int    `json:"diagnostics"`
	Error       string `json:"error,omitempty"`
}

func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.artifactMutex.RLock()
	artifactCount := len(s.artifacts)
	rendered := s.lastRendered
	s.artifactMutex.RUnlock()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   version.GetShortVersion(),
		"checks": map[string]interface{}{
			"templates": map[string]interface{}{"status": "healthy", "count": s.gen.Registry().Count()},
			"artifacts": map[string]interface{}{"status": "healthy", "count": artifactCount, "rendered_at": rendered},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Warn(r.Context(), err, "failed to encode health response")
	}
}

func (s *PreviewServer) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	paths := s.ArtifactPaths()

	s.artifactMutex.RLock()
	summaries := make([]artifactSummary, 0, len(paths))
	for _, path := range paths {
		a := s.artifacts[path]
		summary := artifactSummary{
			Template:    a.Template,
			OutputPath:  a.OutputPath,
			Bytes:       len(a.Content),
			Diagnostics: len(a.Diagnostics),
		}
		if a.Err != nil {
			summary.Error = a.Err.Error()
		}
		summaries = append(summaries, summary)
	}
	s.artifactMutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"artifacts": summaries,
		"count":     len(summaries),
	})
}

// handleArtifact serves one rendered artifact as plain text under
// /artifact/<output path>.
func (s *PreviewServer) handleArtifact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/artifact/")
	if path == "" {
		http.Error(w, "Artifact path required", http.StatusBadRequest)
		return
	}

	s.artifactMutex.RLock()
	artifact, ok := s.artifacts[filepath.FromSlash(path)]
	s.artifactMutex.RUnlock()

	if !ok {
		http.Error(w, "Artifact not found", http.StatusNotFound)
		return
	}
	if artifact.Err != nil {
		http.Error(w, fmt.Sprintf("Artifact failed to render: %v", artifact.Err),
			http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(path))
	w.Write(artifact.Content)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".yml", ".yaml":
		return "text/yaml; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>pilotgen preview</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 48rem; }
li { margin: 0.25rem 0; }
.err { color: #b00; }
.diag { color: #975a16; font-size: 0.85em; }
</style>
</head>
<body>
<h1>pilotgen preview</h1>
<p>{{len .Artifacts}} artifacts, rendered {{.Rendered.Format "15:04:05"}}</p>
<ul>
{{range .Artifacts}}
<li>
{{if .Err}}<span class="err">{{.OutputPath}} — {{.Err}}</span>
{{else}}<a href="/artifact/{{.OutputPath}}">{{.OutputPath}}</a>{{end}}
{{if .Diagnostics}}<span class="diag">({{len .Diagnostics}} diagnostics)</span>{{end}}
</li>
{{end}}
</ul>
<script>
(function() {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function(ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "artifacts_updated" || msg.type === "full_reload") {
      location.reload();
    }
  };
})();
</script>
</body>
</html>
`))

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	paths := s.ArtifactPaths()

	s.artifactMutex.RLock()
	artifacts := make([]generator.Artifact, 0, len(paths))
	for _, path := range paths {
		artifacts = append(artifacts, s.artifacts[path])
	}
	rendered := s.lastRendered
	s.artifactMutex.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, map[string]interface{}{
		"Artifacts": artifacts,
		"Rendered":  rendered,
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "failed to render index page")
	}
}
