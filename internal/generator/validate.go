package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pilotgen/pilotgen/internal/errors"
	"github.com/pilotgen/pilotgen/internal/registry"
)

// ValidateArtifact checks rendered content before it is written. Artifacts
// must be non-empty, and YAML artifacts must parse.
func ValidateArtifact(outputPath string, content []byte) error {
	if len(strings.TrimSpace(string(content))) == 0 {
		return errors.NewValidationError("EMPTY_ARTIFACT",
			fmt.Sprintf("artifact %q rendered to empty content", outputPath))
	}
	if isYAMLPath(outputPath) {
		var doc interface{}
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return errors.NewValidationError("INVALID_YAML_ARTIFACT",
				fmt.Sprintf("artifact %q is not valid YAML: %v", outputPath, err))
		}
	}
	return nil
}

// Issue describes one problem found while verifying previously generated
// artifacts on disk.
type Issue struct {
	Artifact string
	Message  string
}

func (i Issue) String() string {
	return i.Artifact + ": " + i.Message
}

// VerifyOutputs checks that every registered template's artifact exists under
// outputDir, is non-empty, and (for YAML artifacts) parses. It reports
// problems rather than failing on the first one.
func VerifyOutputs(outputDir string, entries []*registry.Entry) []Issue {
	var issues []Issue
	for _, entry := range entries {
		rel := entry.Info.OutputPath
		path := filepath.Join(outputDir, rel)

		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				issues = append(issues, Issue{Artifact: rel, Message: "not generated"})
			} else {
				issues = append(issues, Issue{Artifact: rel, Message: err.Error()})
			}
			continue
		}
		if err := ValidateArtifact(rel, content); err != nil {
			issues = append(issues, Issue{Artifact: rel, Message: err.Error()})
		}
	}
	return issues
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}
