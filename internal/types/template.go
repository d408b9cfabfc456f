// Package types provides common type definitions used throughout the pilotgen
// CLI. This package contains shared types to avoid circular dependencies
// between packages.
package types

import "time"

// TemplateInfo contains metadata about a discovered artifact template, used
// by the discovery walker, the registry, and the generator.
type TemplateInfo struct {
	// Name is the template identifier, e.g. "copilot-instructions".
	Name string
	// FilePath is the path to the template file on disk; empty for templates
	// loaded from the embedded pack.
	FilePath string
	// OutputPath is the artifact path this template renders to, relative to
	// the output directory (e.g. ".github/copilot-instructions.md").
	OutputPath string
	// Group classifies the artifact for selection flags: "copilot", "claude",
	// or "issue-template".
	Group string
	// LastMod tracks the last modification time for change detection.
	LastMod time.Time
	// Hash provides a CRC32 checksum for efficient change detection.
	Hash string
	// Embedded marks templates that came from the built-in pack rather than
	// the project's templates directory.
	Embedded bool
}

// EventType represents the type of template change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// TemplateEvent represents a change in the template registry, used for
// real-time notifications to watchers like the preview server.
type TemplateEvent struct {
	Type      EventType
	Template  *TemplateInfo
	Timestamp time.Time
}
