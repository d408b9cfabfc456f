// Package templatepack ships the default artifact templates. Projects that
// keep their own templates directory override the pack entirely; otherwise
// discovery falls back to these embedded files. The pack layout mirrors the
// output layout, so ".github/copilot-context.template.md" renders to
// ".github/copilot-context.md".
package templatepack

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var packFS embed.FS

// FS returns the embedded template tree rooted at the pack directory.
func FS() fs.FS {
	sub, err := fs.Sub(packFS, "templates")
	if err != nil {
		// The subdirectory is part of the build; failure here is a packaging
		// bug, not a runtime condition.
		panic(err)
	}
	return sub
}
