package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFiles embed.FS

// StaticFiles is the embedded web UI, rooted at the static directory.
var StaticFiles, _ = fs.Sub(staticFiles, "static")
