// Package web embeds the dashboard's static assets (stylesheet and the
// live-update script) for serving from the Go binary.
//
// Usage in the API server:
//
//	fs := web.StaticFS() // io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"

	"github.com/rs/zerolog/log"
)

//go:embed static
var static embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("web.StaticFS")
	}
	return sub
}
