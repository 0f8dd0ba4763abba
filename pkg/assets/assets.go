// Package assets embeds the username check test page and its script and
// stylesheet.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
)

// IndexPage is the path of the test page inside StaticContent.
const IndexPage = "static/index.html"

//go:embed static/*
var StaticContent embed.FS

// ServeEmbedContent returns the embedded page, script and stylesheet as a file
// system which can be served from the root path.
func ServeEmbedContent() (static.ServeFileSystem, error) {
	fsys, err := fs.Sub(StaticContent, "static") // matches the path in `go:embed` above
	if err != nil {
		return nil, err
	}
	return StaticContentFileSystem{
		FileSystem: http.FS(fsys),
	}, nil
}

type StaticContentFileSystem struct {
	http.FileSystem
}

// Exists reports whether the request path, with the given prefix removed,
// names an embedded file or the root directory.
func (e StaticContentFileSystem) Exists(prefix string, path string) bool {
	p := strings.TrimPrefix(path, prefix)
	if len(p) == len(path) && prefix != "" && prefix != "/" {
		return false
	}
	f, err := e.Open("/" + strings.TrimPrefix(p, "/"))
	if err != nil {
		return false
	}
	return f.Close() == nil
}
