// Package resources provides the embedded static assets for the console.
package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Handler serves the embedded static files.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Embedded assets never change within one binary.
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

// IndexPage returns the page shell. All dynamic content is patched in
// over SSE after load.
func IndexPage() []byte {
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// The file is embedded; a read failure is a build defect.
		panic(err)
	}
	return data
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
