// Package client embeds the browser scripts served with the hub.
package client

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed src/*.js
var assets embed.FS

// Assets returns the embedded scripts rooted at src.
func Assets() fs.FS {
	fsys, err := fs.Sub(assets, "src")
	if err != nil {
		panic(err)
	}
	return fsys
}

// Handler serves the embedded scripts.
func Handler() http.Handler {
	return http.FileServer(http.FS(Assets()))
}

// GetFile returns the contents of an embedded script.
func GetFile(name string) ([]byte, error) {
	return assets.ReadFile("src/" + name)
}

// FileNames returns the names of all embedded scripts.
func FileNames() []string {
	entries, err := assets.ReadDir("src")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}
