package handlers

import (
	"net/http"
	"path/filepath"
)

// ServeIndex serves the frontend's index.html from dir.
func ServeIndex(dir string) http.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	}
}

// ServeAssets serves dir/assets under the /assets/ prefix.
func ServeAssets(dir string) http.Handler {
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(filepath.Join(dir, "assets"))))
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
