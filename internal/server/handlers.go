// Package server publishes generated station datasets over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const etagCap = 64

// HandleDatasetsList serves the JSON list of available datasets.
func (s *ServerContext) HandleDatasetsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config.Datasets)
}

// HandleDataset serves /datasets/{name}.geojson, resolving aliases.
func (s *ServerContext) HandleDataset(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutPrefix(r.URL.Path, "/datasets/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	name, ok = strings.CutSuffix(name, ".geojson")
	if !ok || name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	ds, ok := s.DatasetResolver[name]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if !s.serveFile(w, r, ds.Path, "application/geo+json") {
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
