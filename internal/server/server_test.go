package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/tripmap/internal/config"
	"github.com/woozymasta/tripmap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, dir, name string, stations []geo.Station) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, geo.EncodeCollection(&buf, stations))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func newTestServer(t *testing.T) (*ServerContext, http.Handler) {
	t.Helper()
	dir := t.TempDir()

	ps := writeDataset(t, dir, "ps.geojson", []geo.Station{
		{SID: "x_1", Title: "Cornet Bay", Type: geo.TypeLaunch, Lon: -122.62, Lat: 48.4, Label: geo.NoLabel()},
		{SID: "c_2", Title: "Rosario", Type: geo.TypeCurrent, Lon: -122.75, Lat: 48.46, Label: geo.NoLabel()},
	})
	sj := writeDataset(t, dir, "sj.geojson", []geo.Station{
		{SID: "t_3", Title: "Friday Harbor", Type: geo.TypeTide, Lon: -123.01, Lat: 48.55, Label: geo.NoLabel()},
	})
	broken := filepath.Join(dir, "broken.geojson")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0644))

	one := 1
	cfg := &config.Config{
		Attribution: "NOAA",
		Datasets: []config.Dataset{
			{Name: "sanjuans", Path: sj},
			{Name: "pugetsound", Path: ps, Aliases: []string{"ps"}, Index: &one, Attribution: "Local"},
			{Name: "missing", Path: filepath.Join(dir, "missing.geojson")},
			{Name: "broken", Path: broken},
		},
	}

	ctx := NewServerContext(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/datasets", ctx.HandleDatasetsList)
	mux.HandleFunc("/datasets/", ctx.HandleDataset)

	return ctx, RequestLogger(mux)
}

func TestNewServerContext(t *testing.T) {
	ctx, _ := newTestServer(t)

	require.Len(t, ctx.Config.Datasets, 2)
	assert.Equal(t, "pugetsound", ctx.Config.Datasets[0].Name)
	assert.Equal(t, "sanjuans", ctx.Config.Datasets[1].Name)

	assert.Equal(t, 2, ctx.Config.Datasets[0].Features)
	assert.Equal(t, "Local", ctx.Config.Datasets[0].Attribution)
	assert.Equal(t, "NOAA", ctx.Config.Datasets[1].Attribution)
	assert.Equal(t, "sanjuans", ctx.Config.Datasets[1].Title)

	assert.Same(t, ctx.DatasetResolver["pugetsound"], ctx.DatasetResolver["ps"])
	assert.NotContains(t, ctx.DatasetResolver, "missing")
	assert.NotContains(t, ctx.DatasetResolver, "broken")
}

func TestHandleDatasetsList(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/datasets", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "pugetsound", list[0]["name"])
	assert.Equal(t, 2.0, list[0]["features"])
	assert.NotContains(t, list[0], "path")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/datasets", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleDataset(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/datasets/ps.geojson", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	stations, err := geo.DecodeStations(rec.Body)
	require.NoError(t, err)
	assert.Len(t, stations, 2)

	req := httptest.NewRequest(http.MethodGet, "/datasets/pugetsound.geojson", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestHandleDataset_NotFound(t *testing.T) {
	_, h := newTestServer(t)

	for _, path := range []string{
		"/datasets/unknown.geojson",
		"/datasets/missing.geojson",
		"/datasets/ps.json",
		"/datasets/.geojson",
		"/datasets/a/ps.geojson",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
