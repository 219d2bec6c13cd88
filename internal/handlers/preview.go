// Package handlers implements the HTTP endpoints of the preview server.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kinotrend/pkg/logger"
)

// PosterInfo describes one rendered poster in the output directory.
type PosterInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// PreviewHandler serves the rendered poster directory read-only.
type PreviewHandler struct {
	dir    string
	logger logger.Logger
}

// NewPreview creates a handler serving posters from dir.
func NewPreview(dir string, log logger.Logger) *PreviewHandler {
	return &PreviewHandler{dir: dir, logger: log}
}

// Health reports liveness.
func (h *PreviewHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPosters returns the JSON index of rendered posters.
func (h *PreviewHandler) ListPosters(c *gin.Context) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		h.logger.Errorf("[Preview] failed to read poster directory: %v", err)
		c.JSON(http.StatusOK, gin.H{"posters": []PosterInfo{}})
		return
	}

	posters := make([]PosterInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".jpg") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		posters = append(posters, PosterInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(posters, func(i, j int) bool { return posters[i].Name < posters[j].Name })

	c.JSON(http.StatusOK, gin.H{"posters": posters})
}

// GetPoster serves one poster image by file name.
func (h *PreviewHandler) GetPoster(c *gin.Context) {
	name := c.Param("name")

	// Reject anything that is not a plain poster file name.
	if name != filepath.Base(name) || !strings.HasSuffix(strings.ToLower(name), ".jpg") {
		c.JSON(http.StatusNotFound, gin.H{"error": "poster not found"})
		return
	}

	path := filepath.Join(h.dir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "poster not found"})
		return
	}
	c.File(path)
}
