package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// spaHandler serves files from the static dir and falls back to index.html
// so that client-side routes survive a reload.
func (s *Server) spaHandler() gin.HandlerFunc {
	dir := s.config.Static.Dir

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		if dir == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Static files disabled"})
			return
		}

		// filepath.Clean on a rooted path cannot climb above dir
		name := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}

		// Missing assets are real 404s, only page routes fall back
		if filepath.Ext(c.Request.URL.Path) != "" && !strings.HasSuffix(c.Request.URL.Path, ".html") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		// Read directly: http.ServeFile rejects request paths containing ".."
		index, err := os.ReadFile(filepath.Join(dir, "index.html"))
		if err != nil {
			s.logger.Warn().Err(err).Str("dir", dir).Msg("index.html not found in static dir")
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}
}
