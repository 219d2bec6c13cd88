package main

import (
	"compress/gzip"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"kinotrend/internal/constants"
	"kinotrend/internal/handlers"
	"kinotrend/pkg/logger"
	"kinotrend/pkg/routes"
)

// GzipResponseWriter wraps gin.ResponseWriter to provide gzip compression
type GzipResponseWriter struct {
	gin.ResponseWriter
	gzipWriter *gzip.Writer
}

func (w *GzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzipWriter.Write(data)
}

func (w *GzipResponseWriter) WriteString(s string) (int, error) {
	return w.gzipWriter.Write([]byte(s))
}

// GzipMiddleware provides gzip compression for responses
func GzipMiddleware(appLogger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		gzipWriter := gzip.NewWriter(c.Writer)
		defer func() {
			if err := gzipWriter.Close(); err != nil {
				appLogger.Errorf("[Preview] failed to close gzip writer: %v", err)
			}
		}()

		c.Writer = &GzipResponseWriter{
			ResponseWriter: c.Writer,
			gzipWriter:     gzipWriter,
		}

		c.Next()
	}
}

func main() {
	appLogger := logger.New()

	outputDir := os.Getenv("OUTPUT_DIR")
	if outputDir == "" {
		outputDir = constants.DefaultOutputDir
	}

	r := gin.Default()
	r.Use(GzipMiddleware(appLogger))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Next()
	})

	routes.SetupPreviewRoutes(r, handlers.NewPreview(outputDir, appLogger))

	port := os.Getenv("PORT")
	if port == "" {
		port = constants.DefaultPort
	}

	appLogger.Infof("[Preview] serving %s on port %s", outputDir, port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
