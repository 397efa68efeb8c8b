package middleware

import (
	"compress/gzip"

	ginzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths negotiate their own encoding or are too small to gain.
var uncompressedPaths = []string{"/metrics", "/healthz", "/readyz"}

// Compression gzips response bodies at level for clients that accept it.
// Levels outside gzip's range select the default level.
func Compression(level int) gin.HandlerFunc {
	if level < gzip.DefaultCompression || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return ginzip.Gzip(level,
		ginzip.WithExcludedPaths(uncompressedPaths),
		ginzip.WithExcludedExtensions([]string{".png", ".gif", ".jpg", ".jpeg"}),
	)
}
