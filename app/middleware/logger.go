package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"fleetbase/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/pretty"
)

// Logger middleware logs each request with latency and status
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var bodyStr string
		if c.Request.Method == http.MethodPost {
			bodyStr = getRequestBody(c)
		}

		c.Next()

		// Skip logging for 404 requests
		if c.Writer.Status() == http.StatusNotFound {
			return
		}

		latency := time.Since(startTime)

		msg := ""
		if bodyStr != "" {
			msg = " body: " + bodyStr
		}

		logger.Infof("[HTTP] %3d | %13v | %15s | %s %s%s",
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			c.Request.Method,
			c.Request.RequestURI,
			msg,
		)
	}
}

// getRequestBody gets request body content
func getRequestBody(c *gin.Context) string {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
		// Reset request body since reading it clears it
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}
	return compressBody(bodyBytes)
}

// compressBody compacts JSON for single-line logging
func compressBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	compressed := pretty.Ugly(body)
	if len(compressed) > 1000 {
		return string(compressed[:1000]) + "..."
	}
	return string(compressed)
}
