package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseMonthKey extracts a month filter from query parameters. Returns
// "" (no filter) when absent or malformed.
func parseMonthKey(r *http.Request) string {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" {
		return ""
	}
	if _, err := time.Parse("2006-01", v); err != nil {
		return ""
	}
	return v
}

// parseSeriesMonths extracts a window override from query parameters,
// falling back to def when absent or out of range.
func parseSeriesMonths(r *http.Request, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get("months"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 120 {
		return def
	}
	return n
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
