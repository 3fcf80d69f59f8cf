package mcp

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

// generateSessionID creates a unique session identifier
func generateSessionID() string {
	return generateID("ses")
}

// generateID creates a unique identifier with a prefix
func generateID(prefix string) string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(bytes))
}

// round2 rounds a percentage to two decimal places for response payloads.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
