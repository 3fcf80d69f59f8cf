package mcp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel string

const (
	LogLevelDebug     LogLevel = "debug"
	LogLevelInfo      LogLevel = "info"
	LogLevelNotice    LogLevel = "notice"
	LogLevelWarning   LogLevel = "warning"
	LogLevelError     LogLevel = "error"
	LogLevelCritical  LogLevel = "critical"
	LogLevelAlert     LogLevel = "alert"
	LogLevelEmergency LogLevel = "emergency"
)

// LogData represents structured data for a log message
type LogData map[string]any

var logLevelRank = map[LogLevel]int{
	LogLevelDebug:     0,
	LogLevelInfo:      1,
	LogLevelNotice:    2,
	LogLevelWarning:   3,
	LogLevelError:     4,
	LogLevelCritical:  5,
	LogLevelAlert:     6,
	LogLevelEmergency: 7,
}

func shouldEmitLog(minimum, level LogLevel) bool {
	minRank, ok := logLevelRank[minimum]
	if !ok {
		minRank = logLevelRank[LogLevelInfo]
	}
	rank, ok := logLevelRank[level]
	if !ok {
		return false
	}
	return rank >= minRank
}

// handleSetLoggingLevel handles logging level configuration
func (s *StdioServer) handleSetLoggingLevel(req Request) Response {
	var params struct {
		Level LogLevel `json:"level"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return ErrorResponse(req.ID, InvalidParams, "Invalid logging level parameters")
	}
	if _, ok := logLevelRank[params.Level]; !ok {
		return ErrorResponse(req.ID, InvalidParams,
			fmt.Sprintf("Unknown logging level: %s", params.Level))
	}

	s.mu.Lock()
	s.logLevel = params.Level
	s.mu.Unlock()

	s.debugLog("Logging level set to: %s", params.Level)

	return SuccessResponse(req.ID, map[string]any{})
}

// sendLogNotification sends a log message notification to the client
func (s *StdioServer) sendLogNotification(level LogLevel, message string, data LogData) {
	s.mu.RLock()
	minimum := s.logLevel
	s.mu.RUnlock()

	if !shouldEmitLog(minimum, level) {
		return
	}

	if data == nil {
		data = make(LogData)
	}
	data["message"] = message
	data["timestamp"] = time.Now().Format(time.RFC3339)

	notification := map[string]any{
		"jsonrpc": JSONRPCVersion,
		"method":  "notifications/message",
		"params": map[string]any{
			"level":  level,
			"data":   data,
			"logger": "covgen",
		},
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		s.debugLog("Failed to marshal log notification: %v", err)
		return
	}
	fmt.Fprintf(s.writer, "%s\n", payload)
	s.writer.Flush()
}

// LogInfo sends an info level log notification
func (s *StdioServer) LogInfo(message string, data ...LogData) {
	var logData LogData
	if len(data) > 0 {
		logData = data[0]
	}
	s.sendLogNotification(LogLevelInfo, message, logData)
}

// LogWarning sends a warning level log notification
func (s *StdioServer) LogWarning(message string, data ...LogData) {
	var logData LogData
	if len(data) > 0 {
		logData = data[0]
	}
	s.sendLogNotification(LogLevelWarning, message, logData)
}

// LogError sends an error level log notification
func (s *StdioServer) LogError(message string, data ...LogData) {
	var logData LogData
	if len(data) > 0 {
		logData = data[0]
	}
	s.sendLogNotification(LogLevelError, message, logData)
}
