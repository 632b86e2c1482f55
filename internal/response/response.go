package response

import "time"

// ErrorInfo is the error half of the uniform response envelope.
type ErrorInfo struct {
	Type        string   `json:"type"`
	Message     string   `json:"message"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Envelope wraps every API response.
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	TraceID   string     `json:"trace_id,omitempty"`
}

func Success(data any, traceID string) Envelope {
	return Envelope{Success: true, Data: data, Timestamp: time.Now().UTC(), TraceID: traceID}
}

func Failure(errInfo *ErrorInfo, traceID string) Envelope {
	return Envelope{Success: false, Error: errInfo, Timestamp: time.Now().UTC(), TraceID: traceID}
}
