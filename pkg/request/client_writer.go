package request

import "net/http"

// ClientWriter wraps an http.ResponseWriter and records the status code
// written, so middleware can label metrics after the handler has run.
type ClientWriter struct {
	http.ResponseWriter

	// statusCode is the status code that was written. 0 until a header is
	// written.
	statusCode int
}

// NewClientWriter creates a new ClientWriter.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
	}
}

// WriteHeader records the status code and writes the header.
func (w *ClientWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write writes the body, defaulting the status code to 200 when no header
// has been written yet, matching net/http behaviour.
func (w *ClientWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// StatusCode returns the status code that was written.
func (w *ClientWriter) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}
