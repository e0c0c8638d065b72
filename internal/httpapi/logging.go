package httpapi

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const defaultMaxLogBytes = 512

// statusRecorder captures the status code and a bounded prefix of the body
// so failed responses can be logged.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	maxLogBytes  int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n

	remaining := r.maxLogBytes - r.logBody.Len()
	if remaining > 0 {
		take := n
		if take > remaining {
			take = remaining
		}
		r.logBody.Write(p[:take])
	}
	if n > remaining {
		r.truncated = true
	}
	return n, err
}

func requestLogger(maxLogBytes int) func(http.Handler) http.Handler {
	if maxLogBytes <= 0 {
		maxLogBytes = defaultMaxLogBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				maxLogBytes:    maxLogBytes,
			}

			next.ServeHTTP(recorder, r)

			reqID := middleware.GetReqID(r.Context())
			log.Printf("[%s] %s %s -> %d (%d bytes, %s)",
				reqID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, time.Since(start))
			if recorder.statusCode >= http.StatusBadRequest {
				suffix := ""
				if recorder.truncated {
					suffix = "..."
				}
				log.Printf("[%s] response body: %s%s", reqID, bytes.TrimSpace(recorder.logBody.Bytes()), suffix)
			}
		})
	}
}
