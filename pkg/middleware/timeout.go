package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// deadlineWriter suppresses handler writes once the request deadline
// has fired, so a slow handler cannot corrupt the timeout response.
type deadlineWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.timedOut || dw.written {
		return
	}

	dw.written = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.timedOut {
		return 0, http.ErrHandlerTimeout
	}

	dw.written = true
	return dw.ResponseWriter.Write(b)
}

func (dw *deadlineWriter) timeout() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.timedOut = true
}

// RequestTimeout bounds every request with a deadline carried on the
// context, so repository and gateway calls downstream inherit it.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			dw := &deadlineWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				next.ServeHTTP(dw, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case <-ctx.Done():
				dw.timeout()
				dw.mu.Lock()
				if !dw.written {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"error":"Request timeout"}`))
					dw.written = true
				}
				dw.mu.Unlock()
			}
		})
	}
}
