package middleware

import (
	"net/http"
	"strings"

	"boatsafari/pkg/logger"
)

// ContentTypeValidation rejects body-carrying requests whose Content-Type
// is not application/json. Reservation and payment payloads are JSON only;
// anything else fails fast with 415 before reaching a handler.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if methodCarriesBody(r.Method) && r.ContentLength != 0 {
				if mediaType(r.Header.Get("Content-Type")) != "application/json" {
					log.Warn("Rejected request with unsupported Content-Type",
						"request_id", requestIDFrom(r.Context()),
						"content_type", r.Header.Get("Content-Type"),
						"method", r.Method,
						"path", r.URL.Path,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnsupportedMediaType)
					_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// mediaType strips any charset or boundary parameters from the header value.
func mediaType(header string) string {
	if i := strings.IndexByte(header, ';'); i >= 0 {
		header = header[:i]
	}
	return strings.ToLower(strings.TrimSpace(header))
}
