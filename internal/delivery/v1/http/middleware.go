package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mastimed/mobilegestion/pkg/logger"
)

// requestLogger пишет одну строку лога на запрос.
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log.Infof("%s %s %d %dB %s request_id=%s",
				r.Method,
				r.URL.Path,
				status,
				ww.BytesWritten(),
				time.Since(start),
				middleware.GetReqID(r.Context()),
			)
		})
	}
}
