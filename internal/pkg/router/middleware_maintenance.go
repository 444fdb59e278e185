package router

import (
	"net/http"

	"github.com/shandysiswandi/otcgate/internal/pkg/config"
)

// middlewareMaintenance answers 503 for the route patterns listed in
// app.maintenance.endpoints. The list is re-read per request so a config
// reload takes effect without restart.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg != nil {
				route := matchedRoutePath(r)
				for _, blocked := range cfg.GetArray("app.maintenance.endpoints") {
					if blocked == route {
						writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
