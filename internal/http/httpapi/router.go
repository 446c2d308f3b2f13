package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"scenegen/internal/http/handlers"
	"scenegen/internal/middleware"
)

// NewRouter assembles the API surface. The generation endpoint is
// synchronous; a batch holds its connection until every scene has finished
// or the batch fails as a whole.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSAllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.With(middleware.RateLimit(app.Config.GenerateRatePerMinute, time.Minute)).
		Post("/v1/scenes/generate", app.ScenesGenerate)

	return r
}
