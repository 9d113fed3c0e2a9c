/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request, logged with every line
  2. RequestLogger: logrus line per request (logging package)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests from the calculator frontend

ROUTE GROUPS:
  /api/cpiindexes/*   Published index lookups
  /api/change         Percent change and amount conversion
  /api/series         Chart data
  /api/eras/*         Era classification
  /api/periods        Selectable years and locked months
  /*                  Static files (frontend), when a build is present

STATIC FILE SERVING:
  Serves a built frontend from Options.StaticDir. Unknown paths fall back
  to index.html for client-side routing.

SEE ALSO:
  - handlers.go: Handler implementations
  - cli/serve.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/warp/cpi-engine/logging"
)

// Options configures NewRouter.
type Options struct {
	AllowedOrigins []string
	StaticDir      string
	Logger         logrus.FieldLogger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/cpiindexes/{year}/{month}", h.GetCPIIndex)
		r.Get("/change", h.GetChange)
		r.Get("/series", h.GetSeries)
		r.Get("/eras/{year}/{month}", h.GetEra)
		r.Get("/periods", h.GetPeriods)
	})

	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err == nil {
			serveStatic(r, opts.StaticDir)
			return r
		}
		opts.Logger.WithField("dir", opts.StaticDir).Warn("static directory not found, serving API only")
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>CPI Calculator</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>CPI Calculator API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/periods">/api/periods</a> - Selectable years</li>
<li><a href="/api/change?start=1995-10&end=2024-12">/api/change?start=YYYY-MM&amp;end=YYYY-MM&amp;amount=N</a> - Inflation between two months</li>
<li><a href="/api/series?start=2020-01&end=2024-12">/api/series?start=YYYY-MM&amp;end=YYYY-MM</a> - Monthly chart data</li>
<li>/api/cpiindexes/{year}/{month} - Published index</li>
<li>/api/eras/{year}/{month} - Currency era of a month</li>
</ul>
</body>
</html>`))
	})

	return r
}

func serveStatic(r chi.Router, staticDir string) {
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		fullPath := filepath.Join(staticDir, filepath.Clean("/"+r.URL.Path))

		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
