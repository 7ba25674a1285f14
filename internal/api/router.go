package api

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ksdfg/bill-splitter/docs"
	"github.com/ksdfg/bill-splitter/internal/metrics"
	"github.com/ksdfg/bill-splitter/internal/middleware"
	"github.com/ksdfg/bill-splitter/internal/service"
	"github.com/ksdfg/bill-splitter/pkg/rpc"
)

// RouterConfig lists what the router serves.
type RouterConfig struct {
	Outings        *service.OutingService
	Bills          *service.BillService
	Metrics        *metrics.Metrics // optional
	CORSAllowHosts []string
	MaxUploadBytes int64
}

// NewRouter serves the REST API under /api/v1, the Connect services at their
// procedure paths, Prometheus metrics at /metrics and Swagger UI at /docs/.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.CORS(cfg.CORSAllowHosts))

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(cfg.Metrics),
	)
	outingPath, outingHandler := rpc.NewOutingServiceHandler(cfg.Outings, interceptors)
	r.Mount(outingPath, outingHandler)
	billPath, billHandler := rpc.NewBillServiceHandler(cfg.Bills, interceptors)
	r.Mount(billPath, billHandler)

	h := NewHandler(cfg.Outings, cfg.Bills, cfg.MaxUploadBytes)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.Mount("/", h.Routes())
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	return r
}
