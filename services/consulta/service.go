package consulta

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"pjeconsulta-backend/lib/scrapers/pje"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/consulta")

type Options struct {
	// overrides the production portal, used by tests
	PortalBaseUrl string
	// per-request timeout against the portal
	Timeout time.Duration
	// retry budget per query
	MaxAttempts int
}

// Service exposes the TJMG consultation scraper over a REST endpoint.
// It holds no mutable state: every request gets its own portal session
// and telemetry.
type Service struct {
	opts Options
}

func NewService(opts Options) Service {
	return Service{opts: opts}
}

func (s Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/api/tribunal-justica-mg/consulta", s.handleConsulta)
	return r
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s Service) handleConsulta(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "Consulta")
	defer span.End()

	processo := r.URL.Query().Get("processo")
	if processo == "" {
		span.SetStatus(codes.Error, "missing processo parameter")
		writeJson(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    513,
			Message: "Argumentos invalidos",
		})
		return
	}

	tel := &pje.Telemetry{Attempts: 1}
	outcome := pje.Fetch(ctx, processo, tel, pje.FetchOptions{
		BaseUrl:     s.opts.PortalBaseUrl,
		Timeout:     s.opts.Timeout,
		MaxAttempts: s.opts.MaxAttempts,
	})

	status := http.StatusOK
	if outcome.Code != pje.CodeSuccess {
		status = http.StatusInternalServerError
		span.SetStatus(codes.Error, outcome.Message)
	}
	writeJson(w, status, outcome)
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}
