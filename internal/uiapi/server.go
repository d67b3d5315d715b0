package uiapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/awaistahir/smart-wash/internal/alarm"
	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/awaistahir/smart-wash/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Version is reported by /api/status
const Version = "1.0.0"

// DatasetLoader returns the current historical table
type DatasetLoader interface {
	Load(ctx context.Context) ([]engine.UsageRecord, error)
}

// Clock provides the current time. It allows time to be fixed in tests.
type Clock interface {
	Now() time.Time
}

// RealClock provides actual system time
type RealClock struct{}

// Now returns the current system time
func (RealClock) Now() time.Time {
	return time.Now()
}

// Options configures a Server
type Options struct {
	Cycle   time.Duration
	Timeout time.Duration
	Clock   Clock
}

type Server struct {
	loader  DatasetLoader
	alarm   alarm.Affordance
	clock   Clock
	cycle   time.Duration
	timeout time.Duration
	logger  zerolog.Logger
}

func NewServer(loader DatasetLoader, affordance alarm.Affordance, opts Options, logger zerolog.Logger) *Server {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Cycle <= 0 {
		opts.Cycle = engine.CycleDuration
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return &Server{
		loader:  loader,
		alarm:   affordance,
		clock:   opts.Clock,
		cycle:   opts.Cycle,
		timeout: opts.Timeout,
		logger:  logger.With().Str("component", "uiapi").Logger(),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(LoggingMiddleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/", s.serveDashboard)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/hours", s.handleHours)
		r.Get("/recommendation", s.handleRecommendation)
		r.Get("/periods", s.handlePeriods)
		r.Get("/completion", s.handleCompletion)
		r.Get("/alarm", s.handleAlarm)
	})

	return r
}

// buildReport loads the dataset and computes the report for the requested offset
func (s *Server) buildReport(r *http.Request) (*engine.Report, error) {
	offset, err := engine.ParseOffset(r.URL.Query().Get("when"))
	if err != nil {
		return nil, err
	}

	records, err := s.loader.Load(r.Context())
	if err != nil {
		metrics.RenderFailures.Inc()
		s.logger.Error().Err(err).Msg("Failed to load dataset")
		return nil, err
	}

	report, err := engine.BuildReport(records, s.clock.Now(), offset, s.cycle)
	if err != nil {
		return nil, err
	}

	metrics.RendersTotal.WithLabelValues(string(report.Recommendation.Verdict)).Inc()
	return report, nil
}

// requestAlarm asks the configured affordance for an alarm at the completion time
func (s *Server) requestAlarm(r *http.Request, completion engine.CompletionEstimate) alarm.Outcome {
	out := s.alarm.RequestAlarm(r.Context(), alarm.Request{
		Hour:         completion.Hour,
		Minute:       completion.Minute,
		DelayMinutes: int(s.cycle / time.Minute),
		UserAgent:    r.UserAgent(),
	})
	metrics.AlarmRequestsTotal.WithLabelValues(out.Strategy, string(out.Platform)).Inc()
	return out
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	window := engine.CheckWindow(now.Hour())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"version":        Version,
		"now":            now.Format("15:04"),
		"open":           window.Open,
		"wait_hours":     window.WaitHours,
		"alarm_strategy": s.alarm.Name(),
		"cycle_minutes":  int(s.cycle / time.Minute),
	})
}

func (s *Server) handleHours(w http.ResponseWriter, r *http.Request) {
	report, err := s.buildReport(r)
	if err != nil {
		respondReportError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stats": report.Stats,
		"chart": report.Chart,
	})
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	report, err := s.buildReport(r)
	if err != nil {
		respondReportError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"current_hour":   report.CurrentHour,
		"offset":         report.Offset,
		"recommendation": report.Recommendation,
		"panel":          report.Panel,
	})
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	report, err := s.buildReport(r)
	if err != nil {
		respondReportError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report.Periods)
}

func (s *Server) handleCompletion(w http.ResponseWriter, r *http.Request) {
	completion := engine.Completion(s.clock.Now(), s.cycle)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hour":          completion.Hour,
		"minute":        completion.Minute,
		"time":          completion.String(),
		"cycle_minutes": int(s.cycle / time.Minute),
	})
}

func (s *Server) handleAlarm(w http.ResponseWriter, r *http.Request) {
	completion := engine.Completion(s.clock.Now(), s.cycle)
	respondJSON(w, http.StatusOK, s.requestAlarm(r, completion))
}

func respondReportError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrUnknownOffset) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "failed to load usage data: "+err.Error())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
