package uiapi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/awaistahir/smart-wash/internal/alarm"
	"github.com/awaistahir/smart-wash/internal/engine"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"verdictClass": verdictClass,
	"levelClass":   levelClass,
	"alarmURL":     alarmURL,
}).ParseFS(templateFS, "templates/dashboard.html"))

// dashboardView is the data the dashboard template renders
type dashboardView struct {
	Report     *engine.Report
	Offsets    []engine.Offset
	Alarm      alarm.Outcome
	OpenHour   int
	CloseHour  int
	HasHourly  bool
	Completion string
}

func (s *Server) serveDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := s.buildReport(r)
	if err != nil {
		status := http.StatusInternalServerError
		message := "The usage data could not be loaded, so no recommendation can be shown."
		if errors.Is(err, engine.ErrUnknownOffset) {
			status = http.StatusBadRequest
			message = "Unknown time choice."
		}
		http.Error(w, message+" ("+err.Error()+")", status)
		return
	}

	view := dashboardView{
		Report:     report,
		Offsets:    engine.Offsets,
		Alarm:      s.requestAlarm(r, report.Completion),
		OpenHour:   engine.OpeningHour,
		CloseHour:  engine.ClosingHour,
		HasHourly:  len(report.Hourly) > 0,
		Completion: report.Completion.String(),
	}

	// Render to a buffer first so a template failure never sends half a page
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// alarmURL marks OS alarm links as trusted; html/template rejects intent: and shortcuts: otherwise
func alarmURL(l alarm.Link) template.URL {
	return template.URL(l.URL)
}

func verdictClass(v engine.Verdict) string {
	switch v {
	case engine.VerdictOK:
		return "success"
	case engine.VerdictCongested:
		return "error"
	default:
		return "warning"
	}
}

func levelClass(l engine.PeriodLevel) string {
	switch l {
	case engine.LevelComfortable:
		return "success"
	case engine.LevelModerate:
		return "warning"
	default:
		return "error"
	}
}
