package uiapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/awaistahir/smart-wash/internal/alarm"
	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/rs/zerolog"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type fakeLoader struct {
	records []engine.UsageRecord
	err     error
}

func (f *fakeLoader) Load(ctx context.Context) ([]engine.UsageRecord, error) {
	return f.records, f.err
}

const androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"

func newTestServer(loader DatasetLoader, affordance alarm.Affordance) http.Handler {
	clock := fixedClock{t: time.Date(2024, 12, 1, 10, 15, 0, 0, time.UTC)}
	return NewServer(loader, affordance, Options{Clock: clock}, zerolog.Nop()).Handler()
}

func sampleRecords() []engine.UsageRecord {
	return []engine.UsageRecord{
		{Hour: 10, UsageCount: 3, Congestion: engine.CongestionMedium},
		{Hour: 10, UsageCount: 4, Congestion: engine.CongestionMedium},
		{Hour: 13, UsageCount: 9, Congestion: engine.CongestionVeryHigh},
		{Hour: 15, UsageCount: 1, Congestion: engine.CongestionLow},
	}
}

func get(t *testing.T, h http.Handler, target, userAgent string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDashboard(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		loader     *fakeLoader
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "now",
			target:     "/",
			loader:     &fakeLoader{records: sampleRecords()},
			wantStatus: http.StatusOK,
			wantBody:   []string{"11:05", "0 minutes", "25%", "comfortable"},
		},
		{
			name:       "busy target suggests quietest hour",
			target:     "/?when=3h",
			loader:     &fakeLoader{records: sampleRecords()},
			wantStatus: http.StatusOK,
			wantBody:   []string{"Try 15:00 instead"},
		},
		{
			name:       "no data",
			target:     "/",
			loader:     &fakeLoader{},
			wantStatus: http.StatusOK,
			wantBody:   []string{"No usage data for 10:00", "No hourly usage data."},
		},
		{
			name:       "unknown offset",
			target:     "/?when=2d",
			loader:     &fakeLoader{records: sampleRecords()},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "dataset unavailable",
			target:     "/",
			loader:     &fakeLoader{err: errors.New("open laundry.csv: no such file")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"could not be loaded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(tt.loader, alarm.Passive{}), tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("body missing %q", want)
				}
			}
		})
	}
}

func TestDashboardClosedHourShowsWait(t *testing.T) {
	clock := fixedClock{t: time.Date(2024, 12, 1, 17, 0, 0, 0, time.UTC)}
	h := NewServer(&fakeLoader{records: sampleRecords()}, alarm.Passive{}, Options{Clock: clock}, zerolog.Nop()).Handler()

	rec := get(t, h, "/?when=6h", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{"Wait<b>about 8 hours</b>", "Status<b>closed</b>"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(rec.Body.String(), "Congestion<b>") {
		t.Error("closed hour should not show a congestion metric")
	}
}

func TestDashboardAndroidAlarmLink(t *testing.T) {
	h := newTestServer(&fakeLoader{records: sampleRecords()}, alarm.Button{})

	rec := get(t, h, "/", androidUA)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "intent:#Intent;action=android.intent.action.SET_ALARM") {
		t.Error("expected android alarm intent link in page")
	}
}

func TestRecommendationAPI(t *testing.T) {
	h := newTestServer(&fakeLoader{records: sampleRecords()}, alarm.Passive{})

	tests := []struct {
		name        string
		when        string
		wantVerdict engine.Verdict
		wantTarget  int
	}{
		{name: "now", when: "now", wantVerdict: engine.VerdictOK, wantTarget: 10},
		{name: "in 3 hours", when: "3h", wantVerdict: engine.VerdictCongested, wantTarget: 13},
		{name: "in 8 hours", when: "8h", wantVerdict: engine.VerdictNoData, wantTarget: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/recommendation?when="+tt.when, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var body struct {
				CurrentHour    int                   `json:"current_hour"`
				Recommendation engine.Recommendation `json:"recommendation"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body.CurrentHour != 10 {
				t.Errorf("current hour = %d, want 10", body.CurrentHour)
			}
			if body.Recommendation.Verdict != tt.wantVerdict {
				t.Errorf("verdict = %s, want %s", body.Recommendation.Verdict, tt.wantVerdict)
			}
			if body.Recommendation.TargetHour != tt.wantTarget {
				t.Errorf("target = %d, want %d", body.Recommendation.TargetHour, tt.wantTarget)
			}
		})
	}
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		loader     *fakeLoader
		wantStatus int
	}{
		{name: "bad offset", target: "/api/recommendation?when=soon", loader: &fakeLoader{}, wantStatus: http.StatusBadRequest},
		{name: "load failure", target: "/api/hours", loader: &fakeLoader{err: errors.New("boom")}, wantStatus: http.StatusInternalServerError},
		{name: "periods load failure", target: "/api/periods", loader: &fakeLoader{err: errors.New("boom")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(tt.loader, alarm.Passive{}), tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestCompletionAPI(t *testing.T) {
	h := newTestServer(&fakeLoader{}, alarm.Passive{})

	rec := get(t, h, "/api/completion", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Time         string `json:"time"`
		CycleMinutes int    `json:"cycle_minutes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Time != "11:05" {
		t.Errorf("time = %q, want 11:05", body.Time)
	}
	if body.CycleMinutes != 50 {
		t.Errorf("cycle = %d, want 50", body.CycleMinutes)
	}
}

func TestAlarmAPI(t *testing.T) {
	tests := []struct {
		name         string
		userAgent    string
		wantPlatform alarm.Platform
		wantAction   alarm.Action
	}{
		{name: "android", userAgent: androidUA, wantPlatform: alarm.PlatformAndroid, wantAction: alarm.ActionLink},
		{name: "desktop", userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Firefox/121.0", wantPlatform: alarm.PlatformDesktop, wantAction: alarm.ActionNotification},
		{name: "unknown", userAgent: "curl/8.4.0", wantPlatform: alarm.PlatformUnknown, wantAction: alarm.ActionNone},
	}

	h := newTestServer(&fakeLoader{}, alarm.Button{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/alarm", tt.userAgent)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var out alarm.Outcome
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if out.Platform != tt.wantPlatform {
				t.Errorf("platform = %s, want %s", out.Platform, tt.wantPlatform)
			}
			if out.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", out.Action, tt.wantAction)
			}
			if out.Time != "11:05" {
				t.Errorf("time = %q, want 11:05", out.Time)
			}
		})
	}
}

func TestHealthAndStatus(t *testing.T) {
	h := newTestServer(&fakeLoader{}, alarm.Passive{})

	rec := get(t, h, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}

	rec = get(t, h, "/api/status", "")
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["open"] != true {
		t.Errorf("open = %v, want true", body["open"])
	}
	if body["alarm_strategy"] != "passive" {
		t.Errorf("alarm_strategy = %v, want passive", body["alarm_strategy"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(&fakeLoader{records: sampleRecords()}, alarm.Button{})

	get(t, h, "/api/recommendation", "")
	get(t, h, "/api/alarm", androidUA)

	rec := get(t, h, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{
		`smartwash_renders_total{verdict="ok"}`,
		`smartwash_alarm_requests_total{platform="android",strategy="button"}`,
	} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}
