package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/calendrier-api/internal/calendar"
	"github.com/username/calendrier-api/internal/holidays"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSource struct {
	mu      sync.Mutex
	records []holidays.Record
	err     error
	years   []int
}

func (s *stubSource) Fetch(_ context.Context, year int) ([]holidays.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years = append(s.years, year)
	return s.records, s.err
}

var sampleRecords = []holidays.Record{
	{Date: "1 janvier", Name: "Jour de l'an", Weekday: "Jeudi", DaysRemaining: holidays.Numeric(10)},
	{Date: "6 avril", Name: "Lundi de Pâques", Weekday: "Lundi", DaysRemaining: holidays.Raw("Passé")},
}

func newTestRouter(source HolidaySource, policy calendar.YearPolicy) *gin.Engine {
	h := NewHandler(source, policy, zap.NewNop())
	h.now = func() time.Time { return time.Date(2025, 12, 22, 12, 0, 0, 0, time.UTC) }
	return NewRouter(h, zap.NewNop())
}

func doGet(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, body
}

func TestGetCalendars(t *testing.T) {
	r := newTestRouter(&stubSource{}, calendar.DefaultYearPolicy())

	tests := []struct {
		name     string
		target   string
		wantYear float64
	}{
		{"Explicit year", "/?annee=2024", 2024},
		{"Missing year", "/", 2026},
		{"Invalid year", "/?annee=abc", 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := doGet(t, r, tt.target)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if body["success"] != true {
				t.Errorf("success = %v", body["success"])
			}
			if body["annee"] != tt.wantYear {
				t.Errorf("annee = %v, want %v", body["annee"], tt.wantYear)
			}

			calendars, ok := body["calendriers"].(map[string]any)
			if !ok || len(calendars) != 12 {
				t.Fatalf("calendriers = %v, want 12 months", body["calendriers"])
			}
			if _, ok := calendars["Février"]; !ok {
				t.Error("calendriers has no Février")
			}
		})
	}

	_, body := doGet(t, r, "/?annee=2026")
	want := "Calendriers de Janvier à Décembre 2026 (Lundi à Vendredi)"
	if body["description"] != want {
		t.Errorf("description = %v, want %s", body["description"], want)
	}
}

func TestGetCalendars_StrictPolicyRejectsText(t *testing.T) {
	r := newTestRouter(&stubSource{}, calendar.YearPolicy{DefaultYear: 2026, Parse: calendar.ParseStrict})

	rec, body := doGet(t, r, "/?annee=abc")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body["success"] != false || body["error"] == "" {
		t.Errorf("body = %v, want an error object", body)
	}
}

func TestSearchHolidays(t *testing.T) {
	source := &stubSource{records: sampleRecords}
	r := newTestRouter(source, calendar.DefaultYearPolicy())

	rec, body := doGet(t, r, "/recherche?calendrier=2026")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["titre"] != "Jours fériés 2026" {
		t.Errorf("titre = %v", body["titre"])
	}
	if body["totalJoursFeries"] != float64(2) {
		t.Errorf("totalJoursFeries = %v, want 2", body["totalJoursFeries"])
	}

	list := body["joursFeries"].([]any)
	first := list[0].(map[string]any)
	if first["nom"] != "Jour de l'an" || first["joursRestants"] != float64(10) {
		t.Errorf("first holiday = %v", first)
	}
	second := list[1].(map[string]any)
	if second["joursRestants"] != "Passé" {
		t.Errorf("second joursRestants = %v, want Passé", second["joursRestants"])
	}
}

func TestSearchHolidays_YearParameters(t *testing.T) {
	tests := []struct {
		target string
		want   int
	}{
		{"/recherche?calendrier=2025", 2025},
		{"/recherche?annee=2027", 2027},
		{"/recherche?calendrier=2028&annee=2027", 2028},
		{"/recherche", 2026},
	}

	for _, tt := range tests {
		source := &stubSource{}
		r := newTestRouter(source, calendar.DefaultYearPolicy())

		_, body := doGet(t, r, tt.target)

		if len(source.years) != 1 || source.years[0] != tt.want {
			t.Errorf("%s fetched years %v, want [%d]", tt.target, source.years, tt.want)
		}
		if body["annee"] != float64(tt.want) {
			t.Errorf("%s annee = %v, want %d", tt.target, body["annee"], tt.want)
		}
		if list, ok := body["joursFeries"].([]any); !ok || len(list) != 0 {
			t.Errorf("%s joursFeries = %v, want []", tt.target, body["joursFeries"])
		}
	}
}

func TestSearchHolidays_Failure(t *testing.T) {
	source := &stubSource{err: &holidays.StatusError{StatusCode: 503, URL: "https://example.com/2026.html"}}
	r := newTestRouter(source, calendar.DefaultYearPolicy())

	rec, body := doGet(t, r, "/recherche?calendrier=2026")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if body["error"] != "Erreur lors de la récupération des jours fériés pour 2026" {
		t.Errorf("error = %v", body["error"])
	}
	if !strings.Contains(body["details"].(string), "503") {
		t.Errorf("details = %v, want the upstream status", body["details"])
	}
}

func TestGetCalendarsWithHolidays(t *testing.T) {
	r := newTestRouter(&stubSource{records: sampleRecords}, calendar.DefaultYearPolicy())

	rec, body := doGet(t, r, "/calendriers/2026")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["annee"] != float64(2026) {
		t.Errorf("annee = %v", body["annee"])
	}
	if len(body["calendriers"].(map[string]any)) != 12 {
		t.Error("calendriers does not hold 12 months")
	}

	feries := body["joursFeries"].(map[string]any)
	if feries["titre"] != "Jours fériés 2026" {
		t.Errorf("joursFeries.titre = %v", feries["titre"])
	}
	if feries["description"] != "Les jours fériés les plus communs de France en 2026" {
		t.Errorf("joursFeries.description = %v", feries["description"])
	}
	if len(feries["liste"].([]any)) != 2 {
		t.Errorf("joursFeries.liste = %v", feries["liste"])
	}
}

func TestGetCalendarsWithHolidays_FailsWhenScrapingFails(t *testing.T) {
	r := newTestRouter(&stubSource{err: errors.New("connection refused")}, calendar.DefaultYearPolicy())

	rec, body := doGet(t, r, "/calendriers/2026")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["success"] != false || body["error"] != "connection refused" {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["calendriers"]; ok {
		t.Error("failed response still carries calendriers")
	}
}

func TestGetCalendarsWithHolidays_InvalidYearDefaults(t *testing.T) {
	source := &stubSource{}
	r := newTestRouter(source, calendar.DefaultYearPolicy())

	doGet(t, r, "/calendriers/abc")

	if len(source.years) != 1 || source.years[0] != 2026 {
		t.Errorf("fetched years %v, want [2026]", source.years)
	}
}

func TestGetReferenceHolidays(t *testing.T) {
	source := &stubSource{}
	r := newTestRouter(source, calendar.DefaultYearPolicy())

	rec, body := doGet(t, r, "/reference/2026")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(source.years) != 0 {
		t.Error("reference endpoint contacted the provider")
	}

	first := body["joursFeries"].([]any)[0].(map[string]any)
	if first["date"] != "1 janvier" || first["jour"] != "Jeudi" || first["joursRestants"] != float64(10) {
		t.Errorf("first reference holiday = %v", first)
	}
}

func TestGetReferenceICS(t *testing.T) {
	r := newTestRouter(&stubSource{}, calendar.DefaultYearPolicy())

	rec, _ := doGet(t, r, "/reference/2026/ics")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("Content-Type = %s", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "UID:jour-ferie-20260101@calendrier-api") {
		t.Errorf("ICS body missing New Year event:\n%s", rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(&stubSource{}, calendar.DefaultYearPolicy())

	rec, _ := doGet(t, r, "/healthz")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response has no X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %s, want abc-123", got)
	}
}

func TestRecovery(t *testing.T) {
	r := newTestRouter(&stubSource{}, calendar.DefaultYearPolicy())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec, body := doGet(t, r, "/panic")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["success"] != false || body["error"] != "boom" {
		t.Errorf("body = %v", body)
	}
}

func TestRecovery_LogsOnlyThroughZap(t *testing.T) {
	var buf bytes.Buffer
	prev := gin.DefaultErrorWriter
	gin.DefaultErrorWriter = &buf
	defer func() { gin.DefaultErrorWriter = prev }()

	r := newTestRouter(&stubSource{}, calendar.DefaultYearPolicy())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	rec, _ := doGet(t, r, "/panic")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if buf.Len() != 0 {
		t.Errorf("gin error writer received %q, want nothing", buf.String())
	}
}

func TestRoutes_ListsEveryRegisteredEndpoint(t *testing.T) {
	r := newTestRouter(&stubSource{}, calendar.DefaultYearPolicy())

	listed := make(map[string]bool)
	for _, route := range Routes {
		path, _, _ := strings.Cut(route.Path, "?")
		listed[route.Method+" "+path] = true
	}

	registered := r.Routes()
	if len(registered) != len(Routes) {
		t.Errorf("%d routes registered, %d listed", len(registered), len(Routes))
	}
	for _, route := range registered {
		if !listed[route.Method+" "+route.Path] {
			t.Errorf("%s %s is registered but not listed", route.Method, route.Path)
		}
	}
}
