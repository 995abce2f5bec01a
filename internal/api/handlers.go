package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/username/calendrier-api/internal/calendar"
	"github.com/username/calendrier-api/internal/holidays"
)

// HolidaySource fetches the public holidays of a year
type HolidaySource interface {
	Fetch(ctx context.Context, year int) ([]holidays.Record, error)
}

// Handler serves the calendar and holiday endpoints. It holds no per-request
// state and is safe for concurrent use.
type Handler struct {
	source HolidaySource
	years  calendar.YearPolicy
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(source HolidaySource, years calendar.YearPolicy, logger *zap.Logger) *Handler {
	return &Handler{
		source: source,
		years:  years,
		logger: logger,
		now:    time.Now,
	}
}

// GetCalendars generates the weekday calendars of ?annee=
func (h *Handler) GetCalendars(c *gin.Context) {
	year, ok := h.resolveYear(c, c.Query("annee"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, CalendarsResponse{
		Success:     true,
		Year:        year,
		Description: fmt.Sprintf("Calendriers de Janvier à Décembre %d (Lundi à Vendredi)", year),
		Calendars:   calendar.Generate(year),
	})
}

// SearchHolidays scrapes the holidays of ?calendrier= (or ?annee=)
func (h *Handler) SearchHolidays(c *gin.Context) {
	year, ok := h.resolveYear(c, c.Query("calendrier"), c.Query("annee"))
	if !ok {
		return
	}

	records, err := h.source.Fetch(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("Failed to fetch holidays",
			zap.Int("year", year),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   fmt.Sprintf("Erreur lors de la récupération des jours fériés pour %d", year),
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, holidaysResponse(year, records))
}

// GetCalendarsWithHolidays combines both views for /calendriers/:annee.
// A scraping failure fails the whole request.
func (h *Handler) GetCalendarsWithHolidays(c *gin.Context) {
	year, ok := h.resolveYear(c, c.Param("annee"))
	if !ok {
		return
	}

	calendars := calendar.Generate(year)

	records, err := h.source.Fetch(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("Failed to fetch holidays for combined calendar",
			zap.Int("year", year),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, CombinedResponse{
		Success:   true,
		Year:      year,
		Calendars: calendars,
		Holidays: HolidayList{
			Title:       holidaysTitle(year),
			Description: fmt.Sprintf("Les jours fériés les plus communs de France en %d", year),
			List:        nonNil(records),
		},
	})
}

// GetReferenceHolidays lists the locally computed holidays of :annee
func (h *Handler) GetReferenceHolidays(c *gin.Context) {
	year, ok := h.resolveYear(c, c.Param("annee"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, holidaysResponse(year, holidays.Reference(year, h.now())))
}

// GetReferenceICS serves the locally computed holidays of :annee as iCalendar
func (h *Handler) GetReferenceICS(c *gin.Context) {
	year, ok := h.resolveYear(c, c.Param("annee"))
	if !ok {
		return
	}

	body := holidays.ICS(year, holidays.ReferenceHolidays(year), h.now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="jours-feries-%d.ics"`, year))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resolveYear applies the year policy and writes a 400 response when the
// policy rejects the input.
func (h *Handler) resolveYear(c *gin.Context, candidates ...string) (int, bool) {
	year, err := h.years.Resolve(candidates...)
	if err == nil {
		return year, true
	}

	status := http.StatusInternalServerError
	if errors.Is(err, calendar.ErrInvalidYear) {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
	return 0, false
}

func holidaysResponse(year int, records []holidays.Record) HolidaysResponse {
	records = nonNil(records)
	return HolidaysResponse{
		Success:     true,
		Title:       holidaysTitle(year),
		Description: fmt.Sprintf("Les jours fériés les plus communs de France en %d sont mentionnés ci-dessous.", year),
		Year:        year,
		Total:       len(records),
		Holidays:    records,
	}
}

func holidaysTitle(year int) string {
	return fmt.Sprintf("Jours fériés %d", year)
}

// nonNil makes an empty list encode as [] rather than null
func nonNil(records []holidays.Record) []holidays.Record {
	if records == nil {
		return []holidays.Record{}
	}
	return records
}
