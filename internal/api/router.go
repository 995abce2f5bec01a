package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Route describes one registered endpoint, for startup logs
type Route struct {
	Method      string
	Path        string
	Description string
}

// Routes lists the public endpoints
var Routes = []Route{
	{"GET", "/", "Calendriers mensuels (Lundi-Vendredi)"},
	{"GET", "/recherche?calendrier=2026", "Jours fériés"},
	{"GET", "/calendriers/:annee", "Calendriers + Jours fériés"},
	{"GET", "/reference/:annee", "Jours fériés calculés localement"},
	{"GET", "/reference/:annee/ics", "Jours fériés au format iCalendar"},
	{"GET", "/healthz", "État du service"},
}

// NewRouter creates the gin engine with middleware and routes
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), Recovery(logger))

	h.RegisterRoutes(r)

	return r
}

// RegisterRoutes registers the endpoints on r
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.GetCalendars)
	r.GET("/recherche", h.SearchHolidays)
	r.GET("/calendriers/:annee", h.GetCalendarsWithHolidays)
	r.GET("/reference/:annee", h.GetReferenceHolidays)
	r.GET("/reference/:annee/ics", h.GetReferenceICS)
	r.GET("/healthz", h.Health)
}
