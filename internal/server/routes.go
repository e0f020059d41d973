package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/middleware"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/utils"
)

// SetupRoutes builds the router. Health, version and route documentation
// are public; everything else under /api needs a bearer token, and writes
// are rate limited per client.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	r.Use(corsHandler(s.Config.CORS.AllowedOrigins, s.Config.CORS.AllowCredentials))
	r.Use(middleware.SecurityHeaders())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}

	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.handleHealth)
		r.Get(constants.VersionPath, s.handleVersion)
		r.Get(constants.RoutesPath, s.GetAPIRoutes)
	})

	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Use(middleware.JWTAuth(s.JWT))
		r.Use(middleware.WriteRateLimit(s.Config.RateLimit.WriteRequests, s.Config.RateLimit.Window))

		r.Route(constants.CardBasePath, func(r chi.Router) {
			r.Post("/", s.Handlers.CardHandler.CreateCard)
			r.Get("/{id}", s.Handlers.CardHandler.GetCard)
			r.Put("/{id}", s.Handlers.CardHandler.UpdateCard)
			r.Get("/{id}/timelines", s.Handlers.CardHandler.GetCardTimelines)
		})

		r.Post(constants.ModerationReviewBasePath, s.Handlers.CardHandler.CreateModerationReview)

		r.Get(constants.TableBasePath+"/{id}/popover", s.Handlers.TableHandler.GetPopover)

		r.Route(constants.CollectionBasePath, func(r chi.Router) {
			r.Get("/{id}", s.Handlers.CollectionHandler.GetCollection)
			r.Get("/{id}/timelines", s.Handlers.CollectionHandler.GetCollectionTimelines)
		})

		r.Route(constants.TimelineBasePath, func(r chi.Router) {
			r.Post("/", s.Handlers.TimelineHandler.CreateTimeline)
			r.Get("/{id}", s.Handlers.TimelineHandler.GetTimeline)
			r.Put("/{id}", s.Handlers.TimelineHandler.UpdateTimeline)
		})

		r.Route(constants.TimelineEventBasePath, func(r chi.Router) {
			r.Post("/", s.Handlers.TimelineHandler.CreateEvent)
			r.Post("/undo/{token}", s.Handlers.TimelineHandler.UndoArchive)
			r.Get("/{id}", s.Handlers.TimelineHandler.GetEvent)
			r.Put("/{id}", s.Handlers.TimelineHandler.UpdateEvent)
			r.Post("/{id}/archive", s.Handlers.TimelineHandler.ArchiveEvent)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusNotFound, constants.CodeNotFound, constants.MsgResourceNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Db.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, "Service is not healthy", nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"version":     s.Config.App.Version,
		"environment": s.Config.App.Environment,
	})
}

// corsHandler allows the configured origins. Credentials are only allowed
// together with an explicit origin list.
func corsHandler(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	log.Info().Strs("allowed_origins", allowedOrigins).Msg("Configuring CORS")

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}

// routeDoc describes one endpoint in the /api/routes listing.
type routeDoc struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Description string            `json:"description"`
	Auth        bool              `json:"auth"`
	Query       map[string]string `json:"query,omitempty"`
}

var apiRoutes = map[string][]routeDoc{
	"system": {
		{Method: http.MethodGet, Path: "/health", Description: "Health check including the database"},
		{Method: http.MethodGet, Path: "/version", Description: "Application version and environment"},
		{Method: http.MethodGet, Path: "/api/routes", Description: "This listing"},
	},
	"cards": {
		{Method: http.MethodPost, Path: "/api/card", Description: "Save a new card", Auth: true},
		{Method: http.MethodGet, Path: "/api/card/{id}", Description: "Get a card with creator and moderation reviews", Auth: true},
		{Method: http.MethodPut, Path: "/api/card/{id}", Description: "Update a card", Auth: true},
		{Method: http.MethodGet, Path: "/api/card/{id}/timelines", Description: "Timelines and events shown on the card's chart", Auth: true,
			Query: map[string]string{"view": "calendar (default) or table", "start": "earliest timestamp shown", "archived": "list archived events"}},
		{Method: http.MethodPost, Path: "/api/moderation-review", Description: "Verify a card or remove its verification (admins)", Auth: true},
	},
	"tables": {
		{Method: http.MethodGet, Path: "/api/table/{id}/popover", Description: "Table info popover decision", Auth: true,
			Query: map[string]string{"placement": "overlay placement", "offset": "skidding,distance"}},
	},
	"collections": {
		{Method: http.MethodGet, Path: "/api/collection/{id}", Description: "Get a collection; id may be root", Auth: true},
		{Method: http.MethodGet, Path: "/api/collection/{id}/timelines", Description: "Timelines of a collection", Auth: true,
			Query: map[string]string{"include": "events", "archived": "with include=events, list the archived events of active timelines"}},
	},
	"timelines": {
		{Method: http.MethodPost, Path: "/api/timeline", Description: "Create a timeline", Auth: true},
		{Method: http.MethodGet, Path: "/api/timeline/{id}", Description: "Get a timeline", Auth: true,
			Query: map[string]string{"include": "events"}},
		{Method: http.MethodPut, Path: "/api/timeline/{id}", Description: "Update or archive a timeline", Auth: true},
		{Method: http.MethodPost, Path: "/api/timeline-event", Description: "Create an event, creating the default timeline if needed", Auth: true},
		{Method: http.MethodGet, Path: "/api/timeline-event/{id}", Description: "Get an event", Auth: true},
		{Method: http.MethodPut, Path: "/api/timeline-event/{id}", Description: "Update, move or unarchive an event", Auth: true},
		{Method: http.MethodPost, Path: "/api/timeline-event/{id}/archive", Description: "Archive an event and get an undo token", Auth: true},
		{Method: http.MethodPost, Path: "/api/timeline-event/undo/{token}", Description: "Undo an archive while the token is live", Auth: true},
	},
}

// GetAPIRoutes returns documentation about all API routes.
func (s *Server) GetAPIRoutes(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, apiRoutes)
}
