// Package api serves the JSON HTTP interface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mroshb/value_matcher/internal/middleware"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/services"
	"github.com/mroshb/value_matcher/internal/values"
)

// Largest accepted request body.
const maxBodyBytes = 1 << 20

type ProfileAPI interface {
	Tiles() []values.Round
	SubmitGame(ctx context.Context, userID uint, selections []values.Selection) (*values.Result, error)
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	RecentActions(ctx context.Context, userID uint) ([]models.UserAction, error)
	Selections(ctx context.Context, userID uint) ([]values.Selection, error)
}

type CommunityAPI interface {
	CreateCommunity(ctx context.Context, creatorID uint, in services.CreateCommunityInput) (*models.Community, error)
	ListCommunities(ctx context.Context) ([]models.Community, error)
	GetCommunity(ctx context.Context, id string) (*models.Community, error)
	Join(ctx context.Context, userID uint, communityID string) (bool, error)
	Leave(ctx context.Context, userID uint, communityID string) (bool, error)
	Skip(ctx context.Context, userID uint, communityID string) error
	MyCommunities(ctx context.Context, userID uint) ([]models.Community, error)
}

type EventAPI interface {
	CreateEvent(ctx context.Context, creatorID uint, in services.CreateEventInput) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	Attend(ctx context.Context, userID uint, eventID string) (bool, error)
	Cancel(ctx context.Context, userID uint, eventID string) (bool, error)
	Skip(ctx context.Context, userID uint, eventID string) error
}

type MatchAPI interface {
	CommunityMatches(ctx context.Context, userID uint) ([]services.CommunityMatch, error)
	EventMatches(ctx context.Context, userID uint) ([]services.EventMatch, error)
}

// ActivityTracker stamps a user's last authenticated request.
type ActivityTracker interface {
	UpdateLastActivity(ctx context.Context, userID uint) error
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerState exposes the embedding circuit breaker.
type BreakerState interface {
	State() string
}

// Deps is everything the router needs. Embeddings may be nil when no provider is set up.
type Deps struct {
	JWTSecret           string
	CORSAllowedOrigins  []string
	RequestTimeout      time.Duration
	EmbeddingConfigured bool
	EmbeddingProvider   string

	Profiles    ProfileAPI
	Communities CommunityAPI
	Events      EventAPI
	Matches     MatchAPI
	Limiter     *middleware.RateLimiter
	Activity    ActivityTracker
	DB          Pinger
	Embeddings  BreakerState
}

type handler struct {
	deps Deps
}

// NewRouter wires middleware and routes under /api.
func NewRouter(deps Deps) http.Handler {
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 60 * time.Second
	}
	h := &handler{deps: deps}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: deps.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After", "X-RateLimit-Remaining"},
		MaxAge:         300,
	}).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(deps.RequestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Use(limitByIP(deps.Limiter))

		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(authenticate(deps.JWTSecret, deps.Activity))
			r.Use(limitByUser(deps.Limiter))

			r.Get("/me", h.Me)

			r.Get("/game/tiles", h.GameTiles)
			r.Post("/game/submit", h.SubmitGame)

			r.Get("/matches", h.CommunityMatches)

			r.Route("/communities", func(r chi.Router) {
				r.Post("/", h.CreateCommunity)
				r.Get("/", h.ListCommunities)
				r.Get("/my/joined", h.MyCommunities)
				r.Get("/{id}", h.GetCommunity)
				r.Post("/{id}/join", h.JoinCommunity)
				r.Post("/{id}/leave", h.LeaveCommunity)
				r.Post("/{id}/skip", h.SkipCommunity)
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", h.CreateEvent)
				r.Get("/", h.ListEvents)
				r.Get("/matches", h.EventMatches)
				r.Get("/{id}", h.GetEvent)
				r.Post("/{id}/attend", h.AttendEvent)
				r.Post("/{id}/cancel", h.CancelEvent)
				r.Post("/{id}/skip", h.SkipEvent)
			})
		})
	})

	return r
}
