// Package api exposes the ballot ledger over HTTP, mapping each ledger
// operation onto one endpoint and each ledger rejection onto a stable
// error code.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vocdoni/commitreveal-sandbox/ledger"
	"github.com/vocdoni/commitreveal-sandbox/log"
)

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port and the ledger instance to serve.
type APIConfig struct {
	Host   string
	Port   int
	Ledger *ledger.Ledger
}

// API type represents the API HTTP server over the ballot ledger.
type API struct {
	router *chi.Mux
	ledger *ledger.Ledger
}

// New creates a new API instance with the given configuration and starts
// the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Ledger == nil {
		return nil, fmt.Errorf("missing ledger instance")
	}
	a := &API{
		ledger: conf.Ledger,
	}

	// Initialize router
	a.initRouter()
	go func() {
		log.Infow("Starting API server", "host", conf.Host, "port", conf.Port)
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", conf.Host, conf.Port), a.router); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", PingEndpoint, "method", "GET")
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		httpWriteOK(w)
	})
	log.Infow("register handler", "endpoint", BallotsEndpoint, "method", "POST")
	a.router.Post(BallotsEndpoint, a.newBallot)
	log.Infow("register handler", "endpoint", BallotsEndpoint, "method", "GET")
	a.router.Get(BallotsEndpoint, a.listBallots)
	log.Infow("register handler", "endpoint", BallotEndpoint, "method", "GET")
	a.router.Get(BallotEndpoint, a.ballotStatus)
	log.Infow("register handler", "endpoint", VotersEndpoint, "method", "POST")
	a.router.Post(VotersEndpoint, a.registerVoters)
	log.Infow("register handler", "endpoint", CommitsEndpoint, "method", "POST")
	a.router.Post(CommitsEndpoint, a.commitVote)
	log.Infow("register handler", "endpoint", RevealsEndpoint, "method", "POST")
	a.router.Post(RevealsEndpoint, a.revealVote)
	log.Infow("register handler", "endpoint", FinalizeEndpoint, "method", "POST")
	a.router.Post(FinalizeEndpoint, a.finalizeBallot)
	log.Infow("register handler", "endpoint", ResultsEndpoint, "method", "GET")
	a.router.Get(ResultsEndpoint, a.results)
	log.Infow("register handler", "endpoint", EventsEndpoint, "method", "GET")
	a.router.Get(EventsEndpoint, a.events)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}
