package main

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasur737/Mafia/handlers"
	"github.com/jasur737/Mafia/internal/config"
	"github.com/jasur737/Mafia/internal/workers"
	"github.com/jasur737/Mafia/middleware"
	"github.com/jasur737/Mafia/services"
)

const (
	visitorSweepInterval = time.Minute
	visitorMaxIdle       = 3 * time.Minute
	sessionSweepInterval = 10 * time.Minute
)

type app struct {
	cfg      config.Config
	games    *services.GameManager
	accounts *services.AccountService
	sessions *middleware.SessionAuth
	limiter  *middleware.RateLimiter
}

func newApp(cfg config.Config, accounts *services.AccountService) *app {
	return &app{
		cfg:      cfg,
		games:    services.NewGameManager(),
		accounts: accounts,
		sessions: middleware.NewSessionAuth(cfg.SessionSecret, cfg.SessionTTL, accounts),
		limiter:  middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
}

func (a *app) router() http.Handler {
	authHandler := handlers.NewAuthHandler(a.accounts, a.sessions)
	gameHandler := handlers.NewGameHandler(a.games)

	r := mux.NewRouter()
	r.Use(a.limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	if a.cfg.MetricsEnabled() {
		r.Handle("/metrics", middleware.BasicAuthMiddleware(a.cfg.MetricsUser, a.cfg.MetricsPass)(promhttp.Handler()))
	}
	if a.cfg.PprofSecret != "" {
		debug := r.PathPrefix("/debug/pprof").Subrouter()
		debug.Use(middleware.PprofSecurityMiddleware(a.cfg.PprofSecret))
		debug.HandleFunc("/cmdline", pprof.Cmdline)
		debug.HandleFunc("/profile", pprof.Profile)
		debug.HandleFunc("/symbol", pprof.Symbol)
		debug.HandleFunc("/trace", pprof.Trace)
		debug.PathPrefix("/").HandlerFunc(pprof.Index)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "mafia"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/signup", authHandler.SignUp).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	api.Handle("/me", a.sessions.OptionalSession(http.HandlerFunc(authHandler.Me))).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE SESSION)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("/games").Subrouter()
	protected.Use(a.sessions.RequireSession)

	protected.HandleFunc("", gameHandler.ListOpenGames).Methods("GET")
	protected.HandleFunc("", gameHandler.CreateGame).Methods("POST")
	protected.HandleFunc("/{id}", gameHandler.GetGame).Methods("GET")
	protected.HandleFunc("/{id}/join", gameHandler.JoinGame).Methods("POST")
	protected.HandleFunc("/{id}/start", gameHandler.StartGame).Methods("POST")
	protected.HandleFunc("/{id}/night/mafia", gameHandler.SubmitMafiaTarget).Methods("POST")
	protected.HandleFunc("/{id}/night/doctor", gameHandler.SubmitDoctorTarget).Methods("POST")
	protected.HandleFunc("/{id}/night/resolve", gameHandler.ResolveNight).Methods("POST")
	protected.HandleFunc("/{id}/day/vote", gameHandler.SubmitDayVote).Methods("POST")
	protected.HandleFunc("/{id}/day/resolve", gameHandler.ResolveDay).Methods("POST")

	if info, err := os.Stat(a.cfg.StaticDir); err == nil && info.IsDir() {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(a.cfg.StaticDir)))
		log.Printf("Serving static files from %s", a.cfg.StaticDir)
	}

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(a.cfg.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)
	var handler http.Handler = r
	if a.cfg.TrustProxyHeaders {
		// RemoteAddr comes from X-Forwarded-For only behind a trusted proxy
		handler = gorillaHandlers.ProxyHeaders(r)
	}
	return corsHandler(handler)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	middleware.InitPrometheus()
	services.InitGameMetrics()

	a := newApp(cfg, services.NewAccountService())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workers.Every(ctx, "visitor-cleanup", visitorSweepInterval, func() {
		if removed := a.limiter.Sweep(visitorMaxIdle); removed > 0 {
			log.Printf("Rate limiter forgot %d idle visitors", removed)
		}
	})
	go workers.Every(ctx, "session-cleanup", sessionSweepInterval, func() {
		if removed := a.accounts.PruneSessions(); removed > 0 {
			log.Printf("Pruned %d expired sessions", removed)
		}
	})

	server := http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Mafia game server listening on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
