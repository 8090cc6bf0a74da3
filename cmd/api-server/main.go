package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moviehub/internal/analyze"
	"moviehub/internal/auth"
	"moviehub/internal/events"
	"moviehub/internal/movie"
	"moviehub/internal/notify"
	"moviehub/internal/pipeline"
	"moviehub/internal/tmdb"
	"moviehub/internal/viz"
	"moviehub/internal/watchlist"
	"moviehub/pkg/database"
	"moviehub/pkg/utils"
)

func main() {
	utils.LoadDotEnv()

	cfg := utils.LoadDBConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start TCP event stream first (so you notice binding errors early)
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(":7070", hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":          cfg.Path,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Movies (public)
	movieRepo := movie.NewRepo(db)
	movieHandler := movie.NewHandler(movieRepo)
	movieHandler.RegisterRoutes(router.Group("/movies"))

	// Analytics (public)
	analyzeHandler := analyze.NewHandler(movieRepo)
	analyzeHandler.RegisterRoutes(router.Group("/analytics"))

	// Charts (public)
	vizHandler := viz.NewHandler(movieRepo)
	vizHandler.RegisterRoutes(router.Group("/charts"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.NewTokenService(authCfg.JWTSecret, authCfg.JWTIssuer, authCfg.JWTDuration)
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Protected routes
	protected := router.Group("/users")
	protected.Use(auth.RequireAuth(tokenSvc, authRepo))

	protected.GET("/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	// Watchlist (protected)
	wlRepo := watchlist.NewRepo(db)
	wlHandler := watchlist.NewHandler(wlRepo, hub)
	wlHandler.RegisterRoutes(protected)

	// UDP notify: registered clients get run.finished summaries
	registry := notify.NewRegistry()
	udpSrv := notify.NewServer(":7071", registry, log.Default())
	go func() {
		if err := udpSrv.Run(); err != nil {
			log.Printf("udp notify server stopped: %v", err)
		}
	}()

	// Admin refresh: re-runs the extraction pipeline (protected)
	admin := router.Group("/admin")
	admin.Use(auth.RequireAuth(tokenSvc, authRepo))
	admin.POST("/refresh", func(c *gin.Context) {
		tmdbCfg := utils.LoadTMDBConfig()
		if tmdbCfg.APIKey == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "MOVIEHUB_TMDB_API_KEY is not set"})
			return
		}

		runner := &pipeline.Runner{
			Fetcher:  tmdb.NewClient(tmdbCfg.BaseURL, tmdbCfg.APIKey),
			Repo:     movieRepo,
			Hub:      hub,
			Notifier: udpSrv,
			Delay:    tmdbCfg.RequestDelay,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if _, err := runner.Run(ctx, tmdbCfg.MovieIDs); err != nil {
				log.Printf("refresh run failed: %v", err)
			}
		}()

		c.JSON(http.StatusAccepted, gin.H{
			"status": "started",
			"ids":    len(tmdbCfg.MovieIDs),
		})
	})

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
