package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/laasyan18/Tunr/internal/config"
	"github.com/laasyan18/Tunr/internal/database"
	"github.com/laasyan18/Tunr/internal/handler"
	"github.com/laasyan18/Tunr/internal/middleware"
	"github.com/laasyan18/Tunr/internal/omdb"
	"github.com/laasyan18/Tunr/internal/repository"
	"github.com/laasyan18/Tunr/internal/service"
	"github.com/laasyan18/Tunr/internal/spotify"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		rdb = nil
	}

	// External providers
	omdbClient := omdb.NewClient(cfg.OMDB.APIKey, cfg.OMDB.BaseURL)
	spotifyClient := spotify.NewClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret,
		cfg.Spotify.TokenURL, cfg.Spotify.APIBaseURL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	musicRepo := repository.NewMusicRepository(db)

	// Services
	catalogSvc := service.NewCatalogService(movieRepo, omdbClient)
	librarySvc := service.NewLibraryService(reviewRepo, interactionRepo, catalogSvc, movieRepo)
	socialSvc := service.NewSocialService(userRepo, reviewRepo, interactionRepo)
	feedSvc := service.NewFeedService(reviewRepo, interactionRepo, userRepo)
	friendRec := service.NewFriendRecommender(reviewRepo, userRepo)
	movieRec := service.NewMovieRecommender(reviewRepo, movieRepo, userRepo, interactionRepo, catalogSvc, rdb)
	musicSvc := service.NewMusicService(musicRepo, userRepo, spotifyClient)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHrs)*time.Hour)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	movieHandler := handler.NewMovieHandler(catalogSvc, librarySvc)
	socialHandler := handler.NewSocialHandler(socialSvc)
	recHandler := handler.NewRecommendationHandler(movieRec, friendRec, feedSvc)
	musicHandler := handler.NewMusicHandler(musicSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Tunr",
		ServerHeader: "Tunr",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec).Handler())

	app.Get("/health", handler.Health)

	// Public routes
	api := app.Group("/api/v1")
	api.Post("/auth/signup", authHandler.Signup)
	api.Post("/auth/login", authHandler.Login)

	// Authenticated routes
	auth := api.Group("", middleware.JWTAuth(cfg.JWT.Secret))

	auth.Get("/movies/search", movieHandler.Search)
	auth.Get("/movies/:imdb_id", movieHandler.Detail)
	auth.Get("/movies/:imdb_id/stats", movieHandler.Stats)
	auth.Get("/movies/:imdb_id/reviews", movieHandler.MovieReviews)
	auth.Get("/movies/:imdb_id/liked", movieHandler.IsLiked)

	auth.Get("/reviews", movieHandler.MyReviews)
	auth.Post("/reviews", movieHandler.CreateReview)
	auth.Delete("/reviews/:id", movieHandler.DeleteReview)

	auth.Post("/interactions/watch", movieHandler.ToggleWatchState)
	auth.Post("/interactions/like", movieHandler.ToggleLike)
	auth.Get("/library", movieHandler.Library)

	auth.Get("/users/search", socialHandler.Search)
	auth.Get("/users/:username", socialHandler.Profile)
	auth.Post("/users/:username/follow", socialHandler.ToggleFollow)
	auth.Get("/users/:username/following", socialHandler.Following)
	auth.Get("/users/:username/followers", socialHandler.Followers)

	auth.Get("/feed", recHandler.OwnActivity)
	auth.Get("/feed/friends", recHandler.FriendActivity)
	auth.Get("/recommendations/movies", recHandler.Movies)
	auth.Get("/recommendations/friends", recHandler.Friends)
	auth.Get("/recommendations/music", musicHandler.Recommendations)

	auth.Post("/music/likes", musicHandler.LikeSong)
	auth.Delete("/music/likes/:track_id", musicHandler.UnlikeSong)
	auth.Get("/music/library", musicHandler.Library)
	auth.Post("/music/playlists", musicHandler.SavePlaylist)
	auth.Delete("/music/playlists/:playlist_id", musicHandler.UnsavePlaylist)
	auth.Get("/music/check-liked", musicHandler.CheckLiked)
	auth.Post("/music/sync", musicHandler.Sync)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
