package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	config "github.com/wanderhq/tour-api/configs"
	"github.com/wanderhq/tour-api/internal/api/handlers"
	"github.com/wanderhq/tour-api/internal/api/middleware"
	"github.com/wanderhq/tour-api/internal/cache"
	"github.com/wanderhq/tour-api/internal/repository"
	"github.com/wanderhq/tour-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	var postCache *cache.PostCache
	if cfg.RedisURI != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		defer rdb.Close()
		postCache = cache.NewPostCache(rdb)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewPostCommentRepository(db)
	likeRepo := repository.NewPostLikeRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	storageService := service.NewStorageService(*cfg)
	tripService := service.NewTripService(db, tripRepo, postRepo)
	postService := service.NewPostService(db, postRepo, tripRepo, commentRepo, likeRepo, storageService, postCache, *cfg)
	engagementService := service.NewEngagementService(db, postRepo, commentRepo, likeRepo, postCache, *cfg)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	api := app.Group("/api/v1")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(*cfg, userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Delete("/user/delete", user.DeleteUser)

	trip := handlers.NewTripHandler(tripService)
	api.Get("/trip/all", trip.ListTrips)
	api.Get("/trip/without_pagination/all", trip.ListTripsWithoutPagination)
	api.Post("/trip/create", trip.CreateTrip)
	api.Put("/trip/update/:id", trip.UpdateTrip)
	api.Delete("/trip/delete/:id", trip.DeleteTrip)
	api.Get("/trip/:id", trip.GetTrip)

	post := handlers.NewPostHandler(postService, engagementService)
	api.Get("/post/all", post.ListPosts)
	api.Get("/post/without_pagination/all", post.ListPostsWithoutPagination)
	api.Get("/post/liked", post.ListLikedPosts)
	api.Get("/post/liked/without_pagination", post.ListLikedPostsWithoutPagination)
	api.Post("/post/create", post.CreatePost)
	api.Post("/post/comment/:id", post.CreateComment)
	api.Post("/post/like/:id", post.ToggleLike)
	api.Put("/post/update/:id", post.UpdatePost)
	api.Delete("/post/delete/:id", post.DeletePost)
	api.Get("/post/:id", post.GetPost)

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
