package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/api/handlers"
	"github.com/maheshrc27/instaflow/internal/api/middleware"
	"github.com/maheshrc27/instaflow/internal/jobs"
	"github.com/maheshrc27/instaflow/internal/service"
	"github.com/maheshrc27/instaflow/internal/store"
	"github.com/maheshrc27/instaflow/pkg/utils"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	if cfg.SecretKey == "" {
		key, err := utils.GenerateRandomKey(32)
		if err != nil {
			log.Fatalf("Failed to generate session secret: %v", err)
		}
		cfg.SecretKey = key
		log.Println("SECRET_KEY not set, sessions will not survive a restart")
	}

	dataStore := store.New(cfg.DataFile)
	secretStore := store.NewSecretStore(cfg.SecretsFile, cfg.SecretKey)
	seedSecrets(secretStore, cfg)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    50 * 1024 * 1024, // 50 MB, image payloads are inline
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	publishService := service.NewPublishService(secretStore)
	postService := service.NewPostService(dataStore, publishService)
	captionService := service.NewCaptionService(secretStore)
	settingsService := service.NewSettingsService(dataStore, secretStore)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg)
	app.Post("/login", auth.Login)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	data := handlers.NewDataHandler(dataStore, secretStore)
	api.Get("/data", data.GetData)
	api.Post("/data", data.SaveData)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Delete("/posts/:id", post.RemovePost)
	api.Put("/posts/:id/schedule", post.ReschedulePost)
	api.Post("/posts/:id/pause", post.TogglePausePost)
	api.Post("/posts/:id/publish", post.PublishPost)
	api.Post("/posts/:id/edit", post.EditPost)

	caption := handlers.NewCaptionHandler(captionService)
	api.Post("/generate", caption.GenerateCaptions)

	settings := handlers.NewSettingsHandler(settingsService)
	api.Get("/settings", settings.GetSettingsInfo)
	api.Post("/settings", settings.UpdateSettings)
	api.Post("/settings/secrets", settings.UpdateSecrets)

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		app.Static("/", cfg.StaticDir)
	}

	publishJob := jobs.NewPublishJob(dataStore, publishService)

	c := cron.New()
	c.AddFunc("@every 0h1m0s", publishJob.Run)
	c.Start()
	log.Println("Automation active - checking scheduled posts every minute")

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(app, c)
}

// seedSecrets lets a fresh install bootstrap its credentials from the
// environment without touching the secrets endpoint.
func seedSecrets(secretStore *store.SecretStore, cfg *config.Config) {
	if cfg.WebhookURL == "" && cfg.OpenAIKey == "" {
		return
	}
	sec, err := secretStore.Load()
	if err != nil {
		log.Printf("Warning: unable to read secrets file: %v", err)
		return
	}
	changed := false
	if sec.WebhookURL == "" && cfg.WebhookURL != "" {
		sec.WebhookURL = cfg.WebhookURL
		changed = true
	}
	if sec.APIKey == "" && cfg.OpenAIKey != "" {
		sec.APIKey = cfg.OpenAIKey
		changed = true
	}
	if changed {
		if err := secretStore.Save(sec); err != nil {
			log.Printf("Warning: unable to seed secrets: %v", err)
		}
	}
}

func gracefulShutdown(app *fiber.App, c *cron.Cron) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	c.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}
	log.Println("Server shutdown complete.")
}
