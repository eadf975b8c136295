package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"tennis-tournament-api/config"
	"tennis-tournament-api/handlers"
	"tennis-tournament-api/metrics"
	"tennis-tournament-api/services"
	"tennis-tournament-api/storage"
	"tennis-tournament-api/utils"
	"tennis-tournament-api/workers"
)

func openStore(cfg *config.Config) *storage.Store {
	if cfg.StorageDriver == "memory" {
		store, err := storage.NewMemory()
		if err != nil {
			log.Fatal("failed to open in-memory database:", err)
		}
		log.Println("⚠️  STORAGE_DRIVER=memory: in-process SQLite, data is lost on restart")
		return store
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	db, err := storage.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}
	log.Println("✅ Connected to PostgreSQL")
	return storage.New(db)
}

func openCodeStore(ctx context.Context, cfg *config.Config) services.CodeStore {
	if cfg.RedisAddr == "" {
		log.Println("⚠️  REDIS_ADDR not set, verification codes are kept in process memory")
		return services.NewMemoryCodeStore()
	}
	rdb, err := services.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("failed to connect to redis:", err)
	}
	log.Printf("✅ Verification codes stored in Redis at %s", cfg.RedisAddr)
	return services.NewRedisCodeStore(rdb)
}

func openFileStore(ctx context.Context, cfg *config.Config) (utils.FileStore, string) {
	if cfg.R2.Configured() {
		r2, err := utils.NewR2Store(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		log.Printf("✅ Uploads go to R2 bucket %s", cfg.R2.Bucket)
		return r2, ""
	}

	disk := utils.NewDiskStore(cfg.UploadDir)
	if err := disk.EnsureDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}
	return disk, cfg.UploadDir
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(cfg)
	codes := openCodeStore(ctx, cfg)
	files, uploadDir := openFileStore(ctx, cfg)

	var mailer services.Mailer = services.NewSMTPMailer(cfg.SMTP)
	if !cfg.SMTP.Configured() {
		log.Println("⚠️  SMTP not configured, verification codes will be logged instead of emailed")
		mailer = services.LogMailer{}
	}

	hub := services.NewHub(16)
	actions := services.NewActionLogger(store)
	users := services.NewUserService(store, cfg.LegacyPlaintextPasswords)
	monitor := services.NewMonitorService(store, store, cfg.Monitor.Window, cfg.Monitor.Threshold)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.UploadMaxBytes,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(metrics.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-ID",
		MaxAge:       86400,
	}))

	handlers.SetupRoutes(app, handlers.Deps{
		Players:       services.NewPlayerService(store),
		Tournaments:   services.NewTournamentService(store, store, actions, hub),
		Users:         users,
		Auth:          services.NewAuthService(users, codes, mailer, cfg.AdminUsername, cfg.VerificationCodeTTL),
		Monitor:       monitor,
		Hub:           hub,
		Files:         files,
		UploadDir:     uploadDir,
		AdminUsername: cfg.AdminUsername,
	})

	worker := workers.NewMonitorWorker(monitor, cfg.Monitor.Interval)
	if err := worker.Start(ctx); err != nil {
		log.Fatal("failed to start monitor worker:", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Suspicious activity monitor running (every %s, window %s, threshold %d)",
		cfg.Monitor.Interval, cfg.Monitor.Window, cfg.Monitor.Threshold)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := worker.Stop(); err != nil {
		log.Printf("⚠️ monitor worker shutdown: %v", err)
	}
	hub.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("⚠️ server shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("⚠️ database close: %v", err)
	}
}
