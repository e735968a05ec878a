package main // Entry point package

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/planora/planora-api/internal/auth"
	"github.com/planora/planora-api/internal/config"
	"github.com/planora/planora-api/internal/database"
	"github.com/planora/planora-api/internal/handler"
	"github.com/planora/planora-api/internal/middleware"
	"github.com/planora/planora-api/internal/queue"
	"github.com/planora/planora-api/internal/repository"
	"github.com/planora/planora-api/internal/router"
	"github.com/planora/planora-api/internal/session"
	"github.com/planora/planora-api/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting degrades to in-process")
	}

	// Session tracking needs a durable registry; refusing to start beats
	// silently handing out unrevokable sessions.
	var sessions session.Registry
	var resets session.ResetConsumer
	if cfg.SessionTracking || cfg.ResetSingleUse {
		if rdb == nil {
			log.Fatal("session tracking / reset single-use requires redis (set SESSION_TRACKING_ENABLED=false and RESET_TOKEN_SINGLE_USE=false to run without it)")
		}
		sessions = session.NewRedisRegistry(rdb)
		resets = session.NewRedisResetConsumer(rdb)
	}

	blobs, err := storage.NewDiskStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	issuer := auth.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.ResetSecret, cfg.AccessTTL, cfg.ResetTTL)
	notifier := queue.NewAMQPNotifier()

	users := repository.NewUserRepo(db)
	events := repository.NewEventRepo(db)

	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.HTTPErrorHandler = errorHandler

	router.RegisterRoutes(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, issuer, sessions),
		Reset:   handler.NewPasswordResetHandler(cfg, users, issuer, resets, notifier),
		Users:   handler.NewUserHandler(users),
		Events:  handler.NewEventHandler(events),
		Images:  handler.NewImageHandler(blobs),
		Message: handler.NewMessageHandler(cfg, notifier),
	},
		middleware.RequireAccessToken(issuer),
		middleware.NewTokenBucket(config.LoadStrictRateLimit(), rdb),
		middleware.NewTokenBucket(config.LoadLooseRateLimit(), rdb),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, session_tracking=%t)", addr, cfg.Env, cfg.SessionTracking)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// errorHandler is the catch-all: anything a handler did not translate
// itself is logged and reported as a generic failure, with Echo's own
// HTTP errors (404 route misses etc.) passed through.
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	} else {
		c.Logger().Error(err)
	}
	if !c.Response().Committed {
		_ = c.JSON(code, echo.Map{"error": msg})
	}
}
