package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/grandplaza/roomvoice/cmd/bootstrap"
	handlers "github.com/grandplaza/roomvoice/internal/handler"
	"github.com/grandplaza/roomvoice/internal/listeners"
	"github.com/grandplaza/roomvoice/pkg/config"
	"github.com/grandplaza/roomvoice/pkg/guest"
	"github.com/grandplaza/roomvoice/pkg/logger"
	"github.com/grandplaza/roomvoice/pkg/menu"
	"github.com/grandplaza/roomvoice/pkg/order"
	"github.com/grandplaza/roomvoice/pkg/speech"
)

type RoomVoiceApp struct {
	db       *gorm.DB
	handlers *handlers.Handlers
}

func NewRoomVoiceApp(db *gorm.DB) *RoomVoiceApp {
	cfg := config.GlobalConfig

	// The menu collaborator: the hotel backend in production, the built-in
	// catalog in development.
	var source menu.Source
	if cfg.Mode == "development" {
		source = menu.DefaultStaticSource()
	} else {
		source = menu.NewClient(cfg.BackendBaseURL, cfg.MenuTimeout)
	}
	catalog := menu.NewCatalog(source, cfg.MenuCacheTTL)

	directory, err := guest.NewCachedDirectory(
		guest.NewClient(cfg.BackendBaseURL, cfg.GuestTimeout), 512)
	if err != nil {
		panic(err)
	}

	submitter := order.NewClient(cfg.BackendBaseURL, cfg.OrderTimeout)

	providerFactory := func(dispatcher speech.Dispatcher) (speech.Provider, error) {
		return speech.NewProvider(cfg, dispatcher, nil)
	}

	return &RoomVoiceApp{
		db:       db,
		handlers: handlers.NewHandlers(db, catalog, directory, submitter, providerFactory),
	}
}

func (app *RoomVoiceApp) RegisterRoutes(r *gin.Engine) {
	app.handlers.Register(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "calls": listeners.Stats()})
	})
}

func main() {
	if err := bootstrap.PrintBannerFromFile("banner.txt"); err != nil {
		log.Fatalf("unload banner: %v", err)
	}

	mode := flag.String("mode", "", "running environment (development, test, production)")
	initSQL := flag.String("init-sql", "", "path to database init .sql script (optional)")
	flag.Parse()

	if *mode != "" {
		os.Setenv("APP_ENV", *mode)
	}

	if err := config.Load(); err != nil {
		panic("config load failed: " + err.Error())
	}

	if err := logger.Init(&config.GlobalConfig.Log, config.GlobalConfig.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	bootstrap.LogConfigInfo()
	listeners.InitSessionListeners()

	db, err := bootstrap.SetupDatabase(os.Stdout, &bootstrap.Options{
		InitSQLPath: *initSQL,
		AutoMigrate: true,
	})
	if err != nil {
		logger.Error("database setup failed", zap.Error(err))
		return
	}

	app := NewRoomVoiceApp(db)

	if config.GlobalConfig.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	app.RegisterRoutes(r)

	addr := config.GlobalConfig.Addr
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server run failed", zap.Error(err))
	}
}
