package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"planora.app/ai"
	"planora.app/configs"
	"planora.app/configs/configslog"
	"planora.app/pkg/renderer"
	"planora.app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg, err := configs.LoadConfig()
	if err != nil {
		configslog.Log.Fatal("Configuration could not be loaded", zap.Error(err))
	}
	if err := configs.InitDB(cfg.DB, cfg.IsProduction()); err != nil {
		configslog.Log.Fatal("Database unavailable", zap.Error(err))
	}
	defer configs.CloseDB()

	engine := html.New("./views", ".html")
	engine.AddFuncMap(renderer.TemplateFuncs())
	engine.Reload(!cfg.IsProduction())

	app := fiber.New(fiber.Config{
		AppName:      "Planora",
		Views:        engine,
		ErrorHandler: routes.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Static("/static", "./static")

	routes.SetupRoutes(app, routes.Dependencies{
		DB:     configs.GetDB(),
		Config: cfg,
		AI:     ai.NewClient(cfg.AI),
	})

	go func() {
		addr := cfg.Host + ":" + cfg.Port
		configslog.SLog.Infof("Listening on %s (%s)", addr, cfg.Env)
		if err := app.Listen(addr); err != nil {
			configslog.Log.Error("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		configslog.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
