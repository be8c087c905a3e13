package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/thaihadefi/Innovation-Project-sub000/board/application/applicationapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery/discoveryapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/dispatchapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job/jobapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/notification/notificationapi"
	"github.com/thaihadefi/Innovation-Project-sub000/internal/config"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

func main() {
	logx.SetLevel(logx.LevelInfo)
	logx.Info("Starting Board API Server...")

	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	container := NewContainer(cfg)
	defer container.DB.Close()
	defer container.Redis.Close()

	// Background task workers. Cancelling the context stops the pool and the
	// delayed-task pump on shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.Worker.Start(workerCtx)

	app := fiber.New(fiber.Config{
		AppName:               "Board API",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          globalErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Configure for production
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"db":     container.DB.Ping() == nil,
			"redis":  container.Redis.Ping(c.Context()).Err() == nil,
		})
	})

	jobapi.RegisterRoutes(app, container.JobHandlers, container.AuthMiddleware)
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.AuthMiddleware)
	discoveryapi.RegisterRoutes(app, container.DiscoveryHandlers, container.AuthMiddleware)
	notificationapi.RegisterRoutes(app, container.NotificationHandlers, container.AuthMiddleware)
	dispatchapi.RegisterRoutes(app, container.DispatchHandlers, container.AuthMiddleware)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logx.Infof("Server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logx.Info("Shutting down server...")

	stopWorkers()
	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
			"code":  e.Code,
		})
	}

	if e, ok := err.(*errx.Error); ok {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
