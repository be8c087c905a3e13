package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/thaihadefi/Innovation-Project-sub000/board/admission"
	"github.com/thaihadefi/Innovation-Project-sub000/board/application/applicationapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/application/applicationinfra"
	"github.com/thaihadefi/Innovation-Project-sub000/board/application/applicationsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery"
	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery/discoveryapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery/discoveryinfra"
	"github.com/thaihadefi/Innovation-Project-sub000/board/discovery/discoverysrv"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/dispatchapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/dispatchinfra"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/dispatchsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/board/dispatch/worker"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job/jobapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job/jobinfra"
	"github.com/thaihadefi/Innovation-Project-sub000/board/job/jobsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/board/notification/notificationapi"
	"github.com/thaihadefi/Innovation-Project-sub000/board/notification/notificationinfra"
	"github.com/thaihadefi/Innovation-Project-sub000/board/notification/notificationsrv"
	"github.com/thaihadefi/Innovation-Project-sub000/internal/config"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/cachex"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/fsx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/fsx/fsxs3"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/iam/auth"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

const taskQueueName = "board:tasks"

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Cache      cachex.Cache

	// Auth
	TokenService   auth.TokenService
	AuthMiddleware *auth.TokenMiddleware

	// Queue and dispatch
	Queue      *dispatchinfra.RedisQueue
	Dispatcher *dispatchsrv.Dispatcher
	Worker     *worker.TaskWorker

	// Services
	JobService          *jobsrv.JobService
	ApplicationService  *applicationsrv.ApplicationService
	NotificationService *notificationsrv.NotificationService
	DiscoveryService    *discoverysrv.DiscoveryService

	// API Handlers
	JobHandlers          *jobapi.Handlers
	ApplicationHandlers  *applicationapi.Handlers
	NotificationHandlers *notificationapi.Handlers
	DiscoveryHandlers    *discoveryapi.Handlers
	DispatchHandlers     *dispatchapi.Handlers
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	cfg := c.Config

	// Database
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// Redis
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logx.Fatalf("Invalid Redis URL: %v", err)
	}
	c.Redis = redis.NewClient(opts)
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		// Cache misses and queue enqueue failures degrade, they don't stop boot.
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// Attachment storage
	fileSystem, err := fsxs3.New(context.Background(), cfg.Storage.Bucket, cfg.Storage.Region)
	if err != nil {
		logx.Fatalf("Failed to initialize S3 storage: %v", err)
	}
	c.FileSystem = fileSystem

	// Two-level read-side cache
	c.Cache = cachex.NewLayered(
		cachex.NewLocal(cfg.Cache.LocalMaxEntries),
		cachex.NewRedis(c.Redis),
	)

	// Auth
	c.TokenService = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	c.AuthMiddleware = auth.NewTokenMiddleware(c.TokenService)

	// Work queue
	c.Queue = dispatchinfra.NewRedisQueue(c.Redis, taskQueueName)
}

func (c *Container) initServices() {
	cfg := c.Config

	// Repositories
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)
	notificationRepo := notificationinfra.NewPostgresNotificationRepository(c.DB)
	deadLetterRepo := dispatchinfra.NewPostgresDeadLetterRepository(c.DB)
	discoveryReader := discoveryinfra.NewPostgresReader(c.DB)

	// The job repository doubles as the counter store: counters are columns
	// of the jobs table.
	admissionCtrl := admission.NewController(jobRepo)

	invalidator := discovery.NewCacheInvalidator(c.Cache)

	// Dispatch
	c.Dispatcher = dispatchsrv.NewDispatcher(c.Queue, deadLetterRepo, cfg.Dispatch.MaxAttempts, cfg.Dispatch.BaseBackoff)
	c.Dispatcher.RegisterHandler(dispatch.TaskKindNotification, dispatchsrv.NewNotificationHandler(notificationRepo))
	c.Dispatcher.RegisterHandler(dispatch.TaskKindEmail, dispatchsrv.NewEmailHandler(dispatchinfra.NewConsoleMailer()))
	c.Dispatcher.RegisterHandler(dispatch.TaskKindFileCleanup, dispatchsrv.NewFileCleanupHandler(c.FileSystem))
	c.Worker = worker.NewTaskWorker(c.Dispatcher, c.Queue, cfg.Dispatch.Workers, cfg.Dispatch.PollInterval)

	// Services
	c.JobService = jobsrv.NewJobService(jobRepo, applicationRepo, c.Queue, invalidator)
	c.ApplicationService = applicationsrv.NewApplicationService(
		applicationRepo, jobRepo, admissionCtrl, c.FileSystem, c.Queue, invalidator,
	)
	c.NotificationService = notificationsrv.NewNotificationService(notificationRepo)
	c.DiscoveryService = discoverysrv.NewDiscoveryService(discoveryReader, c.Cache)

	// Handlers
	c.JobHandlers = jobapi.NewHandlers(c.JobService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.NotificationHandlers = notificationapi.NewHandlers(c.NotificationService)
	c.DiscoveryHandlers = discoveryapi.NewHandlers(c.DiscoveryService)
	c.DispatchHandlers = dispatchapi.NewHandlers(c.Dispatcher)
}
