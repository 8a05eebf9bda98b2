package di

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"holidaze-server/api"
	"holidaze-server/api/holidaze"
	"holidaze-server/availability"
	"holidaze-server/config"
	"holidaze-server/dao/redis"
	"holidaze-server/db"
	"holidaze-server/server"
	"holidaze-server/server/handlers"
	services "holidaze-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                 *config.Config
	Logger                 *logrus.Logger
	RedisClient            db.RedisClient
	RedisVenueDao          *redis.RedisVenueDAO
	HolidazeAPI            holidaze.HolidazeAPI
	VenueService           *services.VenueService
	BookingSessionService  *services.BookingSessionService
	ManagerService         *services.ManagerService
	VenuesRefresherService *services.VenuesRefresherService
	VenueHandler           *handlers.VenueHandler
	SessionHandler         *handlers.SessionHandler
	ManagerHandler         *handlers.ManagerHandler
	MuxRouter              *mux.Router
	Router                 *server.Router
	HolidazeHttpServer     *server.HolidazeHttpServer
}

// NewLogger builds the process logger: JSON in prod, text elsewhere.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.IsProd() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewContainer initializes and wires up all dependencies. Outside prod, Redis and the
// Holidaze API are in-memory mocks, the latter seeded from resources/venues.json.
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := NewLogger(cfg)
	return NewContainerWithLogger(cfg, logger)
}

func NewContainerWithLogger(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	log := logger.WithField("component", "Container")
	log.WithField("env", cfg.Env).Info("initializing container")

	var redisClient db.RedisClient
	if cfg.IsProd() {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisClient = db.NewGoRedisClient(redisInternalClient, logger)
	} else {
		log.Info("using mock redis")
		redisClient = db.NewMockRedisClient()
	}
	if err := redisClient.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	redisVenueDao := redis.NewRedisVenueDAO(redisClient, cfg.VenueCacheTTL)

	var holidazeApi holidaze.HolidazeAPI
	if cfg.IsProd() {
		log.Info("using prod holidaze api")
		httpClient := api.NewHTTPClient(cfg.HolidazeAPIBase).WithAPIKey(cfg.HolidazeAPIKey)
		holidazeApi = holidaze.NewHolidazeApiClient(httpClient)
	} else {
		path := config.GetResourcePath(config.VENUES_RESOURCE)
		mock, err := holidaze.NewHolidazeApiClientMockFromFile(path)
		if err != nil {
			log.WithError(err).Warn("starting mock holidaze api without venues")
			mock = holidaze.NewHolidazeApiClientMock()
		}
		log.WithField("seed", path).Info("using mock holidaze api")
		holidazeApi = mock
	}

	venueService := services.NewVenueService(redisVenueDao, holidazeApi, logger,
		cfg.HorizonDays, availability.ParseCheckoutPolicy(cfg.CheckoutPolicy))
	bookingSessionService := services.NewBookingSessionService(venueService, holidazeApi, logger, cfg.SessionTTL)
	managerService := services.NewManagerService(holidazeApi, venueService, logger)
	venuesRefresherService := services.NewVenuesRefresherService(redisVenueDao, holidazeApi, logger)

	venueHandler := handlers.NewVenueHandler(venueService, logger)
	sessionHandler := handlers.NewSessionHandler(bookingSessionService, logger)
	managerHandler := handlers.NewManagerHandler(managerService, logger)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(venueHandler, sessionHandler, managerHandler, muxRouter, logger)
	holidazeHttpServer := server.NewHolidazeHttpServer(router, muxRouter, cfg.HTTPAddr, logger)

	return &Container{
		Config:                 cfg,
		Logger:                 logger,
		RedisClient:            redisClient,
		RedisVenueDao:          redisVenueDao,
		HolidazeAPI:            holidazeApi,
		VenueService:           venueService,
		BookingSessionService:  bookingSessionService,
		ManagerService:         managerService,
		VenuesRefresherService: venuesRefresherService,
		VenueHandler:           venueHandler,
		SessionHandler:         sessionHandler,
		ManagerHandler:         managerHandler,
		MuxRouter:              muxRouter,
		Router:                 router,
		HolidazeHttpServer:     holidazeHttpServer,
	}, nil
}
