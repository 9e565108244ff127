package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wayplan/backend/api/controllers"
	"github.com/wayplan/backend/api/routes"
	"github.com/wayplan/backend/internal/activities"
	"github.com/wayplan/backend/internal/assist"
	"github.com/wayplan/backend/internal/auth"
	"github.com/wayplan/backend/internal/geo"
	"github.com/wayplan/backend/internal/memberships"
	"github.com/wayplan/backend/internal/trips"
	"github.com/wayplan/backend/internal/users"
	"github.com/wayplan/backend/pkg/assistant"
	"github.com/wayplan/backend/pkg/config"
	"github.com/wayplan/backend/pkg/db"
	"github.com/wayplan/backend/pkg/logger"
	"github.com/wayplan/backend/pkg/maps"
	"github.com/wayplan/backend/pkg/metrics"
	"github.com/wayplan/backend/pkg/migrate"
	"github.com/wayplan/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	collector := metrics.NewAPIMetrics(prometheus.DefaultRegisterer)

	mapsClient, err := maps.NewClient(cfg.Maps.APIKey,
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Maps.Timeout}))
	if err != nil {
		logg.Error(context.Background(), "failed to create maps client", err)
		os.Exit(1)
	}

	assistClient, err := assistant.NewClient(cfg.Assist.APIKey,
		assistant.WithModel(cfg.Assist.Model),
		assistant.WithHTTPClient(&http.Client{Timeout: cfg.Assist.Timeout}))
	if err != nil {
		logg.Error(context.Background(), "failed to create assistant client", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:      users.NewRepository(dbClient.DB()),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		TxRunner:    dbClient,
		Repo:        users.NewRepository(dbClient.DB()),
		ResetTokens: redisClient,
		App:         cfg.App,
		JWT:         cfg.JWT,
		Password:    cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	membershipsService, err := memberships.NewService(memberships.ServiceParams{
		TxRunner:   dbClient,
		Repo:       memberships.NewRepository(dbClient.DB()),
		TripFinder: memberships.TripFinderFunc(trips.NewRepository),
		Metrics:    collector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create memberships service", err)
		os.Exit(1)
	}

	tripsService, err := trips.NewService(trips.ServiceParams{
		TxRunner:          dbClient,
		Repo:              trips.NewRepository(dbClient.DB()),
		MembershipFactory: trips.MembershipWriterFunc(memberships.NewRepository),
		Metrics:           collector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create trips service", err)
		os.Exit(1)
	}

	activitiesService, err := activities.NewService(activities.ServiceParams{
		TxRunner: dbClient,
		Repo:     activities.NewRepository(dbClient.DB()),
		Metrics:  collector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create activities service", err)
		os.Exit(1)
	}

	geoService, err := geo.NewService(geo.ServiceParams{
		Client:  mapsClient,
		Metrics: collector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create geo service", err)
		os.Exit(1)
	}

	assistService, err := assist.NewService(assist.ServiceParams{
		Client:  assistClient,
		Metrics: collector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create assist service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.New(routes.RouterParams{
			Config:            cfg,
			Logger:            logg,
			Metrics:           collector,
			Auth:              controllers.NewAuthController(authService, logg),
			Users:             controllers.NewUsersController(usersService, logg),
			Trips:             controllers.NewTripsController(tripsService, membershipsService, logg),
			Activities:        controllers.NewActivitiesController(activitiesService, membershipsService, logg),
			Geo:               controllers.NewGeoController(geoService, logg),
			Assist:            controllers.NewAssistController(assistService, logg),
			Health:            controllers.NewHealthController(dbClient, redisClient, logg),
			MembershipChecker: membershipsService,
			RateLimitStore:    redisClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
