package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/linesmerrill/medication-reminder-api/api"
	"github.com/linesmerrill/medication-reminder-api/api/scheduler"
	"github.com/linesmerrill/medication-reminder-api/auth"
	"github.com/linesmerrill/medication-reminder-api/config"
	"github.com/linesmerrill/medication-reminder-api/databases"
	"github.com/linesmerrill/medication-reminder-api/locks"
	"github.com/linesmerrill/medication-reminder-api/models"
	"github.com/linesmerrill/medication-reminder-api/schedule"
)

// redisKeyPrefix namespaces every key this service writes to Redis
const redisKeyPrefix = "medication-reminder:"

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
	redis    *redis.Client
	locker   locks.Locker
	limiter  *api.Limiter
	expander *schedule.Expander
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(api.LoggingMiddleware, api.TimeoutMiddleware(a.Config.RequestTimeout))

	tokens := auth.NewJWT(a.Config.JWTSecret, a.Config.TokenTTL)
	m := api.MiddlewareAuth{Tokens: tokens}
	limit := api.RateLimitMiddleware(a.limiter, a.Config.RateLimit.Limit, a.Config.RateLimit.Window)

	mdb := databases.NewMedicationDatabase(a.dbHelper)
	ldb := databases.NewMedicationLogDatabase(a.dbHelper)
	if a.expander == nil {
		a.expander = schedule.NewExpander(mdb, ldb, a.locker, a.Config.Location(), a.Config.LockTTL)
	}

	u := User{DB: databases.NewUserDatabase(a.dbHelper), Tokens: tokens}
	med := Medication{DB: mdb}
	l := MedicationLog{DB: ldb, MDB: mdb, Expander: a.expander}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/register", limit(http.HandlerFunc(u.RegisterHandler))).Methods("POST")
	apiCreate.Handle("/auth/login", limit(http.HandlerFunc(u.LoginHandler))).Methods("POST")

	apiCreate.Handle("/medications", m.Middleware(http.HandlerFunc(med.MedicationsHandler))).Methods("GET")
	apiCreate.Handle("/medications", m.Middleware(http.HandlerFunc(med.CreateMedicationHandler))).Methods("POST")
	apiCreate.Handle("/medications/{id}", m.Middleware(http.HandlerFunc(med.MedicationByIDHandler))).Methods("GET")
	apiCreate.Handle("/medications/{id}", m.Middleware(http.HandlerFunc(med.UpdateMedicationHandler))).Methods("PUT")
	apiCreate.Handle("/medications/{id}", m.Middleware(http.HandlerFunc(med.DeleteMedicationHandler))).Methods("DELETE")

	// static log routes must be registered before /logs/{id}
	apiCreate.Handle("/logs", m.Middleware(http.HandlerFunc(l.LogsHandler))).Methods("GET")
	apiCreate.Handle("/logs", m.Middleware(http.HandlerFunc(l.CreateLogHandler))).Methods("POST")
	apiCreate.Handle("/logs/scheduled", m.Middleware(http.HandlerFunc(l.GenerateScheduleHandler))).Methods("POST")
	apiCreate.Handle("/logs/today", m.Middleware(http.HandlerFunc(l.TodayLogsHandler))).Methods("GET")
	apiCreate.Handle("/logs/{id}", m.Middleware(http.HandlerFunc(l.LogByIDHandler))).Methods("GET")
	apiCreate.Handle("/logs/{id}", m.Middleware(http.HandlerFunc(l.UpdateLogHandler))).Methods("PUT")
	apiCreate.Handle("/logs/{id}", m.Middleware(http.HandlerFunc(l.DeleteLogHandler))).Methods("DELETE")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize(ctx context.Context) error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}
	a.client = client

	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	if err := client.Ping(ctx); err != nil {
		zap.S().Errorw("failed to ping database", "error", err)
		return err
	}
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("medication-reminder-api has connected to the database")

	if err := databases.EnsureIndexes(ctx, a.dbHelper); err != nil {
		zap.S().Errorw("failed to create indexes", "error", err)
		return err
	}

	if err := a.initializeRedis(ctx); err != nil {
		return err
	}

	// initialize api router
	a.initializeRoutes()

	if a.Config.Scheduler.Enabled {
		a.Scheduler = scheduler.NewScheduler(databases.NewMedicationDatabase(a.dbHelper), a.expander, a.locker)
		if err := a.Scheduler.Start(a.Config.Scheduler.Spec); err != nil {
			return err
		}
	}
	return nil
}

// initializeRedis picks the lock and rate limit backends. Without REDIS_URL locks are
// in-process and requests are not rate limited.
func (a *App) initializeRedis(ctx context.Context) error {
	if a.Config.RedisURL == "" {
		a.locker = locks.NewLocal()
		zap.S().Info("REDIS_URL not set, using in-process schedule locks")
		return nil
	}

	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	a.redis = redis.NewClient(opts)
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.locker = locks.NewRedis(a.redis, redisKeyPrefix+"lock:")
	a.limiter = api.NewLimiter(a.redis, redisKeyPrefix+"ratelimit:")
	zap.S().Info("medication-reminder-api has connected to redis")
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Close stops the scheduler and releases every connection Initialize opened
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.S().Warnw("failed to close redis client", "error", err)
		}
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().Warnw("failed to disconnect from database", "error", err)
		}
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
