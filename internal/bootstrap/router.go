package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/spring-sisters/spring-backend/internal/api/http"
	reqmw "github.com/spring-sisters/spring-backend/internal/api/http/middleware"
	"github.com/spring-sisters/spring-backend/internal/assistant"
	assistanthttp "github.com/spring-sisters/spring-backend/internal/assistant/http"
	"github.com/spring-sisters/spring-backend/internal/auth"
	authmw "github.com/spring-sisters/spring-backend/internal/auth/middleware"
	profilehttp "github.com/spring-sisters/spring-backend/internal/profile/http"
	profilerepo "github.com/spring-sisters/spring-backend/internal/profile/repository"
	profilesvc "github.com/spring-sisters/spring-backend/internal/profile/service"
	"github.com/spring-sisters/spring-backend/internal/streak"
	"github.com/spring-sisters/spring-backend/internal/suggestion"
	"github.com/spring-sisters/spring-backend/internal/today"
	trackinghttp "github.com/spring-sisters/spring-backend/internal/tracking/http"
	trackingrepo "github.com/spring-sisters/spring-backend/internal/tracking/repository"
	trackingsvc "github.com/spring-sisters/spring-backend/internal/tracking/service"
	"github.com/spring-sisters/spring-backend/internal/whisper"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string

	DB    *pgxpool.Pool // nil: profiles live in memory
	SQL   *sql.DB       // nil: streaks are disabled
	Redis *redis.Client

	// Verifier enables Firebase auth; nil falls back to the X-User-Id header.
	Verifier authmw.TokenVerifier

	Gateway *assistant.Client
	Model   string
	Vision  string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqmw.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	var dbPing, redisPing httpapi.Pinger
	if dep.DB != nil {
		dbPing = dep.DB
	}
	if dep.Redis != nil {
		redisPing = httpapi.RedisPinger(func(ctx context.Context) error { return dep.Redis.Ping(ctx).Err() })
	}
	var gatewayStats httpapi.GatewayStats
	if dep.Gateway != nil {
		gatewayStats = func() interface{} { return dep.Gateway.Stats() }
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dbPing, redisPing, gatewayStats).RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(auth.DevUser())
	}
	api.Use(auth.RequireUser())

	tracking := trackingsvc.NewTrackingService(trackingrepo.NewTrackedRepository(dep.Redis))
	markers := whisper.NewMarkerStore(dep.Redis)

	hooks := []profilesvc.ResetHook{tracking.Reset, markers.Clear}
	var streaks *streak.Service
	if dep.SQL != nil {
		streaks = streak.NewService(streak.NewRepository(dep.SQL))
		hooks = append(hooks, streaks.Reset)
	}

	var store profilesvc.Store
	if dep.DB != nil {
		store = profilerepo.NewRepo(dep.DB)
	} else {
		store = profilerepo.NewMemoryRepo()
	}
	profiles := profilesvc.NewProfileService(store, hooks...)

	profilehttp.New(profiles).Register(api.Group("/profile"))
	trackinghttp.New(tracking).Register(api.Group("/tracking"))

	todaySvc := today.NewService(profiles, tracking, whisper.NewService(markers), suggestion.NewEngine())
	var visits today.Visits
	if streaks != nil {
		visits = streaks
		streak.NewHandler(streaks).Register(api.Group("/streak"))
	}
	today.NewHandler(todaySvc, visits).Register(api.Group("/today"))

	if dep.Gateway != nil {
		svc := assistant.NewService(dep.Gateway, profiles, dep.Model, dep.Vision)
		assistanthttp.New(svc).Register(api.Group("/assistant"))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-User-Id", reqmw.HeaderRequestID},
		ExposeHeaders: []string{reqmw.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
