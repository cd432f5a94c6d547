package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"uni-hris/internal/config"
	"uni-hris/internal/middleware"
	"uni-hris/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the long-lived connections shared by every binary.
type Infra struct {
	Config *config.Config
	Logger *zap.Logger
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

// OpenInfra connects to the database and, when withRedis is set, to Redis.
func OpenInfra(cfg *config.Config, logger *zap.Logger, withRedis bool) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	infra := &Infra{Config: cfg, Logger: logger, GormDB: gormDB, DB: sqlDB}
	if withRedis {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		infra.Redis = rdb
	}
	return infra, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
}

// NewRouter returns a gin engine with the shared middleware stack and /healthz.
func NewRouter(infra *Infra) *gin.Engine {
	if infra.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", middleware.RequestID(), healthz(infra))
	r.Use(middleware.ContextLogger(infra.Logger))
	return r
}

func healthz(infra *Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		status := http.StatusOK
		if err := infra.DB.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if infra.Redis != nil {
			checks["redis"] = "ok"
			if err := infra.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, checks)
	}
}

// BuildApp wires every module onto router.
func BuildApp(ctx context.Context, router *gin.Engine, infra *Infra) error {
	return registerModules(ctx, router, infra)
}
