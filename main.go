package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/docvault/docvault/handlers"
	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/database"
	dochandler "github.com/docvault/docvault/internal/document/handler"
	"github.com/docvault/docvault/internal/document/repository"
	docservice "github.com/docvault/docvault/internal/document/service"
	"github.com/docvault/docvault/internal/oidc"
	"github.com/docvault/docvault/internal/sessions"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/tokens"
	"github.com/docvault/docvault/internal/users"
	"github.com/docvault/docvault/pkg/logger"
	"github.com/docvault/docvault/pkg/metrics"
	"github.com/docvault/docvault/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v oidc=%v storage=%s",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.OIDC.IssuerURL != "", cfg.Storage.Backend)

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	// Redis is optional: token blacklist, rate limiting and session storage
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// blob store: MinIO bucket when configured, flat local directory otherwise
	var blobs storage.BlobStore
	if cfg.Storage.Backend == "minio" {
		ms, err := storage.NewMinIOStorage(storage.LoadMinIOConfig())
		if err != nil {
			logger.Fatalf("failed to initialize MinIO storage: %v", err)
		}
		blobs = ms
	} else {
		ls, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			logger.Fatalf("failed to initialize local storage: %v", err)
		}
		blobs = ls
	}

	// the protect capability: OIDC verifier when an issuer is configured,
	// HS256 verifier on the shared secret otherwise; insecure payload
	// parsing only under explicit opt-in for integration runs
	ctx := context.Background()
	var verifier middleware.Verifier
	if cfg.OIDC.IssuerURL != "" && cfg.OIDC.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.OIDC.IssuerURL, cfg.OIDC.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			verifier = ver
		}
	}
	if verifier == nil && cfg.JWT.Secret != "" {
		verifier = tokens.NewHMACVerifier(cfg.JWT.Secret)
	}
	if verifier == nil && strings.ToLower(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN"))) == "true" {
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	}

	// metadata store: Mongo with retry/backoff, memory fallback for
	// storage-less development runs
	var docRepo docservice.Repository
	var userSvc *users.Service
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
		logger.Infof("using Redis for session storage")
	}
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			docRepo = repository.NewMongoRepo(db.Collection("documents"))
			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
			}
		}
	}
	if docRepo == nil {
		logger.Warnf("no MongoDB available — using memory-backed document repository")
		docRepo = repository.NewMemoryRepo()
	}

	docSvc := docservice.New(docRepo, blobs)

	// health and readiness
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}
		deps["documents"] = true
		deps["users"] = userSvc != nil
		if verifier == nil {
			deps["auth"] = false
			ready = false
		} else {
			deps["auth"] = true
		}
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}
		status := 200
		state := "ready"
		if !ready {
			status = 503
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterSwagger(r)

	api := r.Group("/api")
	if userSvc != nil && sessionsSvc != nil {
		h := handlers.NewAuthHandler(cfg, userSvc, sessionsSvc, verifier)
		h.Register(api)
	} else {
		logger.Warnf("auth handlers not registered because user/session services are unavailable")
	}

	if verifier != nil {
		protected := api.Group("/", middleware.AuthMiddleware(verifier))
		dochandler.RegisterDocumentRoutes(protected, docSvc)
		if userSvc != nil {
			users.RegisterUserRoutes(protected, userSvc)
		}
	} else {
		logger.Warnf("document routes not registered: no token verifier available")
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("docvault listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
