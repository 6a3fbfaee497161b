package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/authkit/modules/account"
	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/config"
	"github.com/dmitrymomot/authkit/pkg/cookie"
	"github.com/dmitrymomot/authkit/pkg/file"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/jwt"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/mongo"
	"github.com/dmitrymomot/authkit/pkg/password"
	"github.com/dmitrymomot/authkit/pkg/redis"
)

type appConfig struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`
	CORSOrigin string        `env:"CORS_ORIGIN" envDefault:""`

	// Local asset storage, used when no S3 bucket is configured.
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/files/"`

	Log    logger.Config
	Cookie cookie.Config
	HTTP   httpserver.Config
	Mongo  mongo.Config
	Redis  redis.Config
	S3     file.S3Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithConfig(cfg.Log))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	mongoClient, err := mongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	repo := account.NewRepository(mongoClient.Database(cfg.Mongo.Database))
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}

	tokens, err := jwt.NewFromString(cfg.SigningKey)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range", cfg.BcryptCost)
	}

	authOpts := []auth.Option{
		auth.WithHasher(password.New(password.WithCost(cfg.BcryptCost))),
		auth.WithSessionTTL(cfg.SessionTTL),
		auth.WithLogger(log),
	}

	var redisHealth func(context.Context) error
	if cfg.Redis.Enabled() {
		redisClient, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		authOpts = append(authOpts, auth.WithRevocationStore(auth.NewRedisRevocationStore(redisClient)))
		redisHealth = redis.Healthcheck(redisClient)
		log.Info("token revocation enabled")
	}

	assets, err := newAssetStorage(ctx, cfg, log)
	if err != nil {
		return err
	}

	authSvc := auth.New(repo, tokens, authOpts...)
	accountSvc := account.NewService(authSvc, cookie.NewFromConfig(cfg.Cookie), assets,
		account.WithLogger(log))

	r := chi.NewRouter()
	if cfg.CORSOrigin != "" {
		r.Use(account.CORS(cfg.CORSOrigin))
	}
	r.Get("/health", healthHandler(mongo.Healthcheck(mongoClient), redisHealth))
	r.Mount("/", accountSvc.Router())

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	log.Info("starting server", slog.String("addr", cfg.HTTP.Addr))
	return srv.Run(ctx, r)
}

func newAssetStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (file.Storage, error) {
	if cfg.S3.Bucket != "" {
		s3, err := file.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
		log.Info("using S3 asset storage", slog.String("bucket", cfg.S3.Bucket))
		return s3, nil
	}

	local, err := file.NewLocalStorage(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	log.Info("using local asset storage", slog.String("dir", cfg.UploadDir))
	return local, nil
}

func healthHandler(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
