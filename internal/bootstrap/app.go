package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	googleauth "github.com/Nirnoy12/covercraft-ai-tools/internal/auth"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/documents"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/generation"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
	openai "github.com/Nirnoy12/covercraft-ai-tools/internal/llm/openai"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm/vertex"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/services/health"
	sharedauth "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/auth"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/config"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/metrics"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/server"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/db"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/object"
	localstore "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/object/local"
	s3store "github.com/Nirnoy12/covercraft-ai-tools/internal/shared/storage/object/s3"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/users"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/web"
)

const googleStartPath = "/api/v1/auth/google/start"

var (
	connectDB = db.Connect
	sharedDB  = db.Shared
	migrateDB = db.RunMigrations
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine

	DB    *sql.DB
	Mongo *mongo.Client
	Redis *redis.Client
	Store object.ObjectStore
	LLM   llm.Client

	DocumentsService  *documents.Service
	GenerationService *generation.Service
	UsersService      *users.Service
	GoogleAuth        *googleauth.GoogleService
	Health            *health.Service

	closers []func(context.Context) error
}

// Build prepares every dependency and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	metrics.RegisterDefault()

	app := &App{Config: cfg, Health: health.NewService()}

	if err := app.buildDB(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	docRepo, err := app.buildDocumentsRepo(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close(ctx)
		return nil, err
	}
	if app.LLM, err = app.buildLLM(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	verifier, signer, err := buildVerifier(ctx, cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	states, err := app.buildStateStore(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	var userRepo users.Repo = users.NewMemoryRepo()
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
	}
	app.UsersService = users.NewService(userRepo)
	app.DocumentsService = documents.NewService(docRepo)
	app.GenerationService = generation.NewService(app.LLM, app.DocumentsService, app.Store, cfg.QuarantinePrefix)

	var tokenSigner googleauth.TokenSigner
	if signer != nil {
		tokenSigner = signer
	}
	secureCookie := !cfg.IsDevLike()
	app.GoogleAuth = googleauth.NewGoogleService(googleauth.GoogleOptions{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		UIRedirect:   cfg.UIRedirectURL,
		States:       states,
		Signer:       tokenSigner,
		Profiles:     app.UsersService,
		SecureCookie: secureCookie,
	})

	signInURL := ""
	if app.GoogleAuth.Configured() {
		signInURL = googleStartPath
	}
	webHandler, err := web.NewHandler(app.DocumentsService, app.GenerationService, signInURL)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	webHandler.SecureCookie = secureCookie

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Verifier:          verifier,
		Health:            app.Health,
		DocumentHandler:   documents.NewHandler(app.DocumentsService),
		GenerationHandler: generation.NewHandler(app.GenerationService),
		UserHandler:       users.NewHandler(app.UsersService),
		GoogleAuth:        app.GoogleAuth,
		Web:               webHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"document_store": cfg.DocumentStore,
		"object_store":   cfg.ObjectStoreType,
		"llm_provider":   cfg.LLMProvider,
		"google_sign_in": app.GoogleAuth.Configured(),
	})
	return app, nil
}

// Close releases connections in reverse order of creation.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			telemetry.Warn("bootstrap.close_failed", map[string]any{"error": err.Error()})
		}
	}
	a.closers = nil
}

func (a *App) buildDB(ctx context.Context) error {
	cfg := a.Config
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.DocumentStore == "postgres" && !cfg.IsDevLike() {
			return errors.New("DATABASE_URL is required")
		}
		telemetry.Warn("bootstrap.db_disabled", map[string]any{"reason": "DATABASE_URL empty"})
		return nil
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if cfg.InLambda() {
		sqlDB, err = sharedDB(ctx, cfg.DatabaseURL, db.PoolOptions(db.RuntimeLambda, cfg.DBPool))
	} else {
		sqlDB, err = connectDB(ctx, cfg.DatabaseURL, db.PoolOptions(db.RuntimeServer, cfg.DBPool))
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_fallback", map[string]any{"error": err.Error()})
			return nil
		}
		return err
	}
	// The shared Lambda pool outlives this App.
	if !cfg.InLambda() {
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
	}
	if cfg.IsDevLike() {
		if err := migrateDB(ctx, sqlDB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	a.DB = sqlDB
	a.Health.Add("postgres", sqlDB.PingContext)
	return nil
}

func (a *App) buildDocumentsRepo(ctx context.Context) (documents.DocumentsRepo, error) {
	cfg := a.Config
	switch cfg.DocumentStore {
	case "mongo":
		if strings.TrimSpace(cfg.MongoURI) == "" {
			return nil, errors.New("DOCUMENT_STORE=mongo requires MONGO_URI")
		}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		a.Mongo = client
		a.closers = append(a.closers, client.Disconnect)
		a.Health.Add("mongo", func(ctx context.Context) error { return client.Ping(ctx, nil) })

		repo := documents.NewMongoRepo(client.Database(cfg.MongoDatabase).Collection("documents"))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, nil
	case "memory":
		return documents.NewMemoryRepo(), nil
	default:
		if a.DB == nil {
			telemetry.Warn("bootstrap.memory_documents", map[string]any{"env": cfg.Env})
			return documents.NewMemoryRepo(), nil
		}
		return &documents.PGRepo{DB: a.DB}, nil
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func (a *App) buildLLM(ctx context.Context) (llm.Client, error) {
	cfg := a.Config
	var client llm.Client
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(cfg.OpenAIAPIKey) == "" && cfg.IsDevLike() {
			telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"reason": "OPENAI_API_KEY empty"})
			return llm.PlaceholderClient{}, nil
		}
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMBaseURL)
		if err != nil {
			return nil, err
		}
		client = c
	case "vertex":
		c, err := vertex.NewClient(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
		client = c
	case "", "none":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	return llm.WithTimeout(client, cfg.LLMTimeout), nil
}

// buildVerifier chains the configured credential verifiers. The HMAC verifier
// doubles as the session signer for Google sign-in.
func buildVerifier(ctx context.Context, cfg config.Config) (sharedauth.Verifier, *sharedauth.HMAC, error) {
	var chain sharedauth.Chain
	var signer *sharedauth.HMAC
	if strings.TrimSpace(cfg.AuthJWTSecret) != "" {
		h, err := sharedauth.NewHMAC(cfg.AuthJWTSecret, cfg.AuthJWTIssuer, cfg.AuthJWTAudience)
		if err != nil {
			return nil, nil, err
		}
		signer = h
		chain = append(chain, h)
	}
	if strings.TrimSpace(cfg.OIDCIssuer) != "" {
		v, err := sharedauth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, v)
	}
	if len(chain) == 0 {
		if !cfg.IsDevLike() {
			return nil, nil, errors.New("AUTH_JWT_SECRET or OIDC_ISSUER is required")
		}
		telemetry.Warn("bootstrap.auth_disabled", map[string]any{"reason": "no verifier configured"})
	}
	return chain, signer, nil
}

func (a *App) buildStateStore(ctx context.Context) (googleauth.StateStore, error) {
	if a.Config.RedisURL == "" {
		return googleauth.NewMemoryStateStore(), nil
	}
	opts, err := redis.ParseURL(a.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	a.Redis = client
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.Health.Add("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
	return googleauth.NewRedisStateStore(client, ""), nil
}
