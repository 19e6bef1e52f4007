// Package bootstrap wires configuration, infrastructure and services into
// a running API server.
package bootstrap

import (
	"context"
	"os"
	"time"

	"insight_server/adapter/out/artifact"
	"insight_server/adapter/out/mongodb"
	openaiadapter "insight_server/adapter/out/openai"
	"insight_server/adapter/out/persistence"
	"insight_server/config"
	"insight_server/core/port/in"
	"insight_server/core/port/out"
	"insight_server/core/service/activity"
	"insight_server/core/service/analytics"
	"insight_server/core/service/dataset"
	"insight_server/core/service/emotion"
	"insight_server/core/service/sentiment"
	"insight_server/core/service/topics"
	"insight_server/infra/database"
	"insight_server/pkg/cache"
	"insight_server/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for sqlx
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies holds every wired component of the process.
type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	DatasetRepo out.DatasetRepository
	PostRepo    out.PostRepository
	ReplyRepo   out.ReplyRepository

	// Artifacts, cache, archive
	ArtifactStore out.ArtifactStore
	ReportCache   out.ReportCache
	ReportArchive out.ReportArchive
	TopicLabeler  out.TopicLabeler

	// Engines
	SentimentEngine *sentiment.Engine
	EmotionEngine   *emotion.Engine
	TopicsEngine    *topics.Engine
	ActivityEngine  *activity.Engine

	// Use cases
	AnalyticsService in.AnalyticsUseCase
	DatasetService   in.DatasetUseCase
}

// NewDependencies builds the dependency graph. The returned cleanup closes
// every connection in reverse order.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	// Database (pgxpool for health checks)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })
	zlog.Info().Msg("postgres pool ready")

	// Database (sqlx for the adapters)
	sqlDB, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })

	// Redis report cache (optional)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, report caching disabled")
		} else {
			deps.Redis = redisClient
			deps.ReportCache = cache.NewReportCache(cache.NewRedisCache(redisClient))
			cleanups = append(cleanups, func() { redisClient.Close() })
			zlog.Info().Msg("redis report cache ready")
		}
	}

	// MongoDB report archive (optional)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			logger.WithError(err).Warn("MongoDB unavailable, report archiving disabled")
		} else {
			deps.MongoDB = mongoClient
			archiveTTL := time.Duration(cfg.ArchiveTTLDays) * 24 * time.Hour
			archive := mongodb.NewArchiveAdapter(mongoClient.Database(cfg.MongoDBName), archiveTTL)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := archive.EnsureIndexes(ctx); err != nil {
				logger.WithError(err).Warn("Failed to ensure archive indexes")
			}
			cancel()

			deps.ReportArchive = archive
			cleanups = append(cleanups, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mongoClient.Disconnect(ctx)
			})
			zlog.Info().Msg("mongodb report archive ready")
		}
	}

	// Repositories
	deps.DatasetRepo = persistence.NewDatasetAdapter(sqlDB)
	deps.PostRepo = persistence.NewPostAdapter(sqlDB)
	deps.ReplyRepo = persistence.NewReplyAdapter(sqlDB)

	// Artifacts
	store, err := artifact.NewFileStore(cfg.ArtifactDir)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.ArtifactStore = store

	// Topic labeler (optional)
	if cfg.OpenAIAPIKey != "" {
		deps.TopicLabeler = openaiadapter.NewTopicLabeler(openaiadapter.Config{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.LLMModel,
		})
		zlog.Info().Str("model", cfg.LLMModel).Msg("topic labeler enabled")
	}

	// Engines
	deps.SentimentEngine = sentiment.NewEngine(deps.ArtifactStore)
	deps.SentimentEngine.LoadArtifacts(context.Background())
	deps.EmotionEngine = emotion.NewEngine()
	deps.TopicsEngine = topics.NewEngine(topics.Config{
		MinK:      cfg.TopicMinK,
		MaxK:      cfg.TopicMaxK,
		VocabSize: cfg.TopicVocabSize,
	}, deps.TopicLabeler)
	deps.ActivityEngine = activity.NewEngine(activity.Config{
		Eps:       cfg.ClusterEps,
		MinPoints: cfg.ClusterMinPoints,
	})

	// Use cases
	deps.DatasetService = dataset.NewService(deps.DatasetRepo, deps.PostRepo, deps.ReplyRepo, deps.ReportCache)
	deps.AnalyticsService = analytics.NewService(
		deps.PostRepo,
		deps.ReplyRepo,
		deps.SentimentEngine,
		deps.EmotionEngine,
		deps.TopicsEngine,
		deps.ActivityEngine,
		deps.ReportCache,
		deps.ReportArchive,
		cfg.ReportTTL(),
	)

	return deps, cleanup, nil
}
