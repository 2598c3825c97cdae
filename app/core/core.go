package core

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/taysluxe/tayai/app/store/sqlstore"
	"github.com/taysluxe/tayai/pkg/ai"
	openaiDriver "github.com/taysluxe/tayai/pkg/ai/openai"
)

const (
	// Retrieval defaults; CoreConfig.RAG overrides.
	DefaultScoreThreshold = 0.7
	DefaultTopK           = 5
)

type Core struct {
	cfg CoreConfig

	aiDriver ai.Driver

	stores     func() *sqlstore.Provider
	redis      redis.UniversalClient
	httpClient *http.Client
	httpEngine *gin.Engine

	metrics *Metrics
	Plugins
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("tayai", "core"),
		httpEngine: gin.New(),
	}

	setupSqlStore(core)
	setupRedis(core)

	chatModel := cfg.AI.ChatModel
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}
	embeddingModel := cfg.AI.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	core.aiDriver = openaiDriver.New(cfg.AI.Token, cfg.AI.Endpoint, ai.ModelName{
		ChatModel:      chatModel,
		EmbeddingModel: embeddingModel,
	})

	return core
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
}

func setupRedis(core *Core) {
	core.redis = redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{core.cfg.Redis.Addr},
		Password: core.cfg.Redis.Password,
		DB:       core.cfg.Redis.DB,
	})
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Redis() redis.UniversalClient {
	return s.redis
}

func (s *Core) AI() ai.Driver {
	return s.aiDriver
}

func (s *Core) ChatModel() string {
	if s.cfg.AI.ChatModel != "" {
		return s.cfg.AI.ChatModel
	}
	return openai.GPT4oMini
}

// ScoreThreshold is the minimum cosine similarity a chunk needs to be used
// as context.
func (s *Core) ScoreThreshold() float64 {
	if s.cfg.RAG.ScoreThreshold > 0 {
		return s.cfg.RAG.ScoreThreshold
	}
	return DefaultScoreThreshold
}

func (s *Core) TopK() uint64 {
	if s.cfg.RAG.TopK > 0 {
		return s.cfg.RAG.TopK
	}
	return DefaultTopK
}
