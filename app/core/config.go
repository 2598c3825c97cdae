package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	conf.SetConfigBytes(raw)

	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func (c CoreConfig) LoadCustomConfig(cfg any) error {
	if len(c.bytes) == 0 {
		return nil
	}
	if err := toml.Unmarshal(c.bytes, cfg); err != nil {
		return err
	}
	return nil
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr     string      `toml:"addr"`
	Log      Log         `toml:"log"`
	Postgres PGConfig    `toml:"postgres"`
	Redis    RedisConfig `toml:"redis"`

	AI  AIConfig  `toml:"ai"`
	RAG RAGConfig `toml:"rag"`

	bytes []byte `toml:"-"`
}

func (c *CoreConfig) SetConfigBytes(raw []byte) {
	c.bytes = raw
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("TAYAI_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.AI.FromENV()
}

type AIConfig struct {
	Token          string `toml:"token"`
	Endpoint       string `toml:"endpoint"`
	ChatModel      string `toml:"chat_model"`
	EmbeddingModel string `toml:"embedding_model"`
}

func (a *AIConfig) FromENV() {
	a.Token = os.Getenv("TAYAI_OPENAI_TOKEN")
	a.Endpoint = os.Getenv("TAYAI_OPENAI_ENDPOINT")
	a.ChatModel = os.Getenv("TAYAI_OPENAI_CHAT_MODEL")
	a.EmbeddingModel = os.Getenv("TAYAI_OPENAI_EMBEDDING_MODEL")
}

// RAGConfig tunes retrieval; zero values fall back to the service defaults
// (threshold 0.7, top 5).
type RAGConfig struct {
	ScoreThreshold float64 `toml:"score_threshold"`
	TopK           uint64  `toml:"top_k"`
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("TAYAI_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("TAYAI_REDIS_ADDR")
	r.Password = os.Getenv("TAYAI_REDIS_PASSWORD")
	if dbStr := os.Getenv("TAYAI_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("TAYAI_LOG_LEVEL")
	l.Path = os.Getenv("TAYAI_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
