package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/taysluxe/tayai/app/store"
	"github.com/taysluxe/tayai/pkg/register"
	"github.com/taysluxe/tayai/pkg/sqlstore"
	"github.com/taysluxe/tayai/pkg/types"
)

//go:embed *.sql
var CreateTableFiles embed.FS

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

var provider = &Provider{
	stores: &Stores{},
}

func GetProvider() *Provider {
	return provider
}

type Provider struct {
	*sqlstore.SqlProvider
	stores  *Stores
	coreRef *CoreRef
}

// CoreRef breaks the init cycle between the provider and the core's cache.
type CoreRef struct {
	getCacheFunc func() types.Cache
}

type Stores struct {
	store.VectorStore
	store.KnowledgeStore
	store.ChatMessageStore
	store.QuestionLogStore
	store.MissingKBItemStore
	store.UsageStore
	store.UserStore
	store.AccessTokenStore
}

type RegisterKey struct{}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {
	provider.SqlProvider = sqlstore.MustSetupProvider(m, s...)

	for _, f := range register.ResolveFuncHandlers[*Provider](RegisterKey{}) {
		f(provider)
	}

	return func() *Provider {
		return provider
	}
}

// Install applies every embedded .sql file exactly once, recorded in
// schema_migrations.
func (p *Provider) Install() error {
	if err := p.enableExtensions(); err != nil {
		return err
	}

	if err := p.ensureMigrationTable(); err != nil {
		return err
	}

	files, err := CreateTableFiles.ReadDir(".")
	if err != nil {
		return err
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		if executed, err := p.isFileExecuted(file.Name()); err != nil {
			return err
		} else if executed {
			continue
		}

		sql, err := CreateTableFiles.ReadFile(file.Name())
		if err != nil {
			return err
		}

		if _, err = p.SqlProvider.GetMaster().Exec(string(sql)); err != nil {
			return fmt.Errorf("failed to apply migration %s, %w", file.Name(), err)
		}

		if err = p.markFileExecuted(file.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) enableExtensions() error {
	extensions := []string{
		"CREATE EXTENSION IF NOT EXISTS vector;",
	}

	for _, ext := range extensions {
		if _, err := p.SqlProvider.GetMaster().Exec(ext); err != nil {
			return fmt.Errorf("failed to enable extension: %w\nSQL: %s", err, ext)
		}
	}
	return nil
}

func (p *Provider) ensureMigrationTable() error {
	createTableSQL := `
CREATE TABLE IF NOT EXISTS ` + types.TABLE_PREFIX + `schema_migrations (
    filename VARCHAR(255) PRIMARY KEY,
    executed_at BIGINT NOT NULL
);`
	_, err := p.SqlProvider.GetMaster().Exec(createTableSQL)
	return err
}

func (p *Provider) isFileExecuted(filename string) (bool, error) {
	var count int
	err := p.SqlProvider.GetReplica().Get(&count,
		"SELECT COUNT(*) FROM "+types.TABLE_PREFIX+"schema_migrations WHERE filename = $1", filename)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *Provider) markFileExecuted(filename string) error {
	_, err := p.SqlProvider.GetMaster().Exec(
		"INSERT INTO "+types.TABLE_PREFIX+"schema_migrations (filename, executed_at) VALUES ($1, $2) ON CONFLICT (filename) DO NOTHING",
		filename, time.Now().Unix())
	return err
}

func (p *Provider) VectorStore() store.VectorStore {
	return p.stores.VectorStore
}

func (p *Provider) KnowledgeStore() store.KnowledgeStore {
	return p.stores.KnowledgeStore
}

func (p *Provider) ChatMessageStore() store.ChatMessageStore {
	return p.stores.ChatMessageStore
}

func (p *Provider) QuestionLogStore() store.QuestionLogStore {
	return p.stores.QuestionLogStore
}

func (p *Provider) MissingKBItemStore() store.MissingKBItemStore {
	return p.stores.MissingKBItemStore
}

func (p *Provider) UsageStore() store.UsageStore {
	return p.stores.UsageStore
}

func (p *Provider) UserStore() store.UserStore {
	return p.stores.UserStore
}

func (p *Provider) AccessTokenStore() store.AccessTokenStore {
	return p.stores.AccessTokenStore
}

func (p *Provider) Cache() types.Cache {
	if p.coreRef != nil && p.coreRef.getCacheFunc != nil {
		return p.coreRef.getCacheFunc()
	}
	return &EmptyCache{}
}

func (p *Provider) SetCacheFunc(getCacheFunc func() types.Cache) {
	if p.coreRef == nil {
		p.coreRef = &CoreRef{}
	}
	p.coreRef.getCacheFunc = getCacheFunc
}

// EmptyCache is the fallback before the real cache is wired.
type EmptyCache struct{}

func (c *EmptyCache) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (c *EmptyCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return nil
}

func (c *EmptyCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (c *EmptyCache) Incr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}

func (c *EmptyCache) Del(ctx context.Context, key string) error {
	return nil
}
