package sqlstore

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/taysluxe/tayai/pkg/utils"
)

type SqlCommons interface {
	GetTable(...interface{}) string
}

type ConnectConfig interface {
	FormatDSN() string
}

type SqlProvider struct {
	master   *sqlx.DB
	replicas []*sqlx.DB
}

type TransactionKey struct{}

func (s *SqlProvider) GetTxFromCtx(ctx context.Context) *sqlx.Tx {
	if driver, ok := ctx.Value(TransactionKey{}).(*sqlx.Tx); ok {
		return driver
	}
	return nil
}

func (s *SqlProvider) GetMaster() *sqlx.DB {
	return s.master
}

func (s *SqlProvider) GetReplica() *sqlx.DB {
	return s.replicas[utils.Random(0, len(s.replicas)-1)]
}

func (s *SqlProvider) GetDBName() (string, error) {
	var dbname string
	if err := s.GetMaster().Get(&dbname, "SELECT current_database()"); err != nil {
		return "", err
	}
	return dbname, nil
}

// Transaction runs next inside a tx carried through the context; nested calls
// reuse the outer tx.
func (s *SqlProvider) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Value(TransactionKey{}).(*sqlx.Tx); ok {
		return next(ctx)
	}

	var (
		tx  *sqlx.Tx
		err error
	)
	if tx, err = s.GetMaster().BeginTxx(ctx, nil); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil || err != nil {
			slog.Error("Transaction rollbacked", slog.Any("recover", r), slog.Any("error", err))
			_ = tx.Rollback()
			return
		}
	}()

	if err = next(context.WithValue(ctx, TransactionKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit()
}

func MustSetupProvider(m ConnectConfig, s ...ConnectConfig) *SqlProvider {
	provider := &SqlProvider{
		master: sqlx.MustOpen("postgres", m.FormatDSN()),
	}

	if len(s) == 0 {
		s = append(s, m)
	}
	for _, v := range s {
		provider.replicas = append(provider.replicas, sqlx.MustOpen("postgres", v.FormatDSN()))
	}

	return provider
}
