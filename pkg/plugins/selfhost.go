package plugins

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/taysluxe/tayai/app/core"
	v1 "github.com/taysluxe/tayai/app/logic/v1"
	"github.com/taysluxe/tayai/pkg/safe"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

func init() {
	RegisterProvider("selfhost", newSelfHostMode())
}

var _ core.Plugins = (*SelfHostPlugin)(nil)

func newSelfHostMode() *SelfHostPlugin {
	return &SelfHostPlugin{
		singleLock: NewSingleLock(),
	}
}

func NewSingleLock() *SingleLock {
	return &SingleLock{
		locks: make(map[string]bool),
	}
}

// SingleLock is a per-process lock table; the lock releases when the caller's
// ctx ends.
type SingleLock struct {
	mu    sync.Mutex
	locks map[string]bool
}

func (s *SingleLock) TryLock(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[key] {
		return false, nil
	}
	s.locks[key] = true
	go safe.Run(func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.locks, key)
	})
	return true, nil
}

type SelfHostPlugin struct {
	core       *core.Core
	singleLock *SingleLock
}

func (s *SelfHostPlugin) Name() string {
	return "selfhost"
}

// Install seeds the first admin account when the token table is empty and
// prints its access token once.
func (s *SelfHostPlugin) Install(c *core.Core) error {
	s.core = c
	utils.SetupIDWorker(1)

	var tokenCount int
	if err := s.core.Store().GetMaster().Get(&tokenCount, "SELECT COUNT(*) FROM "+types.TABLE_ACCESS_TOKEN.Name()+" WHERE true"); err != nil {
		return fmt.Errorf("Initialize sql error: %w", err)
	}

	if tokenCount > 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	var token string
	err := s.core.Store().Transaction(ctx, func(ctx context.Context) error {
		var err error
		token, err = v1.NewAuthLogic(ctx, s.core).InitAdminUser()
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println("Admin access token:", token)
	return nil
}

func (s *SelfHostPlugin) TryLock(ctx context.Context, key string) (bool, error) {
	return s.singleLock.TryLock(ctx, key)
}

var (
	limiterMu sync.Mutex
	limiter   = make(map[string]*rate.Limiter)
)

// UseLimiter returns the per-key limiter; Limit is requests per minute.
func (s *SelfHostPlugin) UseLimiter(c *gin.Context, key string, method string, opts ...core.LimitOption) core.Limiter {
	cfg := &core.LimitConfig{
		Limit: 60,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	limiterMu.Lock()
	defer limiterMu.Unlock()
	l, exist := limiter[key]
	if !exist {
		every := cfg.Every
		if every == 0 {
			every = time.Minute
		}
		limiter[key] = rate.NewLimiter(rate.Every(every/time.Duration(cfg.Limit)), cfg.Limit*2)
		l = limiter[key]
	}

	return l
}
