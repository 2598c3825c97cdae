package v1

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/utils"
)

type UserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *UserLogic) requireAdmin() error {
	if !l.GetUserInfo().User.IsAdmin {
		return errors.New("UserLogic.requireAdmin", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}

type CreateUserArgs struct {
	Email    string         `json:"email" binding:"required"`
	Username string         `json:"username" binding:"required"`
	Tier     types.UserTier `json:"tier"`
}

// CreateUser registers a member and hands back an access token. New basic
// members start their trial clock here.
func (l *UserLogic) CreateUser(args CreateUserArgs) (*types.User, string, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, "", err
	}

	args.Email = strings.ToLower(strings.TrimSpace(args.Email))
	if args.Email == "" {
		return nil, "", errors.New("UserLogic.CreateUser.email", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	if args.Tier == "" {
		args.Tier = types.USER_TIER_BASIC
	}

	if exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, args.Email); err != nil && err != sql.ErrNoRows {
		return nil, "", errors.New("UserLogic.CreateUser.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	} else if exist != nil {
		return nil, "", errors.New("UserLogic.CreateUser.exist", i18n.ERROR_EXIST, nil).Code(http.StatusConflict)
	}

	now := time.Now()
	user := types.User{
		ID:        utils.GenUniqIDStr(),
		Email:     args.Email,
		Username:  args.Username,
		Tier:      args.Tier,
		IsActive:  true,
		CreatedAt: now.Unix(),
	}
	if user.Tier == types.USER_TIER_BASIC {
		user.TrialEndAt = now.AddDate(0, 0, types.TrialDays).Unix()
	}

	if err := l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		return nil, "", errors.New("UserLogic.CreateUser.UserStore.Create", i18n.ERROR_INTERNAL, err)
	}

	token, err := NewAuthLogic(l.ctx, l.core).IssueToken(user.ID, 0)
	if err != nil {
		return nil, "", errors.Trace("UserLogic.CreateUser", err)
	}
	return &user, token, nil
}

func (l *UserLogic) GetUser(id string) (*types.User, error) {
	user, err := l.core.Store().UserStore().GetUser(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("UserLogic.GetUser.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return nil, errors.New("UserLogic.GetUser.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	return user, nil
}

// SetUserTier upgrades or downgrades a member. A tier change takes effect on
// the next quota check; the current period's counters are left alone.
func (l *UserLogic) SetUserTier(id string, tier types.UserTier) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}

	switch tier {
	case types.USER_TIER_BASIC, types.USER_TIER_VIP:
	default:
		return errors.New("UserLogic.SetUserTier.tier", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if _, err := l.GetUser(id); err != nil {
		return errors.Trace("UserLogic.SetUserTier", err)
	}

	if err := l.core.Store().UserStore().UpdateTier(l.ctx, id, tier); err != nil {
		return errors.New("UserLogic.SetUserTier.UserStore.UpdateTier", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *UserLogic) ListUsers(page, pageSize uint64) ([]types.User, int64, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, 0, err
	}

	list, err := l.core.Store().UserStore().ListUsers(l.ctx, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("UserLogic.ListUsers.UserStore.ListUsers", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().UserStore().Total(l.ctx)
	if err != nil {
		return nil, 0, errors.New("UserLogic.ListUsers.UserStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// Profile returns the caller's own account.
func (l *UserLogic) Profile() types.User {
	return l.GetUserInfo().User
}
