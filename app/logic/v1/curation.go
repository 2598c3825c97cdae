package v1

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
)

// CurationLogic is the admin workflow around knowledge gaps: review what the
// assistant could not answer and close each item, ideally with a new
// knowledge entry.
type CurationLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewCurationLogic(ctx context.Context, core *core.Core) *CurationLogic {
	return &CurationLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *CurationLogic) requireAdmin() error {
	if !l.GetUserInfo().User.IsAdmin {
		return errors.New("CurationLogic.requireAdmin", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}

func (l *CurationLogic) ListMissingItems(opts types.ListMissingKBItemsOptions, page, pageSize uint64) ([]types.MissingKBItem, int64, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, 0, err
	}

	list, err := l.core.Store().MissingKBItemStore().List(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("CurationLogic.ListMissingItems.MissingKBItemStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().MissingKBItemStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("CurationLogic.ListMissingItems.MissingKBItemStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

func (l *CurationLogic) getItem(id string) (*types.MissingKBItem, error) {
	item, err := l.core.Store().MissingKBItemStore().Get(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("CurationLogic.getItem.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
		}
		return nil, errors.New("CurationLogic.getItem.MissingKBItemStore.Get", i18n.ERROR_INTERNAL, err)
	}
	return item, nil
}

// Resolve closes a gap without new content, for items a curator judges as
// noise or already covered.
func (l *CurationLogic) Resolve(id string) error {
	if err := l.requireAdmin(); err != nil {
		return err
	}

	item, err := l.getItem(id)
	if err != nil {
		return errors.Trace("CurationLogic.Resolve", err)
	}
	if item.IsResolved {
		return nil
	}

	if err := l.core.Store().MissingKBItemStore().Resolve(l.ctx, id, ""); err != nil {
		return errors.New("CurationLogic.Resolve.MissingKBItemStore.Resolve", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// ResolveWithKnowledge fills the gap: creates and indexes a knowledge entry,
// then marks the item resolved by it. The knowledge side runs through
// KnowledgeLogic so indexing behaves exactly like a direct create.
func (l *CurationLogic) ResolveWithKnowledge(id string, args CreateKnowledgeArgs) (*types.KnowledgeBase, error) {
	if err := l.requireAdmin(); err != nil {
		return nil, err
	}

	item, err := l.getItem(id)
	if err != nil {
		return nil, errors.Trace("CurationLogic.ResolveWithKnowledge", err)
	}
	if item.IsResolved {
		return nil, errors.New("CurationLogic.ResolveWithKnowledge.resolved", i18n.ERROR_EXIST, nil).Code(http.StatusConflict)
	}

	if args.Namespace == "" {
		args.Namespace = item.SuggestedNamespace
	}

	kb, err := NewKnowledgeLogic(l.ctx, l.core).CreateKnowledge(args)
	if err != nil {
		return nil, errors.Trace("CurationLogic.ResolveWithKnowledge", err)
	}

	if err := l.core.Store().MissingKBItemStore().Resolve(l.ctx, id, kb.ID); err != nil {
		return nil, errors.New("CurationLogic.ResolveWithKnowledge.MissingKBItemStore.Resolve", i18n.ERROR_INTERNAL, err)
	}
	return kb, nil
}
