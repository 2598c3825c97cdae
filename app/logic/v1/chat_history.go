package v1

import (
	"context"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/types"
)

type ChatHistoryLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewChatHistoryLogic(ctx context.Context, core *core.Core) *ChatHistoryLogic {
	return &ChatHistoryLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// ListMessages pages the caller's own history, newest first.
func (l *ChatHistoryLogic) ListMessages(page, pageSize uint64) ([]types.ChatMessage, int64, error) {
	opts := types.ListChatMessagesOptions{
		UserID: l.GetUserInfo().User.ID,
	}

	list, err := l.core.Store().ChatMessageStore().ListUserMessages(l.ctx, opts, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("ChatHistoryLogic.ListMessages.ChatMessageStore.ListUserMessages", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ChatMessageStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("ChatHistoryLogic.ListMessages.ChatMessageStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// ClearHistory wipes the caller's messages; the next chat starts clean.
func (l *ChatHistoryLogic) ClearHistory() error {
	userID := l.GetUserInfo().User.ID
	if err := l.core.Store().ChatMessageStore().DeleteUserMessages(l.ctx, userID); err != nil {
		return errors.New("ChatHistoryLogic.ClearHistory.ChatMessageStore.DeleteUserMessages", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
