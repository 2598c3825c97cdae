package v1

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/taysluxe/tayai/app/core"
	"github.com/taysluxe/tayai/pkg/ai"
	"github.com/taysluxe/tayai/pkg/errors"
	"github.com/taysluxe/tayai/pkg/i18n"
	"github.com/taysluxe/tayai/pkg/rag"
	"github.com/taysluxe/tayai/pkg/safe"
	"github.com/taysluxe/tayai/pkg/types"
	"github.com/taysluxe/tayai/pkg/types/protocol"
	"github.com/taysluxe/tayai/pkg/utils"
)

const (
	// historyPairs is how many past exchanges feed the prompt. Each row holds
	// a user message and its answer, so this is half the turn window.
	historyPairs = 5

	persistTimeout = time.Second * 10
)

func chatLockKey(userID string) string {
	return "chat:lock:" + userID
}

type ChatLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewChatLogic(ctx context.Context, core *core.Core) *ChatLogic {
	return &ChatLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// chatTurn carries everything prepared before the model is called.
// releaseLock frees the per-user session lock; the caller must invoke it when
// the exchange ends, the request context alone does not release it.
type chatTurn struct {
	user        types.User
	question    string
	contextType types.ContextType
	bundle      types.ContextBundle
	messages    []types.ConversationTurn
	releaseLock context.CancelFunc
}

// prepare validates the message, enforces quota and the per-user session
// lock, classifies the question and runs retrieval. A retrieval failure is
// logged and degrades to an empty bundle; the chat still answers.
func (l *ChatLogic) prepare(question string) (*chatTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("ChatLogic.prepare.empty", i18n.ERROR_EMPTY_QUESTION, nil).Code(http.StatusBadRequest)
	}

	user := l.GetUserInfo().User

	usageLogic := NewUsageLogic(l.ctx, l.core)
	if err := usageLogic.CheckQuota(user); err != nil {
		return nil, errors.Trace("ChatLogic.prepare", err)
	}

	// The lock ctx must be cancellable independently of the request ctx: gin
	// hands over a context whose Done() is nil, which would hold the lock
	// until process restart.
	lockCtx, release := context.WithCancel(l.ctx)
	locked, err := l.core.TryLock(lockCtx, chatLockKey(user.ID))
	if err != nil {
		release()
		return nil, errors.New("ChatLogic.prepare.TryLock", i18n.ERROR_INTERNAL, err)
	}
	if !locked {
		release()
		return nil, errors.New("ChatLogic.prepare.busy", i18n.ERROR_SESSION_BUSY, nil).Code(http.StatusConflict)
	}

	contextType := rag.DetectConversationContext(question)

	bundle, err := NewRetrievalLogic(l.ctx, l.core).BuildContext(question, "")
	if err != nil {
		slog.Error("Retrieval failed, answering without context",
			slog.String("user_id", user.ID), slog.Any("error", err))
		bundle = types.ContextBundle{}
	}

	return &chatTurn{
		user:        user,
		question:    question,
		contextType: contextType,
		bundle:      bundle,
		messages: ai.BuildMessagesWithinLimit(question, bundle.ContextText, l.history(user.ID),
			contextType, user.Tier, l.core.AI().MsgIsOverLimit),
		releaseLock: release,
	}, nil
}

// history loads the latest exchanges and unfolds them oldest first into
// user/assistant turn pairs. Failures here never block the chat.
func (l *ChatLogic) history(userID string) []types.ConversationTurn {
	msgs, err := l.core.Store().ChatMessageStore().ListUserMessages(l.ctx, types.ListChatMessagesOptions{
		UserID: userID,
	}, 1, historyPairs)
	if err != nil {
		slog.Error("Failed to load chat history", slog.String("user_id", userID), slog.Any("error", err))
		return nil
	}

	var turns []types.ConversationTurn
	for i := len(msgs) - 1; i >= 0; i-- {
		turns = append(turns,
			types.ConversationTurn{Role: types.MESSAGE_ROLE_USER, Content: msgs[i].Message},
			types.ConversationTurn{Role: types.MESSAGE_ROLE_ASSISTANT, Content: msgs[i].Response},
		)
	}
	return turns
}

// SendMessage is the synchronous chat path. A model failure degrades to the
// canned fallback with zero tokens instead of an error.
func (l *ChatLogic) SendMessage(question string, includeSources bool) (types.ChatResult, error) {
	turn, err := l.prepare(question)
	if err != nil {
		return types.ChatResult{}, err
	}
	defer turn.releaseLock()

	timer := l.core.Metrics().LLMResponseTimer("sync")
	resp, err := l.core.AI().Query(l.ctx, turn.messages)
	timer.ObserveDuration()

	result := types.ChatResult{
		ContextType: turn.contextType,
	}
	var usage *openai.Usage
	if err != nil {
		l.core.Metrics().LLMErrorInc("sync")
		slog.Error("Chat completion failed", slog.String("user_id", turn.user.ID), slog.Any("error", err))
		result.Response = ai.FallbackResponse
		result.Fallback = true
	} else {
		result.Response = resp.Message
		usage = resp.Usage
		if usage != nil {
			result.TokensUsed = usage.TotalTokens
		}
	}

	if includeSources && !turn.bundle.IsEmpty() {
		result.Sources = turn.bundle.Sources
	}

	result.MessageID = l.finish(turn, result.Response, result.TokensUsed, usage, result.Fallback)
	return result, nil
}

// StreamMessage drives one streamed exchange through emit. Event order is
// start, chunk..., optional sources, done; the caller turns a returned error
// into the terminal error event.
func (l *ChatLogic) StreamMessage(question string, includeSources bool, emit func(protocol.StreamEvent) error) error {
	turn, err := l.prepare(question)
	if err != nil {
		return err
	}
	defer turn.releaseLock()

	if err := emit(protocol.StartEvent(turn.contextType)); err != nil {
		return err
	}

	timer := l.core.Metrics().LLMResponseTimer("stream")
	stream, err := l.core.AI().QueryStream(l.ctx, turn.messages)
	if err != nil {
		timer.ObserveDuration()
		l.core.Metrics().LLMErrorInc("stream")
		slog.Error("Chat stream failed to open", slog.String("user_id", turn.user.ID), slog.Any("error", err))
		return l.streamFallback(turn, emit)
	}
	defer stream.Close()

	response, usage, recvErr, emitErr := pumpCompletionStream(stream, func(delta string) error {
		return emit(protocol.ChunkEvent(delta))
	})
	timer.ObserveDuration()

	if emitErr != nil {
		// the transport is gone; whatever the model already said still counts
		if response != "" {
			tokens := ai.EstimateStreamTokens(response)
			l.finish(turn, response, tokens, &openai.Usage{TotalTokens: tokens}, false)
		}
		return emitErr
	}
	if recvErr != nil {
		l.core.Metrics().LLMErrorInc("stream")
		slog.Error("Chat stream broke", slog.String("user_id", turn.user.ID), slog.Any("error", recvErr))
		if response == "" {
			return l.streamFallback(turn, emit)
		}
		// partial answer already delivered, close it out with what we have
	}

	var tokens int
	if usage != nil {
		tokens = usage.TotalTokens
	} else {
		tokens = ai.EstimateStreamTokens(response)
		usage = &openai.Usage{TotalTokens: tokens}
	}

	messageID := l.finish(turn, response, tokens, usage, false)

	if includeSources && !turn.bundle.IsEmpty() {
		if err := emit(protocol.SourcesEvent(turn.bundle.Sources)); err != nil {
			return err
		}
	}
	return emit(protocol.DoneEvent(messageID, tokens))
}

// completionStream is the part of openai.ChatCompletionStream the pump needs.
type completionStream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
}

// pumpCompletionStream forwards content deltas to onDelta and assembles the
// full response. The assembled text is returned even when the stream or the
// delivery fails partway, so callers can persist what the model already said.
// emitErr reports a failed delivery; recvErr a broken stream.
func pumpCompletionStream(stream completionStream, onDelta func(string) error) (response string, usage *openai.Usage, recvErr, emitErr error) {
	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return full.String(), usage, err, nil
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			full.WriteString(chunk.Choices[0].Delta.Content)
			if err := onDelta(chunk.Choices[0].Delta.Content); err != nil {
				return full.String(), usage, nil, err
			}
		}
	}
	return full.String(), usage, nil, nil
}

// streamFallback keeps the event contract intact when the model is down: one
// chunk with the canned answer, then done with zero tokens. The exchange is
// persisted before the emits so a dead transport cannot lose it.
func (l *ChatLogic) streamFallback(turn *chatTurn, emit func(protocol.StreamEvent) error) error {
	messageID := l.finish(turn, ai.FallbackResponse, 0, nil, true)
	if err := emit(protocol.ChunkEvent(ai.FallbackResponse)); err != nil {
		return err
	}
	return emit(protocol.DoneEvent(messageID, 0))
}

// finish persists the exchange off the request path: the chat row, the
// question log, the usage increment and, unless this was a fallback answer,
// gap detection. The message id is minted here so callers can return it
// before the writes land.
func (l *ChatLogic) finish(turn *chatTurn, response string, tokens int, usage *openai.Usage, fallback bool) string {
	messageID := utils.GenUniqIDStr()
	user := turn.user
	question := turn.question
	bundle := turn.bundle
	contextType := turn.contextType

	go safe.Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := l.core.Store().ChatMessageStore().Create(ctx, types.ChatMessage{
			ID:         messageID,
			UserID:     user.ID,
			Message:    question,
			Response:   response,
			TokensUsed: tokens,
		}); err != nil {
			slog.Error("Failed to persist chat message", slog.String("message_id", messageID), slog.Any("error", err))
		}

		if err := l.core.Store().QuestionLogStore().Create(ctx, types.QuestionLog{
			ID:                 utils.GenUniqIDStr(),
			UserID:             user.ID,
			Question:           question,
			NormalizedQuestion: rag.NormalizeQuestion(question),
			ContextType:        contextType,
			Category:           rag.DetermineCategory(question, contextType),
			UserTier:           user.Tier,
			TokensUsed:         tokens,
			HasSources:         !bundle.IsEmpty(),
			Metadata: types.QuestionLogMeta{
				RagScoreAvg:  bundle.AverageScore,
				SourcesCount: bundle.MatchCount,
			},
		}); err != nil {
			slog.Error("Failed to persist question log", slog.String("user_id", user.ID), slog.Any("error", err))
		}

		usageLogic := &UsageLogic{ctx: ctx, core: l.core}
		usageLogic.Record(user.ID, usage)

		if fallback {
			return
		}
		if report := rag.DetectGap(question, response, bundle); report != nil {
			l.core.Metrics().GapDetectedInc(report.SuggestedNamespace)
			preview := []rune(response)
			if len(preview) > types.AIResponsePreviewLen {
				preview = preview[:types.AIResponsePreviewLen]
			}
			if err := l.core.Store().MissingKBItemStore().Create(ctx, types.MissingKBItem{
				ID:                 utils.GenUniqIDStr(),
				UserID:             user.ID,
				Question:           question,
				MissingDetail:      report.MissingDetail,
				AIResponsePreview:  string(preview),
				SuggestedNamespace: report.SuggestedNamespace,
			}); err != nil {
				slog.Error("Failed to record knowledge gap", slog.String("user_id", user.ID), slog.Any("error", err))
			}
		}
	})

	return messageID
}
