package protocol

import "github.com/taysluxe/tayai/pkg/types"

// Stream event names. The order on the wire is always
// start, chunk..., sources, done — or error as the terminal event.
type StreamEventType string

const (
	STREAM_EVENT_START   StreamEventType = "start"
	STREAM_EVENT_CHUNK   StreamEventType = "chunk"
	STREAM_EVENT_SOURCES StreamEventType = "sources"
	STREAM_EVENT_DONE    StreamEventType = "done"
	STREAM_EVENT_ERROR   StreamEventType = "error"
)

type StreamEvent struct {
	Type        StreamEventType   `json:"type"`
	ContextType types.ContextType `json:"context_type,omitempty"`
	Content     string            `json:"content,omitempty"`
	Sources     types.Sources     `json:"sources,omitempty"`
	MessageID   string            `json:"message_id,omitempty"`
	TokensUsed  int               `json:"tokens_used,omitempty"`
	Message     string            `json:"message,omitempty"`
}

func StartEvent(contextType types.ContextType) StreamEvent {
	return StreamEvent{Type: STREAM_EVENT_START, ContextType: contextType}
}

func ChunkEvent(content string) StreamEvent {
	return StreamEvent{Type: STREAM_EVENT_CHUNK, Content: content}
}

func SourcesEvent(sources types.Sources) StreamEvent {
	if sources == nil {
		sources = types.Sources{}
	}
	return StreamEvent{Type: STREAM_EVENT_SOURCES, Sources: sources}
}

func DoneEvent(messageID string, tokensUsed int) StreamEvent {
	return StreamEvent{Type: STREAM_EVENT_DONE, MessageID: messageID, TokensUsed: tokensUsed}
}

func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: STREAM_EVENT_ERROR, Message: message}
}
