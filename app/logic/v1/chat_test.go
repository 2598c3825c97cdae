package v1

import (
	"errors"
	"io"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streamFrame struct {
	resp openai.ChatCompletionStreamResponse
	err  error
}

type scriptedStream struct {
	frames []streamFrame
	pos    int
}

func (s *scriptedStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	if s.pos >= len(s.frames) {
		return openai.ChatCompletionStreamResponse{}, io.EOF
	}
	frame := s.frames[s.pos]
	s.pos++
	return frame.resp, frame.err
}

func deltaFrame(content string) streamFrame {
	return streamFrame{resp: openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: content}},
		},
	}}
}

func usageFrame(total int) streamFrame {
	return streamFrame{resp: openai.ChatCompletionStreamResponse{
		Usage: &openai.Usage{TotalTokens: total},
	}}
}

func TestPumpCompletionStream(t *testing.T) {
	stream := &scriptedStream{frames: []streamFrame{
		deltaFrame("Wash "), deltaFrame("weekly."), usageFrame(42),
	}}

	var delivered []string
	response, usage, recvErr, emitErr := pumpCompletionStream(stream, func(delta string) error {
		delivered = append(delivered, delta)
		return nil
	})

	assert.NoError(t, recvErr)
	assert.NoError(t, emitErr)
	assert.Equal(t, "Wash weekly.", response)
	assert.Equal(t, []string{"Wash ", "weekly."}, delivered)
	require.NotNil(t, usage)
	assert.Equal(t, 42, usage.TotalTokens)
}

func TestPumpCompletionStreamKeepsTextWhenDeliveryDies(t *testing.T) {
	stream := &scriptedStream{frames: []streamFrame{
		deltaFrame("Low porosity "), deltaFrame("wants LCO."), deltaFrame("never sent"),
	}}

	wire := errors.New("client went away")
	var sent int
	response, _, recvErr, emitErr := pumpCompletionStream(stream, func(string) error {
		sent++
		if sent == 2 {
			return wire
		}
		return nil
	})

	assert.NoError(t, recvErr)
	assert.Equal(t, wire, emitErr)
	// the failed delta was already generated, it stays in the record
	assert.Equal(t, "Low porosity wants LCO.", response)
}

func TestPumpCompletionStreamBrokenUpstream(t *testing.T) {
	broken := errors.New("connection reset")
	stream := &scriptedStream{frames: []streamFrame{
		deltaFrame("Start "), {err: broken},
	}}

	response, usage, recvErr, emitErr := pumpCompletionStream(stream, func(string) error { return nil })

	assert.Equal(t, broken, recvErr)
	assert.NoError(t, emitErr)
	assert.Nil(t, usage)
	assert.Equal(t, "Start ", response)
}
