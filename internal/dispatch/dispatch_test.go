package dispatch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/incognito/internal/message"
	"github.com/nadzzz/incognito/internal/tts"
)

type stubSynth struct {
	audio []byte
	opts  tts.SynthesizeOpts
	calls int
}

func (s *stubSynth) Synthesize(_ context.Context, _ string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	s.calls++
	s.opts = opts
	if s.audio == nil {
		return nil, fmt.Errorf("%w: unexpected status 429", tts.ErrNoAudio)
	}
	return &tts.SynthesizeResult{Audio: s.audio, ContentType: "audio/wav"}, nil
}

func (s *stubSynth) Close() error { return nil }

func TestHandleSuccess(t *testing.T) {
	synth := &stubSynth{audio: []byte("wav")}
	req := &message.SpeechRequest{Text: "こんにちは", Voice: "ja-JP-KeitaNeural", Style: "calm"}

	res, err := New(synth).Handle(context.Background(), req)
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, req.ID, res.RequestID)
	assert.True(t, res.OK())
	assert.Equal(t, "audio/wav", res.ContentType)
	assert.Equal(t, 3, res.Bytes)

	audio, err := res.Audio()
	require.NoError(t, err)
	assert.Equal(t, []byte("wav"), audio)
	assert.Equal(t, tts.SynthesizeOpts{Voice: "ja-JP-KeitaNeural", Style: "calm"}, synth.opts)
}

func TestHandleKeepsCallerID(t *testing.T) {
	res, err := New(&stubSynth{audio: []byte("x")}).Handle(context.Background(), &message.SpeechRequest{ID: "req-1", Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", res.RequestID)
}

func TestHandleEmptyText(t *testing.T) {
	synth := &stubSynth{audio: []byte("wav")}

	res, err := New(synth).Handle(context.Background(), &message.SpeechRequest{Text: "  "})
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.True(t, IsEmptyText(res))
	assert.Zero(t, synth.calls)
}

func TestHandleSynthesisFailure(t *testing.T) {
	res, err := New(&stubSynth{}).Handle(context.Background(), &message.SpeechRequest{Text: "hello"})
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Contains(t, res.Error, tts.ErrNoAudio.Error())
	assert.Empty(t, res.AudioData)
	assert.False(t, IsEmptyText(res))
}
