package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/incognito/internal/config"
	"github.com/nadzzz/incognito/internal/tts"
)

// fakeSynth returns canned audio per text; texts without an entry fail.
type fakeSynth struct {
	audio map[string][]byte

	mu    sync.Mutex
	calls []string
	opts  []tts.SynthesizeOpts
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.opts = append(f.opts, opts)
	f.mu.Unlock()

	data, ok := f.audio[text]
	if !ok {
		return nil, fmt.Errorf("%w: fake failure", tts.ErrNoAudio)
	}
	return &tts.SynthesizeResult{Audio: data, ContentType: "audio/wav"}, nil
}

func (f *fakeSynth) Close() error { return nil }

func testConfig(pause time.Duration) config.BatchConfig {
	return config.BatchConfig{FilePattern: "incognito_audio_%03d.wav", Pause: pause}
}

func TestRunSuccessThenFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	synth := &fakeSynth{audio: map[string][]byte{"a": []byte("audio-a")}}

	results, err := New(synth, testConfig(0), nil).Run(context.Background(), []string{"a", "b"}, dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Saved)
	assert.Equal(t, filepath.Join(dir, "incognito_audio_001.wav"), results[0].Path)
	assert.False(t, results[1].Saved)
	assert.Empty(t, results[1].Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "incognito_audio_001.wav", entries[0].Name())

	data, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-a"), data)
}

func TestRunContinuesAfterFailures(t *testing.T) {
	dir := t.TempDir()
	synth := &fakeSynth{audio: map[string][]byte{"c": []byte("audio-c")}}

	results, err := New(synth, testConfig(0), nil).Run(context.Background(), []string{"a", "b", "c"}, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, synth.calls)
	assert.Equal(t, 1, Succeeded(results))
	assert.Equal(t, "1/3", Summary(results))
	assert.Equal(t, filepath.Join(dir, "incognito_audio_003.wav"), results[2].Path)
}

func TestRunCreatesDirectoryForEmptyInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")

	results, err := New(&fakeSynth{}, testConfig(0), nil).Run(context.Background(), nil, dir)
	require.NoError(t, err)
	assert.Empty(t, results)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunPausesBetweenItems(t *testing.T) {
	synth := &fakeSynth{audio: map[string][]byte{"a": {1}, "b": {2}, "c": {3}}}
	pause := 40 * time.Millisecond

	start := time.Now()
	_, err := New(synth, testConfig(pause), nil).Run(context.Background(), []string{"a", "b", "c"}, t.TempDir())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 2*pause-5*time.Millisecond)
}

// slowSynth takes delay per call and records when each call started and ended.
type slowSynth struct {
	delay time.Duration

	mu     sync.Mutex
	starts []time.Time
	ends   []time.Time
}

func (s *slowSynth) Synthesize(_ context.Context, _ string, _ tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	s.mu.Lock()
	s.starts = append(s.starts, time.Now())
	s.mu.Unlock()

	time.Sleep(s.delay)

	s.mu.Lock()
	s.ends = append(s.ends, time.Now())
	s.mu.Unlock()
	return &tts.SynthesizeResult{Audio: []byte{1}}, nil
}

func (s *slowSynth) Close() error { return nil }

func TestRunPausesAfterSlowItems(t *testing.T) {
	pause := 60 * time.Millisecond
	synth := &slowSynth{delay: 2 * pause}

	_, err := New(synth, testConfig(pause), nil).Run(context.Background(), []string{"a", "b", "c"}, t.TempDir())
	require.NoError(t, err)

	require.Len(t, synth.starts, 3)
	for i := 1; i < 3; i++ {
		gap := synth.starts[i].Sub(synth.ends[i-1])
		assert.GreaterOrEqual(t, gap, pause-5*time.Millisecond, "idle gap before item %d", i+1)
	}
}

func TestRunDoesNotPauseBeforeFirstItem(t *testing.T) {
	synth := &slowSynth{}
	pause := 200 * time.Millisecond

	start := time.Now()
	_, err := New(synth, testConfig(pause), nil).Run(context.Background(), []string{"a"}, t.TempDir())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), pause)
}

func TestRunStopsOnCancel(t *testing.T) {
	synth := &fakeSynth{audio: map[string][]byte{"a": {1}, "b": {2}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(synth, testConfig(0), nil).Run(ctx, []string{"a", "b"}, t.TempDir())
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Empty(t, synth.calls)
	assert.Equal(t, 0, Succeeded(results))
}

func TestRunUsesClientDefaults(t *testing.T) {
	synth := &fakeSynth{audio: map[string][]byte{"a": {1}}}

	_, err := New(synth, testConfig(0), nil).Run(context.Background(), []string{"a"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []tts.SynthesizeOpts{{}}, synth.opts)
}

func TestRunFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := New(&fakeSynth{}, testConfig(0), nil).Run(context.Background(), []string{"a"}, filepath.Join(file, "sub"))
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "短い", preview("短い", 50))
	assert.Equal(t, "あいう...", preview("あいうえお", 3))
}
