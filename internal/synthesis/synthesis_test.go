// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/counsel-engine/internal/llm"
	"github.com/pdiddy/counsel-engine/pkg/types"
)

type fakeCompleter struct {
	text   string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, _ []llm.Message, _ llm.Options) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

type fakeStreamCompleter struct {
	fakeCompleter
	frags []llm.Fragment
}

func (f *fakeStreamCompleter) CompleteStream(_ context.Context, prompt string, _ []llm.Message, _ llm.Options) (<-chan llm.Fragment, error) {
	f.prompt = prompt
	out := make(chan llm.Fragment, len(f.frags))
	for _, fr := range f.frags {
		out <- fr
	}
	close(out)
	return out, nil
}

// --- synthesizer ---

func TestSynthesizePromptCarriesSourcesAndQuery(t *testing.T) {
	fake := &fakeCompleter{text: "the answer"}
	s := NewSynthesizer(fake, nil)

	answer, err := s.Synthesize(context.Background(), "what is the penalty?", map[string]string{
		"query_penal_code": "Article 5: fines apply.",
		"search_web":       "1. News snippet",
	}, nil, types.UserPrompts{TonePrompt: "Be formal."})

	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	assert.Contains(t, fake.prompt, "Source: query_penal_code")
	assert.Contains(t, fake.prompt, "Source: search_web")
	assert.Contains(t, fake.prompt, "Article 5: fines apply.")
	assert.Contains(t, fake.prompt, "what is the penalty?")
	assert.Contains(t, fake.prompt, "Be formal.")
	// Multiple sources require attribution instructions.
	assert.Contains(t, fake.prompt, "which source informed which part")
}

func TestSynthesizeSingleSourceSkipsAttribution(t *testing.T) {
	fake := &fakeCompleter{text: "ok"}
	s := NewSynthesizer(fake, nil)

	_, err := s.Synthesize(context.Background(), "q", map[string]string{
		"query_penal_code": "Article 5.",
	}, nil, types.UserPrompts{})

	require.NoError(t, err)
	assert.NotContains(t, fake.prompt, "which source informed which part")
}

func TestSynthesizeEmptySourcesIsError(t *testing.T) {
	s := NewSynthesizer(&fakeCompleter{}, nil)
	_, err := s.Synthesize(context.Background(), "q", nil, nil, types.UserPrompts{})
	assert.Error(t, err)
}

func TestSynthesizeStreamDeliversModelChunks(t *testing.T) {
	fake := &fakeStreamCompleter{frags: []llm.Fragment{
		{Text: "The penalty "}, {Text: "is a fine."},
	}}
	s := NewSynthesizer(fake, nil)

	stream, err := s.SynthesizeStream(context.Background(), "what is the penalty?", map[string]string{
		"query_penal_code": "Article 5: fines apply.",
	}, nil, types.UserPrompts{})
	require.NoError(t, err)

	var got strings.Builder
	for frag := range stream.Fragments() {
		got.WriteString(frag)
	}
	<-stream.Done()
	assert.Equal(t, "The penalty is a fine.", got.String())
	assert.True(t, stream.Completed())
	assert.Contains(t, fake.prompt, "Source: query_penal_code")
}

func TestSynthesizeStreamRequiresStreamingClient(t *testing.T) {
	s := NewSynthesizer(&fakeCompleter{}, nil)

	_, err := s.SynthesizeStream(context.Background(), "q", map[string]string{
		"query_penal_code": "Article 5.",
	}, nil, types.UserPrompts{})
	assert.Error(t, err)
}

// --- reveal streaming ---

func TestRevealDeliversWholeAnswer(t *testing.T) {
	const answer = "The statute requires a lawful basis for processing personal data."

	s := Reveal(context.Background(), answer, time.Millisecond)

	var got strings.Builder
	prev := ""
	for frag := range s.Fragments() {
		got.WriteString(frag)
		// Observed partial state is always a prefix of what follows.
		cur := s.Text()
		assert.True(t, strings.HasPrefix(cur, prev), "revealed text must grow monotonically")
		prev = cur
	}

	<-s.Done()
	assert.Equal(t, answer, got.String())
	assert.Equal(t, answer, s.Text())
	assert.True(t, s.Completed())
}

func TestRevealCancelStopsFragments(t *testing.T) {
	s := Reveal(context.Background(), strings.Repeat("long answer text ", 200), time.Millisecond)

	// Consume a couple of fragments, then cancel.
	<-s.Fragments()
	<-s.Fragments()
	s.Cancel()

	for range s.Fragments() {
		// Drain whatever was in flight; the channel must close promptly.
	}
	<-s.Done()

	after := s.Text()
	assert.False(t, s.Completed())

	// No fragment may arrive after cancellation settled.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, s.Text())
}

func TestRevealEmptyAnswerCompletesImmediately(t *testing.T) {
	s := Reveal(context.Background(), "", time.Millisecond)
	for range s.Fragments() {
	}
	<-s.Done()
	assert.True(t, s.Completed())
	assert.Equal(t, "", s.Text())
}

// --- provider-native streaming ---

func TestFromFragmentsForwardsInOrder(t *testing.T) {
	in := make(chan llm.Fragment, 3)
	in <- llm.Fragment{Text: "a"}
	in <- llm.Fragment{Text: "b"}
	in <- llm.Fragment{Text: "c"}
	close(in)

	s := FromFragments(context.Background(), in)

	var got strings.Builder
	for frag := range s.Fragments() {
		got.WriteString(frag)
	}
	<-s.Done()
	assert.Equal(t, "abc", got.String())
	assert.True(t, s.Completed())
}

func TestFromFragmentsErrorEndsStreamIncomplete(t *testing.T) {
	in := make(chan llm.Fragment, 2)
	in <- llm.Fragment{Text: "partial"}
	in <- llm.Fragment{Err: assert.AnError}
	close(in)

	s := FromFragments(context.Background(), in)

	var got strings.Builder
	for frag := range s.Fragments() {
		got.WriteString(frag)
	}
	<-s.Done()
	assert.Equal(t, "partial", got.String())
	assert.False(t, s.Completed())
}
