package auth

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/1broseidon/raylock/internal/render/rendertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func typed(s *State, text string) {
	for _, r := range text {
		s.Append(r)
	}
}

func TestState_EditingAndSnapshot(t *testing.T) {
	s := NewState()
	typed(s, "héllo")
	s.Backspace()
	assert.Equal(t, View{Length: 4}, s.Snapshot())

	s.Clear()
	s.Backspace()
	assert.Equal(t, View{}, s.Snapshot())
}

func TestState_SubmissionIsTakenOnce(t *testing.T) {
	s := NewState()
	_, ok := s.TakeSubmission()
	assert.False(t, ok)

	typed(s, "pw")
	s.Submit()
	assert.True(t, s.Snapshot().Verifying)

	pw, ok := s.TakeSubmission()
	require.True(t, ok)
	assert.Equal(t, "pw", pw)

	s.Submit()
	_, ok = s.TakeSubmission()
	assert.False(t, ok, "no second submission while busy")
}

type scriptedVerifier struct {
	accept string
	err    error
	seen   []string
	mu     sync.Mutex
}

func (v *scriptedVerifier) Verify(_ context.Context, password string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seen = append(v.seen, password)
	if v.err != nil {
		return false, v.err
	}
	return password == v.accept, nil
}

func TestWorker_RejectionCountsAndClears(t *testing.T) {
	s := NewState()
	v := &scriptedVerifier{accept: "secret"}
	succeeded := false
	w := NewWorker(s, v, WorkerConfig{OnSuccess: func() { succeeded = true }})

	typed(s, "wrong")
	s.Submit()
	assert.False(t, w.Check(context.Background()))
	assert.Equal(t, View{Failures: 1}, s.Snapshot())
	assert.False(t, succeeded)

	typed(s, "secret")
	s.Submit()
	assert.True(t, w.Check(context.Background()))
	assert.True(t, succeeded)
	assert.Equal(t, []string{"wrong", "secret"}, v.seen)
	assert.Equal(t, 0, s.Snapshot().Length)
}

func TestWorker_VerifierErrorIsNotAFailure(t *testing.T) {
	s := NewState()
	w := NewWorker(s, &scriptedVerifier{err: errors.New("sudo missing")}, WorkerConfig{})

	typed(s, "abc")
	s.Submit()
	assert.False(t, w.Check(context.Background()))
	assert.Equal(t, View{}, s.Snapshot())
}

func TestWorker_RunStopsAfterSuccess(t *testing.T) {
	s := NewState()
	done := make(chan struct{})
	w := NewWorker(s, &scriptedVerifier{accept: "ok"}, WorkerConfig{
		PollInterval: time.Millisecond,
		OnSuccess:    func() { close(done) },
	})

	typed(s, "ok")
	s.Submit()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Run(ctx))

	select {
	case <-done:
	default:
		t.Fatal("OnSuccess was not called")
	}
}

func TestWorker_RunReturnsOnCancel(t *testing.T) {
	w := NewWorker(NewState(), &scriptedVerifier{}, WorkerConfig{PollInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
}

func TestCommandVerifier(t *testing.T) {
	v := NewCommandVerifier([]string{"sh", "-c", `read pw; [ "$pw" = "secret" ]`})

	ok, err := v.Verify(context.Background(), "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(context.Background(), "guess")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewCommandVerifier([]string{"/nonexistent/raylock-verifier"}).Verify(context.Background(), "x")
	assert.Error(t, err)
}

func TestNewCommandVerifier_DefaultsToSudo(t *testing.T) {
	assert.Equal(t, []string{"sudo", "-kS", "true"}, NewCommandVerifier(nil).Argv)
}

func TestRing_EmptyStateDrawsNothing(t *testing.T) {
	shape := Ring(View{}, geom.Pt(100, 100), DefaultRadii())
	assert.Empty(t, shape.Dots)
	assert.Empty(t, shape.Links)
	assert.Empty(t, shape.FailDots)
	assert.False(t, shape.FailRing)

	rec := &rendertest.Recorder{}
	shape.Draw(rec, render.DefaultPalette())
	assert.Empty(t, rec.Ops)
}

func TestRing_SingleCharacterSitsAtCentre(t *testing.T) {
	center := geom.Pt(960, 540)
	shape := Ring(View{Length: 1, Failures: 1}, center, DefaultRadii())
	assert.Equal(t, []geom.Point{center}, shape.Dots)
	assert.Empty(t, shape.Links)
	assert.Equal(t, []geom.Point{center}, shape.FailDots)
	assert.True(t, shape.FailRing)
	assert.InDelta(t, 45, shape.FailRadius, eps)
}

func TestRing_DotsAndClosedChain(t *testing.T) {
	center := geom.Pt(0, 0)
	shape := Ring(View{Length: 4, Failures: 2}, center, DefaultRadii())

	require.Len(t, shape.Dots, 4)
	first := shape.Dots[0]
	assert.InDelta(t, 50*math.Cos(-math.Pi/4), first.X, eps)
	assert.InDelta(t, 50*math.Sin(-math.Pi/4), first.Y, eps)
	for _, d := range shape.Dots {
		assert.InDelta(t, 50, math.Hypot(d.X, d.Y), eps)
	}

	require.Len(t, shape.Links, 4)
	assert.Equal(t, shape.Dots[3], shape.Links[0][0], "chain starts from the last dot")
	assert.Equal(t, shape.Dots[0], shape.Links[0][1])
	assert.Equal(t, shape.Dots[2], shape.Links[3][0])

	require.Len(t, shape.FailDots, 2)
	for _, d := range shape.FailDots {
		assert.InDelta(t, 15, math.Hypot(d.X, d.Y), eps)
	}

	rec := &rendertest.Recorder{}
	shape.Draw(rec, render.DefaultPalette())
	assert.Len(t, rec.Filter(rendertest.OpStrokeCircle), 1+2+4)
	assert.Len(t, rec.Filter(rendertest.OpLine), 4)
}
