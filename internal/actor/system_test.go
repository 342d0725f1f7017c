package actor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder stores every message it receives.
type recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *recorder) Receive(_ *Context, msg Message) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	return nil
}

func (r *recorder) received() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

type ping struct{ n int }

func TestSendToUnknownAddress(t *testing.T) {
	s := NewSystem(Options{})
	err := s.Send(Address(42), ping{})
	assert.ErrorIs(t, err, ErrUnknownAddress)
}

func TestAddressesAreStableAndNonZero(t *testing.T) {
	s := NewSystem(Options{})
	a := s.Register("a", &recorder{})
	b := s.RegisterPinned("b", &recorder{})
	assert.NotEqual(t, Nobody, a)
	assert.NotEqual(t, Nobody, b)
	assert.NotEqual(t, a, b)
}

func TestFIFOPerSender(t *testing.T) {
	s := NewSystem(Options{Workers: 4})
	rec := &recorder{}
	dst := s.Register("dst", rec)

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Send(dst, ping{n: i}))
	}
	assert.Equal(t, 100, s.Pending())
	require.NoError(t, s.Drain(context.Background()))
	assert.Equal(t, 0, s.Pending())

	got := rec.received()
	require.Len(t, got, 100)
	for i, m := range got {
		assert.Equal(t, ping{n: i}, m)
	}
}

func TestDrainFollowsReactionChains(t *testing.T) {
	s := NewSystem(Options{Workers: 2})
	rec := &recorder{}
	sink := s.RegisterPinned("sink", rec)

	// relay forwards each ping to the sink, decremented, until it reaches zero.
	var relay Address
	relay = s.Register("relay", HandlerFunc(func(ctx *Context, msg Message) error {
		p := msg.(ping)
		if err := ctx.Send(sink, p); err != nil {
			return err
		}
		if p.n > 0 {
			return ctx.Send(relay, ping{n: p.n - 1})
		}
		return nil
	}))

	require.NoError(t, s.Send(relay, ping{n: 9}))
	require.NoError(t, s.Drain(context.Background()))

	got := rec.received()
	require.Len(t, got, 10)
	for i, m := range got {
		assert.Equal(t, ping{n: 9 - i}, m)
	}
}

func TestDrainReturnsHandlerError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSystem(Options{})
	bad := s.Register("bad", HandlerFunc(func(*Context, Message) error {
		return boom
	}))

	require.NoError(t, s.Send(bad, ping{}))
	err := s.Drain(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad#")
}

func TestDrainReturnsPinnedHandlerError(t *testing.T) {
	boom := errors.New("pinned boom")
	s := NewSystem(Options{})
	bad := s.RegisterPinned("bad", HandlerFunc(func(*Context, Message) error {
		return boom
	}))

	require.NoError(t, s.Send(bad, ping{}))
	assert.ErrorIs(t, s.Drain(context.Background()), boom)
}

func TestDrainDetectsLivelock(t *testing.T) {
	s := NewSystem(Options{MaxRounds: 16})
	var a, b Address
	a = s.Register("a", HandlerFunc(func(ctx *Context, msg Message) error {
		return ctx.Send(b, msg)
	}))
	b = s.Register("b", HandlerFunc(func(ctx *Context, msg Message) error {
		return ctx.Send(a, msg)
	}))

	require.NoError(t, s.Send(a, ping{}))
	assert.ErrorIs(t, s.Drain(context.Background()), ErrNotQuiescent)
}

func TestDrainHonorsContext(t *testing.T) {
	s := NewSystem(Options{})
	dst := s.Register("dst", &recorder{})
	require.NoError(t, s.Send(dst, ping{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Drain(ctx), context.Canceled)
}

func TestUnregisterDiscardsMail(t *testing.T) {
	s := NewSystem(Options{})
	rec := &recorder{}
	dst := s.Register("dst", rec)

	require.NoError(t, s.Send(dst, ping{}))
	s.Unregister(dst)
	s.Unregister(dst)

	require.NoError(t, s.Drain(context.Background()))
	assert.Empty(t, rec.received())
	assert.ErrorIs(t, s.Send(dst, ping{}), ErrUnknownAddress)
}

func TestSelfAddress(t *testing.T) {
	s := NewSystem(Options{})
	var seen Address
	var addr Address
	addr = s.RegisterPinned("self", HandlerFunc(func(ctx *Context, _ Message) error {
		seen = ctx.Self()
		return nil
	}))

	require.NoError(t, s.Send(addr, ping{}))
	require.NoError(t, s.Drain(context.Background()))
	assert.Equal(t, addr, seen)
}

func TestConcurrentSenders(t *testing.T) {
	s := NewSystem(Options{Workers: 8})
	rec := &recorder{}
	dst := s.RegisterPinned("dst", rec)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = s.Send(dst, ping{n: g*1000 + i})
			}
		}()
	}
	wg.Wait()

	require.NoError(t, s.Drain(context.Background()))
	got := rec.received()
	require.Len(t, got, 400)

	// Per-sender order is preserved.
	last := map[int]int{}
	for _, m := range got {
		n := m.(ping).n
		sender, seq := n/1000, n%1000
		if prev, ok := last[sender]; ok {
			assert.Greater(t, seq, prev)
		}
		last[sender] = seq
	}
}
