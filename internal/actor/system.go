package actor

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxRounds bounds Drain when Options.MaxRounds is unset.
const DefaultMaxRounds = 1024

// Options configures a System.
type Options struct {
	// Workers bounds how many unpinned mailboxes are processed in parallel.
	// Zero or less uses GOMAXPROCS.
	Workers int

	// MaxRounds bounds the number of delivery rounds in one Drain.
	// Zero uses DefaultMaxRounds.
	MaxRounds int

	// Logger receives delivery diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// System is a registry of actors and the scheduler that delivers their mail.
type System struct {
	workers   int
	maxRounds int
	log       *zap.Logger

	mu     sync.RWMutex
	next   Address
	boxes  map[Address]*mailbox
	order  []*mailbox
	drains sync.Mutex
}

// NewSystem creates an empty System.
func NewSystem(opts Options) *System {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &System{
		workers:   opts.Workers,
		maxRounds: opts.MaxRounds,
		log:       opts.Logger,
		boxes:     make(map[Address]*mailbox),
	}
}

// Register adds an actor whose mail may be processed on any goroutine.
func (s *System) Register(name string, h Handler) Address {
	return s.register(name, h, false)
}

// RegisterPinned adds an actor whose mail is always processed on the
// goroutine that calls Drain. Use it for actors with thread affinity, such
// as anything issuing OpenGL calls.
func (s *System) RegisterPinned(name string, h Handler) Address {
	return s.register(name, h, true)
}

func (s *System) register(name string, h Handler, pinned bool) Address {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	mb := &mailbox{
		addr:    s.next,
		name:    name,
		handler: h,
		pinned:  pinned,
	}
	s.boxes[mb.addr] = mb
	s.order = append(s.order, mb)

	s.log.Debug("actor registered",
		zap.String("name", name),
		zap.Uint32("address", uint32(mb.addr)),
		zap.Bool("pinned", pinned),
	)
	return mb.addr
}

// Unregister removes an actor. Mail still queued for it is discarded and
// later sends to its address fail with ErrUnknownAddress.
func (s *System) Unregister(addr Address) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mb, ok := s.boxes[addr]
	if !ok {
		return
	}
	delete(s.boxes, addr)
	for i, o := range s.order {
		if o == mb {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if n := mb.pending(); n > 0 {
		s.log.Debug("discarding mail for unregistered actor",
			zap.Stringer("actor", mb),
			zap.Int("messages", n),
		)
	}
}

// Send queues msg for the actor at to. It is safe to call from any goroutine.
func (s *System) Send(to Address, msg Message) error {
	s.mu.RLock()
	mb, ok := s.boxes[to]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d (sending %T)", ErrUnknownAddress, to, msg)
	}
	mb.push(msg)
	return nil
}

// Pending returns the number of queued, undelivered messages.
func (s *System) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, mb := range s.order {
		n += mb.pending()
	}
	return n
}

// delivery is the mail taken from one mailbox for one round.
type delivery struct {
	box  *mailbox
	msgs []Message
}

// collect takes the queued mail of every mailbox, split by pinning.
func (s *System) collect() (pinned, free []delivery) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mb := range s.order {
		msgs := mb.take()
		if msgs == nil {
			continue
		}
		d := delivery{box: mb, msgs: msgs}
		if mb.pinned {
			pinned = append(pinned, d)
		} else {
			free = append(free, d)
		}
	}
	return pinned, free
}

// Drain delivers mail until every mailbox is empty.
//
// Each round takes everything queued at its start. Pinned actors are served
// on the calling goroutine while the others are served in parallel, one
// goroutine per mailbox. Messages sent during a round are delivered in a
// later round. The first handler error ends the drain and is returned; mail
// already taken in that round is not redelivered.
func (s *System) Drain(ctx context.Context) error {
	s.drains.Lock()
	defer s.drains.Unlock()

	delivered := 0
	for round := 0; ; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		pinned, free := s.collect()
		if len(pinned) == 0 && len(free) == 0 {
			if delivered > 0 {
				s.log.Debug("drained",
					zap.Int("rounds", round),
					zap.Int("messages", delivered),
				)
			}
			return nil
		}
		if round >= s.maxRounds {
			return fmt.Errorf("%w: still delivering after %d rounds", ErrNotQuiescent, round)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, d := range free {
			delivered += len(d.msgs)
			g.Go(func() error {
				return s.deliver(gctx, d)
			})
		}

		var pinnedErr error
		for _, d := range pinned {
			delivered += len(d.msgs)
			if pinnedErr = s.deliver(ctx, d); pinnedErr != nil {
				break
			}
		}

		if err := g.Wait(); err != nil {
			return err
		}
		if pinnedErr != nil {
			return pinnedErr
		}
	}
}

func (s *System) deliver(ctx context.Context, d delivery) error {
	hctx := &Context{system: s, self: d.box.addr}
	for _, msg := range d.msgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.box.handler.Receive(hctx, msg); err != nil {
			return fmt.Errorf("actor %s handling %T: %w", d.box, msg, err)
		}
	}
	return nil
}
