// Package actor provides addressed, typed message passing between
// independently-owned processes.
//
// Every actor has a stable Address and a FIFO mailbox. Messages from one
// sender to one recipient are delivered in send order. An actor's mailbox is
// only ever processed by one goroutine at a time, so a handler may mutate
// its own state without locking.
//
// Delivery is driven explicitly: System.Drain processes mailboxes until
// none holds a message. Drain is the quiescence barrier between frame phases.
package actor

import (
	"errors"
	"fmt"
	"sync"
)

// Address identifies an actor within a System.
type Address uint32

// Nobody is the zero Address. It is never assigned to an actor.
const Nobody Address = 0

// Message is any value sent between actors. Messages should be values or
// carry independent copies of their data; senders must not mutate anything
// reachable from a message after sending it.
type Message any

// Handler reacts to messages delivered to one actor.
type Handler interface {
	Receive(ctx *Context, msg Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx *Context, msg Message) error

// Receive calls f.
func (f HandlerFunc) Receive(ctx *Context, msg Message) error {
	return f(ctx, msg)
}

var (
	// ErrUnknownAddress is returned when sending to an address with no actor.
	ErrUnknownAddress = errors.New("unknown actor address")

	// ErrNotQuiescent is returned when Drain gives up before mailboxes empty.
	ErrNotQuiescent = errors.New("actors did not reach quiescence")
)

// Context is handed to a handler for the duration of one delivery.
type Context struct {
	system *System
	self   Address
}

// Self returns the address of the actor handling the message.
func (c *Context) Self() Address {
	return c.self
}

// Send delivers msg to the actor at to.
func (c *Context) Send(to Address, msg Message) error {
	return c.system.Send(to, msg)
}

// Sender can deliver messages to addresses.
type Sender interface {
	Send(to Address, msg Message) error
}

// mailbox is one actor's inbox.
type mailbox struct {
	addr    Address
	name    string
	handler Handler
	pinned  bool

	mu    sync.Mutex
	queue []Message
}

func (m *mailbox) push(msg Message) {
	m.mu.Lock()
	m.queue = append(m.queue, msg)
	m.mu.Unlock()
}

// take removes and returns everything queued so far.
func (m *mailbox) take() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil
	}
	msgs := m.queue
	m.queue = nil
	return msgs
}

func (m *mailbox) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *mailbox) String() string {
	return fmt.Sprintf("%s#%d", m.name, m.addr)
}
