package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	pubtypes "github.com/DoyleJ11/pokedraft-backend/pkg/types"
)

var ErrClosed = errors.New("session closed")

// ErrSealed rejects commands while the board is being submitted.
var ErrSealed = errors.New("session is being submitted")

type Msg interface{ isSessionMsg() }

type FromClient struct {
	ClientID string
	Cmd      board.Command
	Reply    chan error // optional; buffered by the sender
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// Seal freezes the board and replies with its final snapshot. Commands fail with
// ErrSealed until Unseal.
type Seal struct {
	Reply chan Snapshot
}

func (Seal) isSessionMsg() {}

type Unseal struct{}

func (Unseal) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Snapshot struct {
	Version int                 `json:"version"`
	Board   pubtypes.DraftBoard `json:"board"`
	Session board.SessionView   `json:"session"`
}

type View struct {
	Snapshot
	NumClients int `json:"num_clients"`
}

// Session owns one board. Every mutation runs on its loop goroutine, one command at a time.
type Session struct {
	inbox   chan Msg
	board   *board.Board
	version int
	sealed  bool
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	log     *zap.Logger
}

func New(parent context.Context, b *board.Board, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:   make(chan Msg, 64),
		board:   b,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		log:     log,
	}

	go s.loop()
	return s
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- s.snapshot()

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch) // releases the client's writer
					delete(s.clients, msg.ClientID)
				}

			case FromClient:
				var err error
				if s.sealed {
					err = ErrSealed
				} else {
					err = s.board.Apply(msg.Cmd)
				}
				if msg.Reply != nil {
					msg.Reply <- err
				}
				if err != nil {
					s.log.Debug("command rejected",
						zap.String("client", msg.ClientID),
						zap.String("command", string(msg.Cmd.Type)),
						zap.Error(err))
					break
				}
				s.version++
				s.broadcast(s.snapshot())

			case Seal:
				s.sealed = true
				msg.Reply <- s.snapshot()

			case Unseal:
				s.sealed = false

			case GetState:
				msg.Reply <- View{Snapshot: s.snapshot(), NumClients: len(s.clients)}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Version: s.version, Board: s.board.Snapshot(), Session: s.board.Session()}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
	close(s.done)
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			// Slow subscriber, drop it.
			s.log.Warn("dropping slow client", zap.String("client", id))
			close(ch)
			delete(s.clients, id)
		}
	}
}

// Inbox exposes the raw message channel, mostly for tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Send delivers m unless the session is gone or ctx ends first.
func (s *Session) Send(ctx context.Context, m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply runs cmd and waits for the board's verdict.
func (s *Session) Apply(ctx context.Context, clientID string, cmd board.Command) error {
	reply := make(chan error, 1)
	if err := s.Send(ctx, FromClient{ClientID: clientID, Cmd: cmd, Reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.Send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Seal freezes the board for submission and returns the snapshot to persist.
func (s *Session) Seal(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := s.Send(ctx, Seal{Reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Unseal reopens a sealed board, e.g. after a failed submit.
func (s *Session) Unseal(ctx context.Context) error {
	return s.Send(ctx, Unseal{})
}

// Close stops the loop and waits for it to exit.
func (s *Session) Close() {
	select {
	case s.inbox <- Shutdown{}:
	case <-s.done:
		return
	}
	<-s.done
}
