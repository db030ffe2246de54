package hub

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/session"
)

var ErrHubClosed = errors.New("hub closed")

const codeLength = 6
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type HubMsg interface{ isHubMsg() }

// CreateSession starts a session around Board under a fresh join code.
type CreateSession struct {
	Board *board.Board
	Reply chan Created
}

type Created struct {
	Code    string
	Session *session.Session
	Err     error
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

// RemoveSession forgets the code and shuts its session down.
type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	ctx      context.Context
	cancel   context.CancelFunc
	log      *zap.Logger
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				code, err := h.freeCode()
				if err != nil {
					msg.Reply <- Created{Err: err}
					break
				}
				s := session.New(h.ctx, msg.Board, h.log.With(zap.String("code", code)))
				h.sessions[code] = s
				h.log.Info("session created", zap.String("code", code), zap.Int("open", len(h.sessions)))
				msg.Reply <- Created{Code: code, Session: s}

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case RemoveSession:
				if s := h.sessions[msg.Code]; s != nil {
					go s.Close()
					delete(h.sessions, msg.Code)
					h.log.Info("session removed", zap.String("code", msg.Code))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// shutdown cancels the hub context, which every session was started under.
func (h *Hub) shutdown() {
	clear(h.sessions)
	h.cancel()
}

func (h *Hub) freeCode() (string, error) {
	for {
		c, err := GenerateCode()
		if err != nil {
			return "", err
		}
		if h.sessions[c] == nil {
			return c, nil
		}
		h.log.Debug("collision on code, regenerating", zap.String("code", c))
	}
}

// Create registers a session for b and returns its join code.
func (h *Hub) Create(ctx context.Context, b *board.Board) (string, *session.Session, error) {
	reply := make(chan Created, 1)
	if err := h.send(ctx, CreateSession{Board: b, Reply: reply}); err != nil {
		return "", nil, err
	}
	select {
	case c := <-reply:
		return c.Code, c.Session, c.Err
	case <-ctx.Done():
		return "", nil, ctx.Err()
	case <-h.ctx.Done():
		return "", nil, ErrHubClosed
	}
}

// Get returns the session for code, or nil.
func (h *Hub) Get(ctx context.Context, code string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	if err := h.send(ctx, GetSession{Code: code, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.ctx.Done():
		return nil, ErrHubClosed
	}
}

func (h *Hub) Remove(ctx context.Context, code string) error {
	return h.send(ctx, RemoveSession{Code: code})
}

func (h *Hub) Shutdown() {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) send(ctx context.Context, m HubMsg) error {
	select {
	case h.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.ctx.Done():
		return ErrHubClosed
	}
}

func GenerateCode() (string, error) {
	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = codeCharset[num.Int64()]
	}
	return string(code), nil
}
