package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/pokedraft-backend/internal/board"
	"github.com/DoyleJ11/pokedraft-backend/internal/catalog"
	"github.com/DoyleJ11/pokedraft-backend/internal/hub"
	"github.com/DoyleJ11/pokedraft-backend/internal/types"
)

type fakeDetails map[string]*catalog.Detail

func (f fakeDetails) Detail(_ context.Context, name string) (*catalog.Detail, error) {
	d, ok := f[name]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

var testDetails = fakeDetails{
	"pikachu": {Name: "pikachu", Abilities: []string{"static"}, Moves: []string{"thunderbolt"}},
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Listed{
		{Name: "pikachu", URL: "https://pokeapi.co/api/v2/pokemon/25/"},
	}, "")
}

func startServer(t *testing.T) (*hub.Hub, *httptest.Server) {
	t.Helper()
	h := hub.NewHub(context.Background(), zap.NewNop())
	t.Cleanup(h.Shutdown)
	srv := httptest.NewServer(Handler(h, testDetails, zap.NewNop()))
	t.Cleanup(srv.Close)
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server, code string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?code=" + code
	conn, _, err := websocket.Dial(ctx, u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var m types.ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &m))
	return m
}

func write(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, wsjson.Write(ctx, conn, v))
}

func TestHandler_CommandsProduceSnapshots(t *testing.T) {
	h, srv := startServer(t)
	code, _, err := h.Create(context.Background(), board.New(testCatalog()))
	require.NoError(t, err)

	conn := dial(t, srv, code)
	first := read(t, conn)
	assert.Equal(t, "StateSnapshot", first.Type)
	assert.Equal(t, 0, first.Version)

	ten := 10
	write(t, conn, types.ClientMessage{Type: "AddColumn", Points: &ten})
	next := read(t, conn)
	require.Equal(t, "StateSnapshot", next.Type)
	assert.Equal(t, 1, next.Version)
	require.Len(t, next.Board.Columns, 1)
	assert.Equal(t, 10, next.Board.Columns[0].Points)
}

func TestHandler_ErrorsGoBackToSender(t *testing.T) {
	h, srv := startServer(t)
	code, _, err := h.Create(context.Background(), board.New(testCatalog()))
	require.NoError(t, err)

	conn := dial(t, srv, code)
	_ = read(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))
	assert.Equal(t, "bad json", read(t, conn).Error)

	write(t, conn, types.ClientMessage{Type: "BeginAdd", Group: &board.Group{Kind: board.GroupColumn, Column: 3}})
	msg := read(t, conn)
	assert.Equal(t, "Error", msg.Type)
	assert.Equal(t, board.ErrUnknownGroup.Error(), msg.Error)
}

func TestHandler_UnknownCode(t *testing.T) {
	_, srv := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?code=NOPE00"
	_, resp, err := websocket.Dial(ctx, u, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDispatch_ValidatesTogglesAgainstDetail(t *testing.T) {
	h, _ := startServer(t)
	ctx := context.Background()
	_, s, err := h.Create(ctx, board.New(testCatalog()))
	require.NoError(t, err)

	banned := board.Banned()
	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "BeginAdd", Group: &banned}, testDetails))
	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "SetName", Name: "pikachu"}, testDetails))

	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "ToggleMove", Name: "thunderbolt"}, testDetails))
	err = Dispatch(ctx, s, "c1", types.ClientMessage{Type: "ToggleMove", Name: "surf"}, testDetails)
	assert.ErrorIs(t, err, catalog.ErrNotInDetail)
	err = Dispatch(ctx, s, "c1", types.ClientMessage{Type: "ToggleAbility", Name: "levitate"}, testDetails)
	assert.ErrorIs(t, err, catalog.ErrNotInDetail)

	// untoggling is always allowed
	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "ToggleMove", Name: "thunderbolt"}, testDetails))

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Session.BannedMoves)
	assert.Empty(t, v.Session.BannedAbilities)
}

func TestHandler_DisconnectReleasesWriter(t *testing.T) {
	h, srv := startServer(t)
	code, _, err := h.Create(context.Background(), board.New(testCatalog()))
	require.NoError(t, err)

	cycle := func() {
		conn := dial(t, srv, code)
		_ = read(t, conn)
		conn.Close(websocket.StatusNormalClosure, "")
	}
	cycle()
	time.Sleep(50 * time.Millisecond)
	before := runtime.NumGoroutine()

	for i := 0; i < 20; i++ {
		cycle()
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+2
	}, 2*time.Second, 20*time.Millisecond, "goroutines before=%d after=%d", before, runtime.NumGoroutine())
}

func TestDispatch_UntoggleIgnoresSurroundingSpace(t *testing.T) {
	h, _ := startServer(t)
	ctx := context.Background()
	_, s, err := h.Create(ctx, board.New(testCatalog()))
	require.NoError(t, err)

	banned := board.Banned()
	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "BeginAdd", Group: &banned}, testDetails))
	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "SetName", Name: "pikachu"}, testDetails))
	// staged without validation, so the value is not in pikachu's detail data
	require.NoError(t, s.Apply(ctx, "c1", board.Command{Type: board.CmdToggleAbility, Value: "levitate"}))

	require.NoError(t, Dispatch(ctx, s, "c1", types.ClientMessage{Type: "ToggleAbility", Name: " levitate "}, testDetails))

	v, err := s.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Session.BannedAbilities)
}
