package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/game"
	"github.com/user/memory-beacon/internal/storage"
	"github.com/user/memory-beacon/internal/types"
	"github.com/user/memory-beacon/internal/world"
	"go.uber.org/zap"
)

type testServer struct {
	runner *game.Runner
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	pack, err := content.Default()
	require.NoError(t, err)

	env := game.NewEnv()
	env.Dice = game.NewDiceRoller(7)
	session, err := game.NewSession(env, pack, world.New(pack), storage.NewMemoryStore(), game.Options{
		Identity: game.Identity{
			PlayerName:   "You",
			PartnerName:  "Her",
			MeetingDate:  "4/20",
			TogetherDate: "6/20",
		},
		StartScene: "scene1",
	})
	require.NoError(t, err)

	runner := game.NewRunner(session, 200, 0)
	go runner.Run()
	t.Cleanup(runner.Stop)

	return &testServer{runner: runner, router: NewRouter(runner, zap.NewNop())}
}

func (ts *testServer) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case []byte:
		buf.Write(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestNewGameAndState(t *testing.T) {
	// Setup
	ts := newTestServer(t)

	// Test case 1: commands before a game has started are rejected
	rec := ts.request(t, http.MethodPost, "/puzzles/puzzle_01/activate", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "game_not_started", decodeBody[errorResponse](t, rec).Error)

	// Test case 2: a new game enters the start scene
	rec = ts.request(t, http.MethodPost, "/game/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[stateResponse](t, rec)
	assert.True(t, state.Started)
	assert.Equal(t, "scene1", state.Scene)
	assert.Equal(t, 100.0, state.Sanity)
	assert.Contains(t, state.Notifications, "Where am I?")

	// Test case 3: state reflects the same session
	rec = ts.request(t, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scene1", decodeBody[stateResponse](t, rec).Scene)
}

func TestPuzzleRoutes(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.request(t, http.MethodPost, "/game/new", nil).Code)

	// Test case 1: activation returns the puzzle view
	rec := ts.request(t, http.MethodPost, "/puzzles/puzzle_01/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[game.PuzzleView](t, rec)
	assert.Equal(t, "puzzle_01", view.ID)
	assert.Equal(t, 3, view.MaxAttempts)

	// Test case 2: a wrong answer reports remaining attempts
	rec = ts.request(t, http.MethodPost, "/puzzles/puzzle_01/answer", map[string]string{"input": "000"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[game.Result](t, rec)
	assert.Equal(t, "incorrect", res.Status)
	assert.Equal(t, 2, res.Remaining)

	// Test case 3: a hint is returned as text
	rec = ts.request(t, http.MethodPost, "/puzzles/puzzle_01/hint", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody[map[string]string](t, rec)["hint"])

	// Test case 4: the right answer solves and unlocks the photo
	rec = ts.request(t, http.MethodPost, "/puzzles/puzzle_01/answer", map[string]string{"input": "420"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "correct", decodeBody[game.Result](t, rec).Status)

	rec = ts.request(t, http.MethodGet, "/photos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	gallery := decodeBody[[]game.GalleryEntry](t, rec)
	require.NotEmpty(t, gallery)
	for _, entry := range gallery {
		if entry.ID == "meeting" {
			assert.True(t, entry.Unlocked)
			assert.NotEqual(t, "???", entry.Name)
		} else {
			assert.Equal(t, "???", entry.Name)
		}
	}

	// Test case 5: answering again is a conflict
	rec = ts.request(t, http.MethodPost, "/puzzles/puzzle_01/answer", map[string]string{"input": "420"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_solved", decodeBody[errorResponse](t, rec).Error)

	// Test case 6: unknown puzzles are not found
	rec = ts.request(t, http.MethodGet, "/puzzles/puzzle_99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveRoutes(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.request(t, http.MethodPost, "/game/new", nil).Code)

	// Test case 1: saving is accepted and lands on a later tick
	rec := ts.request(t, http.MethodPost, "/game/save/0", map[string]string{"description": "first"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		rec := ts.request(t, http.MethodGet, "/saves", nil)
		slots := decodeBody[[]types.SlotSummary](t, rec)
		return len(slots) > 0 && slots[0].Exists && slots[0].Description == "first"
	}, 2*time.Second, 10*time.Millisecond)

	// Test case 2: the slot loads back
	rec = ts.request(t, http.MethodPost, "/game/load/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scene1", decodeBody[stateResponse](t, rec).Scene)

	// Test case 3: slot errors map to client errors
	rec = ts.request(t, http.MethodPost, "/game/load/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.request(t, http.MethodPost, "/game/load/42", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_slot", decodeBody[errorResponse](t, rec).Error)
	rec = ts.request(t, http.MethodPost, "/game/load/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "empty_slot", decodeBody[errorResponse](t, rec).Error)

	// Test case 4: an export imports into another slot
	rec = ts.request(t, http.MethodGet, "/saves/0/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.Bytes()
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "save_slot_0.json")

	rec = ts.request(t, http.MethodPost, "/saves/2/import", exported)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Eventually(t, func() bool {
		slots := decodeBody[[]types.SlotSummary](t, ts.request(t, http.MethodGet, "/saves", nil))
		return len(slots) > 2 && slots[2].Exists
	}, 2*time.Second, 10*time.Millisecond)

	// Test case 5: broken imports are unprocessable
	rec = ts.request(t, http.MethodPost, "/saves/1/import", []byte("{not json"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "deserialization", decodeBody[errorResponse](t, rec).Error)

	// Test case 6: statistics are reported after a save
	rec = ts.request(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody[map[string]json.RawMessage](t, rec), "statistics")
}

func TestMoveAndInteract(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.request(t, http.MethodPost, "/game/new", nil).Code)

	// Test case 1: moving next to a fragment targets it
	rec := ts.request(t, http.MethodPost, "/move", types.Vec3{X: 12, Y: 1, Z: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fragment_meeting", decodeBody[stateResponse](t, rec).Target)

	// Test case 2: interacting collects it into the inventory
	rec = ts.request(t, http.MethodPost, "/interact", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[stateResponse](t, rec)
	assert.Len(t, state.Inventory, 1)
	assert.Contains(t, state.Photos, "meeting")

	// Test case 3: malformed bodies are rejected before reaching the session
	rec = ts.request(t, http.MethodPost, "/move", []byte("[1,2"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Test case 4: notes are stored on the state
	rec = ts.request(t, http.MethodPut, "/note", map[string]string{"text": "check the mirror"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "check the mirror", decodeBody[stateResponse](t, rec).Note)
}

func TestStoppedRunner(t *testing.T) {
	ts := newTestServer(t)
	ts.runner.Stop()

	rec := ts.request(t, http.MethodGet, "/state", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decodeBody[errorResponse](t, rec).Error)
}
