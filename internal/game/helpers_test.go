package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/memory-beacon/internal/content"
	"github.com/user/memory-beacon/internal/storage"
	"github.com/user/memory-beacon/internal/types"
	"github.com/user/memory-beacon/internal/world"
)

var testNow = time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

const (
	testTimeout  = 2 * time.Second
	testInterval = 5 * time.Millisecond
)

// mockEffects records presentation requests
type mockEffects struct {
	mock.Mock
}

func (m *mockEffects) PlaySound(name string)                    { m.Called(name) }
func (m *mockEffects) PlayAmbient(name string)                  { m.Called(name) }
func (m *mockEffects) SetDistortionIntensity(x float64)         { m.Called(x) }
func (m *mockEffects) SpawnMemoryEffect(p types.Vec3, k string) { m.Called(p, k) }

func newMockEffects() *mockEffects {
	fx := &mockEffects{}
	fx.On("PlaySound", mock.Anything).Maybe()
	fx.On("PlayAmbient", mock.Anything).Maybe()
	fx.On("SetDistortionIntensity", mock.Anything).Maybe()
	fx.On("SpawnMemoryEffect", mock.Anything, mock.Anything).Maybe()
	return fx
}

// panickingEffects fails on every request
type panickingEffects struct{}

func (panickingEffects) PlaySound(string)                     { panic("no audio device") }
func (panickingEffects) PlayAmbient(string)                   { panic("no audio device") }
func (panickingEffects) SetDistortionIntensity(float64)       { panic("no shader") }
func (panickingEffects) SpawnMemoryEffect(types.Vec3, string) { panic("no particles") }

func newTestEnv() *Env {
	env := NewEnv()
	env.Dice = NewDiceRoller(42)
	env.Clock = func() time.Time { return testNow }
	return env
}

// eventLog collects every event emitted on a bus
type eventLog struct {
	events []Event
}

func recordEvents(env *Env) *eventLog {
	log := &eventLog{}
	env.Events.Subscribe(func(e Event) { log.events = append(log.events, e) })
	return log
}

func (l *eventLog) kinds() []EventKind {
	out := make([]EventKind, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Kind)
	}
	return out
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (l *eventLog) reset() {
	l.events = nil
}

func testPack(t *testing.T) *content.Pack {
	t.Helper()
	pack, err := content.Default()
	require.NoError(t, err)
	return pack
}

// gatedStore holds writes until released
type gatedStore struct {
	*storage.MemoryStore

	mu   sync.Mutex
	gate chan struct{}
}

func (g *gatedStore) hold() {
	g.mu.Lock()
	g.gate = make(chan struct{})
	g.mu.Unlock()
}

func (g *gatedStore) release() {
	g.mu.Lock()
	if g.gate != nil {
		close(g.gate)
		g.gate = nil
	}
	g.mu.Unlock()
}

func (g *gatedStore) Write(key string, blob []byte) error {
	g.mu.Lock()
	gate := g.gate
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return g.MemoryStore.Write(key, blob)
}

type sessionFixture struct {
	env     *Env
	fx      *mockEffects
	store   *gatedStore
	world   *world.World
	session *Session
	events  *eventLog
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	pack := testPack(t)
	env := newTestEnv()
	fx := newMockEffects()
	env.WithEffects(fx)
	store := &gatedStore{MemoryStore: storage.NewMemoryStore()}
	w := world.New(pack)

	session, err := NewSession(env, pack, w, store, Options{
		Identity: Identity{
			PlayerName:   "You",
			PartnerName:  "Her",
			MeetingDate:  "4/20",
			TogetherDate: "6/20",
		},
		StartScene: "scene1",
	})
	require.NoError(t, err)

	return &sessionFixture{
		env:     env,
		fx:      fx,
		store:   store,
		world:   w,
		session: session,
		events:  recordEvents(env),
	}
}

// settle waits for the pending write and applies it
func (f *sessionFixture) settle() {
	f.session.saves.Wait()
	f.session.Tick(0, Input{})
}

// walkTo places the player on top of a world object
func (f *sessionFixture) walkTo(t *testing.T, objectID string) {
	t.Helper()
	for _, obj := range f.world.Objects() {
		if obj.ID == objectID {
			f.session.MoveTo(obj.Position)
			target, ok := f.session.detector.Target()
			require.True(t, ok)
			require.Equal(t, objectID, target.ID)
			return
		}
	}
	t.Fatalf("object %q not in scene %q", objectID, f.world.Scene())
}
