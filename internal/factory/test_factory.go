package factory

import (
	"time"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/dependencies/mocks"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/services/auth"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/storage/memory"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/testutil"
)

// TestApp extends App with test-specific helpers. It swaps the real
// websocket hub for a recording dispatcher, so tests can assert on
// exactly what would have gone over the wire.
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	Dispatcher *mocks.FakeDispatcher
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	dispatcher := mocks.NewFakeDispatcher()

	authCfg := auth.Config{Secret: "test-secret", TokenDuration: 24 * time.Hour}
	app := newWithDependencies(store, mockClock, dispatcher, authCfg, 0, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		Dispatcher: dispatcher,
		Memory:     store,
	}
}
