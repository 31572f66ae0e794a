package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/galsed/sedfit/internal/config"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing.
func SetupAppTest(t *testing.T, opts *Options, loader config.Loader) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	opts.LogLevel = "debug"
	testApp, err := New(logBuffer, opts, loader)

	t.Cleanup(func() {
		if os.Getenv("SEDFIT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	if err != nil {
		t.Fatalf("SetupAppTest: failed to construct app: %v", err)
	}
	return testApp, logBuffer
}
