package testutil

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/carbonwatch/carbonwatch/internal/store"
)

func NewStoreWithConsole(t testing.TB, w io.Writer) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "carbonwatch.log"), w)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func NewStore(t testing.TB) *store.Store {
	t.Helper()

	return NewStoreWithConsole(t, io.Discard)
}
