package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	ts := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	err := store.SaveSnapshot(Snapshot{
		RunID:          "run-1",
		ProjectKey:     "petclinic",
		Timestamp:      ts,
		FileCount:      12,
		ClassCount:     20,
		ViolationCount: 3,
		ParseErrors:    1,
		Duration:       250 * time.Millisecond,
	})
	require.NoError(t, err)

	got, err := store.LoadSnapshots("petclinic", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.Equal(t, "run-1", got[0].RunID)
	require.Equal(t, "petclinic", got[0].ProjectKey)
	require.Equal(t, SchemaVersion, got[0].SchemaVersion)
	require.Equal(t, ts, got[0].Timestamp)
	require.Equal(t, 12, got[0].FileCount)
	require.Equal(t, 20, got[0].ClassCount)
	require.Equal(t, 3, got[0].ViolationCount)
	require.Equal(t, 1, got[0].ParseErrors)
	require.Equal(t, 250*time.Millisecond, got[0].Duration)
}

func TestSaveSnapshotFillsDefaults(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SaveSnapshot(Snapshot{ViolationCount: 1}))

	got, err := store.LoadSnapshots("", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotEmpty(t, got[0].RunID)
	require.Equal(t, "default", got[0].ProjectKey)
	require.False(t, got[0].Timestamp.IsZero())
}

func TestSaveSnapshotUpsertsByRunID(t *testing.T) {
	store := openTestStore(t)

	first := Snapshot{RunID: "run-1", ProjectKey: "petclinic", ViolationCount: 5}
	require.NoError(t, store.SaveSnapshot(first))

	first.ViolationCount = 0
	require.NoError(t, store.SaveSnapshot(first))

	got, err := store.LoadSnapshots("petclinic", time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 0, got[0].ViolationCount)
}

func TestLoadSnapshotsFiltersByProjectAndTime(t *testing.T) {
	store := openTestStore(t)

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveSnapshot(Snapshot{RunID: "a", ProjectKey: "one", Timestamp: old}))
	require.NoError(t, store.SaveSnapshot(Snapshot{RunID: "b", ProjectKey: "one", Timestamp: recent}))
	require.NoError(t, store.SaveSnapshot(Snapshot{RunID: "c", ProjectKey: "two", Timestamp: recent}))

	got, err := store.LoadSnapshots("one", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "b", got[0].RunID)

	all, err := store.LoadSnapshots("one", time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].RunID, "snapshots must come back in timestamp order")
}

func TestSaveSnapshotRejectsUnknownSchemaVersion(t *testing.T) {
	store := openTestStore(t)
	err := store.SaveSnapshot(Snapshot{RunID: "x", SchemaVersion: 99})
	require.Error(t, err)
}

func TestOpenRejectsBadPaths(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)

	_, err = Open(t.TempDir())
	require.Error(t, err)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, path, store.Path())
	require.NoError(t, store.Close())
}
