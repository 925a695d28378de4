package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codecsum/internal/config"
	"codecsum/internal/dataset"
	"codecsum/internal/events"
	"codecsum/internal/types"
)

func writeBatchFile(t *testing.T, dir, file, batchName string) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"name": batchName,
		"fields": []map[string]any{
			{"id": "source_image_name", "name": "source image name"},
			{"id": "encoded_size", "name": "encoded size"},
		},
		"rows": [][]any{{"a.png", 100}},
	})
	require.NoError(t, err)
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestRebuildSnapshot_PublishesBeforeNotifying(t *testing.T) {
	path := writeBatchFile(t, t.TempDir(), "libjxl.json", "libjxl")

	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe()

	store := &snapshotStore{}
	builder := dataset.NewBuilder(config.DefaultConfig(), nil, zap.NewNop())

	// The render loop reads the store the moment the notification lands;
	// whatever it sees there is what this goroutine captures.
	observed := make(chan *types.State, 1)
	go func() {
		for e := range sub {
			if e.Kind == events.MatchedDataPointsChanged {
				observed <- store.get()
				return
			}
		}
	}()

	rebuildSnapshot(context.Background(), []string{path}, builder, store, bus, zap.NewNop())

	select {
	case state := <-observed:
		require.NotNil(t, state, "snapshot must be published before the notification fires")
		require.Len(t, state.Batches, 1)
		require.Equal(t, "libjxl", state.Batches[0].Name)
	case <-time.After(time.Second):
		t.Fatal("no matched-data-points notification")
	}
}

func TestRebuildSnapshot_KeepsPreviousOnError(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe()

	previous := &types.State{}
	store := &snapshotStore{}
	store.set(previous)
	builder := dataset.NewBuilder(config.DefaultConfig(), nil, zap.NewNop())

	missing := filepath.Join(t.TempDir(), "absent.json")
	rebuildSnapshot(context.Background(), []string{missing}, builder, store, bus, zap.NewNop())

	require.Same(t, previous, store.get())
	select {
	case e := <-sub:
		t.Fatalf("unexpected notification after failed reload: %+v", e)
	default:
	}
}
