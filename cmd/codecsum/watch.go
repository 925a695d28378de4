package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"codecsum/internal/config"
	"codecsum/internal/dataset"
	"codecsum/internal/events"
	"codecsum/internal/summary"
	"codecsum/internal/types"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// snapshotStore hands the latest comparison snapshot to the render loop.
type snapshotStore struct {
	mu      sync.Mutex
	current *types.State
}

func (s *snapshotStore) set(state *types.State) {
	s.mu.Lock()
	s.current = state
	s.mu.Unlock()
}

func (s *snapshotStore) get() *types.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// rebuildSnapshot reloads the batch files, builds a fresh snapshot, and
// publishes it to the store before raising the matched-data-points
// notification. Subscribers reading the store on that notification are
// therefore guaranteed to see the snapshot the notification announced.
// A failed reload keeps the previous snapshot.
func rebuildSnapshot(ctx context.Context, paths []string, builder *dataset.Builder, store *snapshotStore, bus *events.Bus, logger *zap.Logger) {
	raw, err := dataset.LoadBatches(ctx, paths, logger)
	if err != nil {
		logger.Warn("Reload failed, keeping previous summary", zap.Error(err))
		return
	}
	store.set(builder.Build(raw))
	bus.NotifyMatchedDataPointsChanged()
}

// watchCmd keeps the summary current: whenever a batch file changes, the
// whole snapshot is rebuilt from scratch and re-rendered. Invalidation is
// coarse-grained; there is no partial recomputation.
var watchCmd = &cobra.Command{
	Use:   "watch <batch.json> [batch.json...]",
	Short: "Re-summarize whenever a batch file changes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		watched := make(map[string]bool, len(args))
		for _, path := range args {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			watched[abs] = true
			// Watch the directory: editors often replace files on save,
			// which drops a watch registered on the file itself.
			if err := watcher.Add(filepath.Dir(abs)); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}

		bus := events.NewBus()
		defer bus.Close()

		composer := summary.NewComposer(summary.WithBatchInfoRequests(bus.RequestBatchInfo))
		// The builder gets no bus: rebuildSnapshot raises the notification
		// itself, after the fresh snapshot is published, so the render
		// loop can never observe a missing or stale snapshot.
		builder := dataset.NewBuilder(cfg, nil, logger)
		store := &snapshotStore{}

		rebuild := func() {
			rebuildSnapshot(cmd.Context(), args, builder, store, bus, logger)
		}

		// Re-render on every matched-data-points notification.
		sub := bus.Subscribe()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for event := range sub {
				if event.Kind != events.MatchedDataPointsChanged {
					continue
				}
				state := store.get()
				if state == nil {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderText(composer.RenderSummary(state), plainText))
			}
		}()

		rebuild()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		// Debounce rapid saves before rebuilding.
		const debounce = 300 * time.Millisecond
		var timer *time.Timer
		timerCh := make(chan struct{}, 1)

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || !watched[abs] {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("Batch file changed",
					zap.String("path", abs),
					zap.String("op", event.Op.String()))
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					select {
					case timerCh <- struct{}{}:
					default:
					}
				})
			case <-timerCh:
				rebuild()
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("Watcher error", zap.Error(err))
			case <-sigCh:
				logger.Info("Shutting down watch")
				bus.Unsubscribe(sub)
				<-done
				return nil
			}
		}
	},
}
