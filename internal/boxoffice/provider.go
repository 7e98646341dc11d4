package boxoffice

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/amaumene/dvmovies/internal/constants"
	"github.com/amaumene/dvmovies/pkg/logger"
)

// Provider holds the latest snapshot and reloads it when the file changes.
type Provider struct {
	path    string
	current atomic.Pointer[Snapshot]
	logger  logger.Logger
	delay   time.Duration
	wg      sync.WaitGroup
}

// NewProvider starts with an empty snapshot; call Reload to read path.
func NewProvider(path string, log logger.Logger) *Provider {
	if log == nil {
		log = logger.New()
	}
	if path != "" {
		path = filepath.Clean(path)
	}
	p := &Provider{
		path:   path,
		logger: log,
		delay:  constants.SnapshotReloadDelay,
	}
	p.current.Store(Empty())
	return p
}

// Current returns the latest snapshot, never nil.
func (p *Provider) Current() *Snapshot {
	return p.current.Load()
}

// Reload reads the file again. On failure the previous snapshot stays.
func (p *Provider) Reload() error {
	if p.path == "" {
		return fmt.Errorf("no box office file configured")
	}

	snap, err := Load(p.path)
	if err != nil {
		return err
	}
	p.current.Store(snap)
	p.logger.Infof("[BoxOffice] loaded %d titles from %s", snap.Len(), p.path)
	return nil
}

// Watch reloads the snapshot whenever the file is written or replaced, until
// ctx is done. The parent directory is watched so atomic renames are seen.
func (p *Provider) Watch(ctx context.Context) error {
	if p.path == "" {
		p.logger.Infof("[BoxOffice] no box office file configured, watcher disabled")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { _ = watcher.Close() }()
		p.watchLoop(ctx, watcher)
	}()
	return nil
}

// Wait blocks until a running watcher has stopped.
func (p *Provider) Wait() {
	p.wg.Wait()
}

func (p *Provider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != p.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounce.Reset(p.delay)
			}

		case <-debounce.C:
			if err := p.Reload(); err != nil {
				p.logger.Warnf("[BoxOffice] reload failed, keeping previous snapshot: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Errorf("[BoxOffice] watcher error: %v", err)
		}
	}
}
