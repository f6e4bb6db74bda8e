package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay quiet after a change before it is reloaded.
const settleDelay = 100 * time.Millisecond

// Reload is one reloaded camera tuning file.
type Reload struct {
	Path   string
	Config camera.Config
	Err    error
}

// Watcher reloads camera tuning files when they change on disk. Reloads arrive on
// Reloads; a file that fails to parse is delivered with Err set so the caller can keep
// its previous configuration.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	Reloads chan Reload
	Errors  chan error
	fire    chan string
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches the given yaml files. Their parent directories are watched so
// editors that save by rename are handled.
//
// Parameters:
//   - files: camera tuning files to watch
//
// Returns:
//   - *Watcher: the running watcher
//   - error: if a directory cannot be watched
func NewWatcher(files ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}

	watched := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, f := range files {
		clean := filepath.Clean(f)
		if !isConfigFile(clean) {
			_ = w.Close()
			return nil, fmt.Errorf("config: watcher: %s is not a yaml file", f)
		}
		watched[clean] = struct{}{}
		dir := filepath.Dir(clean)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("config: watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
	}

	watcher := &Watcher{
		watcher: w,
		files:   watched,
		Reloads: make(chan Reload, 16),
		Errors:  make(chan error, 1),
		fire:    make(chan string, 16),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Reloads and Errors. Safe to call more than once.
//
// Returns:
//   - error: from the underlying fsnotify watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Reloads)
		close(w.Errors)
		close(w.done)
	}()

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, ok := w.files[name]; !ok {
				continue
			}
			if t, ok := timers[name]; ok {
				t.Reset(settleDelay)
				continue
			}
			timers[name] = time.AfterFunc(settleDelay, func() {
				select {
				case w.fire <- name:
				case <-w.closeCh:
				}
			})
		case name := <-w.fire:
			delete(timers, name)
			cfg, err := LoadCameraConfig(name)
			select {
			case w.Reloads <- Reload{Path: name, Config: cfg, Err: err}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isConfigFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
