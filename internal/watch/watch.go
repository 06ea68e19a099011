// Package watch monitors a trace file and reports debounced change
// events so the viewer can reload it.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports when the trace file settles after being rewritten.
// Simulators dump waveforms in bursts and editors replace files by
// rename, so the watcher observes the parent directory and coalesces
// events until the file has been quiet for the debounce interval.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration

	events chan struct{}
	errors chan error

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a watcher for a single trace file.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		path:      abs,
		debounce:  debounce,
		events:    make(chan struct{}, 1),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}, nil
}

// Events returns the channel signaling a settled change of the file.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Start begins watching. The file must exist.
func (w *Watcher) Start() error {
	if _, err := os.Stat(w.path); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.loop()
	log.Printf("[INFO] Watching %s for changes", w.path)
	return nil
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	// The timer fires once the file has been quiet for the debounce
	// interval; every new event pushes it back.
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if _, err := os.Stat(w.path); err != nil {
				// Replaced-by-rename windows can leave the file
				// briefly absent; wait for the next event.
				log.Printf("[WARN] Trace vanished during reload check: %v", err)
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
