package savewatch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// AutoScanner couples a SavePathMonitor and a Dispatcher into the running
// pipeline: on every trigger it scans for new saves, marks them processed
// and streams the parse results to a callback. Triggers come from a poll
// ticker and, when enabled, from a file-system watcher so new saves are
// picked up without waiting out the poll interval.
type AutoScanner struct {
	monitor    *SavePathMonitor
	dispatcher *Dispatcher
	interval   time.Duration
	logger     logrus.FieldLogger

	// UseWatcher adds an fsnotify watcher on the save directory tree.
	// Polling stays on as a fallback; some platforms drop events for
	// directories created while watching.
	UseWatcher bool

	// Debounce is how long to wait after a file-system event before
	// scanning, so the game finishes writing the archive first.
	Debounce time.Duration

	onResult func(Result)
}

func NewAutoScanner(monitor *SavePathMonitor, dispatcher *Dispatcher, interval time.Duration, logger logrus.FieldLogger) *AutoScanner {
	return &AutoScanner{
		monitor:    monitor,
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
		Debounce:   500 * time.Millisecond,
	}
}

// OnResult registers the consumer callback. It is invoked from the goroutine
// running ScanOnce (the Run goroutine when Run drives the scans), one result
// at a time.
func (a *AutoScanner) OnResult(fn func(Result)) {
	a.onResult = fn
}

// Run scans on every trigger until ctx is cancelled. Returns the ctx error
// on cancellation.
func (a *AutoScanner) Run(ctx context.Context) error {
	var events chan string
	if a.UseWatcher {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := a.addWatches(watcher); err != nil {
			return err
		}
		events = make(chan string, 64)
		go a.forwardEvents(ctx, watcher, events)
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.ScanOnce()
		case path := <-events:
			a.logger.WithField("path", path).Debug("file event, scanning early")
			a.sleepDebounce(ctx)
			a.ScanOnce()
		}
	}
}

// ScanOnce runs a single scan-dispatch-consume cycle. Every scanned file is
// marked processed up front, success or failure, so a broken file is never
// retried.
func (a *AutoScanner) ScanOnce() {
	files, err := a.monitor.Scan()
	if err != nil {
		a.logger.WithError(err).Error("save directory scan failed")
		return
	}
	if len(files) == 0 {
		return
	}
	a.monitor.MarkSeen(files)
	a.logger.WithField("count", len(files)).Info("found new save files")

	for result := range a.dispatcher.Dispatch(files) {
		if result.Err != nil {
			a.logger.WithFields(logrus.Fields{
				"path": result.Path,
				"kind": ErrorKind(result.Err),
			}).WithError(result.Err).Error("failed to parse save file")
		} else {
			a.logger.WithFields(logrus.Fields{
				"game":    result.Game,
				"path":    result.Path,
				"elapsed": result.Elapsed,
			}).Info("parsed save file")
		}
		if a.onResult != nil {
			a.onResult(result)
		}
	}
}

func (a *AutoScanner) addWatches(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(a.monitor.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// forwardEvents filters raw watcher events down to ones worth a scan and
// keeps watches on newly created game directories.
func (a *AutoScanner) forwardEvents(ctx context.Context, watcher *fsnotify.Watcher, events chan<- string) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			a.logger.WithError(err).Warn("file watcher error")
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				// a new game directory; watch it so its saves trigger scans
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			if !strings.HasSuffix(ev.Name, ".sav") {
				continue
			}
			select {
			case events <- ev.Name:
			default:
				// a scan is already pending; coalesce
			}
		}
	}
}

func (a *AutoScanner) sleepDebounce(ctx context.Context) {
	t := time.NewTimer(a.Debounce)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
