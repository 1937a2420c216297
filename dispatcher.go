package savewatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stellarstats/savewatch/saveparser"
)

// Result is the outcome of parsing one save file. Exactly one of Tree and
// Err is set.
type Result struct {
	Game    string
	Path    string
	JobID   uuid.UUID
	Tree    *saveparser.Object
	Err     error
	Elapsed time.Duration
}

// Dispatcher turns batches of save files into a stream of parse results.
// Jobs run on a bounded worker pool of the configured width; results are
// delivered in the order they become ready, not submission order. A failure
// in one job is converted into an error Result and does not affect others.
type Dispatcher struct {
	width  int
	logger logrus.FieldLogger

	// SkipDuplicates makes the dispatcher hash each gamestate and report
	// byte-identical repeats as DuplicateSave instead of re-parsing them.
	// The game writes identical autosave copies on some triggers, and the
	// larger saves take whole seconds to parse. Off by default: with it on
	// the result multiset depends on completion order.
	SkipDuplicates bool

	mu      sync.Mutex
	closed  bool
	digests map[uint64]string // gamestate hash -> first path seen with it

	inflight sync.WaitGroup
}

func NewDispatcher(width int, logger logrus.FieldLogger) *Dispatcher {
	if width < 1 {
		width = 1
	}
	return &Dispatcher{
		width:   width,
		logger:  logger,
		digests: make(map[uint64]string),
	}
}

// Dispatch schedules a batch of files and returns a channel of results.
// The channel closes once every job of the batch has completed. After
// Teardown, Dispatch returns an already-closed channel.
func (d *Dispatcher) Dispatch(files []SaveFile) <-chan Result {
	results := make(chan Result, len(files))

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatch called after teardown; dropping batch")
		close(results)
		return results
	}
	d.inflight.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.inflight.Done()
		defer close(results)
		if d.width == 1 {
			// no fan-out: run the batch sequentially on this goroutine
			for _, f := range files {
				results <- d.parseOne(f)
			}
			return
		}
		var g errgroup.Group
		g.SetLimit(d.width)
		for _, f := range files {
			f := f
			g.Go(func() error {
				results <- d.parseOne(f)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return results
}

// Teardown waits for in-flight batches to finish and rejects new work.
func (d *Dispatcher) Teardown() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.inflight.Wait()
}

func (d *Dispatcher) parseOne(f SaveFile) (result Result) {
	jobID, err := uuid.NewV4()
	if err != nil {
		panic(err) // reading the system entropy source failed; nothing sane to do
	}
	log := d.logger.WithFields(logrus.Fields{
		"job":  jobID,
		"game": f.Game,
		"path": f.Path,
	})
	start := time.Now()
	result = Result{Game: f.Game, Path: f.Path, JobID: jobID}
	defer func() {
		result.Elapsed = time.Since(start)
		if r := recover(); r != nil {
			result.Tree = nil
			result.Err = fmt.Errorf("panic while parsing %s: %v", f.Path, r)
		}
	}()

	log.Debug("parsing save file")
	gamestate, err := ReadGamestate(f.Path)
	if err != nil {
		result.Err = err
		return result
	}

	if d.SkipDuplicates {
		digest := xxhash.Sum64String(gamestate)
		d.mu.Lock()
		first, dup := d.digests[digest]
		if !dup {
			d.digests[digest] = f.Path
		}
		d.mu.Unlock()
		if dup {
			result.Err = &SaveError{
				Path: f.Path,
				Kind: DuplicateSave,
				Err:  fmt.Errorf("gamestate identical to %s", first),
			}
			return result
		}
	}

	tree, err := saveparser.Parse(gamestate)
	if err != nil {
		result.Err = err
		return result
	}
	result.Tree = tree
	log.WithField("elapsed", time.Since(start)).Debug("parsed save file")
	return result
}
