package savewatch

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/stellarstats/savewatch/savetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func collect(ch <-chan Result) []Result {
	var results []Result
	for r := range ch {
		results = append(results, r)
	}
	return results
}

// outcome flattens a result into something comparable across runs: job ids
// and timings differ, trees and error kinds must not.
type outcome struct {
	Game string
	Path string
	Err  string
	Keys int
}

func outcomes(results []Result) []outcome {
	var out []outcome
	for _, r := range results {
		o := outcome{Game: r.Game, Path: r.Path}
		if r.Err != nil {
			o.Err = ErrorKind(r.Err)
		} else {
			o.Keys = r.Tree.Len()
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func writeMixedBatch(fixture *savetest.Fixture) []SaveFile {
	fixture.WriteSave("game_a", "001.sav", savetest.SmallGamestate)
	fixture.WriteSave("game_a", "002.sav", "date=\"2350.02.01\"\npops=42")
	fixture.WriteSave("game_b", "001.sav", "date=\"2350.01.01\"\nbroken={ key = }")
	fixture.WriteFile("game_b", "002.sav", []byte("not a zip"))
	fixture.WriteSave("game_c", "001.sav", "stuck=[")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	files, err := m.Scan()
	if err != nil {
		panic(err)
	}
	return files
}

func TestDispatchStreamsResults(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	files := writeMixedBatch(fixture)

	d := NewDispatcher(4, testLogger())
	defer d.Teardown()
	results := collect(d.Dispatch(files))
	require.Len(t, results, len(files))

	byPath := map[string]Result{}
	for _, r := range results {
		byPath[r.Path] = r
	}
	good := byPath[files[0].Path] // game_a/001.sav
	require.NoError(t, good.Err)
	assert.Equal(t, "game_a", good.Game)
	date, ok := good.Tree.String("date")
	require.True(t, ok)
	assert.Equal(t, "2350.01.01", date)
	assert.False(t, good.JobID.IsNil())
	amounts := good.Tree.Values("amount")
	assert.Len(t, amounts, 2)

	// per-file failures are isolated into error results
	assert.Equal(t, "ExpectValue", ErrorKind(byPath[files[2].Path].Err))
	assert.Equal(t, "ArchiveBad", ErrorKind(byPath[files[3].Path].Err))
	assert.Equal(t, "LexStuck", ErrorKind(byPath[files[4].Path].Err))
}

func TestDispatchWidthIndependence(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	files := writeMixedBatch(fixture)

	inline := NewDispatcher(1, testLogger())
	defer inline.Teardown()
	pooled := NewDispatcher(8, testLogger())
	defer pooled.Teardown()

	assert.Equal(t,
		outcomes(collect(inline.Dispatch(files))),
		outcomes(collect(pooled.Dispatch(files))))
}

func TestDispatchEmptyBatch(t *testing.T) {
	d := NewDispatcher(2, testLogger())
	defer d.Teardown()
	assert.Empty(t, collect(d.Dispatch(nil)))
}

func TestTeardownRejectsNewWork(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	f := fixture.WriteSave("game_a", "001.sav", "a=1")

	d := NewDispatcher(2, testLogger())
	d.Teardown()
	results := collect(d.Dispatch([]SaveFile{{Path: f, Game: "game_a"}}))
	assert.Empty(t, results)
}

func TestSkipDuplicates(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	fixture.WriteSave("game_a", "001.sav", savetest.SmallGamestate)
	fixture.WriteSave("game_a", "002.sav", savetest.SmallGamestate) // identical autosave copy
	fixture.WriteSave("game_a", "003.sav", "a=1")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	files, err := m.Scan()
	require.NoError(t, err)

	d := NewDispatcher(1, testLogger())
	defer d.Teardown()
	d.SkipDuplicates = true
	results := collect(d.Dispatch(files))
	require.Len(t, results, 3)

	var dups, parsed int
	for _, r := range results {
		if r.Err != nil {
			assert.Equal(t, "DuplicateSave", ErrorKind(r.Err))
			dups++
		} else {
			parsed++
		}
	}
	assert.Equal(t, 1, dups)
	assert.Equal(t, 2, parsed)
}
