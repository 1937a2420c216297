package savewatch

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarstats/savewatch/savetest"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func paths(files []SaveFile) []string {
	var result []string
	for _, f := range files {
		result = append(result, f.Path)
	}
	return result
}

func TestScanFilters(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()

	a1 := fixture.WriteSave("save_A", "001.sav", "a=1")
	a2 := fixture.WriteSave("save_A", "002.sav", "a=2")
	fixture.WriteSave("save_A", "ironman.sav", "a=3")
	fixture.WriteSave("save_mp_B", "001.sav", "a=4")
	fixture.WriteSave("save_A", "notes.txt", "not a save")

	m := NewSavePathMonitor(fixture.Root, "save_A", testLogger())
	files, err := m.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{a1, a2}, paths(files))
	for _, f := range files {
		assert.Equal(t, "save_A", f.Game)
		assert.False(t, f.MTime.IsZero())
	}
}

func TestScanFiltersMultiplayerDirs(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()

	kept := fixture.WriteSave("empire_1", "001.sav", "a=1")
	fixture.WriteSave("mp_empire", "001.sav", "a=2")
	fixture.WriteSave("nested", "ironman_backup/001.sav", "a=3")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	files, err := m.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{kept}, paths(files))
}

func TestScanSortedLexicographically(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()

	// write out of order on purpose
	c := fixture.WriteSave("game_b", "002.sav", "a=1")
	a := fixture.WriteSave("game_a", "001.sav", "a=1")
	b := fixture.WriteSave("game_a", "002.sav", "a=1")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	files, err := m.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, paths(files))
}

func TestScanDoesNotMutateProcessed(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	fixture.WriteSave("game_a", "001.sav", "a=1")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	first, err := m.Scan()
	require.NoError(t, err)
	second, err := m.Scan()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarkSeenThenScanReturnsNothing(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	fixture.WriteSave("game_a", "001.sav", "a=1")
	fixture.WriteSave("game_a", "002.sav", "a=2")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	files, err := m.Scan()
	require.NoError(t, err)
	require.Len(t, files, 2)
	m.MarkSeen(files)

	again, err := m.Scan()
	require.NoError(t, err)
	assert.Empty(t, again)

	// a new file shows up exactly once
	three := fixture.WriteSave("game_a", "003.sav", "a=3")
	files, err = m.Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{three}, paths(files))
}

func TestMarkAllExistingSeen(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	fixture.WriteSave("game_a", "001.sav", "a=1")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	require.NoError(t, m.MarkAllExistingSeen())
	assert.Equal(t, 1, m.ProcessedCount())

	files, err := m.Scan()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRestrictToPrefixReplaysSelectedGame(t *testing.T) {
	fixture := savetest.NewFixture()
	defer fixture.Teardown()
	a := fixture.WriteSave("game_a", "001.sav", "a=1")
	fixture.WriteSave("game_b", "001.sav", "b=1")

	m := NewSavePathMonitor(fixture.Root, "", testLogger())
	require.NoError(t, m.MarkAllExistingSeen())

	m.RestrictToPrefix("game_a")
	files, err := m.Scan()
	require.NoError(t, err)
	// game_a replays from the start; game_b stays processed and is filtered
	// by the new prefix anyway
	assert.Equal(t, []string{a}, paths(files))
	assert.Equal(t, "game_a", filepath.Base(filepath.Dir(a)))
}
