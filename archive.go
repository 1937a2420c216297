package savewatch

import (
	"archive/zip"
	"io"
	"unicode/utf8"
)

// GamestateEntry is the name of the one archive entry we care about. Save
// archives carry other entries (meta, screenshots); those are ignored.
const GamestateEntry = "gamestate"

// ReadGamestate opens a save archive and returns the gamestate document as
// text. The caller is expected to have filtered out binary ironman saves;
// those fail here with DecodeBad at best.
func ReadGamestate(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", &SaveError{Path: path, Kind: ArchiveBad, Err: err}
	}
	defer zr.Close()

	f, err := zr.Open(GamestateEntry)
	if err != nil {
		return "", &SaveError{Path: path, Kind: EntryMissing, Err: err}
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return "", &SaveError{Path: path, Kind: ArchiveBad, Err: err}
	}
	if !utf8.Valid(buf) {
		return "", &SaveError{Path: path, Kind: DecodeBad}
	}
	return string(buf), nil
}
