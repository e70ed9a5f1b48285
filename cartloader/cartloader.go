// Package cartloader reads the assets the machine consumes from disk: the
// 16KiB ROM image and .ct2 tape files. Alongside the decoded data each load
// reports the file's name and SHA1 hash, so the host can identify exactly
// which image a session ran.
package cartloader

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tk2emu/tk2000/emuerrors"
	"github.com/tk2emu/tk2000/hardware/memory/rom"
	"github.com/tk2emu/tk2000/hardware/tape"
)

// Loader describes a loaded asset file.
type Loader struct {
	// Filename as given to the load function.
	Filename string

	// HashSHA1 of the raw file contents.
	HashSHA1 string

	// Data is the raw file contents.
	Data []byte
}

// ShortName returns the base filename without its extension, suitable for
// titles and logs.
func (l Loader) ShortName() string {
	base := filepath.Base(l.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// open reads path in full. Errors wrap emuerrors.ErrAssetMissing and carry
// the path.
func open(path string) (Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loader{}, fmt.Errorf("%w: %s: %v", emuerrors.ErrAssetMissing, path, err)
	}
	return Loader{
		Filename: path,
		HashSHA1: fmt.Sprintf("%x", sha1.Sum(data)),
		Data:     data,
	}, nil
}

// LoadROM reads and validates a 16KiB ROM image.
func LoadROM(path string) (*rom.ROM, Loader, error) {
	ld, err := open(path)
	if err != nil {
		return nil, Loader{}, err
	}
	r, err := rom.New(ld.Data)
	if err != nil {
		return nil, Loader{}, fmt.Errorf("%w: %s: %v", emuerrors.ErrAssetMissing, path, err)
	}
	return r, ld, nil
}

// LoadTape reads and decodes a .ct2 tape file into its half-wave buffer.
func LoadTape(path string) ([]int, Loader, error) {
	ld, err := open(path)
	if err != nil {
		return nil, Loader{}, err
	}
	wave, err := tape.Decode(ld.Data)
	if err != nil {
		return nil, Loader{}, fmt.Errorf("%w: %s: %v", emuerrors.ErrAssetMissing, path, err)
	}
	return wave, ld, nil
}
