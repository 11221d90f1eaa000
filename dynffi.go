package dynffi

import (
	"github.com/wippyai/dynffi/config"
	"github.com/wippyai/dynffi/dylib"
)

// Open reads the manifest at path and loads the library it describes.
func Open(path string) (*dylib.Library, error) {
	m, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return dylib.LoadManifest(m)
}

// OpenLibrary is Open with the manifest's library path replaced.
func OpenLibrary(manifest, library string) (*dylib.Library, error) {
	m, err := config.Load(manifest)
	if err != nil {
		return nil, err
	}
	m.Library = library
	return dylib.LoadManifest(m)
}
