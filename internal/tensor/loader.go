package tensor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a 3-D float array from path, choosing the decoder by file
// extension. Supported: .npy (numpy save) and .nc (NetCDF).
func Load(path string) (*Cube, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".npy":
		return loadNPY(path)
	case ".nc", ".cdf":
		return loadNetCDF(path)
	default:
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported extension %q (want .npy or .nc)", filepath.Ext(path))}
	}
}
