package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"genaid/internal/common/fsutil"
	"genaid/pkg/types"
)

// manifestName marks a directory as an OpenVINO model: the engine loads the
// whole directory, not a single file.
const manifestName = "openvino_model.xml"

// LoadDir scans a directory for OpenVINO model folders and builds a registry
// from directory names. ID and Name are the folder name; Path is the
// absolute folder path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := filepath.Join(abs, e.Name())
		if !fsutil.PathExists(filepath.Join(p, manifestName)) {
			continue
		}
		models = append(models, types.Model{ID: e.Name(), Name: e.Name(), Path: p})
	}
	return models, nil
}
