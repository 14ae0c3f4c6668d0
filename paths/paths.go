// This file is part of pcmem.
//
// pcmem is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// pcmem is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with pcmem.  If not, see <https://www.gnu.org/licenses/>.

// Package paths resolves paths to pcmem resources, such as the memory.prefs
// preferences file.
//
// The policy is the same one the teacher project uses: if a ".pcmem"
// directory exists in the current working directory, resources live there;
// otherwise they live under the user's config directory
// (os.UserConfigDir()/pcmem).
package paths

import (
	"os"
	"path/filepath"
)

const baseResourceDir = ".pcmem"

// ResourcePath returns the path formed by joining the resolved base
// directory with the supplied path segments. The directory is created if it
// does not already exist.
func ResourcePath(resource ...string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	p := append([]string{base}, resource...)
	pth := filepath.Join(p...)

	if err := os.MkdirAll(filepath.Dir(pth), 0700); err != nil {
		return "", err
	}

	return pth, nil
}

func basePath() (string, error) {
	if fi, err := os.Stat(baseResourceDir); err == nil && fi.IsDir() {
		return baseResourceDir, nil
	}

	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cfg, "pcmem"), nil
}
