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

package memory

import (
	"github.com/retropc/pcmem/paths"
	"github.com/retropc/pcmem/prefs"
)

// ConfigGroup wraps the prefs.Group backing one Config, keeping the cells
// alive so later Save calls see whatever the last Load left behind.
type ConfigGroup struct {
	group      *prefs.Group
	memSizeMB  *prefs.Int
	memSizeKB  *prefs.Int
	memAlias   *prefs.Int
	memoryFile *prefs.String
	a20Mode    *prefs.String
	port92     *prefs.Bool
}

// NewConfigGroup registers one prefs.Group cell per spec.md §6
// configuration key, backed by the pcmem resource file "memory.prefs".
func NewConfigGroup() (*ConfigGroup, error) {
	path, err := paths.ResourcePath("memory.prefs")
	if err != nil {
		return nil, err
	}

	cg := &ConfigGroup{
		group:      prefs.NewDisk(path),
		memSizeMB:  prefs.NewInt(16),
		memSizeKB:  prefs.NewInt(0),
		memAlias:   prefs.NewInt(0),
		memoryFile: prefs.NewString(""),
		a20Mode:    prefs.NewString("mask"),
		port92:     prefs.NewBool(true),
	}

	if err := cg.group.Add("memsize", cg.memSizeMB); err != nil {
		return nil, err
	}
	if err := cg.group.Add("memsizekb", cg.memSizeKB); err != nil {
		return nil, err
	}
	if err := cg.group.Add("memalias", cg.memAlias); err != nil {
		return nil, err
	}
	if err := cg.group.Add("memory file", cg.memoryFile); err != nil {
		return nil, err
	}
	if err := cg.group.Add("a20", cg.a20Mode); err != nil {
		return nil, err
	}
	if err := cg.group.Add("enable port 92", cg.port92); err != nil {
		return nil, err
	}

	return cg, nil
}

// Load reads memory.prefs from disk, if present, and returns the Config it
// describes.
func (cg *ConfigGroup) Load(cpuClass CPUClass, pciEnabled, strictISAHole bool) (Config, error) {
	if err := cg.group.Load(true); err != nil {
		return Config{}, err
	}
	return Config{
		MemSizeMB:     uint32(cg.memSizeMB.Get().(int)),
		MemSizeKB:     uint32(cg.memSizeKB.Get().(int)),
		MemAliasBits:  uint32(cg.memAlias.Get().(int)),
		CPUClass:      cpuClass,
		MemoryFile:    cg.memoryFile.Get().(string),
		A20Mode:       cg.a20Mode.Get().(string),
		EnablePort92:  cg.port92.Get().(bool),
		PCIEnabled:    pciEnabled,
		StrictISAHole: strictISAHole,
	}, nil
}

// Save writes the current cell values back to memory.prefs.
func (cg *ConfigGroup) Save() error {
	return cg.group.Save()
}
