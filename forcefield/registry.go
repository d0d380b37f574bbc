/*
 * registry.go, part of ffinspector.
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package forcefield

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

//go:embed data/*.yaml
var builtin embed.FS

//extensions of the files the registry reads from a directory.
var documentExtensions = []string{".yaml", ".yml", ".json"}

//Registry is a named collection of force fields, safe for concurrent use. Get returns
//copies, so callers never share force fields with the registry.
type Registry struct {
	mu     sync.RWMutex
	ffs    map[string]*ForceField
	logger *zap.Logger
}

//NewRegistry returns a registry with the built-in force fields. Every built-in force
//field with constraints is also registered without them, with "_unconstrained" added
//to the name before the version (e.g. reference_unconstrained-1.0.0). A nil logger
//means zap.L().
func NewRegistry(logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.L()
	}
	R := &Registry{ffs: make(map[string]*ForceField), logger: logger}
	entries, err := builtin.ReadDir("data")
	if err != nil {
		return nil, Error{fmt.Sprintf("reading built-in force fields: %s", err.Error()), []string{"NewRegistry"}, true}
	}
	for _, e := range entries {
		data, err := builtin.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, Error{fmt.Sprintf("reading built-in force field %s: %s", e.Name(), err.Error()), []string{"NewRegistry"}, true}
		}
		F, err := Parse(data)
		if err != nil {
			return nil, errDecorate(err, "NewRegistry: "+e.Name())
		}
		if F.Name == "" {
			F.Name = documentName(e.Name())
		}
		R.Add(F)
		if F.NumParameters(Constraints) > 0 {
			U := F.WithoutHandler(Constraints)
			U.Name = UnconstrainedName(F.Name)
			R.Add(U)
		}
	}
	return R, nil
}

//UnconstrainedName returns the name given to the variant of the force field name without constraints.
func UnconstrainedName(name string) string {
	if i := strings.Index(name, "-"); i >= 0 {
		return name[:i] + "_unconstrained" + name[i:]
	}
	return name + "_unconstrained"
}

func documentName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func isDocument(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range documentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

//Add registers F under its name, replacing any force field with that name.
func (R *Registry) Add(F *ForceField) {
	R.mu.Lock()
	defer R.mu.Unlock()
	R.ffs[F.Name] = F
}

//Remove unregisters the force field with the given name, if any.
func (R *Registry) Remove(name string) {
	R.mu.Lock()
	defer R.mu.Unlock()
	delete(R.ffs, name)
}

//Names returns the names of the registered force fields, sorted.
func (R *Registry) Names() []string {
	R.mu.RLock()
	defer R.mu.RUnlock()
	ret := make([]string, 0, len(R.ffs))
	for k := range R.ffs {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Get returns a copy of the force field with the given name.
func (R *Registry) Get(name string) (*ForceField, error) {
	R.mu.RLock()
	F, ok := R.ffs[name]
	R.mu.RUnlock()
	if !ok {
		return nil, Error{fmt.Sprintf("unknown force field %q", name), []string{"Registry.Get"}, true}
	}
	return F.Copy(), nil
}

//loadFile reads one document and registers it. Documents without a name take the
//file name, without extension.
func (R *Registry) loadFile(path string) (string, error) {
	F, err := LoadFile(path)
	if err != nil {
		return "", errDecorate(err, "Registry.loadFile")
	}
	if F.Name == "" {
		F.Name = documentName(path)
	}
	R.Add(F)
	return F.Name, nil
}

//LoadDir registers every force field document (.yaml, .yml or .json) in dir and returns
//how many were read. Other files are skipped with a warning. It stops at the first
//document that can't be read.
func (R *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, Error{fmt.Sprintf("reading force field directory: %s", err.Error()), []string{"Registry.LoadDir"}, true}
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isDocument(path) {
			R.logger.Warn("skipping unsupported file in force field directory", zap.String("file", path))
			continue
		}
		name, err := R.loadFile(path)
		if err != nil {
			return n, errDecorate(err, "Registry.LoadDir")
		}
		R.logger.Info("loaded force field", zap.String("name", name), zap.String("file", path))
		n++
	}
	return n, nil
}

//Watch follows changes to the documents in dir and updates the registry: created and
//modified documents are (re)loaded, documents that can't be read are logged and ignored.
//Removed files are not unregistered, since the name is only known from the document.
//Watch blocks until ctx is done.
func (R *Registry) Watch(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Error{fmt.Sprintf("creating watcher: %s", err.Error()), []string{"Registry.Watch"}, true}
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return Error{fmt.Sprintf("watching %s: %s", dir, err.Error()), []string{"Registry.Watch"}, true}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isDocument(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name, err := R.loadFile(event.Name)
			if err != nil {
				R.logger.Warn("could not reload force field", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			R.logger.Info("reloaded force field", zap.String("name", name), zap.String("file", event.Name))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			R.logger.Warn("force field watcher error", zap.Error(err))
		}
	}
}
