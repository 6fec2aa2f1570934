package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"linkie-web/internal/ports"
	"linkie-web/internal/shared"
	"linkie-web/internal/types"
)

const dependencyFilePattern = "**/*.{yaml,yml}"

const defaultWatchDebounce = 500 * time.Millisecond

// DependencyFileSource serves dependency records read from a directory of
// yaml files, one component per file. Readers always see one complete
// snapshot; Refresh swaps it atomically.
type DependencyFileSource struct {
	Dir string

	mu         sync.RWMutex
	components []types.DependencyComponent
	loaded     bool
}

func NewDependencyFileSource(dir string) *DependencyFileSource {
	return &DependencyFileSource{Dir: dir}
}

func (s *DependencyFileSource) Components(ctx context.Context) ([]types.DependencyComponent, error) {
	s.mu.RLock()
	if s.loaded {
		components := s.components
		s.mu.RUnlock()
		return components, nil
	}
	s.mu.RUnlock()
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.components, nil
}

func (s *DependencyFileSource) Refresh(ctx context.Context) error {
	components, err := s.read(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.components = components
	s.loaded = true
	s.mu.Unlock()
	records := 0
	for _, component := range components {
		records += len(component.Records)
	}
	log.Ctx(ctx).Info().
		Str("dir", s.Dir).
		Int("components", len(components)).
		Int("records", records).
		Msg("dependency records refreshed")
	return nil
}

func (s *DependencyFileSource) read(ctx context.Context) ([]types.DependencyComponent, error) {
	info, err := os.Stat(s.Dir)
	if err != nil || !info.IsDir() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("dependency directory not found: %s", s.Dir)).
			WithCause(err)
	}
	matches, err := doublestar.Glob(os.DirFS(s.Dir), dependencyFilePattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to list dependency files").
			WithCause(err)
	}
	slices.Sort(matches)

	var components []types.DependencyComponent
	index := map[string]int{}
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := readDependencyFile(filepath.Join(s.Dir, filepath.FromSlash(match)))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(file.Component)
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(match), filepath.Ext(match))
		}
		idx, ok := index[name]
		if !ok {
			idx = len(components)
			index[name] = idx
			components = append(components, types.DependencyComponent{Name: name})
		}
		components[idx].Records = append(components[idx].Records, RecordsFromFile(name, file)...)
	}
	return components, nil
}

func readDependencyFile(path string) (types.DependencyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DependencyFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read dependency file").
			WithCause(err)
	}
	var file types.DependencyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.DependencyFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse dependency file: %s", path)).
			WithCause(err)
	}
	return file, nil
}

// RecordsFromFile expands a component file into records, dropping
// entries without a loader or version.
func RecordsFromFile(component string, file types.DependencyFile) []types.DependencyRecord {
	records := make([]types.DependencyRecord, 0, len(file.Versions))
	for _, entry := range file.Versions {
		loader := shared.NormalizeID(entry.Loader)
		version := strings.TrimSpace(entry.Version)
		if loader == "" || version == "" {
			continue
		}
		records = append(records, types.DependencyRecord{
			Loader:       loader,
			Version:      version,
			Component:    component,
			Stable:       entry.Stable,
			Mavens:       entry.Mavens,
			Dependencies: entry.Dependencies,
		})
	}
	return records
}

// Watch refreshes the source whenever a yaml file below Dir changes.
// Bursts of events are coalesced. It returns when ctx is done.
func (s *DependencyFileSource) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create dependency watcher").
			WithCause(err)
	}
	defer watcher.Close()
	if err := addWatchDirs(watcher, s.Dir); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("dir", s.Dir).Dur("debounce", debounce).Msg("watching dependency records")

	ticker := time.NewTicker(debounce)
	defer ticker.Stop()
	pending := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Ctx(ctx).Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
					continue
				}
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if ext == ".yaml" || ext == ".yml" {
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Ctx(ctx).Error().Err(err).Msg("dependency watcher error")
		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			if err := s.Refresh(ctx); err != nil {
				log.Ctx(ctx).Error().Err(err).Msg("dependency refresh failed, keeping previous snapshot")
			}
		}
	}
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		base := entry.Name()
		if strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to watch %s", path)).
				WithCause(err)
		}
		return nil
	})
}

// RunRefreshCycle calls Refresh every interval until ctx is done. Failed
// refreshes are logged and the previous snapshot stays in place.
func RunRefreshCycle(ctx context.Context, refresher ports.DependencyRefresherPort, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := refresher.Refresh(ctx); err != nil {
				log.Ctx(ctx).Error().Err(err).Msg("scheduled dependency refresh failed")
			}
		}
	}
}

var (
	_ ports.DependencyRecordSourcePort = (*DependencyFileSource)(nil)
	_ ports.DependencyRefresherPort    = (*DependencyFileSource)(nil)
)
