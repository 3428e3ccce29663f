package buildfile

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"
	"time"
)

type cacheEntry struct {
	ModTime time.Time
	Tasks   TaskList
}

// WriteCache gob-encodes a parsed task list keyed by the BUILD file's mtime.
func WriteCache(file string, modTime time.Time, tasks TaskList) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	handle, err := os.Create(file)
	if err != nil {
		return err
	}
	defer handle.Close()

	return gob.NewEncoder(handle).Encode(cacheEntry{ModTime: modTime, Tasks: tasks})
}

// ReadCache returns the cached task list if it matches modTime. Any read or
// decode problem just misses the cache.
func ReadCache(file string, modTime time.Time) (TaskList, bool) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, false
	}
	defer handle.Close()

	var entry cacheEntry
	if err := gob.NewDecoder(handle).Decode(&entry); err != nil {
		return nil, false
	}
	if !entry.ModTime.Equal(modTime) {
		return nil, false
	}
	return entry.Tasks, true
}

// LoadCached loads the BUILD file at path, consulting the gob cache at
// cacheFile when it is fresh. An empty cacheFile disables caching.
func LoadCached(ctx context.Context, path, pkgDir, cacheFile string) (TaskList, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		if tasks, ok := ReadCache(cacheFile, info.ModTime()); ok {
			return tasks, nil
		}
	}

	tasks, err := Load(ctx, path, pkgDir)
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		// A failed cache write only costs the next run a re-parse.
		_ = WriteCache(cacheFile, info.ModTime(), tasks)
	}
	return tasks, nil
}
