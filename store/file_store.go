/*
NAME
  file_store.go

DESCRIPTION
  file_store.go implements Store as a directory of per-controller JSON
  signature files plus a camera backup file, with an fsnotify watch so that
  signatures edited or dropped in externally (e.g. by a companion tool)
  are picked up without restarting the tracker.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"
)

const pkg = "store: "

// FileStore is a Store backed by a directory of JSON files: one per
// controller signature, named "<id>.json", plus a fixed "camera.json"
// backup file.
type FileStore struct {
	dir     string
	log     logging.Logger
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	cache map[string]Signature
}

// NewFileStore returns a FileStore rooted at dir, creating it if absent,
// and starts a background watch that invalidates the in-memory cache when
// a signature file changes on disk.
func NewFileStore(dir string, log logging.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, pkg+"mkdir")
	}
	s := &FileStore{dir: dir, log: log, cache: make(map[string]Signature)}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		// A store without hot-reload still functions; every read simply
		// falls through to disk.
		log.Warning(pkg + "fsnotify unavailable, hot-reload disabled")
		return s, nil
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		log.Warning(pkg+"failed to watch directory", "dir", dir, "error", err)
		return s, nil
	}
	s.watcher = w
	go s.watch()
	return s, nil
}

func (s *FileStore) watch() {
	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Create) == 0 {
				continue
			}
			id := idFromPath(ev.Name)
			if id == "" {
				continue
			}
			s.mu.Lock()
			delete(s.cache, id)
			s.mu.Unlock()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warning(pkg+"watch error", "error", err)
		}
	}
}

func idFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".json" || base == "camera.json" {
		return ""
	}
	return base[:len(base)-len(ext)]
}

func (s *FileStore) sigPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// LoadSignature returns the cached signature for id if present, otherwise
// reads it from disk and populates the cache.
func (s *FileStore) LoadSignature(id string) (Signature, bool, error) {
	s.mu.RLock()
	sig, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return sig, true, nil
	}

	b, err := os.ReadFile(s.sigPath(id))
	if os.IsNotExist(err) {
		return Signature{}, false, nil
	}
	if err != nil {
		return Signature{}, false, errors.Wrap(err, pkg+"read signature")
	}
	if err := json.Unmarshal(b, &sig); err != nil {
		return Signature{}, false, errors.Wrap(err, pkg+"unmarshal signature")
	}

	s.mu.Lock()
	s.cache[id] = sig
	s.mu.Unlock()
	return sig, true, nil
}

// SaveSignature writes sig for id, overwriting any existing file, and
// updates the in-memory cache.
func (s *FileStore) SaveSignature(id string, sig Signature) error {
	b, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return errors.Wrap(err, pkg+"marshal signature")
	}
	if err := os.WriteFile(s.sigPath(id), b, 0o644); err != nil {
		return errors.Wrap(err, pkg+"write signature")
	}
	s.mu.Lock()
	s.cache[id] = sig
	s.mu.Unlock()
	return nil
}

// RemoveSignature deletes id's signature file, if any.
func (s *FileStore) RemoveSignature(id string) error {
	err := os.Remove(s.sigPath(id))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, pkg+"remove signature")
	}
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
	return nil
}

// LoadCameraBackup reads the fixed camera.json backup file.
func (s *FileStore) LoadCameraBackup() ([]byte, bool, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, "camera.json"))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, pkg+"read camera backup")
	}
	return b, true, nil
}

// SaveCameraBackup writes the fixed camera.json backup file.
func (s *FileStore) SaveCameraBackup(blob []byte) error {
	if err := os.WriteFile(filepath.Join(s.dir, "camera.json"), blob, 0o644); err != nil {
		return errors.Wrap(err, pkg+"write camera backup")
	}
	return nil
}

// Close stops the background watch, if any.
func (s *FileStore) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
