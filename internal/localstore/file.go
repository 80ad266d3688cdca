package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var errCorruptFile = errors.New("localstore: file is not a JSON object")

// File keeps all keys in one JSON object file. Writes replace the file
// atomically, so several processes may share it; last writer wins.
type File struct {
	path string
	log  *zap.Logger

	mu       sync.Mutex
	watchers map[*fileWatch]struct{}
}

type fileWatch struct {
	snapshot map[string]string
}

// FileOption configures a File.
type FileOption func(*File)

// WithFileLogger sets the logger used to report a corrupt file.
func WithFileLogger(l *zap.Logger) FileOption {
	return func(f *File) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFile opens a file-backed storage at path. The file is created on first write.
func NewFile(path string, opts ...FileOption) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("localstore: resolve %s: %w", path, err)
	}
	f := &File{
		path:     abs,
		log:      zap.NewNop(),
		watchers: make(map[*fileWatch]struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, _, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	if err := f.write(data); err != nil {
		return err
	}
	for w := range f.watchers {
		w.snapshot[key] = value
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, corrupt, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok && !corrupt {
		return nil
	}
	delete(data, key)
	if err := f.write(data); err != nil {
		return err
	}
	for w := range f.watchers {
		delete(w.snapshot, key)
	}
	return nil
}

// Changes watches the file for writes by other processes and reports each
// key whose value changed.
func (f *File) Changes(ctx context.Context) (<-chan Change, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("localstore: create %s: %w", dir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("localstore: watch: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("localstore: watch %s: %w", dir, err)
	}

	f.mu.Lock()
	snapshot, err := f.read()
	if err != nil {
		snapshot = map[string]string{}
	}
	w := &fileWatch{snapshot: snapshot}
	f.watchers[w] = struct{}{}
	f.mu.Unlock()

	out := make(chan Change, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() {
			f.mu.Lock()
			delete(f.watchers, w)
			f.mu.Unlock()
			_ = watcher.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != f.path {
					continue
				}
				for _, c := range f.diff(w) {
					select {
					case out <- c:
					default:
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *File) diff(w *fileWatch) []Change {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := f.read()
	if err != nil {
		// half-written or foreign content; wait for the next event
		return nil
	}
	var changes []Change
	for k, v := range current {
		if old, ok := w.snapshot[k]; !ok || old != v {
			changes = append(changes, Change{Key: k, Value: v, Origin: "file:" + f.path})
		}
	}
	for k := range w.snapshot {
		if _, ok := current[k]; !ok {
			changes = append(changes, Change{Key: k, Deleted: true, Origin: "file:" + f.path})
		}
	}
	w.snapshot = current
	return changes
}

// load reads the file for Get, Set and Remove. Undecodable content reads as
// empty and corrupt is set, so the next write replaces the file.
func (f *File) load() (data map[string]string, corrupt bool, err error) {
	data, err = f.read()
	if errors.Is(err, errCorruptFile) {
		f.log.Warn("local storage file is corrupt, treating it as empty",
			zap.String("path", f.path), zap.Error(err))
		return map[string]string{}, true, nil
	}
	return data, false, err
}

func (f *File) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localstore: read %s: %w", f.path, err)
	}
	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorruptFile, f.path, err)
	}
	return data, nil
}

func (f *File) write(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("localstore: create %s: %w", dir, err)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".local_storage-*")
	if err != nil {
		return fmt.Errorf("localstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("localstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("localstore: write: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("localstore: replace %s: %w", f.path, err)
	}
	return nil
}
