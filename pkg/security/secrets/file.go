package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider resolves secrets from one-file-per-secret mounts, the
// shape Kubernetes and most container platforms project secrets in.
// The secret name is the file name inside the mount directory.
//
// Files must be readable only by the owner (0600 or 0400); anything
// wider is refused rather than read. With watching enabled, a changed
// or removed file invalidates just that secret, so rotation takes
// effect on the next lookup.
type FileProvider struct {
	dir string

	mu     sync.RWMutex
	loaded map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileProvider creates a file-based secret provider rooted at dir.
func NewFileProvider(dir string, watch bool) (*FileProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", dir)
	}

	p := &FileProvider{
		dir:    dir,
		loaded: make(map[string]string),
		done:   make(chan struct{}),
	}

	if watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}
		p.watcher = w
		go p.watchLoop()
	}

	slog.Info("file secret provider started", "path", dir, "watch", watch)
	return p, nil
}

// GetSecret reads the secret file for name, serving repeated lookups
// from memory until the file changes or Refresh is called.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	value, ok := p.loaded[name]
	p.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err := p.readSecret(name)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.loaded[name] = value
	p.mu.Unlock()
	return value, nil
}

// readSecret validates the path and permissions and reads one file.
func (p *FileProvider) readSecret(name string) (string, error) {
	path, err := p.securePath(name)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("secret file not found: %s", name)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}
	if mode := info.Mode().Perm(); mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- securePath confines the name to the mount dir
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// securePath joins name onto the mount directory, refusing names that
// would resolve outside it.
func (p *FileProvider) securePath(name string) (string, error) {
	base, err := filepath.Abs(p.dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	path, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}

	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret name %q: escapes the mount directory", name)
	}
	return path, nil
}

// ListSecrets returns the names of the regular files in the mount
// directory. Values are never included.
func (p *FileProvider) ListSecrets(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if info, err := entry.Info(); err == nil && info.Mode().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}

// Supports reports whether a file for name exists in the mount
// directory.
func (p *FileProvider) Supports(name string) bool {
	path, err := p.securePath(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Refresh drops every loaded value so the next lookup re-reads its
// file.
func (p *FileProvider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.loaded = make(map[string]string)
	p.mu.Unlock()

	slog.Debug("file secrets dropped for re-read")
	return nil
}

// Close stops the watcher, if one is running.
func (p *FileProvider) Close() error {
	if p.watcher == nil {
		return nil
	}
	close(p.done)
	return p.watcher.Close()
}

// watchLoop invalidates individual secrets as their files change.
func (p *FileProvider) watchLoop() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			name := filepath.Base(event.Name)
			p.mu.Lock()
			delete(p.loaded, name)
			p.mu.Unlock()

			slog.Debug("secret file changed", "secret_file", name, "op", event.Op.String())

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("secret file watcher error", "error", err)

		case <-p.done:
			return
		}
	}
}
