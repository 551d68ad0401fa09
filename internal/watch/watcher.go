// Package watch maps filesystem changes in a workspace root onto the
// workspace model: a project marker file appearing adds the project, its
// removal removes it. Events are debounced so editors that write in several
// steps produce one model mutation.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/hostsync/config"
	"github.com/grovetools/hostsync/errors"
	"github.com/grovetools/hostsync/logging"
	"github.com/grovetools/hostsync/pkg/project"
	"github.com/grovetools/hostsync/pkg/workspace"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// MarkerSuffix identifies project definition files inside a workspace root.
const MarkerSuffix = ".hsproj.yml"

const defaultDebounceMs = 100

// Watcher drives a workspace.Model from filesystem events. Run processes all
// events on the calling goroutine, which therefore becomes the model's
// coordinating goroutine.
type Watcher struct {
	root     string
	model    *workspace.Model
	watcher  *fsnotify.Watcher
	matcher  *patternmatcher.PatternMatcher
	debounce time.Duration
	log      *logrus.Entry

	// onApply, when set, is called after each debounced batch is applied,
	// with the number of projects added and removed.
	onApply func(added, removed int)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger overrides the default component logger.
func WithLogger(log *logrus.Entry) Option {
	return func(w *Watcher) { w.log = log }
}

// WithApplyCallback registers a callback invoked on the Run goroutine after
// each batch of changes is applied to the model.
func WithApplyCallback(f func(added, removed int)) Option {
	return func(w *Watcher) { w.onApply = f }
}

// NewWatcher creates a watcher over root. Existing subdirectories are watched
// too; directories created later are picked up as they appear.
func NewWatcher(root string, model *workspace.Model, cfg config.WatchConfig, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeWatchFailed, "failed to create filesystem watcher")
	}

	var matcher *patternmatcher.PatternMatcher
	if len(cfg.Ignore) > 0 {
		matcher, err = patternmatcher.New(cfg.Ignore)
		if err != nil {
			fsw.Close()
			return nil, errors.Wrap(err, errors.ErrCodeWatchFailed, "invalid ignore patterns")
		}
	}

	debounce := time.Duration(cfg.DebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = defaultDebounceMs * time.Millisecond
	}

	w := &Watcher{
		root:     root,
		model:    model,
		watcher:  fsw,
		matcher:  matcher,
		debounce: debounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logging.NewLogger("watcher")
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addTree watches root and every non-ignored subdirectory beneath it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeWatchFailed, "failed to walk workspace root").
				WithDetail("path", path)
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrap(err, errors.ErrCodeWatchFailed, "failed to watch directory").
				WithDetail("path", path)
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	if w.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	matched, err := w.matcher.MatchesOrParentMatches(rel)
	if err != nil {
		return false
	}
	return matched
}

// Run processes filesystem events until ctx is cancelled. The calling
// goroutine becomes the coordinating goroutine for the underlying model.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}

			// New directories join the watch set immediately.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(ev.Name); err != nil {
						w.log.WithError(err).Warnf("Failed to watch new directory %s", ev.Name)
					}
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, MarkerSuffix) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timerC = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Filesystem watcher error")

		case <-timerC:
			w.apply(pending)
			pending = make(map[string]struct{})
			timerC = nil
		}
	}
}

// apply reconciles each pending marker path against the filesystem: present
// markers become open projects, vanished ones are removed.
func (w *Watcher) apply(pending map[string]struct{}) {
	added, removed := 0, 0
	for path := range pending {
		id := projectID(path)
		if _, err := os.Stat(path); err == nil {
			if w.model.FindByID(id) == nil {
				if _, err := w.model.Add(id, path); err != nil {
					w.log.WithError(err).Warnf("Failed to add project %s", id)
					continue
				}
				added++
			}
		} else {
			if w.model.Remove(id) {
				removed++
			}
		}
	}

	if added > 0 || removed > 0 {
		w.log.WithFields(logrus.Fields{"added": added, "removed": removed}).
			Debug("Applied workspace changes")
	}
	if w.onApply != nil {
		w.onApply(added, removed)
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// projectID derives a project's identity from its marker file path.
func projectID(path string) project.ID {
	return project.ID(strings.TrimSuffix(filepath.Base(path), MarkerSuffix))
}
