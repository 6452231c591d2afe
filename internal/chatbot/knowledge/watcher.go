package knowledge

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	logx "github.com/sahabatbunda/chatbot-core/pkg/logger"
)

// Watcher hot-reloads knowledge topic files when they change on disk, so a
// content editor can fix a dataset without restarting the service.
type Watcher struct {
	kb      *KnowledgeBase
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher over the knowledge base's data directory.
func NewWatcher(kb *KnowledgeBase) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(kb.dataDir); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{kb: kb, watcher: w}, nil
}

// Run consumes filesystem events until ctx is cancelled. Only writes and
// creates of known topic files trigger a reload; a reload failure keeps the
// previously loaded topic and logs the error.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !isTopicFile(name) {
				continue
			}
			if err := w.kb.reloadTopic(name); err != nil {
				logx.Error().Err(err).Str("file", name).Msg("knowledge reload failed, keeping previous data")
				continue
			}
			logx.Info().Str("file", name).Msg("knowledge topic reloaded")
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logx.Warn().Err(err).Msg("knowledge watcher error")
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func isTopicFile(name string) bool {
	switch name {
	case fileTrimesterNutrition, fileFoodRecommendation, fileFoodDetails, fileStuntingPrevention:
		return true
	}
	return false
}
