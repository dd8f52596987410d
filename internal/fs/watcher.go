package fs

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileOperation тип операции с файлом
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
	FileRenamed
)

// String возвращает строковое представление операции
func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	case FileRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileChangeEvent событие изменения отслеживаемого файла
type FileChangeEvent struct {
	Path      string
	Operation FileOperation
}

// FileWatcher следит за одним файлом (через его директорию: редакторы и
// интерпретатор часто пересоздают файл, и прямое наблюдение теряется).
type FileWatcher struct {
	watcher *fsnotify.Watcher
	events  chan FileChangeEvent
	log     zerolog.Logger

	mu         sync.Mutex
	target     string
	dir        string
	quietUntil time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewFileWatcher создает наблюдатель и запускает цикл чтения событий.
func NewFileWatcher(ctx context.Context, log zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	fw := &FileWatcher{
		watcher: watcher,
		events:  make(chan FileChangeEvent, 16),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go fw.watchLoop()
	return fw, nil
}

// Events возвращает канал изменений отслеживаемого файла.
func (fw *FileWatcher) Events() <-chan FileChangeEvent {
	return fw.events
}

// Follow переключает наблюдение на path. Пустой path прекращает наблюдение.
func (fw *FileWatcher) Follow(path string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if path == "" {
		fw.unwatchLocked()
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if dir != fw.dir {
		fw.unwatchLocked()
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
		fw.dir = dir
	}
	fw.target = abs
	return nil
}

// Quiet подавляет события на время d, например на время собственного сохранения.
func (fw *FileWatcher) Quiet(d time.Duration) {
	fw.mu.Lock()
	fw.quietUntil = time.Now().Add(d)
	fw.mu.Unlock()
}

// Target возвращает отслеживаемый путь.
func (fw *FileWatcher) Target() string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.target
}

// Close закрывает наблюдатель
func (fw *FileWatcher) Close() error {
	fw.cancel()
	err := fw.watcher.Close()
	<-fw.done
	return err
}

func (fw *FileWatcher) unwatchLocked() {
	if fw.dir != "" {
		_ = fw.watcher.Remove(fw.dir)
	}
	fw.dir = ""
	fw.target = ""
}

// watchLoop главный цикл наблюдения
func (fw *FileWatcher) watchLoop() {
	defer close(fw.done)
	defer close(fw.events)
	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	fw.mu.Lock()
	target := fw.target
	quiet := time.Now().Before(fw.quietUntil)
	fw.mu.Unlock()

	if target == "" || filepath.Clean(event.Name) != target || quiet {
		return
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	change := FileChangeEvent{Path: target, Operation: convertOp(event.Op)}
	select {
	case fw.events <- change:
	case <-fw.ctx.Done():
	default:
		// UI ещё не забрал предыдущее событие, этого достаточно
	}
}

// convertOp конвертирует fsnotify.Op в FileOperation
func convertOp(op fsnotify.Op) FileOperation {
	switch {
	case op.Has(fsnotify.Create):
		return FileCreated
	case op.Has(fsnotify.Write):
		return FileModified
	case op.Has(fsnotify.Remove):
		return FileDeleted
	case op.Has(fsnotify.Rename):
		return FileRenamed
	default:
		return FileModified
	}
}
