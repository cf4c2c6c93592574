package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"nfeditor/metrics"
	"nfeditor/nfe"
	"nfeditor/types"
)

var errNotXML = errors.New("not an xml file")

// FileState selects the directory a handled file is moved to.
type FileState int

const (
	StateArchived FileState = iota
	StateBad
)

// XMLLoader watches the inbox directory and turns stable NF-e files into
// invoice records.
type XMLLoader struct {
	cfg     types.LoaderConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	FileMutex       sync.Mutex
	FileFirstSeen   map[string]time.Time
	FilesProcessing map[string]bool
}

func NewXMLLoader(cfg types.LoaderConfig, m *metrics.Metrics) (*XMLLoader, error) {
	if err := createDirectories(cfg.SourceDir, cfg.ArchiveDir, cfg.BadDir); err != nil {
		return nil, err
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &XMLLoader{
		cfg:             cfg,
		logger:          slog.Default().With("component", "loader"),
		metrics:         m,
		FileFirstSeen:   make(map[string]time.Time),
		FilesProcessing: make(map[string]bool),
	}, nil
}

// WatchFile polls the source directory and sends each file that has been
// seen for longer than MonitoringTime. A file is sent once and stays
// tracked until it leaves the directory.
func (l *XMLLoader) WatchFile(ctx context.Context, fileChan chan<- string) {
	l.logger.Info("start monitoring folder", "dir", l.cfg.SourceDir)

	ticker := time.NewTicker(l.cfg.PollInterval)
	defer ticker.Stop()
	defer l.logger.Info("file watcher stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			files, err := os.ReadDir(l.cfg.SourceDir)
			if err != nil {
				l.logger.Error("error while reading source directory", "error", err)
				continue
			}

			currentFiles := make(map[string]bool)

			for _, file := range files {
				if file.IsDir() {
					continue
				}

				filePath := filepath.Join(l.cfg.SourceDir, file.Name())
				currentFiles[filePath] = true

				l.FileMutex.Lock()
				if l.FilesProcessing[filePath] {
					l.FileMutex.Unlock()
					continue
				}

				firstSeen, exists := l.FileFirstSeen[filePath]
				if !exists {
					l.FileFirstSeen[filePath] = time.Now()
					l.FileMutex.Unlock()
					l.logger.Debug("new file detected", "path", filePath)
					continue
				}

				if time.Since(firstSeen) <= l.cfg.MonitoringTime {
					l.FileMutex.Unlock()
					continue
				}
				l.FilesProcessing[filePath] = true
				l.FileMutex.Unlock()

				select {
				case fileChan <- filePath:
				case <-ctx.Done():
					return
				}
			}

			l.FileMutex.Lock()
			for filePath := range l.FileFirstSeen {
				if !currentFiles[filePath] {
					delete(l.FileFirstSeen, filePath)
					delete(l.FilesProcessing, filePath)
				}
			}
			l.FileMutex.Unlock()
		}
	}
}

// ProcessFile extracts every received file. Records are sent on recChan;
// files that cannot be read as an NF-e go to the bad directory.
func (l *XMLLoader) ProcessFile(ctx context.Context, fileChan <-chan string, recChan chan<- *types.InvoiceRecord) {
	defer l.logger.Info("file processor stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case filePath, ok := <-fileChan:
			if !ok {
				return
			}

			rec, err := l.fetchFile(filePath)
			if err != nil {
				l.logger.Warn("rejecting file", "path", filePath, "error", err)
				l.metrics.RecordLoaderFile("bad")
				if _, err := l.MoveToArchive(filePath, StateBad); err != nil {
					l.logger.Error("error moving file", "path", filePath, "error", err)
				}
				continue
			}

			select {
			case recChan <- rec:
			case <-ctx.Done():
				// Left in the source directory for the next run.
				l.Release(filePath)
				return
			}
		}
	}
}

// Release forgets filePath so the watcher picks it up again once it has
// been stable for MonitoringTime.
func (l *XMLLoader) Release(filePath string) {
	l.FileMutex.Lock()
	delete(l.FilesProcessing, filePath)
	delete(l.FileFirstSeen, filePath)
	l.FileMutex.Unlock()
}

func (l *XMLLoader) fetchFile(filePath string) (*types.InvoiceRecord, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".xml") {
		return nil, errNotXML
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	snap, err := nfe.Extract(string(data))
	l.metrics.RecordExtraction(len(snap.LineItems), err)
	if err != nil {
		return nil, err
	}

	rec := types.NewInvoiceRecord(snap, types.SourceInbox, filePath, fileInfo.ModTime().UTC())
	return &rec, nil
}

// MoveToArchive moves filePath into a dated subdirectory of the archive or
// bad directory and returns the new path. Name clashes get a _N suffix.
func (l *XMLLoader) MoveToArchive(filePath string, state FileState) (string, error) {
	base := l.cfg.ArchiveDir
	if state == StateBad {
		base = l.cfg.BadDir
	}

	destDir := filepath.Join(base, time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	destPath := filepath.Join(destDir, filepath.Base(filePath))
	ext := filepath.Ext(destPath)
	baseName := strings.TrimSuffix(filepath.Base(destPath), ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(destPath); errors.Is(err, os.ErrNotExist) {
			break
		}
		destPath = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", baseName, counter, ext))
	}

	if err := os.Rename(filePath, destPath); err != nil {
		// Rename fails across devices; fall back to copy and remove.
		if err := copyFile(filePath, destPath); err != nil {
			return "", fmt.Errorf("error moving file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
	}

	l.logger.Info("file moved", "from", filePath, "to", destPath)
	return destPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func createDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
