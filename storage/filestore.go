package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateFileExt ist die Endung aller abgelegten Template-Dateien.
const TemplateFileExt = ".html"

// ErrOutsideHome wird zurückgegeben, wenn ein Pfad nicht unterhalb von TEMPLATE_HOME liegt.
var ErrOutsideHome = errors.New("path is outside the template home")

// FileInfo beschreibt eine abgelegte Template-Datei.
type FileInfo struct {
	Path    string
	ModTime time.Time
}

// FileStore legt Template-Dokumente als Dateien unterhalb eines Home-Verzeichnisses ab.
// Es schreibt nie außerhalb dieses Verzeichnisses.
type FileStore struct {
	home   string
	logger *zap.Logger
}

// NewFileStore legt das Home-Verzeichnis bei Bedarf an.
func NewFileStore(home string, logger *zap.Logger) (*FileStore, error) {
	if strings.TrimSpace(home) == "" {
		return nil, errors.New("template home is not configured")
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("resolve template home: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create template home: %w", err)
	}
	return &FileStore{home: abs, logger: logger.With(zap.String("template_home", abs))}, nil
}

// Home gibt das absolute Home-Verzeichnis zurück.
func (s *FileStore) Home() string {
	return s.home
}

// Write speichert content unter einem frisch erzeugten, kollisionsfreien Namen und gibt den
// absoluten Pfad zurück.
func (s *FileStore) Write(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.home, uuid.NewString()+TemplateFileExt)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	_, err = f.Write(content)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	s.logger.Debug("Template-Datei geschrieben", zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}

// Read liest die Datei unter path.
func (s *FileStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Delete entfernt die Datei unter path. Pfade außerhalb des Home-Verzeichnisses werden
// abgelehnt. Fehlt die Datei, wird ein Fehler zurückgegeben, der fs.ErrNotExist erfüllt.
func (s *FileStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.Contains(path) {
		return fmt.Errorf("%w: %s", ErrOutsideHome, path)
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	s.logger.Debug("Template-Datei gelöscht", zap.String("path", path))
	return nil
}

// Contains prüft, ob path unterhalb des Home-Verzeichnisses liegt.
func (s *FileStore) Contains(path string) bool {
	if path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(s.home, abs)
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// List gibt alle Template-Dateien direkt im Home-Verzeichnis zurück.
func (s *FileStore) List(ctx context.Context) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.home)
	if err != nil {
		return nil, err
	}
	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), TemplateFileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // zwischenzeitlich gelöscht
			}
			return nil, err
		}
		files = append(files, FileInfo{Path: filepath.Join(s.home, e.Name()), ModTime: info.ModTime()})
	}
	return files, nil
}
