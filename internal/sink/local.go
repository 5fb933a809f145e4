package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JakeFAU/news-scraper/internal/scrape"
)

// LocalConfig captures the parameters for the filesystem sink.
type LocalConfig struct {
	// BaseDir is the directory payload files are written to.
	BaseDir string `mapstructure:"base_dir"`
	// Path, when set, overrides the generated file name for every save.
	Path string `mapstructure:"path"`
}

// Local writes payload JSON files to the local filesystem.
type Local struct {
	baseDir string
	path    string
}

// NewLocal creates a filesystem sink rooted at cfg.BaseDir, creating the
// directory if needed.
func NewLocal(cfg LocalConfig) (*Local, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" && strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("base directory or explicit path is required")
	}
	if cfg.BaseDir != "" {
		info, err := os.Stat(cfg.BaseDir)
		switch {
		case os.IsNotExist(err):
			if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
				return nil, fmt.Errorf("create base directory: %w", mkErr)
			}
		case err != nil:
			return nil, fmt.Errorf("stat base directory: %w", err)
		case !info.IsDir():
			return nil, fmt.Errorf("base directory path is not a directory")
		}
	}
	return &Local{baseDir: cfg.BaseDir, path: cfg.Path}, nil
}

// Save writes the payload as indented JSON and returns the file path.
func (l *Local) Save(_ context.Context, payload scrape.Payload) (string, error) {
	target := l.path
	if target == "" {
		target = filepath.Join(l.baseDir, ObjectName(payload.Source, payload.GeneratedAt))
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return "", fmt.Errorf("write payload file: %w", err)
	}
	return target, nil
}
