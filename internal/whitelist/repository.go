package whitelist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hostgate/internal/constants"
	apperrors "hostgate/pkg/errors"
)

// Repository supplies the raw rule strings for a reload.
type Repository interface {
	LoadPatterns(ctx context.Context) ([]string, error)
	Source() string
}

const defaultRulesFile = `# Hostname & IP Whitelist
# Add one hostname or IP per line
# Use * as wildcard for subdomains or IP ranges
#
# Examples:
# *.example.com    - Allows all subdomains of example.com
# example.com      - Allows exact hostname match
# 192.168.1.1      - Allows exact IP address
# 192.168.1.*      - Allows IP range 192.168.1.0-255
# 10.*.*.*         - Allows all 10.x.x.x addresses
#
# Lines starting with # are comments

*.example.com
example.com
`

type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Source() string {
	return constants.SourceTypeFile
}

func (r *FileRepository) Path() string {
	return r.path
}

// LoadPatterns reads the rules file, writing the default one first if it is missing.
func (r *FileRepository) LoadPatterns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := WriteDefaultRules(r.path); err != nil {
		return nil, apperrors.ErrRuleSource.WithCause(err)
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to open rules file %s: %w", r.path, err))
	}
	defer f.Close()

	patterns, err := ParseRules(f)
	if err != nil {
		return nil, apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to read rules file %s: %w", r.path, err))
	}
	return patterns, nil
}

// WriteDefaultRules creates the rules file with commented examples. An existing
// file is left untouched.
func WriteDefaultRules(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat rules file %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create rules directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultRulesFile), 0o644); err != nil {
		return fmt.Errorf("failed to write default rules file %s: %w", path, err)
	}
	return nil
}

// ParseRules returns one rule per non-blank line. Lines are trimmed and lines
// starting with '#' are skipped.
func ParseRules(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if rule, ok := parseRuleLine(scanner.Text()); ok {
			patterns = append(patterns, rule)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func parseRuleLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return line, true
}
