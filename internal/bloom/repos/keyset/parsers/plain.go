package parsers

import (
	"bufio"
	"io"
	"strings"
	"time"

	logpkg "github.com/haukened/rr-bloom/internal/bloom/common/log"
	"github.com/haukened/rr-bloom/internal/bloom/common/utils"
	"github.com/haukened/rr-bloom/internal/bloom/domain"
)

// maxLineBytes bounds a single scanned line; longer lines fail the parse.
const maxLineBytes = 64 * 1024

// Options tunes ParseKeyList.
type Options struct {
	// FoldCase lowercases keys so lookups are case-insensitive.
	FoldCase bool
	// KeepHash disables '#' comment handling for key sets where '#' is data.
	KeepHash bool
}

// ParseKeyList parses a newline-delimited list of keys.
//
// Behavior:
// - Supports comments starting with '#' (inline or whole-line) unless KeepHash is set
// - Strips a leading BOM and surrounding whitespace; folds case when FoldCase is set
// - Skips empty lines and keys longer than domain.MaxKeyLength
// - De-duplicates while preserving first-seen order
// - Each key is attributed to source and timestamped with now
func ParseKeyList(r io.Reader, source string, logger logpkg.Logger, now time.Time, opts Options) ([]domain.Key, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)

	seen := make(map[string]struct{})
	out := make([]domain.Key, 0, 256)
	logger.Debug(map[string]any{"source": source}, "parse_key_list_start")
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if !opts.KeepHash {
			trimmed := strings.TrimSpace(strings.TrimPrefix(line, "\uFEFF"))
			if strings.HasPrefix(trimmed, "#") {
				logger.Debug(map[string]any{"line": lineNum}, "skip_comment")
				continue
			}
			if idx := strings.IndexByte(line, '#'); idx >= 0 {
				line = line[:idx]
			}
		}

		name := utils.CanonicalKey(line, opts.FoldCase)
		if name == "" {
			logger.Debug(map[string]any{"line": lineNum}, "skip_empty")
			continue
		}
		if _, ok := seen[name]; ok {
			logger.Debug(map[string]any{"line": lineNum, "key": name}, "skip_duplicate")
			continue
		}

		key, err := domain.NewKey(name, source, now)
		if err != nil {
			// Skip invalid entries rather than failing the entire parse.
			logger.Debug(map[string]any{"line": lineNum, "error": err.Error()}, "skip_invalid_key")
			continue
		}
		out = append(out, key)
		seen[name] = struct{}{}
	}

	if err := scanner.Err(); err != nil {
		logger.Debug(map[string]any{"source": source, "error": err.Error()}, "parse_key_list_scan_error")
		return nil, err
	}
	logger.Debug(map[string]any{"source": source, "count": len(out)}, "parse_key_list_done")
	return out, nil
}
