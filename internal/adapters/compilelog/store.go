// Package compilelog implements the persisted compile log: one CSV file per
// build output directory mapping object paths to the command and
// preprocessed-content hash that produced them.
package compilelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Column names of the log file. The header is a persisted contract: a file
// whose header does not match exactly is treated as absent.
const (
	colObjPath          = "objPath"
	colCompileCmd       = "compileCmd"
	colPreprocessedHash = "preprocessedHash"
)

var _ ports.CompileLog = (*Store)(nil)

// Store holds the prior run's records (read-only after Load) and the
// current run's records (inserted concurrently by target pipelines).
type Store struct {
	mu   sync.RWMutex
	prev map[string]domain.Record
	cur  map[string]domain.Record
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		prev: make(map[string]domain.Record),
		cur:  make(map[string]domain.Record),
	}
}

// Load reads the prior-run log at path. Every failure mode short of a
// programming error means "no usable cache": missing file, unreadable file,
// malformed CSV, or a header that is not exactly the expected column set.
// A full rebuild is always a safe recovery, so Load never fails the run.
func (s *Store) Load(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = make(map[string]domain.Record)

	data, err := os.ReadFile(path) //nolint:gosec // Path derives from CLI args
	if err != nil {
		return nil
	}

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil || len(rows) == 0 {
		return nil
	}

	header := rows[0]
	if len(header) != 3 ||
		header[0] != colObjPath || header[1] != colCompileCmd || header[2] != colPreprocessedHash {
		return nil
	}

	for _, row := range rows[1:] {
		if len(row) != 3 {
			s.prev = make(map[string]domain.Record)
			return nil
		}
		hash, err := parseHash(row[2])
		if err != nil {
			continue
		}
		s.prev[row[0]] = domain.Record{
			ObjectPath:       row[0],
			CompileCmd:       row[1],
			PreprocessedHash: hash,
		}
	}

	return nil
}

// Prev returns the prior-run record for an object path, if any.
func (s *Store) Prev(objectPath string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.prev[objectPath]
	return rec, ok
}

// Put records a current-run entry. Each object path is written by exactly
// one target pipeline, so contention here is structural, not logical.
func (s *Store) Put(rec domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur[rec.ObjectPath] = rec
}

// Flush serializes the current-run records, replacing the log at path
// atomically via a temp file and rename.
func (s *Store) Flush(path string) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.cur))
	for key := range s.cur {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf strings.Builder
	writeRow(&buf, colObjPath, colCompileCmd, colPreprocessedHash)
	for _, key := range keys {
		rec := s.cur[key]
		writeRow(&buf, rec.ObjectPath, rec.CompileCmd, fmt.Sprintf("0x%016x", rec.PreprocessedHash))
	}
	s.mu.RUnlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), domain.LogFileName+".*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp log file")
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(buf.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to write log"), "path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to close log"), "path", path)
	}
	if err := os.Chmod(tmpPath, domain.FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to chmod log"), "path", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return zerr.With(zerr.Wrap(err, "failed to replace log"), "path", path)
	}

	return nil
}

// writeRow emits one always-quoted CSV row.
func writeRow(buf *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// parseHash accepts a 0x-prefixed hex hash of any width.
func parseHash(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if trimmed == s {
		return 0, zerr.With(zerr.New("hash missing 0x prefix"), "hash", s)
	}
	return strconv.ParseUint(trimmed, 16, 64)
}
