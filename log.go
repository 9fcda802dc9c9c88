package persisted

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Initialize the compaction threshold to 1 MiB for new logs, per spec.
const initialCompactionThreshold int64 = 1 << 20

// Operation is a single durable mutation: an operation name paired with its
// ordered parameters. It is the unit a CompactionFunc produces and the unit
// OpHandler consumes.
type Operation struct {
	Key        string
	Parameters []any
}

// record is the wire form of an Operation: one JSON object per line, with
// exactly the fields "key" and "parameters".
type record struct {
	Key        string `json:"key"`
	Parameters []any  `json:"parameters"`
}

// OpHandler applies a replayed operation's parameters to adapter state. It
// must not itself record a new operation in the log it was replayed from.
type OpHandler func(parameters []any) error

// CompactionFunc produces, as a finite ordered sequence of operations, a
// snapshot whose replay against empty adapter state reconstructs the
// adapter's current state. It must be pure and callable repeatedly.
type CompactionFunc func() []Operation

// Log is an append-only, line-delimited JSON operation log backed by a
// file. It has no knowledge of the semantics of the data structure it
// backs; List and Map supply that via CompactionFunc and the handler map
// passed to Replay.
type Log struct {
	path      string
	compactFn CompactionFunc
	threshold int64
	logger    zerolog.Logger
}

// NewLog opens (creating if absent) the file at path and validates that
// every line already in it is a well-formed operation record. It does not
// replay or compact. compactionFn is retained for later calls to Compact.
func NewLog(path string, compactionFn CompactionFunc) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: creating log file %s: %v", ErrIOFailure, path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedLog, path, lineNum, err)
		}
		if _, ok := raw["key"]; !ok {
			return nil, fmt.Errorf("%w: %s line %d: missing %q field", ErrMalformedLog, path, lineNum, "key")
		}
		if _, ok := raw["parameters"]; !ok {
			return nil, fmt.Errorf("%w: %s line %d: missing %q field", ErrMalformedLog, path, lineNum, "parameters")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIOFailure, path, err)
	}

	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("component", "persisted.log").
		Str("path", path).
		Logger()

	return &Log{
		path:      path,
		compactFn: compactionFn,
		threshold: initialCompactionThreshold,
		logger:    logger,
	}, nil
}

// Threshold returns the log's current compaction threshold, in bytes.
func (l *Log) Threshold() int64 { return l.threshold }

// SetThreshold overrides the compaction threshold. It is not persisted and
// not required by callers; the default is 1 MiB.
func (l *Log) SetThreshold(bytes int64) { l.threshold = bytes }

// Append encodes (opName, parameters) as a single JSON line and appends it
// to the backing file, then checks whether compaction is now necessary.
//
// Encoding is validated before the file is touched: a failed encode leaves
// the file unchanged.
func (l *Log) Append(opName string, parameters ...any) error {
	if parameters == nil {
		parameters = []any{}
	}
	rec := record{Key: opName, Parameters: parameters}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encoding operation %q: %v", ErrEncodingFailure, opName, err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening %s for append: %v", ErrIOFailure, l.path, err)
	}
	_, writeErr := f.Write(line)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIOFailure, l.path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrIOFailure, l.path, closeErr)
	}

	return l.compactIfNecessary()
}

// Replay reads every record in the backing file in order, looks up a
// handler for each record's operation name, and invokes it with the
// record's decoded parameters. Replay never writes to the log.
//
// Replay is non-transactional: if a record fails to decode or names an
// operation missing from handlers, the handlers already invoked have
// already run against the caller's state. The caller must discard that
// state rather than trust it.
func (l *Log) Replay(handlers map[string]OpHandler) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("%w: opening %s for replay: %v", ErrIOFailure, l.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return fmt.Errorf("%w: %s line %d: %v", ErrMalformedLog, l.path, lineNum, err)
		}
		handler, ok := handlers[rec.Key]
		if !ok {
			return fmt.Errorf("%w: %s line %d: unknown operation %q", ErrMalformedLog, l.path, lineNum, rec.Key)
		}
		if err := handler(rec.Parameters); err != nil {
			return fmt.Errorf("%w: %s line %d: applying %q: %v", ErrMalformedLog, l.path, lineNum, rec.Key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIOFailure, l.path, err)
	}
	return nil
}

// Compact calls the compaction callback to obtain a snapshot of the
// current state, writes it to a scratch file, and atomically replaces the
// backing file's content with it. On any failure before replacement, the
// backing file is left untouched.
func (l *Log) Compact() error {
	dir := filepath.Dir(l.path)
	scratchPath := filepath.Join(dir, ".persisted-compact-"+uuid.NewString())

	scratch, err := os.OpenFile(scratchPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: creating scratch file for %s: %v", ErrIOFailure, l.path, err)
	}

	for _, op := range l.compactFn() {
		rec := record{Key: op.Key, Parameters: op.Parameters}
		line, err := json.Marshal(rec)
		if err != nil {
			scratch.Close()
			os.Remove(scratchPath)
			return fmt.Errorf("%w: re-encoding snapshot operation %q: %v", ErrEncodingFailure, op.Key, err)
		}
		if _, err := scratch.Write(append(line, '\n')); err != nil {
			scratch.Close()
			os.Remove(scratchPath)
			return fmt.Errorf("%w: writing scratch file: %v", ErrIOFailure, err)
		}
	}

	if err := scratch.Sync(); err != nil {
		scratch.Close()
		os.Remove(scratchPath)
		return fmt.Errorf("%w: syncing scratch file: %v", ErrIOFailure, err)
	}
	if err := scratch.Close(); err != nil {
		os.Remove(scratchPath)
		return fmt.Errorf("%w: closing scratch file: %v", ErrIOFailure, err)
	}
	if err := os.Rename(scratchPath, l.path); err != nil {
		os.Remove(scratchPath)
		return fmt.Errorf("%w: replacing %s: %v", ErrIOFailure, l.path, err)
	}

	l.logger.Debug().Msg("compacted log")
	return nil
}

// compactIfNecessary runs Compact when the backing file has reached the
// current threshold, then grows the threshold geometrically if compaction
// did not bring the file back under it. compactIfNecessary only ever
// raises the threshold; it is never persisted.
func (l *Log) compactIfNecessary() error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrIOFailure, l.path, err)
	}
	if info.Size() < l.threshold {
		return nil
	}

	if err := l.Compact(); err != nil {
		return err
	}

	info, err = os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrIOFailure, l.path, err)
	}
	if info.Size() >= l.threshold {
		l.threshold = info.Size() * 2
		l.logger.Debug().Int64("new_threshold", l.threshold).Msg("grew compaction threshold")
	}
	return nil
}
