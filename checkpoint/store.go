// SPDX-License-Identifier: MIT

package checkpoint

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/katalvlaran/prolongnet/nn"
)

const (
	filePrefix = "ckpt-"
	fileSuffix = ".gob"
)

// FileName returns the checkpoint file name for step.
func FileName(step int) string { return fmt.Sprintf("%s%08d%s", filePrefix, step, fileSuffix) }

func parseStep(name string) (int, bool) {
	s, ok := strings.CutPrefix(name, filePrefix)
	if !ok {
		return 0, false
	}
	if s, ok = strings.CutSuffix(s, fileSuffix); !ok {
		return 0, false
	}
	step, err := strconv.Atoi(s)
	if err != nil || step < 0 {
		return 0, false
	}

	return step, true
}

// Write stores p in dir as FileName(p.Step), creating dir if needed.
func Write(dir string, p *Payload) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", checkpointErrorf("Write", err)
	}
	tmp, err := os.CreateTemp(dir, ".ckpt-*.tmp")
	if err != nil {
		return "", checkpointErrorf("Write", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err = gob.NewEncoder(tmp).Encode(p); err != nil {
		tmp.Close()
		return "", checkpointErrorf("Write", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return "", checkpointErrorf("Write", err)
	}
	if err = tmp.Close(); err != nil {
		return "", checkpointErrorf("Write", err)
	}
	path := filepath.Join(dir, FileName(p.Step))
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", checkpointErrorf("Write", err)
	}

	return path, nil
}

// Read decodes one checkpoint file.
func Read(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, checkpointErrorf("Read", err)
	}
	defer f.Close()

	var p Payload
	if err = gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, checkpointErrorf("Read", fmt.Errorf("%s: %w", path, err))
	}

	return &p, nil
}

// Latest returns the path and step of the newest checkpoint in dir.
//
// Errors: ErrCheckpointNotFound when dir does not exist or holds none.
func Latest(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return "", 0, checkpointErrorf("Latest", fmt.Errorf("%s: %w", dir, ErrCheckpointNotFound))
	}
	if err != nil {
		return "", 0, checkpointErrorf("Latest", err)
	}

	best, found := -1, false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if step, ok := parseStep(e.Name()); ok && step > best {
			best, found = step, true
		}
	}
	if !found {
		return "", 0, checkpointErrorf("Latest", fmt.Errorf("%s: %w", dir, ErrCheckpointNotFound))
	}

	return filepath.Join(dir, FileName(best)), best, nil
}

// ReadLatest is Latest followed by Read.
func ReadLatest(dir string) (*Payload, error) {
	path, _, err := Latest(dir)
	if err != nil {
		return nil, err
	}

	return Read(path)
}

// Manager saves checkpoints of one training run into one directory.
type Manager struct {
	dir    string
	runID  uuid.UUID
	half   bool
	keep   int
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithFloat16 stores parameters at half precision.
func WithFloat16(on bool) Option { return func(m *Manager) { m.half = on } }

// WithRunID sets the run identifier; default a fresh random UUID.
func WithRunID(id uuid.UUID) Option { return func(m *Manager) { m.runID = id } }

// WithKeep retains only the newest n checkpoints after each save (0 keeps all).
func WithKeep(n int) Option {
	if n < 0 {
		panic("checkpoint: WithKeep requires n >= 0")
	}

	return func(m *Manager) { m.keep = n }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a manager for dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{dir: dir, runID: uuid.New(), logger: slog.Default()}
	for _, fn := range opts {
		if fn != nil {
			fn(m)
		}
	}

	return m
}

// Dir returns the checkpoint directory.
func (m *Manager) Dir() string { return m.dir }

// RunID returns the run identifier stamped into every payload.
func (m *Manager) RunID() uuid.UUID { return m.runID }

// Save captures reg/opt at step and writes it.
func (m *Manager) Save(step int, reg *nn.Registry, opt *nn.Adam) (string, error) {
	path, err := Write(m.dir, Capture(reg, opt, m.runID, step, m.half))
	if err != nil {
		return "", err
	}
	m.logger.Info("checkpoint saved", "path", path, "step", step, "run", m.runID)
	if m.keep > 0 {
		m.prune()
	}

	return path, nil
}

func (m *Manager) prune() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.logger.Warn("checkpoint prune failed", "dir", m.dir, "error", err)
		return
	}
	var steps []int
	for _, e := range entries {
		if step, ok := parseStep(e.Name()); ok && !e.IsDir() {
			steps = append(steps, step)
		}
	}
	if len(steps) <= m.keep {
		return
	}
	// ReadDir sorts by name and names are zero-padded, so steps ascend
	for _, step := range steps[:len(steps)-m.keep] {
		if err := os.Remove(filepath.Join(m.dir, FileName(step))); err != nil {
			m.logger.Warn("checkpoint prune failed", "step", step, "error", err)
		}
	}
}
