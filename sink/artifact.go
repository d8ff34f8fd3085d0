// Package sink owns the generated declaration artifact.
//
// Layout under the resolved output directory:
//
//	<dir>/<subdir>/generated.ts   declaration text, blocks in arrival order
//	<dir>/<subdir>/generated.js   placeholder, written once
//	<dir>/<subdir>/INFO.txt       tool name and version, written once
//
// Every write to the artifact happens under one mutex, so concurrent
// producers never interleave partial blocks.
package sink

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/teranos/decl2ts/errors"
	"github.com/teranos/decl2ts/version"
)

const (
	DefaultSubdir   = "decl2ts"
	DefaultArtifact = "generated.ts"

	companionJS   = "generated.js"
	companionInfo = "INFO.txt"
)

// Mode selects how a run reaches the artifact
type Mode string

const (
	// ModeAppend appends each block as it is produced. Not idempotent: a
	// second run over the same sources duplicates every block.
	ModeAppend Mode = "append"

	// ModeRewrite accumulates the run and replaces the artifact once
	ModeRewrite Mode = "rewrite"
)

// ParseMode parses a mode name; "" means rewrite
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeRewrite, nil
	case ModeAppend, ModeRewrite:
		return m, nil
	default:
		return ModeRewrite, errors.Newf("unknown output mode %q (want append or rewrite)", s)
	}
}

// Config locates the artifact
type Config struct {
	Dir      string
	Subdir   string
	Artifact string
}

// Artifact is the generated declaration file
type Artifact struct {
	mu   *sync.Mutex
	dir  string
	path string
}

// locks holds one mutex per artifact path, shared by every Artifact in the process
var (
	locksMu sync.Mutex
	locks   = map[string]*sync.Mutex{}
)

func lockFor(path string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	if mu, ok := locks[path]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	locks[path] = mu
	return mu
}

// New resolves the artifact location. Nothing is touched on disk until Prepare or a write.
func New(cfg Config) (*Artifact, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.WithHint(
			errors.Mark(errors.New("output directory not set"), errors.ErrSink),
			"set output.dir in decl2ts.toml, DECL2TS_OUTPUT_DIR or OUT_DIR")
	}
	if cfg.Subdir == "" {
		cfg.Subdir = DefaultSubdir
	}
	if cfg.Artifact == "" {
		cfg.Artifact = DefaultArtifact
	}

	dir := filepath.Join(cfg.Dir, cfg.Subdir)
	path := filepath.Join(dir, cfg.Artifact)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
		dir = filepath.Dir(abs)
	}
	return &Artifact{mu: lockFor(path), dir: dir, path: path}, nil
}

// Dir returns the artifact directory
func (a *Artifact) Dir() string { return a.dir }

// Path returns the artifact file path
func (a *Artifact) Path() string { return a.path }

// Prepare creates the directory, an empty artifact if absent, and the
// companion files if absent. Existing content is left alone.
func (a *Artifact) Prepare() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return errors.WrapSink(err, "failed to create output directory")
	}

	if err := writeIfAbsent(a.path, ""); err != nil {
		return err
	}
	if err := writeIfAbsent(filepath.Join(a.dir, companionJS), jsPlaceholder); err != nil {
		return err
	}
	return writeIfAbsent(filepath.Join(a.dir, companionInfo), infoText())
}

const jsPlaceholder = "// JavaScript implementations would be generated here\n" +
	"// Currently only TypeScript declarations are generated\n"

func infoText() string {
	info := version.Get()
	return version.Tool + " " + info.Version + "\n" +
		"TypeScript declarations are generated in " + DefaultArtifact + "\n" +
		"Function bodies are not translated; only signatures are emitted.\n"
}

func writeIfAbsent(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return nil
	}
	if err != nil {
		return errors.WrapSink(err, "failed to create "+filepath.Base(path))
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.WrapSink(err, "failed to write "+filepath.Base(path))
	}
	return errors.WrapSink(f.Close(), "failed to close "+filepath.Base(path))
}

// Append writes text at the end of the artifact as one open-append-write-close,
// creating the directory and file if needed. It returns the bytes written.
func (a *Artifact) Append(text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return 0, errors.WrapSink(err, "failed to create output directory")
	}

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return 0, errors.WrapSink(err, "failed to open artifact")
	}
	n, err := f.WriteString(text)
	if err != nil {
		f.Close()
		return n, errors.WrapSink(err, "failed to append to artifact")
	}
	return n, errors.WrapSink(f.Close(), "failed to close artifact")
}

// Truncate empties the artifact, creating it if needed
func (a *Artifact) Truncate() error {
	return a.Replace("")
}

// Replace atomically swaps the artifact content: the text goes to a
// temporary file in the same directory, which is then renamed over it.
func (a *Artifact) Replace(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return errors.WrapSink(err, "failed to create output directory")
	}

	tmp, err := os.CreateTemp(a.dir, filepath.Base(a.path)+".tmp.*")
	if err != nil {
		return errors.WrapSink(err, "failed to create temporary artifact")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return errors.WrapSink(err, "failed to write temporary artifact")
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.WrapSink(err, "failed to set artifact permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapSink(err, "failed to close temporary artifact")
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		return errors.WrapSink(err, "failed to replace artifact")
	}
	return nil
}

// Read returns the artifact content; a missing artifact reads as empty
func (a *Artifact) Read() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.WrapSink(err, "failed to read artifact")
	}
	return string(data), nil
}
