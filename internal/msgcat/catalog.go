// Package msgcat holds the human-readable texts shown next to verdicts.
package msgcat

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	yaml "gopkg.in/yaml.v3"

	"github.com/park285/oh-my-chess/internal/rules"
)

//go:embed messages.en.yaml
var defaultFiles embed.FS

const defaultFile = "messages.en.yaml"

// Catalog maps flattened dot keys to text/template sources. Rendering uses
// missingkey=error.
type Catalog struct {
	mu    sync.RWMutex
	data  map[string]string
	cache map[string]*template.Template
}

// New loads the embedded messages, then any *.yaml/*.yml files in overrideDir.
// Every rules.Reason must resolve to a reason.<name> key afterwards.
func New(overrideDir string) (*Catalog, error) {
	c := &Catalog{data: make(map[string]string), cache: make(map[string]*template.Template)}

	raw, err := fs.ReadFile(defaultFiles, defaultFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded messages: %w", err)
	}
	flat, err := parseYAMLToFlat(raw)
	if err != nil {
		return nil, fmt.Errorf("parse embedded messages: %w", err)
	}
	c.merge(flat)

	if strings.TrimSpace(overrideDir) != "" {
		if err := c.applyDir(overrideDir); err != nil {
			return nil, err
		}
	}
	for _, r := range allReasons() {
		if !c.Has(ReasonKey(r)) {
			return nil, fmt.Errorf("missing message %s", ReasonKey(r))
		}
	}
	return c, nil
}

// MustDefault returns the embedded catalog and panics if it is broken.
func MustDefault() *Catalog {
	c, err := New("")
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) applyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read message dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	seen := make(map[string]string) // key -> file
	for _, name := range files {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		flat, err := parseYAMLToFlat(b)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k := range flat {
			if prev, ok := seen[k]; ok {
				return fmt.Errorf("duplicate override key %q in %s and %s", k, prev, name)
			}
			seen[k] = name
		}
		c.merge(flat)
	}
	return nil
}

func (c *Catalog) merge(flat map[string]string) {
	c.mu.Lock()
	for k, v := range flat {
		c.data[k] = v
		delete(c.cache, k)
	}
	c.mu.Unlock()
}

func parseYAMLToFlat(b []byte) (map[string]string, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flatten(m, "", flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flatten(src any, prefix string, out map[string]string) error {
	switch v := src.(type) {
	case map[string]any:
		for k, vv := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flatten(vv, key, out); err != nil {
				return err
			}
		}
		return nil
	case string:
		if prefix == "" {
			return errors.New("string value without key")
		}
		out[prefix] = v
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported value at %s: %T", prefix, v)
	}
}

// Has reports whether key has a non-blank template.
func (c *Catalog) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimSpace(c.data[key]) != ""
}

// Render executes the template stored under key.
func (c *Catalog) Render(key string, data any) (string, error) {
	key = strings.TrimSpace(key)
	t, err := c.template(key)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", key, err)
	}
	return b.String(), nil
}

func (c *Catalog) template(key string) (*template.Template, error) {
	c.mu.RLock()
	t, ok := c.cache[key]
	src := c.data[key]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("template not found: %s", key)
	}
	t, err := template.New(key).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	c.mu.Lock()
	c.cache[key] = t
	c.mu.Unlock()
	return t, nil
}

// ReasonKey is the catalog key for r.
func ReasonKey(r rules.Reason) string { return "reason." + r.String() }

// MoveFacts is the template data for reason.* messages.
type MoveFacts struct {
	Piece string
	From  string
	To    string
	Mover string
}

// FactsFor describes move on board for the reason templates.
func FactsFor(board *rules.Board, move rules.Move, mover rules.Player) MoveFacts {
	f := MoveFacts{From: move.From.String(), To: move.To.String(), Mover: mover.String(), Piece: "piece"}
	if cell, ok := board.At(move.From); ok {
		f.Piece = strings.ToLower(cell.Piece.String())
	}
	return f
}

// Reason renders the message for r, falling back to the bare reason name.
func (c *Catalog) Reason(r rules.Reason, facts MoveFacts) string {
	s, err := c.Render(ReasonKey(r), facts)
	if err != nil {
		return r.String()
	}
	return s
}

// PathFacts is the template data for path.* messages.
type PathFacts struct {
	Direction string
	From      string
	To        string
}

// Path renders the path.clear or path.blocked message for move along dir.
func (c *Catalog) Path(isClear bool, dir rules.Direction, move rules.Move) string {
	key := "path.blocked"
	if isClear {
		key = "path.clear"
	}
	s, err := c.Render(key, PathFacts{
		Direction: strings.ToLower(dir.String()),
		From:      move.From.String(),
		To:        move.To.String(),
	})
	if err != nil {
		return strings.TrimPrefix(key, "path.")
	}
	return s
}

func allReasons() []rules.Reason {
	out := make([]rules.Reason, 0, 8)
	for r := rules.ReasonLegal; r.String() != "unknown"; r++ {
		out = append(out, r)
	}
	return out
}
