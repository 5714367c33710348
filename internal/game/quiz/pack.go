// Package quiz implements the multiple-choice quiz: question packs loaded
// from YAML and timed play sessions over them.
package quiz

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Question is one multiple-choice prompt. Answer indexes into Choices.
type Question struct {
	Prompt   string   `yaml:"prompt"`
	Choices  []string `yaml:"choices"`
	Answer   int      `yaml:"answer"`
	Category string   `yaml:"category,omitempty"`
}

// Pack is a named set of questions, loaded from a YAML file.
type Pack struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Questions []Question `yaml:"questions"`
}

// PackFile pairs a parsed pack with its on-disk source.
type PackFile struct {
	Pack Pack
	Path string
}

// ParsePackYAML decodes and validates a single question pack payload.
func ParsePackYAML(data []byte) (Pack, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Pack{}, fmt.Errorf("quiz: pack payload is empty")
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return Pack{}, fmt.Errorf("quiz: decode pack: %w", err)
	}
	if err := pack.Validate(); err != nil {
		return Pack{}, err
	}
	return pack.Normalized(), nil
}

// Normalized returns a trimmed copy of the pack.
func (p Pack) Normalized() Pack {
	clone := Pack{
		ID:   strings.TrimSpace(p.ID),
		Name: strings.TrimSpace(p.Name),
	}
	clone.Questions = make([]Question, len(p.Questions))
	for i, q := range p.Questions {
		nq := Question{
			Prompt:   strings.TrimSpace(q.Prompt),
			Answer:   q.Answer,
			Category: strings.TrimSpace(q.Category),
		}
		nq.Choices = make([]string, len(q.Choices))
		for j, c := range q.Choices {
			nq.Choices[j] = strings.TrimSpace(c)
		}
		clone.Questions[i] = nq
	}
	return clone
}

// Validate ensures the pack is well-formed before a session runs it.
func (p Pack) Validate() error {
	normalized := p.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("quiz: pack id is required")
	}
	if normalized.Name == "" {
		return fmt.Errorf("quiz: pack %s: name is required", normalized.ID)
	}
	if len(normalized.Questions) == 0 {
		return fmt.Errorf("quiz: pack %s: at least one question is required", normalized.ID)
	}
	for i, q := range normalized.Questions {
		if q.Prompt == "" {
			return fmt.Errorf("quiz: pack %s: question %d: prompt is required", normalized.ID, i)
		}
		if len(q.Choices) < 2 {
			return fmt.Errorf("quiz: pack %s: question %d: at least two choices are required", normalized.ID, i)
		}
		for j, c := range q.Choices {
			if c == "" {
				return fmt.Errorf("quiz: pack %s: question %d: choice %d is empty", normalized.ID, i, j)
			}
		}
		if q.Answer < 0 || q.Answer >= len(q.Choices) {
			return fmt.Errorf("quiz: pack %s: question %d: answer %d out of range", normalized.ID, i, q.Answer)
		}
	}
	return nil
}

// LoadPackFile reads a YAML file from disk and returns the parsed pack.
func LoadPackFile(path string) (PackFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("quiz: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return PackFile{}, fmt.Errorf("quiz: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("quiz: read %s: %w", path, err)
	}
	pack, err := ParsePackYAML(data)
	if err != nil {
		return PackFile{}, fmt.Errorf("quiz: %s: %w", path, err)
	}
	return PackFile{Pack: pack, Path: filepath.Clean(path)}, nil
}

// LoadPackDir scans a directory for *.yaml packs. A missing directory means
// no extra packs, which keeps first-run startup quiet.
func LoadPackDir(dir string) ([]PackFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("quiz: read %s: %w", trimmed, err)
	}
	var packs []PackFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isYAMLFile(name) {
			continue
		}
		pf, err := LoadPackFile(filepath.Join(trimmed, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, pf)
	}
	if len(packs) == 0 {
		return nil, nil
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Path < packs[j].Path })
	return packs, nil
}

// Library indexes packs by ID: the built-in default plus any user packs.
type Library struct {
	packs map[string]Pack
	order []string
}

// NewLibrary loads the built-in pack and everything under dir. A user pack
// may not reuse an ID already taken.
func NewLibrary(dir string) (*Library, error) {
	lib := &Library{packs: map[string]Pack{}}
	builtin, err := ParsePackYAML([]byte(defaultPackYAML))
	if err != nil {
		return nil, fmt.Errorf("quiz: built-in pack: %w", err)
	}
	lib.add(builtin)
	files, err := LoadPackDir(dir)
	if err != nil {
		return nil, err
	}
	for _, pf := range files {
		if _, exists := lib.packs[pf.Pack.ID]; exists {
			return nil, fmt.Errorf("quiz: duplicate pack id %s (%s)", pf.Pack.ID, pf.Path)
		}
		lib.add(pf.Pack)
	}
	return lib, nil
}

func (l *Library) add(p Pack) {
	l.packs[p.ID] = p
	l.order = append(l.order, p.ID)
}

// Pack returns the pack with the given ID.
func (l *Library) Pack(id string) (Pack, error) {
	p, ok := l.packs[strings.TrimSpace(id)]
	if !ok {
		return Pack{}, fmt.Errorf("quiz: unknown pack %s", id)
	}
	return p, nil
}

// IDs lists pack IDs in load order.
func (l *Library) IDs() []string {
	return append([]string(nil), l.order...)
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
