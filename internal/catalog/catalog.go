// Package catalog holds the fixed list of reservable slots, grouped into the
// sections shown on the summary message, together with the header text that
// precedes them.
//
// The default catalog is embedded from default.yaml. A deployment may replace
// it with its own YAML document of the same shape (see Load).
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/EgorLis/slotbot/internal/match"
)

//go:embed default.yaml
var defaultDoc []byte

var ErrInvalid = errors.New("invalid catalog")

type Section struct {
	Title string   `yaml:"title"`
	Slots []string `yaml:"slots"`
}

type Catalog struct {
	Header   string    `yaml:"header"`
	Sections []Section `yaml:"sections"`
}

// Slot is one catalog entry with its place on the summary.
type Slot struct {
	Name     string
	Section  string
	Position int // zero-based, within Section
}

// Default returns a fresh copy of the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultDoc)
	if err != nil {
		panic("catalog: embedded default is invalid: " + err.Error())
	}
	return c
}

// Load reads a catalog document from path, or returns Default when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog document. Unknown keys are errors.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the catalog is usable: at least one non-empty section,
// unique slot names, and slot names that stay distinct after normalization.
func (c *Catalog) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalid)
	}
	seen := make(map[string]struct{})
	for i, s := range c.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", ErrInvalid, i+1)
		}
		if len(s.Slots) == 0 {
			return fmt.Errorf("%w: section %q has no slots", ErrInvalid, s.Title)
		}
		for _, name := range s.Slots {
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: slot %q listed twice", ErrInvalid, name)
			}
			seen[name] = struct{}{}
		}
	}
	if _, err := match.New(c.Names()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Names lists every slot name, section by section, in declared order.
func (c *Catalog) Names() []string {
	var out []string
	for _, s := range c.Sections {
		out = append(out, s.Slots...)
	}
	return out
}

func (c *Catalog) Slots() []Slot {
	var out []Slot
	for _, s := range c.Sections {
		for i, name := range s.Slots {
			out = append(out, Slot{Name: name, Section: s.Title, Position: i})
		}
	}
	return out
}

func (c *Catalog) Contains(name string) bool {
	for _, s := range c.Sections {
		for _, n := range s.Slots {
			if n == name {
				return true
			}
		}
	}
	return false
}

// Matcher builds a match.Matcher over the catalog's names.
func (c *Catalog) Matcher() (*match.Matcher, error) {
	return match.New(c.Names())
}
