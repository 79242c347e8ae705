// Package roadmap serves the static career roadmap catalog.
package roadmap

import (
	"bytes"
	_ "embed" // builtin catalog
	"errors"
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

//go:embed roadmaps.yaml
var builtin []byte

// DefaultCategory category shown first
const DefaultCategory = "Developer"

var (
	ErrUnknownCategory = errors.New("unknown roadmap category")
	ErrUnknownRoadmap  = errors.New("unknown roadmap")
)

// Roadmap ordered learning steps towards a career
type Roadmap struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Steps       []string `yaml:"steps" json:"steps"`
}

// Category group of roadmaps
type Category struct {
	Name     string     `yaml:"name" json:"name"`
	Roadmaps []*Roadmap `yaml:"roadmaps" json:"roadmaps"`
}

// Catalog every roadmap by category, in display order
type Catalog struct {
	Categories []*Category `yaml:"categories" json:"categories"`
}

// Load catalog from path, empty path means the builtin catalog
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(builtin)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roadmap catalog: %w", err)
	}
	return Parse(b)
}

// Parse decode and check a YAML catalog, unknown fields are rejected
func Parse(b []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	c := new(Catalog)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("decode roadmap catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, errors.New("roadmap catalog has no categories")
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.Name == "" || seen[cat.Name] {
			return nil, fmt.Errorf("roadmap category %q is empty or duplicated", cat.Name)
		}
		seen[cat.Name] = true
		for _, r := range cat.Roadmaps {
			if r.Title == "" || len(r.Steps) == 0 {
				return nil, fmt.Errorf("roadmap %q in %q needs a title and steps", r.Title, cat.Name)
			}
		}
	}
	return c, nil
}

// Names category names in display order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// Category roadmaps of one category
func (c *Catalog) Category(name string) (*Category, error) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, nil
		}
	}
	return nil, ErrUnknownCategory
}

// Roadmap one roadmap by category and title
func (c *Catalog) Roadmap(category, title string) (*Roadmap, error) {
	cat, err := c.Category(category)
	if err != nil {
		return nil, err
	}
	for _, r := range cat.Roadmaps {
		if r.Title == title {
			return r, nil
		}
	}
	return nil, ErrUnknownRoadmap
}
