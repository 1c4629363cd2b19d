package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CheatSheetSlug is the reserved subtopic slug for reference sheets.
// Cheat sheets are never counted toward completion or quiz averages.
const CheatSheetSlug = "cheat-sheet"

type TopicDefinition struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

type PhaseDefinition struct {
	Slug   string            `json:"slug"`
	Title  string            `json:"title"`
	Topics []TopicDefinition `json:"topics"`
}

type RoadmapDefinition struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	Title          string            `json:"title"`
	PriorityLabels []string          `json:"priorityLabels,omitempty"`
	Phases         []PhaseDefinition `json:"phases"`
}

//go:embed data/*.json
var builtinFS embed.FS

// Catalog is the read-only set of roadmap definitions available to the
// application. Progress tracking never mutates it.
type Catalog struct {
	roadmaps []*RoadmapDefinition
	byID     map[string]*RoadmapDefinition
}

// Load returns the catalog of built-in roadmap definitions.
func Load() (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*RoadmapDefinition)}

	entries, err := builtinFS.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in roadmaps: %w", err)
	}

	for _, entry := range entries {
		data, err := builtinFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read roadmap %s: %w", entry.Name(), err)
		}
		if err := c.add(data); err != nil {
			return nil, fmt.Errorf("invalid built-in roadmap %s: %w", entry.Name(), err)
		}
	}

	return c, nil
}

// LoadDir merges additional roadmap definition files (*.json) from dir into
// the catalog. A missing directory is not an error. A user-provided roadmap
// with the same id as a built-in one replaces it.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read roadmap directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read roadmap %s: %w", entry.Name(), err)
		}
		if err := c.add(data); err != nil {
			return fmt.Errorf("invalid roadmap %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func (c *Catalog) add(data []byte) error {
	def := &RoadmapDefinition{}
	if err := json.Unmarshal(data, def); err != nil {
		return err
	}
	if def.ID == "" {
		return fmt.Errorf("roadmap is missing an id")
	}

	if existing, ok := c.byID[def.ID]; ok {
		for i, r := range c.roadmaps {
			if r == existing {
				c.roadmaps[i] = def
				break
			}
		}
	} else {
		c.roadmaps = append(c.roadmaps, def)
	}
	c.byID[def.ID] = def

	sort.Slice(c.roadmaps, func(i, j int) bool {
		return c.roadmaps[i].ID < c.roadmaps[j].ID
	})
	return nil
}

// GetRoadmapByID looks up a roadmap definition. The second return value is
// false when the id is unknown; callers treat that as an empty scope.
func (c *Catalog) GetRoadmapByID(id string) (*RoadmapDefinition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Roadmaps returns all definitions in id order.
func (c *Catalog) Roadmaps() []*RoadmapDefinition {
	return c.roadmaps
}

// Phase looks up a phase by slug.
func (r *RoadmapDefinition) Phase(slug string) (*PhaseDefinition, bool) {
	for i := range r.Phases {
		if r.Phases[i].Slug == slug {
			return &r.Phases[i], true
		}
	}
	return nil, false
}

// Topic looks up a topic by slug.
func (p *PhaseDefinition) Topic(slug string) (*TopicDefinition, bool) {
	for i := range p.Topics {
		if p.Topics[i].Slug == slug {
			return &p.Topics[i], true
		}
	}
	return nil, false
}

// CountableSubtopics returns the slugs of a topic's subtopics excluding the
// reserved cheat sheet.
func (t *TopicDefinition) CountableSubtopics() []string {
	slugs := make([]string, 0, len(t.Subtopics))
	for _, name := range t.Subtopics {
		slug := Slugify(name)
		if slug == CheatSheetSlug {
			continue
		}
		slugs = append(slugs, slug)
	}
	return slugs
}

// IsCheatSheet reports whether a subtopic name or slug denotes the reserved
// cheat-sheet artifact.
func IsCheatSheet(nameOrSlug string) bool {
	return Slugify(nameOrSlug) == CheatSheetSlug
}

// Slugify converts a subtopic display name to its URL-safe slug: lowercase,
// parenthetical suffixes stripped, non-alphanumeric runs collapsed to a
// single hyphen.
func Slugify(name string) string {
	s := strings.ToLower(name)

	// Strip parenthetical suffixes like "Goroutines (advanced)"
	if idx := strings.Index(s, "("); idx >= 0 {
		s = s[:idx]
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
