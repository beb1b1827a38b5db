package plans

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_plans.yaml
var defaultPlansYAML []byte

// Warning levels, as a percentage of the monthly ceiling.
const (
	LevelNone    = 0
	LevelWarning = 80
	LevelLimit   = 100
)

// Policy is the quota and feature policy of one plan. MonthlyResponses 0 means unlimited.
type Policy struct {
	ID               string `yaml:"id"`
	Name             string `yaml:"name"`
	MonthlyResponses int    `yaml:"monthly_responses"`
	AlertsIncluded   bool   `yaml:"alerts"`
}

func (p Policy) Unlimited() bool { return p.MonthlyResponses <= 0 }

type catalogFile struct {
	Default string   `yaml:"default"`
	Plans   []Policy `yaml:"plans"`
}

type Catalog struct {
	byID       map[string]Policy
	defaultID  string
	orderedIDs []string
}

// Default loads the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultPlansYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded plan catalog: %v", err))
	}
	return c
}

// Load reads a catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("parse plans: no plans defined")
	}

	c := &Catalog{byID: make(map[string]Policy, len(f.Plans))}
	for _, p := range f.Plans {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("parse plans: plan id is required")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("parse plans: duplicate plan %q", p.ID)
		}
		if p.MonthlyResponses < 0 {
			return nil, fmt.Errorf("parse plans: plan %q has negative monthly_responses", p.ID)
		}
		c.byID[p.ID] = p
		c.orderedIDs = append(c.orderedIDs, p.ID)
	}

	c.defaultID = strings.TrimSpace(f.Default)
	if c.defaultID == "" {
		c.defaultID = c.orderedIDs[0]
	}
	if _, ok := c.byID[c.defaultID]; !ok {
		return nil, fmt.Errorf("parse plans: default plan %q is not defined", c.defaultID)
	}
	return c, nil
}

// Resolve returns the policy for planID; unknown ids get the default plan.
func (c *Catalog) Resolve(planID string) Policy {
	if p, ok := c.byID[strings.TrimSpace(planID)]; ok {
		return p
	}
	return c.byID[c.defaultID]
}

func (c *Catalog) IDs() []string {
	out := make([]string, len(c.orderedIDs))
	copy(out, c.orderedIDs)
	return out
}

// WarningLevel returns the highest level that count has reached for ceiling.
func WarningLevel(count, ceiling int) int {
	if ceiling <= 0 {
		return LevelNone
	}
	switch {
	case count >= ceiling:
		return LevelLimit
	case count*100 >= ceiling*LevelWarning:
		return LevelWarning
	default:
		return LevelNone
	}
}

// CrossedLevel returns the level newly reached when the count moves from prev to next,
// or LevelNone when no level was crossed.
func CrossedLevel(prev, next, ceiling int) int {
	before := WarningLevel(prev, ceiling)
	after := WarningLevel(next, ceiling)
	if after > before {
		return after
	}
	return LevelNone
}
