package profile

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
)

// Profile names a reusable module selection with optional option overrides.
type Profile struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Modules     []string `yaml:"modules" json:"modules"`
	Timeout     string   `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	TopPorts    int      `yaml:"top_ports,omitempty" json:"top_ports,omitempty"`
}

// Apply merges the profile's overrides into the base options. Timeout is a
// duration string ("5s", "1500ms").
func (p *Profile) Apply(base modules.Options) (modules.Options, error) {
	out := base
	if p.Timeout != "" {
		d, err := time.ParseDuration(p.Timeout)
		if err != nil {
			return out, fmt.Errorf("invalid timeout in profile %q: %w", p.Name, err)
		}
		out.Timeout = d
	}
	if p.TopPorts > 0 {
		out.TopPorts = p.TopPorts
	}
	return out, nil
}

// Load loads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(p.Modules) == 0 {
		return nil, fmt.Errorf("profile %q names no modules", p.Name)
	}
	return &p, nil
}

// Predefined contains common profile templates.
var Predefined = map[string]*Profile{
	"full": {
		Name:        "full",
		Description: "All probe modules with default options",
		Modules:     []string{"dns", "whois", "headers", "portscan"},
	},
	"quick": {
		Name:        "quick",
		Description: "Fast pass: DNS and HTTP headers only",
		Modules:     []string{"dns", "headers"},
	},
	"network": {
		Name:        "network",
		Description: "Network surface: DNS and a wider port sweep",
		Modules:     []string{"dns", "portscan"},
		TopPorts:    100,
	},
}

// Get returns a predefined profile by name.
func Get(name string) (*Profile, bool) {
	p, ok := Predefined[name]
	return p, ok
}

// List returns predefined profile names, sorted.
func List() []string {
	names := make([]string, 0, len(Predefined))
	for name := range Predefined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
