package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Placeholder names understood by Render
const (
	PlaceholderIP       = "ip"
	PlaceholderUsername = "username"
	PlaceholderLocation = "location"
	PlaceholderService  = "service"
	PlaceholderDuration = "duration"
	PlaceholderSize     = "size"
)

// ErrInvalidCatalog signals a catalog that can not be used to generate notifications
var ErrInvalidCatalog = errors.New("invalid event catalog")

// EventTemplate is one event type and the descriptions it can be rendered with
type EventTemplate struct {
	EventType    string   `yaml:"event_type"`
	Descriptions []string `yaml:"descriptions"`
}

// Catalog holds the event templates split by notification kind
type Catalog struct {
	Security    []EventTemplate `yaml:"security"`
	Operational []EventTemplate `yaml:"operational"`
}

// DefaultCatalog returns the embedded catalog
func DefaultCatalog() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadCatalog reads a YAML catalog from disk. An empty path selects the embedded catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if len(path) == 0 {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event catalog '%s': %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	err := yaml.Unmarshal(data, &catalog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	err = catalog.Validate()
	if err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Validate checks both lists are populated and every event has a type and at least one description
func (c *Catalog) Validate() error {
	if len(c.Security) == 0 {
		return fmt.Errorf("%w: no security events", ErrInvalidCatalog)
	}
	if len(c.Operational) == 0 {
		return fmt.Errorf("%w: no operational events", ErrInvalidCatalog)
	}

	for _, list := range [][]EventTemplate{c.Security, c.Operational} {
		for i, event := range list {
			if len(strings.TrimSpace(event.EventType)) == 0 {
				return fmt.Errorf("%w: event at index %d has no event_type", ErrInvalidCatalog, i)
			}
			if len(event.Descriptions) == 0 {
				return fmt.Errorf("%w: event %q has no descriptions", ErrInvalidCatalog, event.EventType)
			}
		}
	}

	return nil
}

// Render substitutes the {name} placeholders found in values. Unknown placeholders are left untouched.
func Render(description string, values map[string]string) string {
	if len(values) == 0 {
		return description
	}

	pairs := make([]string, 0, 2*len(values))
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(description)
}
