// Package text holds the user-facing message catalog.
package text

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var defaultMessages []byte

// Catalog maps dotted keys such as "errors.save_failed" to messages.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]string
}

var (
	instance *Catalog
	once     sync.Once
)

// Parse reads a YAML catalog. Nested mappings become dotted keys.
func Parse(data []byte) (*Catalog, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse text catalog: %w", err)
	}
	c := &Catalog{messages: make(map[string]string)}
	flatten("", tree, c.messages)
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
}

// Default returns the catalog built into the binary.
func Default() *Catalog {
	c, err := Parse(defaultMessages)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the built-in catalog and overlays the file at path.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Merge(override)
	return c, nil
}

// Initialize loads the catalog and sets the package instance. Only the first
// call has any effect.
func Initialize(path string) error {
	var err error
	once.Do(func() {
		instance, err = Load(path)
	})
	return err
}

// GetInstance returns the package catalog, or the built-in one before
// Initialize.
func GetInstance() *Catalog {
	if instance == nil {
		return defaultCatalog()
	}
	return instance
}

var defaultCatalog = sync.OnceValue(Default)

// Merge copies every message of other over c.
func (c *Catalog) Merge(other *Catalog) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range other.messages {
		c.messages[k] = v
	}
}

// Get returns the message for key, or key itself when it is missing.
func (c *Catalog) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Getf formats the message for key with args.
func (c *Catalog) Getf(key string, args ...any) string {
	return fmt.Sprintf(c.Get(key), args...)
}

// Has reports whether key is in the catalog.
func (c *Catalog) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.messages[key]
	return ok
}

// Keys returns every key in sorted order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.messages))
	for k := range c.messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks key up in the package catalog.
func Get(key string) string {
	return GetInstance().Get(key)
}

// Getf formats key from the package catalog.
func Getf(key string, args ...any) string {
	return GetInstance().Getf(key, args...)
}
