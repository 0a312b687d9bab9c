// Package contacts maps spoken names to messaging addresses.
package contacts

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("contact not found")

type Contact struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type file struct {
	Contacts []Contact `yaml:"contacts"`
}

// Directory is read-only after construction and safe for concurrent use.
type Directory struct {
	byName map[string]Contact
}

func New(list []Contact) (*Directory, error) {
	d := &Directory{byName: make(map[string]Contact, len(list))}

	for i, c := range list {
		key := key(c.Name)
		if key == "" {
			return nil, fmt.Errorf("contact #%d: empty name", i)
		}
		if strings.TrimSpace(c.Address) == "" {
			return nil, fmt.Errorf("contact %q: empty address", c.Name)
		}
		if _, dup := d.byName[key]; dup {
			return nil, fmt.Errorf("contact %q: duplicate name", c.Name)
		}
		d.byName[key] = Contact{Name: key, Address: strings.TrimSpace(c.Address)}
	}

	return d, nil
}

// Load reads a YAML address book:
//
//	contacts:
//	  - name: mum
//	    address: "+15550100"
func Load(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contacts: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse contacts %s: %w", path, err)
	}

	return New(f.Contacts)
}

// Resolve looks a name up case-insensitively. No fuzzy or partial matching.
func (d *Directory) Resolve(name string) (string, error) {
	c, ok := d.byName[key(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.Address, nil
}

func (d *Directory) Len() int {
	return len(d.byName)
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
