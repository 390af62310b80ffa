package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tnplan/exec"
	"github.com/katalvlaran/tnplan/texpr"
)

var (
	// ErrUnknownObject indicates a queried object is not registered.
	ErrUnknownObject = errors.New("registry: unknown object")

	// ErrLegRange indicates a leg number outside the object's arity.
	ErrLegRange = errors.New("registry: leg out of range")
)

// entry is one object's parsed leg spaces.
type entry struct {
	outs []texpr.Space
	ins  []texpr.Space
}

// Registry is an immutable, name-keyed object inventory. It
// implements texpr.Inventory.
type Registry struct {
	entries map[string]entry
}

// document mirrors the YAML layout.
type document struct {
	Objects map[string]struct {
		Outs []string `yaml:"outs"`
		Ins  []string `yaml:"ins"`
	} `yaml:"objects"`
}

// Load reads and parses a registry file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse builds a Registry from YAML bytes.
func Parse(raw []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("registry: parse: %w", err)
	}
	r := &Registry{entries: make(map[string]entry, len(doc.Objects))}
	for name, o := range doc.Objects {
		r.entries[name] = entry{
			outs: parseSpaces(o.Outs),
			ins:  parseSpaces(o.Ins),
		}
	}
	return r, nil
}

// ParseSpace reads a space literal; a trailing * marks the dual.
func ParseSpace(s string) texpr.Space {
	if strings.HasSuffix(s, "*") {
		return texpr.Space{Name: strings.TrimSuffix(s, "*"), Dual: true}
	}
	return texpr.Space{Name: s}
}

func parseSpaces(ss []string) []texpr.Space {
	out := make([]texpr.Space, len(ss))
	for i, s := range ss {
		out[i] = ParseSpace(s)
	}
	return out
}

// Arity implements texpr.Inventory.
func (r *Registry) Arity(obj string) (outs, ins int, err error) {
	e, ok := r.entries[obj]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownObject, obj)
	}
	return len(e.outs), len(e.ins), nil
}

// LegSpace implements texpr.Inventory; legs number over the outgoing
// legs first.
func (r *Registry) LegSpace(obj string, leg int) (texpr.Space, error) {
	e, ok := r.entries[obj]
	if !ok {
		return texpr.Space{}, fmt.Errorf("%w: %s", ErrUnknownObject, obj)
	}
	if leg < 0 || leg >= len(e.outs)+len(e.ins) {
		return texpr.Space{}, fmt.Errorf("%w: %s leg %d", ErrLegRange, obj, leg)
	}
	if leg < len(e.outs) {
		return e.outs[leg], nil
	}
	return e.ins[leg-len(e.outs)], nil
}

// Env builds a space-level execution environment from the registry.
func (r *Registry) Env() exec.Env {
	env := make(exec.Env, len(r.entries))
	for name, e := range r.entries {
		env[name] = exec.Object{
			Name: name,
			Outs: append([]texpr.Space(nil), e.outs...),
			Ins:  append([]texpr.Space(nil), e.ins...),
		}
	}
	return env
}
