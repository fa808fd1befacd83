package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var builtinSample []byte

// Sample is the on-disk fixture format. System is the raw document and may be
// partial or in a legacy shape; it is normalized on render.
type Sample struct {
	Name   string         `yaml:"name"`
	Kind   string         `yaml:"kind"`
	Owner  string         `yaml:"owner"`
	System map[string]any `yaml:"system"`
}

// ParseSample decodes a YAML fixture into a character record.
func ParseSample(data []byte) (*sheet.Character, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, sheeterr.InvalidArgument("sample is empty")
	}

	var s Sample
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, sheeterr.Wrap(sheeterr.InvalidArgument(err.Error()), "decode sample")
	}

	kind, ok := sheet.ParseKind(s.Kind)
	if !ok {
		return nil, sheeterr.InvalidArgumentf("unknown kind %q", s.Kind)
	}

	return &sheet.Character{
		ID:      "sample",
		OwnerID: s.Owner,
		Name:    s.Name,
		Kind:    kind,
		System:  s.System,
	}, nil
}

// LoadSample reads a YAML fixture from disk.
func LoadSample(path string) (*sheet.Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseSample(data)
}

// BuiltinSample is the character shown when no fixture is given.
func BuiltinSample() *sheet.Character {
	c, err := ParseSample(builtinSample)
	if err != nil {
		panic(fmt.Sprintf("builtin sample: %v", err))
	}
	return c
}
