package sheet

import (
	"sort"
	"strconv"
	"strings"

	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
)

// MaxTextLength bounds free-text fields; it matches the longest value a
// Discord embed field can show.
const MaxTextLength = 1024

// FieldKind is the value type of an editable field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldDie
	FieldOptionalDie
	FieldCount
	FieldFlag
)

// Field is a user-editable dotted path in the document.
type Field struct {
	Path string
	Kind FieldKind

	// bounds returns the allowed range for count fields.
	bounds func(*Document) (int, int)
	// follow lists extra updates implied by the new value, such as clamping a
	// hit value when its max is lowered.
	follow func(*Document, int) map[string]any
}

var editableFields = buildEditableFields()

func buildEditableFields() map[string]Field {
	fields := make(map[string]Field)
	add := func(f Field) { fields[f.Path] = f }

	for _, key := range StatKeys {
		add(Field{Path: "stats." + string(key) + ".value", Kind: FieldDie})
	}
	add(Field{Path: "resources.storyDie.value", Kind: FieldDie})

	hitTracks := map[string]func(*Document) Counter{
		"physical": func(d *Document) Counter { return d.Resources.Hits.Physical },
		"mental":   func(d *Document) Counter { return d.Resources.Hits.Mental },
	}
	for name, get := range hitTracks {
		valuePath := "resources.hits." + name + ".value"
		add(Field{
			Path:   valuePath,
			Kind:   FieldCount,
			bounds: func(d *Document) (int, int) { return 0, get(d).Max },
		})
		add(Field{
			Path:   "resources.hits." + name + ".max",
			Kind:   FieldCount,
			bounds: func(*Document) (int, int) { return 0, Unbounded },
			follow: func(d *Document, newMax int) map[string]any {
				if get(d).Value > newMax {
					return map[string]any{valuePath: newMax}
				}
				return nil
			},
		})
	}
	add(Field{
		Path:   "resources.storyTokens.value",
		Kind:   FieldCount,
		bounds: func(*Document) (int, int) { return 0, Unbounded },
	})

	for _, slot := range AspectSlots {
		for _, name := range []string{"name", "nature", "passive", "active"} {
			add(Field{Path: "aspects." + slot + "." + name, Kind: FieldText})
		}
		add(Field{Path: "aspects." + slot + ".firstUse", Kind: FieldFlag})
	}

	for _, slot := range ItemSlots {
		add(Field{Path: "bonusDice." + slot + ".name", Kind: FieldText})
		add(Field{Path: "bonusDice." + slot + ".die", Kind: FieldOptionalDie})
		add(Field{Path: "equipment." + slot + ".name", Kind: FieldText})
		add(Field{
			Path:   "equipment." + slot + ".quantity",
			Kind:   FieldCount,
			bounds: func(*Document) (int, int) { return 0, Unbounded },
		})
	}

	add(Field{Path: "notes.patternOfThree", Kind: FieldText})
	add(Field{Path: "profile.personalName", Kind: FieldText})
	add(Field{Path: "profile.archetype", Kind: FieldText})

	return fields
}

// LookupField finds an editable field by dotted path. Stat keys may be given
// in any case.
func LookupField(path string) (Field, bool) {
	path = strings.TrimSpace(path)
	if f, ok := editableFields[path]; ok {
		return f, true
	}
	if rest, ok := strings.CutPrefix(path, "stats."); ok {
		if key, value, found := strings.Cut(rest, "."); found {
			f, ok := editableFields["stats."+strings.ToLower(key)+"."+value]
			return f, ok
		}
	}
	return Field{}, false
}

// EditablePaths returns every editable path in sorted order.
func EditablePaths() []string {
	paths := make([]string, 0, len(editableFields))
	for p := range editableFields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Updates parses input for the field and returns the dotted-path updates to
// store. Counts are clamped to the field's bounds in doc.
func (f Field) Updates(doc *Document, input string) (map[string]any, error) {
	input = strings.TrimSpace(input)

	switch f.Kind {
	case FieldText:
		if len(input) > MaxTextLength {
			return nil, sheeterr.Validationf("%s is limited to %d characters", f.Path, MaxTextLength)
		}
		return map[string]any{f.Path: input}, nil

	case FieldDie:
		die, ok := ParseDieSize(input)
		if !ok {
			return nil, invalidDie(input)
		}
		return map[string]any{f.Path: string(die)}, nil

	case FieldOptionalDie:
		if input == "" || strings.EqualFold(input, "none") {
			return map[string]any{f.Path: ""}, nil
		}
		die, ok := ParseDieSize(input)
		if !ok {
			return nil, invalidDie(input)
		}
		return map[string]any{f.Path: string(die)}, nil

	case FieldCount:
		n, err := strconv.Atoi(input)
		if err != nil {
			return nil, sheeterr.Validationf("%q is not a whole number", input)
		}
		lo, hi := f.bounds(doc)
		n = clamp(n, lo, hi)
		updates := map[string]any{f.Path: n}
		if f.follow != nil {
			for path, value := range f.follow(doc, n) {
				updates[path] = value
			}
		}
		return updates, nil

	case FieldFlag:
		switch strings.ToLower(input) {
		case "yes", "y", "on":
			return map[string]any{f.Path: true}, nil
		case "no", "n", "off":
			return map[string]any{f.Path: false}, nil
		}
		b, err := strconv.ParseBool(input)
		if err != nil {
			return nil, sheeterr.Validationf("%q is not yes or no", input)
		}
		return map[string]any{f.Path: b}, nil
	}

	return nil, sheeterr.Internalf("field %s has no parser", f.Path)
}

func invalidDie(input string) error {
	return sheeterr.Validationf("%q is not a die size (use d4, d6, d8, d10, d12 or d20)", input)
}
