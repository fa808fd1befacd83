package sheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Default hit tracks for a fresh character.
var (
	DefaultPhysicalHits = Counter{Value: 0, Max: 3}
	DefaultMentalHits   = Counter{Value: 0, Max: 0}
)

// Normalize builds a complete document from any JSON-like input. It never
// fails: missing or malformed sections are replaced with defaults, stat
// labels are re-derived, and flat legacy hits are split into two tracks.
// The input map is not modified.
func Normalize(raw map[string]any) *Document {
	return &Document{
		Stats:     normalizeStats(asMap(raw["stats"])),
		Resources: normalizeResources(asMap(raw["resources"])),
		Aspects:   normalizeAspects(asMap(raw["aspects"])),
		BonusDice: normalizeBonusDice(asMap(raw["bonusDice"])),
		Equipment: normalizeEquipment(asMap(raw["equipment"])),
		Notes: Notes{
			PatternOfThree: textValue(asMap(raw["notes"])["patternOfThree"]),
		},
		Profile: Profile{
			PersonalName: textValue(asMap(raw["profile"])["personalName"]),
			Archetype:    textValue(asMap(raw["profile"])["archetype"]),
		},
	}
}

// NormalizeJSON is Normalize over an encoded document. Undecodable input
// yields the default document.
func NormalizeJSON(data []byte) *Document {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = nil
	}
	return Normalize(raw)
}

// Default returns the document an empty input normalizes to.
func Default() *Document {
	return Normalize(nil)
}

// NeedsRepair reports whether raw differs from its normalized form, i.e.
// whether a store holding raw should be rewritten before dotted-path writes.
func NeedsRepair(raw map[string]any) bool {
	if raw == nil {
		return true
	}
	// Round-trip so numeric types compare the same way on both sides.
	data, err := json.Marshal(raw)
	if err != nil {
		return true
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return true
	}
	return !reflect.DeepEqual(decoded, Normalize(decoded).Raw())
}

// IsLegacyHits reports whether raw stores hits in the pre-split flat shape.
func IsLegacyHits(raw map[string]any) bool {
	hits := asMap(asMap(raw["resources"])["hits"])
	if hits == nil {
		return false
	}
	_, hasPhysical := hits["physical"]
	return !hasPhysical
}

func normalizeStats(in map[string]any) map[StatKey]Stat {
	stats := make(map[StatKey]Stat, len(StatKeys))
	for _, key := range StatKeys {
		stored := asMap(in[string(key)])
		stats[key] = Stat{
			Value: dieValue(stored["value"], DefaultDie),
			Label: CanonicalLabel(key),
			Uses:  CanonicalUses(key),
		}
	}
	return stats
}

func normalizeResources(in map[string]any) Resources {
	return Resources{
		StoryDie: DieValue{
			Value: dieValue(asMap(in["storyDie"])["value"], DefaultDie),
		},
		Hits: normalizeHits(asMap(in["hits"])),
		StoryTokens: Tokens{
			Value: max(0, intValue(asMap(in["storyTokens"])["value"], 0)),
		},
	}
}

func normalizeHits(in map[string]any) Hits {
	if in == nil {
		return Hits{Physical: DefaultPhysicalHits, Mental: DefaultMentalHits}
	}

	if _, ok := in["physical"]; !ok {
		// Flat {value, max} from before the physical/mental split. The mental
		// track did not exist yet, so anything nested under it is ignored.
		return Hits{
			Physical: counterValue(in, DefaultPhysicalHits),
			Mental:   DefaultMentalHits,
		}
	}

	return Hits{
		Physical: counterValue(asMap(in["physical"]), DefaultPhysicalHits),
		Mental:   counterValue(asMap(in["mental"]), DefaultMentalHits),
	}
}

func normalizeAspects(in map[string]any) map[string]Aspect {
	aspects := make(map[string]Aspect, len(AspectSlots))
	for _, slot := range AspectSlots {
		stored := asMap(in[slot])
		aspects[slot] = Aspect{
			Name:     textValue(stored["name"]),
			Nature:   textValue(stored["nature"]),
			Passive:  textValue(stored["passive"]),
			Active:   textValue(stored["active"]),
			FirstUse: boolValue(stored["firstUse"], true),
		}
	}
	return aspects
}

func normalizeBonusDice(in map[string]any) map[string]BonusDie {
	dice := make(map[string]BonusDie, len(ItemSlots))
	for _, slot := range ItemSlots {
		stored := asMap(in[slot])
		dice[slot] = BonusDie{
			Name: textValue(stored["name"]),
			Die:  dieValue(stored["die"], ""),
		}
	}
	return dice
}

func normalizeEquipment(in map[string]any) map[string]Item {
	items := make(map[string]Item, len(ItemSlots))
	for _, slot := range ItemSlots {
		stored := asMap(in[slot])
		items[slot] = Item{
			Name:     textValue(stored["name"]),
			Quantity: max(0, intValue(stored["quantity"], 0)),
		}
	}
	return items
}

func counterValue(in map[string]any, fallback Counter) Counter {
	if in == nil {
		return fallback
	}
	limit := max(0, intValue(in["max"], fallback.Max))
	return Counter{
		Value: clamp(intValue(in["value"], fallback.Value), 0, limit),
		Max:   limit,
	}
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out
	}
	return nil
}

// dieValue keeps stored text as-is; numbers become "dN".
func dieValue(v any, fallback DieSize) DieSize {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(t) == "" {
			return fallback
		}
		return DieSize(t)
	case bool, map[string]any, []any:
		return fallback
	}
	if n := intValue(v, 0); n > 0 {
		return DieSize("d" + strconv.Itoa(n))
	}
	return fallback
}

func intValue(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return clampInt64(int64(n))
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return clampInt64(n)
	case uint:
		return clampUint64(uint64(n))
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return clampUint64(n)
	case float32:
		return floatToInt(float64(n), fallback)
	case float64:
		return floatToInt(n, fallback)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return clampInt64(i)
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f, fallback)
		}
	case string:
		// ParseInt saturates on overflow, which the clamp then folds in.
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return clampInt64(i)
		}
	}
	return fallback
}

func clampInt64(n int64) int {
	return int(max(-Unbounded, min(Unbounded, n)))
}

func clampUint64(n uint64) int {
	return int(min(Unbounded, n))
}

func floatToInt(f float64, fallback int) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return int(clampFloat(math.Trunc(f)))
}

func clampFloat(f float64) float64 {
	return math.Max(-Unbounded, math.Min(Unbounded, f))
}

func boolValue(v any, fallback bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return fallback
}

func textValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil, map[string]any, map[any]any, []any:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
