package character

import (
	"context"
	"log"
	"reflect"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"go.opentelemetry.io/otel/attribute"
)

// computeFunc derives the dotted-path updates for a mutation from the
// normalized document. A nil map means nothing changes.
type computeFunc func(doc *sheet.Document) (map[string]any, error)

// AdjustTrack steps a hit track or the token pool by delta
func (s *service) AdjustTrack(ctx context.Context, input *AdjustTrackInput) (view *sheet.View, err error) {
	if input == nil {
		return nil, sheeterr.InvalidArgument("input is required")
	}
	ctx, span := s.startSpan(ctx, "AdjustTrack",
		attribute.String("character.id", input.CharacterID),
		attribute.String("track", string(input.Track)),
		attribute.Int("delta", input.Delta))
	defer func() { endSpan(span, err) }()

	return s.mutate(ctx, input.UserID, input.CharacterID, func(doc *sheet.Document) (map[string]any, error) {
		state, ok := doc.Counter(input.Track)
		if !ok {
			return nil, sheeterr.InvalidArgumentf("unknown track %q", input.Track)
		}
		return counterUpdate(state, state.Adjust(input.Delta)), nil
	})
}

// ClickMarker applies a marker click to a hit track
func (s *service) ClickMarker(ctx context.Context, input *ClickMarkerInput) (view *sheet.View, err error) {
	if input == nil {
		return nil, sheeterr.InvalidArgument("input is required")
	}
	ctx, span := s.startSpan(ctx, "ClickMarker",
		attribute.String("character.id", input.CharacterID),
		attribute.String("track", string(input.Track)),
		attribute.Int("index", input.Index))
	defer func() { endSpan(span, err) }()

	if input.Index < 0 {
		return nil, sheeterr.InvalidArgumentf("marker index %d is negative", input.Index)
	}

	return s.mutate(ctx, input.UserID, input.CharacterID, func(doc *sheet.Document) (map[string]any, error) {
		if input.Track == sheet.TrackTokens {
			return nil, sheeterr.InvalidArgument("story tokens have no markers")
		}
		state, ok := doc.Counter(input.Track)
		if !ok {
			return nil, sheeterr.InvalidArgumentf("unknown track %q", input.Track)
		}
		if input.Index >= state.Max {
			return nil, sheeterr.InvalidArgumentf("%s has no marker %d", input.Track.Label(), input.Index+1)
		}
		return counterUpdate(state, state.Click(input.Index)), nil
	})
}

// AdjustQuantity steps an equipment slot's quantity by delta
func (s *service) AdjustQuantity(ctx context.Context, input *AdjustQuantityInput) (view *sheet.View, err error) {
	if input == nil {
		return nil, sheeterr.InvalidArgument("input is required")
	}
	ctx, span := s.startSpan(ctx, "AdjustQuantity",
		attribute.String("character.id", input.CharacterID),
		attribute.String("slot", input.Slot),
		attribute.Int("delta", input.Delta))
	defer func() { endSpan(span, err) }()

	return s.mutate(ctx, input.UserID, input.CharacterID, func(doc *sheet.Document) (map[string]any, error) {
		state, ok := doc.Quantity(input.Slot)
		if !ok {
			return nil, sheeterr.InvalidArgumentf("unknown equipment slot %q", input.Slot)
		}
		return counterUpdate(state, state.Adjust(input.Delta)), nil
	})
}

// SetField parses and stores one editable field
func (s *service) SetField(ctx context.Context, input *SetFieldInput) (view *sheet.View, err error) {
	if input == nil {
		return nil, sheeterr.InvalidArgument("input is required")
	}
	ctx, span := s.startSpan(ctx, "SetField",
		attribute.String("character.id", input.CharacterID),
		attribute.String("path", input.Path))
	defer func() { endSpan(span, err) }()

	field, ok := sheet.LookupField(input.Path)
	if !ok {
		return nil, sheeterr.InvalidArgumentf("%q is not an editable field", input.Path).
			WithMeta("path", input.Path)
	}

	return s.mutate(ctx, input.UserID, input.CharacterID, func(doc *sheet.Document) (map[string]any, error) {
		updates, err := field.Updates(doc, input.Value)
		if err != nil {
			return nil, err
		}
		return pruneUnchanged(doc, updates), nil
	})
}

func counterUpdate(state sheet.CounterState, next int) map[string]any {
	if next == state.Value {
		return nil
	}
	return map[string]any{state.Path: next}
}

// pruneUnchanged drops updates whose value already matches the normalized
// document.
func pruneUnchanged(doc *sheet.Document, updates map[string]any) map[string]any {
	current := flatten("", doc.Raw())
	for path, value := range updates {
		if existing, ok := current[path]; ok && reflect.DeepEqual(existing, jsonValue(value)) {
			delete(updates, path)
		}
	}
	if len(updates) == 0 {
		return nil
	}
	return updates
}

// jsonValue maps ints to the float64 a JSON round trip produces.
func jsonValue(v any) any {
	if n, ok := v.(int); ok {
		return float64(n)
	}
	return v
}

func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			for p, cv := range flatten(path, child) {
				out[p] = cv
			}
			continue
		}
		out[path] = v
	}
	return out
}

// mutate runs compute against the normalized sheet of a character the user
// owns and stores the result. A document that needs repair is rewritten in
// normalized form before the updates are applied.
func (s *service) mutate(ctx context.Context, userID, characterID string, compute computeFunc) (*sheet.View, error) {
	char, err := s.loadOwned(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}

	view := sheet.NewView(char)
	updates, err := compute(view.Sheet)
	if err != nil {
		return nil, err
	}

	repaired := false
	if sheet.NeedsRepair(char.System) {
		if err := s.repository.Replace(ctx, characterID, view.Sheet.Raw()); err != nil {
			return nil, sheeterr.Wrapf(err, "failed to repair sheet for '%s'", characterID).
				WithMeta("character_id", characterID)
		}
		log.Printf("[Sheet] Repaired document for %s", characterID)
		repaired = true
	}

	if len(updates) == 0 && !repaired {
		return view, nil
	}

	if len(updates) > 0 {
		if err := s.repository.Write(ctx, characterID, updates); err != nil {
			return nil, sheeterr.Wrapf(err, "failed to update character '%s'", characterID).
				WithMeta("character_id", characterID)
		}
	}

	updated, err := s.repository.Get(ctx, characterID)
	if err != nil {
		return nil, sheeterr.Wrapf(err, "failed to reload character '%s'", characterID).
			WithMeta("character_id", characterID)
	}
	return sheet.NewView(updated), nil
}
