package characters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/pgte-bot/internal/domain/sheet"
	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// systemKey is the record field holding the sheet document.
const systemKey = "system"

// ValidatePath checks that a dotted document path is plain field names.
func ValidatePath(path string) error {
	if path == "" {
		return sheeterr.InvalidArgument("update path is required")
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return sheeterr.InvalidArgumentf("update path %q has an empty segment", path)
		}
		for _, r := range part {
			if !isPathRune(r) {
				return sheeterr.InvalidArgumentf("update path %q contains %q", path, r)
			}
		}
	}
	return nil
}

func isPathRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// ApplyUpdates writes dotted-path updates into the document of an encoded
// record and stamps its update time. Paths are applied in sorted order so
// the result does not depend on map iteration.
func ApplyUpdates(record []byte, updates map[string]any, now time.Time) ([]byte, error) {
	paths := make([]string, 0, len(updates))
	for path := range updates {
		if err := ValidatePath(path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var err error
	for _, path := range paths {
		record, err = sjson.SetBytes(record, systemKey+"."+path, updates[path])
		if err != nil {
			return nil, sheeterr.Wrapf(err, "failed to set %s", path)
		}
	}
	return stamp(record, now)
}

// ReplaceSystem swaps the whole document of an encoded record.
func ReplaceSystem(record []byte, system map[string]any, now time.Time) ([]byte, error) {
	if system == nil {
		system = map[string]any{}
	}
	raw, err := json.Marshal(system)
	if err != nil {
		return nil, sheeterr.Wrap(err, "failed to encode sheet document")
	}
	record, err = sjson.SetRawBytes(record, systemKey, raw)
	if err != nil {
		return nil, sheeterr.Wrap(err, "failed to replace sheet document")
	}
	return stamp(record, now)
}

func stamp(record []byte, now time.Time) ([]byte, error) {
	out, err := sjson.SetBytes(record, "updated_at", now.UTC())
	if err != nil {
		return nil, sheeterr.Wrap(err, "failed to stamp record")
	}
	return out, nil
}

func encodeRecord(char *sheet.Character) ([]byte, error) {
	data, err := json.Marshal(char)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal character: %w", err)
	}
	return data, nil
}

func decodeRecord(data []byte) (*sheet.Character, error) {
	var char sheet.Character
	if err := json.Unmarshal(data, &char); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	if char.System == nil {
		char.System = map[string]any{}
	}
	return &char, nil
}

// recordOwner reads the owner and realm of an encoded record without a full
// decode.
func recordOwner(data []byte) (ownerID, realmID string) {
	res := gjson.GetManyBytes(data, "owner_id", "realm_id")
	return res[0].String(), res[1].String()
}

// validateNew checks a record before it is created and fills defaults.
func validateNew(char *sheet.Character, now time.Time) error {
	if char == nil {
		return sheeterr.InvalidArgument("character cannot be nil")
	}
	if char.ID == "" {
		return sheeterr.InvalidArgument("character ID is required")
	}
	if char.OwnerID == "" {
		return sheeterr.InvalidArgument("character owner ID is required")
	}
	if char.Kind == "" {
		char.Kind = sheet.KindCharacter
	}
	if char.System == nil {
		char.System = map[string]any{}
	}
	char.CreatedAt = now.UTC()
	char.UpdatedAt = char.CreatedAt
	return nil
}

func notFound(id string) error {
	return sheeterr.NotFoundf("character with ID '%s' not found", id).
		WithMeta("character_id", id)
}

func alreadyExists(id string) error {
	return sheeterr.AlreadyExistsf("character with ID '%s' already exists", id).
		WithMeta("character_id", id)
}

func sortByName(chars []*sheet.Character) {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Name != chars[j].Name {
			return chars[i].Name < chars[j].Name
		}
		return chars[i].ID < chars[j].ID
	})
}
