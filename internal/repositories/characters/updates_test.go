package characters

import (
	"testing"
	"time"

	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const legacyRecord = `{"id":"c1","owner_id":"u1","realm_id":"g1","name":"Ilse","kind":"character",` +
	`"system":{"resources":{"hits":{"value":2,"max":3}}},` +
	`"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}`

func TestApplyUpdates(t *testing.T) {
	now := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)

	out, err := ApplyUpdates([]byte(legacyRecord), map[string]any{
		"resources.hits.physical.value": 1,
		"stats.body.value":              "d8",
		"aspects.aspect1.firstUse":      false,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), gjson.GetBytes(out, "system.resources.hits.physical.value").Int())
	assert.Equal(t, "d8", gjson.GetBytes(out, "system.stats.body.value").String())
	assert.False(t, gjson.GetBytes(out, "system.aspects.aspect1.firstUse").Bool())
	assert.Equal(t, int64(2), gjson.GetBytes(out, "system.resources.hits.value").Int(), "siblings are untouched")
	assert.Equal(t, "2026-03-04T05:06:07Z", gjson.GetBytes(out, "updated_at").String())
	assert.Equal(t, "2026-01-01T00:00:00Z", gjson.GetBytes(out, "created_at").String())
}

func TestApplyUpdates_NullDocument(t *testing.T) {
	out, err := ApplyUpdates([]byte(`{"id":"c1","system":null}`), map[string]any{
		"notes.patternOfThree": "three crows",
	}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "three crows", gjson.GetBytes(out, "system.notes.patternOfThree").String())
}

func TestApplyUpdates_RejectsBadPaths(t *testing.T) {
	for _, path := range []string{"", "stats..value", "stats.*.value", "aspects.#", "a|b", "x.@this"} {
		_, err := ApplyUpdates([]byte(legacyRecord), map[string]any{path: 1}, time.Now())
		assert.True(t, sheeterr.IsInvalidArgument(err), "path %q: %v", path, err)
	}
}

func TestReplaceSystem(t *testing.T) {
	now := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)

	out, err := ReplaceSystem([]byte(legacyRecord), map[string]any{
		"resources": map[string]any{
			"hits": map[string]any{
				"physical": map[string]any{"value": 2, "max": 3},
				"mental":   map[string]any{"value": 0, "max": 0},
			},
		},
	}, now)
	require.NoError(t, err)

	assert.False(t, gjson.GetBytes(out, "system.resources.hits.value").Exists())
	assert.Equal(t, int64(2), gjson.GetBytes(out, "system.resources.hits.physical.value").Int())
	assert.Equal(t, "Ilse", gjson.GetBytes(out, "name").String())

	out, err = ReplaceSystem(out, nil, now)
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(out, "system").IsObject())
}

func TestRecordOwner(t *testing.T) {
	owner, realm := recordOwner([]byte(legacyRecord))
	assert.Equal(t, "u1", owner)
	assert.Equal(t, "g1", realm)
}
