package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelwise/discovery/pkg/models"
)

func testBlender() *Blender {
	cfg := testConfig()
	return NewBlender(&cfg.Blend, &cfg.Search, testLogger())
}

func TestBlender_Blend_CollaborativeArmGoesFirst(t *testing.T) {
	engine := testEngine(t)
	snap := engine.Snapshot()
	require.NotNil(t, snap)

	got := testBlender().Blend(snap, "u1", nil, nil, 5)

	// u1's collaborative arm yields 3 and 5; the popularity-ordered content
	// arm fills the remaining slots without duplicating them.
	assert.Equal(t, []string{"3", "5", "4", "2", "1"}, got)
}

func TestBlender_Blend_ColdStartShareIsCeil(t *testing.T) {
	engine := testEngine(t)
	snap := engine.Snapshot()
	require.NotNil(t, snap)

	// Unknown user: both arms degrade to the popularity ordering. The
	// collaborative arm claims ceil(0.6*5) = 3 slots first, so the result
	// is the popularity list itself.
	got := testBlender().Blend(snap, "stranger", nil, nil, 5)
	assert.Equal(t, []string{"4", "5", "2", "1", "3"}, got)
}

func TestBlender_Blend_NoDuplicatesAndBounded(t *testing.T) {
	engine := testEngine(t)
	snap := engine.Snapshot()
	require.NotNil(t, snap)

	for _, limit := range []int{1, 2, 3, 5, 20} {
		got := testBlender().Blend(snap, "u1", nil, nil, limit)
		assert.LessOrEqual(t, len(got), limit)

		seen := make(map[string]bool)
		for _, id := range got {
			assert.False(t, seen[id], "duplicate id %s at limit %d", id, limit)
			seen[id] = true
		}

		share := int(math.Ceil(float64(limit) * 0.6))
		collaborative := snap.Model.Recommend("u1", limit)
		if share > len(collaborative) {
			share = len(collaborative)
		}
		if share > limit {
			share = limit
		}
		assert.Equal(t, collaborative[:share], got[:share],
			"collaborative share must lead the blend at limit %d", limit)
	}
}

func TestBlender_Blend_PreferencesDriveContentArm(t *testing.T) {
	engine := testEngine(t)
	snap := engine.Snapshot()
	require.NotNil(t, snap)

	prefs := &models.UserPreferences{PreferredGenres: []string{"Crime", "Drama"}}
	got := testBlender().Blend(snap, "stranger", prefs, nil, 3)

	// An unknown user's collaborative arm is the popularity list, which
	// already leads with the Crime/Drama titles; the content arm ranked
	// against the preference profile must keep them in the blend.
	require.Len(t, got, 3)
	assert.Contains(t, got, "4")
	assert.Contains(t, got, "5")
}

func TestBlender_Blend_PostMergeFiltering(t *testing.T) {
	engine := testEngine(t)
	snap := engine.Snapshot()
	require.NotNil(t, snap)

	filters := &models.SearchFilters{Genre: "crime"}
	got := testBlender().Blend(snap, "u1", nil, filters, 5)

	// Filtering happens after the merge, so the blend can return fewer
	// than limit items. Whatever survives must match the filter.
	for _, id := range got {
		item, ok := snap.Lookup(id)
		require.True(t, ok)
		assert.Contains(t, item.Genres, "Crime")
	}
	assert.Less(t, len(got), 5)
}
