package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/entity"
)

// requireContiguous checks the partition invariant: sorted, gap-free,
// spanning exactly [0, 1440).
func requireContiguous(t *testing.T, blocks []entity.TimeBlock) {
	t.Helper()
	require.NotEmpty(t, blocks)
	assert.InDelta(t, 0, blocks[0].StartMin, 1e-9)
	assert.InDelta(t, 1440, blocks[len(blocks)-1].EndMin, 1e-9)
	var total float64
	for i, b := range blocks {
		assert.Less(t, b.StartMin, b.EndMin, "block %d has no width", i)
		assert.InDelta(t, b.EndMin-b.StartMin, b.Minutes, 1e-9)
		if i > 0 {
			assert.InDelta(t, blocks[i-1].EndMin, b.StartMin, 1e-9, "gap before block %d", i)
		}
		total += b.Minutes
	}
	assert.InDelta(t, 1440, total, 1e-9)
}

func TestTimeBlocksPastDay(t *testing.T) {
	now := at("2025-03-11", 12, 0)
	records := []entity.ActivityRecord{
		closed("study", "2025-03-10", 8, 0, 10, 0),
		closed("exercise", "2025-03-10", 14, 0, 15, 30),
	}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 5)
	requireContiguous(t, blocks)

	assert.Equal(t, entity.KindIdle, blocks[0].Kind)
	assert.InDelta(t, 480, blocks[0].EndMin, 1e-9)

	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.Equal(t, "Study", blocks[1].Name)
	assert.InDelta(t, 480, blocks[1].StartMin, 1e-9)
	assert.InDelta(t, 600, blocks[1].EndMin, 1e-9)

	assert.Equal(t, entity.KindIdle, blocks[2].Kind)
	assert.InDelta(t, 840, blocks[2].EndMin, 1e-9)

	assert.Equal(t, "exercise", blocks[3].ActivityID)
	assert.InDelta(t, 840, blocks[3].StartMin, 1e-9)
	assert.InDelta(t, 930, blocks[3].EndMin, 1e-9)

	assert.Equal(t, entity.KindIdle, blocks[4].Kind)
	assert.InDelta(t, 1440, blocks[4].EndMin, 1e-9)
}

func TestTimeBlocksEmptyPastDay(t *testing.T) {
	now := at("2025-03-11", 12, 0)
	blocks, err := TimeBlocks(nil, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, entity.KindIdle, blocks[0].Kind)
	requireContiguous(t, blocks)
}

func TestTimeBlocksFutureDay(t *testing.T) {
	now := at("2025-03-10", 12, 0)
	records := []entity.ActivityRecord{closed("study", "2025-03-11", 8, 0, 10, 0)}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-11", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, entity.KindFuture, blocks[0].Kind)
	assert.Equal(t, entity.FutureName, blocks[0].Name)
	requireContiguous(t, blocks)
}

func TestTimeBlocksToday(t *testing.T) {
	now := at("2025-03-10", 6, 0)
	records := []entity.ActivityRecord{closed("study", "2025-03-10", 1, 0, 3, 0)}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	requireContiguous(t, blocks)

	assert.Equal(t, entity.KindIdle, blocks[0].Kind)
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.Equal(t, entity.KindIdle, blocks[2].Kind)
	assert.InDelta(t, 360, blocks[2].EndMin, 1e-9)
	assert.Equal(t, entity.KindFuture, blocks[3].Kind)
	assert.InDelta(t, 360, blocks[3].StartMin, 1e-9)
}

func TestTimeBlocksTodayOpenRecord(t *testing.T) {
	now := at("2025-03-10", 6, 0)
	records := []entity.ActivityRecord{open("study", "2025-03-10", 5, 0)}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	requireContiguous(t, blocks)

	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.InDelta(t, 300, blocks[1].StartMin, 1e-9)
	assert.InDelta(t, 360, blocks[1].EndMin, 1e-9)
	assert.Equal(t, entity.KindFuture, blocks[2].Kind)
}

func TestTimeBlocksPastDayOpenRecord(t *testing.T) {
	// An open record left on a past day runs to the end of that day.
	now := at("2025-03-12", 9, 0)
	records := []entity.ActivityRecord{open("study", "2025-03-10", 23, 0)}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, entity.KindIdle, blocks[0].Kind)
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.InDelta(t, 1380, blocks[1].StartMin, 1e-9)
	assert.InDelta(t, 1440, blocks[1].EndMin, 0.02)
}

func TestTimeBlocksAbuttingRecords(t *testing.T) {
	now := at("2025-03-11", 12, 0)
	records := []entity.ActivityRecord{
		closed("study", "2025-03-10", 8, 0, 10, 0),
		closed("exercise", "2025-03-10", 10, 0, 11, 0),
	}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	requireContiguous(t, blocks)
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.Equal(t, "exercise", blocks[2].ActivityID)
	assert.InDelta(t, blocks[1].EndMin, blocks[2].StartMin, 1e-9)
}

func TestTimeBlocksMergesSameActivity(t *testing.T) {
	// Two abutting records of the same activity come out as one block.
	now := at("2025-03-11", 12, 0)
	records := []entity.ActivityRecord{
		closed("study", "2025-03-10", 8, 0, 9, 0),
		{
			ID:         "study2",
			ActivityID: "study",
			Start:      at("2025-03-10", 9, 0),
			End:        timePtr(at("2025-03-10", 10, 0)),
			Date:       "2025-03-10",
		},
	}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	requireContiguous(t, blocks)
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.InDelta(t, 480, blocks[1].StartMin, 1e-9)
	assert.InDelta(t, 600, blocks[1].EndMin, 1e-9)
}

func TestTimeBlocksOverlappingRecords(t *testing.T) {
	now := at("2025-03-11", 12, 0)
	records := []entity.ActivityRecord{
		closed("study", "2025-03-10", 8, 0, 10, 0),
		closed("exercise", "2025-03-10", 9, 0, 11, 0),
	}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	requireContiguous(t, blocks)
	// The overlap is attributed to the earlier record; the later one starts
	// where the cursor left off.
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.InDelta(t, 600, blocks[1].EndMin, 1e-9)
	assert.Equal(t, "exercise", blocks[2].ActivityID)
	assert.InDelta(t, 600, blocks[2].StartMin, 1e-9)
	assert.InDelta(t, 660, blocks[2].EndMin, 1e-9)
}

func TestTimeBlocksRecordCrossingMidnight(t *testing.T) {
	// A record running into the next day is clipped to this day's 1440th minute.
	now := at("2025-03-12", 12, 0)
	end := at("2025-03-11", 2, 0)
	records := []entity.ActivityRecord{{
		ActivityID: "study",
		Start:      at("2025-03-10", 22, 0),
		End:        &end,
		Date:       "2025-03-10",
	}}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	requireContiguous(t, blocks)
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.InDelta(t, 1320, blocks[1].StartMin, 1e-9)
	assert.InDelta(t, 1440, blocks[1].EndMin, 1e-9)
}

func TestTimeBlocksUnknownActivity(t *testing.T) {
	now := at("2025-03-11", 12, 0)
	records := []entity.ActivityRecord{closed("deleted", "2025-03-10", 8, 0, 10, 0)}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, entity.UnknownName, blocks[1].Name)
	assert.Equal(t, entity.UnknownColor, blocks[1].Color)
}

func TestTimeBlocksUnsortedInput(t *testing.T) {
	now := at("2025-03-11", 12, 0)
	records := []entity.ActivityRecord{
		closed("exercise", "2025-03-10", 14, 0, 15, 30),
		closed("study", "2025-03-10", 8, 0, 10, 0),
	}
	blocks, err := TimeBlocks(records, testActivities, "2025-03-10", now, time.UTC)
	require.NoError(t, err)
	require.Len(t, blocks, 5)
	assert.Equal(t, "study", blocks[1].ActivityID)
	assert.Equal(t, "exercise", blocks[3].ActivityID)
}

func timePtr(t time.Time) *time.Time { return &t }
