package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

func TestGenerateRingDeterministic(t *testing.T) {
	st := core.DefaultStages()[2]
	a, err := core.GenerateRing(42, 17, 3, 8, st)
	require.NoError(t, err)
	b, err := core.GenerateRing(42, 17, 3, 8, st)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := core.GenerateRing(43, 17, 3, 8, st)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "seed should affect output")
}

// Every ring of every stage keeps its safe lane open and honors the floor.
func TestRingsArePassable(t *testing.T) {
	stages := core.DefaultStages()
	for seed := uint32(0); seed < 200; seed++ {
		w, err := core.NewWindow(stages, core.WindowOptions{})
		require.NoError(t, err)
		w.Reset(seed)
		require.NoError(t, w.EnsureGeneratedThrough(400))

		for i := 0; i <= 400; i++ {
			ring, err := w.Ring(i)
			require.NoError(t, err)
			st := stages.Lookup(i)

			require.Equal(t, st.Sides, ring.Sides)
			require.False(t, ring.Solid(ring.SafeLane), "seed %d ring %d: safe lane %d is solid", seed, i, ring.SafeLane)
			require.GreaterOrEqual(t, ring.OpenCount(), max(1, st.MinOpen), "seed %d ring %d", seed, i)
			require.Zero(t, ring.SolidMask>>uint(ring.Sides), "bits beyond side count must be clear")
		}
	}
}

func TestHoleTargetZeroLeavesOnlySafeLane(t *testing.T) {
	st := core.Stage{ID: 9, Sides: 8, HoleDensity: 0, MinOpen: 1, StayChance: 0.5, StepChance: 0.5, MaxDrift: 1}
	for i := 0; i < 200; i++ {
		ring, err := core.GenerateRing(7, i, 4, 8, st)
		require.NoError(t, err)
		assert.Equal(t, 1, ring.OpenCount(), "ring %d", i)
		assert.Equal(t, []int{ring.SafeLane}, ring.OpenLanes())
	}
}

// With nothing carved the open-lane floor alone opens lanes beyond the safe lane.
func TestHoleTargetZeroHonorsFloor(t *testing.T) {
	for _, minOpen := range []int{2, 3, 5} {
		st := core.Stage{ID: 9, Sides: 8, HoleDensity: 0, MinOpen: minOpen, StayChance: 0.5, StepChance: 0.5, MaxDrift: 1}
		for i := 0; i < 200; i++ {
			ring, err := core.GenerateRing(7, i, 4, 8, st)
			require.NoError(t, err)
			assert.Equal(t, minOpen, ring.OpenCount(), "min_open %d ring %d", minOpen, i)
			assert.False(t, ring.Solid(ring.SafeLane), "min_open %d ring %d", minOpen, i)
		}
	}
}

func TestSafeLaneDriftIsBounded(t *testing.T) {
	st := core.DefaultStages()[0] // MaxDrift 1
	prev := 4
	for i := 0; i < 500; i++ {
		ring, err := core.GenerateRing(11, i, prev, 8, st)
		require.NoError(t, err)
		delta := core.ShortestDelta(float64(prev), float64(ring.SafeLane), 8)
		require.LessOrEqual(t, delta, 1.0)
		require.GreaterOrEqual(t, delta, -1.0)
		prev = ring.SafeLane
	}
}

func TestOverlayOnlyDecoratesSolidLanes(t *testing.T) {
	st := core.DefaultStages()[4]
	prev := 6
	for i := 0; i < 300; i++ {
		ring, err := core.GenerateRing(5, i, prev, 12, st)
		require.NoError(t, err)
		for lane := 0; lane < ring.Sides; lane++ {
			meta := ring.Lanes[lane]
			if ring.Solid(lane) {
				assert.NotEqual(t, core.HazardNone, meta.Hazard)
			} else {
				assert.Equal(t, core.HazardNone, meta.Hazard)
			}
			if !meta.Hazard.Timed() {
				assert.Zero(t, meta.Phase)
			}
		}
		if ring.Collectible != core.CollectibleNone {
			assert.False(t, ring.Solid(ring.CollectibleLane), "pickup on a solid lane")
		} else {
			assert.Equal(t, -1, ring.CollectibleLane)
		}
		prev = ring.SafeLane
	}
}

func TestLasersStayOutOfLooseStages(t *testing.T) {
	st := core.DefaultStages()[0]
	st.ObstacleDensity = 1
	for i := 0; i < 300; i++ {
		ring, err := core.GenerateRing(3, i, 4, 8, st)
		require.NoError(t, err)
		for lane := 0; lane < ring.Sides; lane++ {
			assert.NotEqual(t, core.HazardLaser, ring.Lanes[lane].Hazard)
		}
	}
}

func TestGenerateRingRejectsBadStage(t *testing.T) {
	_, err := core.GenerateRing(1, 0, 0, 8, core.Stage{Sides: 7})
	require.ErrorIs(t, err, core.ErrUnsupportedSides)

	_, err = core.GenerateRing(1, 0, 0, 8, core.Stage{Sides: 8, MinOpen: 8})
	require.Error(t, err)
}

func TestStageTableLookup(t *testing.T) {
	stages := core.DefaultStages()
	require.NoError(t, stages.Validate())

	tests := []struct {
		index int
		id    int
	}{
		{0, 0}, {39, 0}, {40, 1}, {99, 1}, {100, 2}, {349, 3}, {350, 4}, {100000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.id, stages.Lookup(tt.index).ID, "Lookup(%d)", tt.index)
	}
}

func TestStageTableValidate(t *testing.T) {
	assert.ErrorIs(t, core.StageTable{}.Validate(), core.ErrEmptyStageTable)

	bad := core.DefaultStages()
	bad[0].FromRing = 5
	assert.ErrorIs(t, bad.Validate(), core.ErrStageOrder)

	bad = core.DefaultStages()
	bad[2].FromRing = bad[1].FromRing
	assert.ErrorIs(t, bad.Validate(), core.ErrStageOrder)
}

func TestWithFixedSides(t *testing.T) {
	fixed := core.DefaultStages().WithFixedSides(6)
	require.NoError(t, fixed.Validate())
	for _, st := range fixed {
		assert.Equal(t, 6, st.Sides)
	}
	assert.Equal(t, 10, core.DefaultStages()[2].Sides, "original table untouched")
}

func TestRescaleLane(t *testing.T) {
	tests := []struct {
		lane, from, to, want int
	}{
		{4, 8, 8, 4},
		{4, 8, 12, 6},
		{0, 8, 10, 0},
		{6, 12, 8, 4},
		{9, 8, 8, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, core.RescaleLane(tt.lane, tt.from, tt.to), "RescaleLane(%d, %d, %d)", tt.lane, tt.from, tt.to)
	}
}
