package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanBooklet_EightPages(t *testing.T) {
	plan, err := PlanBooklet(8)
	require.NoError(t, err)

	assert.Equal(t, []BookletSheet{
		{Index: 0, Left: 7, Right: 0},
		{Index: 1, Left: 1, Right: 6},
		{Index: 2, Left: 5, Right: 2},
		{Index: 3, Left: 3, Right: 4},
	}, plan.Sheets)
}

func TestPlanBooklet_EveryPageOnce(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 8, 13, 16, 37} {
		plan, err := PlanBooklet(n)
		require.NoError(t, err)
		require.Len(t, plan.Sheets, plan.PaddedPages/2)

		seen := make(map[int]int)
		for _, s := range plan.Sheets {
			seen[s.Left]++
			seen[s.Right]++
		}
		require.Len(t, seen, plan.PaddedPages, "n=%d", n)
		for p := 0; p < plan.PaddedPages; p++ {
			assert.Equal(t, 1, seen[p], "n=%d page %d", n, p)
		}
	}
}

func TestPaddedPageCount(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {1, 4}, {3, 4}, {4, 4}, {5, 8}, {8, 8}, {9, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaddedPageCount(tt.in), "PaddedPageCount(%d)", tt.in)
	}
}

func TestPlanBooklet_Padding(t *testing.T) {
	plan, err := PlanBooklet(5)
	require.NoError(t, err)
	assert.Equal(t, 5, plan.SourcePages)
	assert.Equal(t, 8, plan.PaddedPages)
	assert.False(t, plan.IsBlank(4))
	assert.True(t, plan.IsBlank(5))
	assert.True(t, plan.IsBlank(7))

	plan, err = PlanBooklet(4)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.PaddedPages)
	for p := 0; p < 4; p++ {
		assert.False(t, plan.IsBlank(p))
	}
}

func TestPlanBooklet_ZeroPages(t *testing.T) {
	plan, err := PlanBooklet(0)
	require.NoError(t, err)
	assert.Empty(t, plan.Sheets)
	assert.Zero(t, plan.PaddedPages)
}

func TestPlanBooklet_Negative(t *testing.T) {
	_, err := PlanBooklet(-1)
	assert.True(t, IsValidationError(err))
}
