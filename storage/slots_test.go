package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestPlanSlotUpdate_AllocateZeroFilled(t *testing.T) {
	plan := planSlotUpdate(nil, 14, 13, 50, true)

	assert.Equal(t, slotAllocate, plan.Kind)
	require.Len(t, plan.Array, 14)
	for i, slot := range plan.Array {
		require.NotNil(t, slot, "slot %d should be zero-filled", i)
		if i == 13 {
			assert.Equal(t, 50.0, *slot)
		} else {
			assert.Equal(t, 0.0, *slot, "only the targeted index may be non-zero")
		}
	}
}

func TestPlanSlotUpdate_AllocateNullFilled(t *testing.T) {
	plan := planSlotUpdate(nil, 6, 2, 10, false)

	assert.Equal(t, slotAllocate, plan.Kind)
	require.Len(t, plan.Array, 6)
	for i, slot := range plan.Array {
		if i == 2 {
			require.NotNil(t, slot)
			assert.Equal(t, 10.0, *slot)
		} else {
			assert.Nil(t, slot, "untouched sections stay null")
		}
	}
}

func TestPlanSlotUpdate_ResizeGrowPreservesOverlap(t *testing.T) {
	// Stored length 4, configuration says 6: indices 0-3 survive, the new
	// slot takes the penalty, the trailing slot stays null.
	current := []*float64{f(1), f(2), f(3), f(4)}
	plan := planSlotUpdate(current, 6, 4, 25, false)

	assert.Equal(t, slotResize, plan.Kind)
	assert.Equal(t, 4, plan.OldLen)
	require.Len(t, plan.Array, 6)
	for i := 0; i < 4; i++ {
		require.NotNil(t, plan.Array[i])
		assert.Equal(t, float64(i+1), *plan.Array[i])
	}
	require.NotNil(t, plan.Array[4])
	assert.Equal(t, 25.0, *plan.Array[4])
	assert.Nil(t, plan.Array[5])
}

func TestPlanSlotUpdate_ResizeShrinkDropsTail(t *testing.T) {
	current := []*float64{f(1), f(2), f(3), f(4), f(5)}
	plan := planSlotUpdate(current, 3, 1, 9, true)

	assert.Equal(t, slotResize, plan.Kind)
	require.Len(t, plan.Array, 3)
	assert.Equal(t, 1.0, *plan.Array[0])
	assert.Equal(t, 9.0, *plan.Array[1])
	assert.Equal(t, 3.0, *plan.Array[2])
}

func TestPlanSlotUpdate_PatchWhenLengthMatches(t *testing.T) {
	current := []*float64{f(0), f(5), f(0)}
	plan := planSlotUpdate(current, 3, 0, 2, true)

	assert.Equal(t, slotPatch, plan.Kind)
	assert.Nil(t, plan.Array, "patch plans never rewrite the array")
}

func TestSlotHelpers(t *testing.T) {
	values := []float64{1, 0, 3}
	slots := floatsToSlots(values)
	require.Len(t, slots, 3)
	assert.Equal(t, values, slotsToFloats(slots))
	assert.Equal(t, 4.0, slotsTotal(slots))

	assert.Nil(t, floatsToSlots(nil))
	assert.Equal(t, 2.0, slotsTotal([]*float64{nil, f(2), nil}))
}

func TestAssignmentAllows(t *testing.T) {
	a := &UserJudgeAssignment{
		Email:      "judge@example.com",
		EventID:    "E1",
		Discipline: DisciplineSlalom,
		Start:      true,
		Gates:      []int{3, 7},
	}

	assert.True(t, a.Allows("E1", DisciplineSlalom, AssignmentClaim{Position: PositionStart}))
	assert.False(t, a.Allows("E1", DisciplineSlalom, AssignmentClaim{Position: PositionFinish}))
	assert.True(t, a.Allows("E1", DisciplineSlalom, AssignmentClaim{Gate: 7}))
	assert.False(t, a.Allows("E1", DisciplineSlalom, AssignmentClaim{Gate: 8}))
	assert.False(t, a.Allows("E2", DisciplineSlalom, AssignmentClaim{Gate: 3}), "wrong event")
	assert.False(t, a.Allows("E1", DisciplineDRR, AssignmentClaim{Gate: 3}), "wrong discipline")
}
