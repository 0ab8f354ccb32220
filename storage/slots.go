package storage

// The sized-slot policy shared by every penalty array in the system
// (slalom gates, DRR sections): an array must end up with exactly the
// configured length, existing values survive up to the overlap, and a write
// touches only its own slot whenever the stored length already matches.

type slotPlanKind int

const (
	// slotAllocate: no array stored yet, write a freshly filled one.
	slotAllocate slotPlanKind = iota
	// slotResize: stored length differs from the configured total, rewrite
	// the whole array. Values past the new length are dropped; gate/section
	// counts are not supposed to change mid-event.
	slotResize
	// slotPatch: stored length matches, update the single slot in place.
	slotPatch
)

type slotPlan struct {
	Kind   slotPlanKind
	OldLen int
	// Array is the full replacement array for allocate/resize plans;
	// unset for patch plans.
	Array []*float64
}

// planSlotUpdate decides how a sized penalty array accepts a new value at
// index. A nil entry represents an unrecorded slot; zeroFill chooses whether
// fresh slots start at 0 (slalom) or stay null (DRR).
func planSlotUpdate(current []*float64, length, index int, value float64, zeroFill bool) slotPlan {
	if current == nil {
		arr := newSlots(length, zeroFill)
		arr[index] = &value
		return slotPlan{Kind: slotAllocate, Array: arr}
	}
	if len(current) != length {
		arr := newSlots(length, zeroFill)
		for i := 0; i < len(current) && i < length; i++ {
			arr[i] = current[i]
		}
		arr[index] = &value
		return slotPlan{Kind: slotResize, OldLen: len(current), Array: arr}
	}
	return slotPlan{Kind: slotPatch, OldLen: len(current)}
}

func newSlots(length int, zeroFill bool) []*float64 {
	arr := make([]*float64, length)
	if zeroFill {
		for i := range arr {
			zero := 0.0
			arr[i] = &zero
		}
	}
	return arr
}

func floatsToSlots(values []float64) []*float64 {
	if values == nil {
		return nil
	}
	arr := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		arr[i] = &v
	}
	return arr
}

func slotsToFloats(arr []*float64) []float64 {
	values := make([]float64, len(arr))
	for i, p := range arr {
		if p != nil {
			values[i] = *p
		}
	}
	return values
}

func slotsTotal(arr []*float64) float64 {
	var total float64
	for _, p := range arr {
		if p != nil {
			total += *p
		}
	}
	return total
}
