package model

import "fmt"

// PoolKind discriminates the two kinds of capacity pools. Voyage pools and
// time-slot pools share the inventory store interface but are never
// interchangeable: the kind selects the table the counter lives in.
type PoolKind uint8

const (
	PoolVoyage PoolKind = iota + 1
	PoolTimeSlot
)

// PoolKey identifies a single capacity counter: either a voyage or an
// (activity, time slot) pair. All inventory operations are keyed by it.
type PoolKey struct {
	Kind       PoolKind
	OfferingID uint64 // voyage id, or activity id for slot pools
	SlotID     uint64 // time slot id; zero for voyage pools
}

// VoyagePool returns the pool key for a voyage's capacity counter.
func VoyagePool(voyageID uint64) PoolKey {
	return PoolKey{Kind: PoolVoyage, OfferingID: voyageID}
}

// TimeSlotPool returns the pool key for one slot of an activity.
func TimeSlotPool(activityID, slotID uint64) PoolKey {
	return PoolKey{Kind: PoolTimeSlot, OfferingID: activityID, SlotID: slotID}
}

// String renders the key for logs and event payloads.
func (k PoolKey) String() string {
	if k.Kind == PoolTimeSlot {
		return fmt.Sprintf("slot:%d:%d", k.OfferingID, k.SlotID)
	}
	return fmt.Sprintf("voyage:%d", k.OfferingID)
}
