package ecs

import "strconv"

// EntityId identifies an entity. It is also the entity's slot index in every
// component column, so ids are issued densely starting at zero and never reused.
type EntityId uint32

// Index returns the slot index of the entity.
func (e EntityId) Index() int {
	return int(e)
}

func (e EntityId) String() string {
	return "entity#" + strconv.FormatUint(uint64(e), 10)
}
