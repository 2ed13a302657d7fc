package picker

import (
	"reflect"
)

type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }

// Map calls m for every entity holding an A, in creation order, until m
// returns false.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	tA := reflect.TypeFor[A]()
	for _, eid := range q.ecs.order {
		a, ok := q.ecs.entities[eid][tA]
		if !ok {
			continue
		}
		if !m(eid, a.(*A)) {
			return
		}
	}
}

// Map calls m for every entity holding both an A and a B.
func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	tA, tB := reflect.TypeFor[A](), reflect.TypeFor[B]()
	for _, eid := range q.ecs.order {
		comps := q.ecs.entities[eid]
		a, okA := comps[tA]
		b, okB := comps[tB]
		if !okA || !okB {
			continue
		}
		if !m(eid, a.(*A), b.(*B)) {
			return
		}
	}
}

// GetComponent returns the entity's component of type T, or nil.
func GetComponent[T any](cmd *Commands, eid EntityId) *T {
	c, ok := cmd.app.ecs.component(eid, reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	return c.(*T)
}

// HasEntity reports whether eid is alive.
func (cmd *Commands) HasEntity(eid EntityId) bool {
	return cmd.app.ecs.hasEntity(eid)
}

// mapComponents visits every (entity, component pointer) pair whose component
// passes keep, in entity creation order.
func (cmd *Commands) mapComponents(keep func(reflect.Type) bool, m func(EntityId, any) bool) {
	ecs := cmd.app.ecs
	for _, eid := range ecs.order {
		for _, c := range ecs.componentsOf(eid) {
			if !keep(reflect.TypeOf(c).Elem()) {
				continue
			}
			if !m(eid, c) {
				return
			}
		}
	}
}
