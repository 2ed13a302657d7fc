package picker

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

type EntityId uint64

// Ecs stores components per entity, keyed by their struct type. Components are
// held as pointers so systems and pick callbacks mutate the stored value.
// Entities are iterated in creation order, which makes every query (and so
// candidate discovery) deterministic.
type Ecs struct {
	entities map[EntityId]map[reflect.Type]any
	order    []EntityId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId
}

func MakeEcs() Ecs {
	return Ecs{
		entities:        make(map[EntityId]map[reflect.Type]any),
		entityIdCounter: EntityId(0),
	}
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	if _, ok := ecs.entities[entityId]; !ok {
		ecs.entities[entityId] = make(map[reflect.Type]any, len(components))
		ecs.order = append(ecs.order, entityId)
	}
	ecs.writeComponents(entityId, components...)
	return entityId
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	if _, ok := ecs.entities[entityId]; !ok {
		return
	}
	delete(ecs.entities, entityId)
	if i := slices.Index(ecs.order, entityId); i >= 0 {
		ecs.order = slices.Delete(ecs.order, i, i+1)
	}
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	if _, ok := ecs.entities[entityId]; !ok {
		return
	}
	ecs.writeComponents(entityId, components...)
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	comps, ok := ecs.entities[entityId]
	if !ok {
		return
	}
	for _, c := range components {
		delete(comps, componentType(c))
	}
}

func (ecs *Ecs) writeComponents(entityId EntityId, components ...any) {
	comps := ecs.entities[entityId]
	for _, component := range components {
		t := componentType(component)
		comps[t] = componentPointer(component)
	}
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entities[entityId]
	return ok
}

func (ecs *Ecs) component(entityId EntityId, t reflect.Type) (any, bool) {
	comps, ok := ecs.entities[entityId]
	if !ok {
		return nil, false
	}
	c, ok := comps[t]
	return c, ok
}

// componentsOf returns the components of an entity ordered by type name so
// callers see the same order every frame.
func (ecs *Ecs) componentsOf(entityId EntityId) []any {
	comps := ecs.entities[entityId]
	types := make([]reflect.Type, 0, len(comps))
	for t := range comps {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})

	res := make([]any, 0, len(types))
	for _, t := range types {
		res = append(res, comps[t])
	}
	return res
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	// 0 is reserved for "no entity".
	ecs.entityIdCounter += 1
	return ecs.entityIdCounter
}

// componentType is the struct type a component value is keyed by.
func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("component should not be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected Component to be a struct or a pointer to a struct, got %s", t.Kind()))
	}
	return t
}

// componentPointer returns a pointer to the component, copying values so the
// store never aliases a caller's stack variable.
func componentPointer(component any) any {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		return component
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	return ptr.Interface()
}
