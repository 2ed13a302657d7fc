package picker

import (
	"reflect"
)

// structuralComponents make up a node itself; they are never picked as
// behaviors.
var structuralComponents = map[reflect.Type]bool{
	reflect.TypeFor[TransformComponent]():      true,
	reflect.TypeFor[LocalTransformComponent](): true,
	reflect.TypeFor[NameComponent]():           true,
	reflect.TypeFor[GuidComponent]():           true,
	reflect.TypeFor[ModifiedComponent]():       true,
}

// componentMatcher returns whether a stored component type satisfies target.
// Interface targets are capabilities checked against behavior components;
// anything else must be the exact component type.
func componentMatcher(target reflect.Type) func(reflect.Type) bool {
	if target.Kind() == reflect.Interface {
		return func(t reflect.Type) bool {
			if structuralComponents[t] {
				return false
			}
			return reflect.PointerTo(t).Implements(target)
		}
	}
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	return func(t reflect.Type) bool { return t == target }
}

func (p *Picker) findAllCandidates(target reflect.Type, scope Scope) []Candidate {
	cmd := p.commands()
	graph := p.graph()

	objects := p.findObjects(cmd, graph, target, scope)
	candidates := make([]Candidate, 0, len(objects))
	for _, o := range objects {
		candidates = append(candidates, NewCandidate(cmd, graph, o))
	}
	return candidates
}

// findObjects lists the objects matching target. A scene scope walks the
// scene depth-first from its roots; the global scope goes by entity creation
// order.
func (p *Picker) findObjects(cmd *Commands, graph *SceneGraph, target reflect.Type, scope Scope) []Object {
	var objects []Object

	if target == NodeType {
		p.eachNode(cmd, graph, scope, func(eid EntityId) {
			objects = append(objects, NodeObject(eid))
		})
		return objects
	}

	matches := componentMatcher(target)
	if scope.IsGlobal() {
		cmd.mapComponents(matches, func(eid EntityId, c any) bool {
			objects = append(objects, ComponentObject(eid, c))
			return true
		})
		return objects
	}

	p.eachNode(cmd, graph, scope, func(eid EntityId) {
		for _, c := range cmd.GetAllComponents(eid) {
			if matches(reflect.TypeOf(c).Elem()) {
				objects = append(objects, ComponentObject(eid, c))
			}
		}
	})
	return objects
}

func (p *Picker) eachNode(cmd *Commands, graph *SceneGraph, scope Scope, fn func(EntityId)) {
	if scope.IsGlobal() {
		MakeQuery1[TransformComponent](cmd).Map(func(eid EntityId, _ *TransformComponent) bool {
			fn(eid)
			return true
		})
		return
	}

	if graph.Scene(scope.Scene) == nil {
		p.logger().Warnf("Scene %s not found, nothing to pick from", scope.Scene)
		return
	}
	graph.Walk(scope.Scene, func(eid EntityId) bool {
		if cmd.HasEntity(eid) && GetComponent[TransformComponent](cmd, eid) != nil {
			fn(eid)
		}
		return true
	})
}
