package picker

import (
	"math/big"
	"reflect"
	"strings"

	"cogentcore.org/core/base/strcase"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/picker/order"
)

type ObjectKind int

const (
	// ObjectNode is a scene node picked as a whole.
	ObjectNode ObjectKind = iota
	// ObjectComponent is a component attached to a scene node.
	ObjectComponent
)

// Object is something a picker can hand back: either a node or one of its
// components. Both resolve to the node that positions them.
type Object struct {
	Kind      ObjectKind
	Entity    EntityId
	Component any // pointer to the stored component, nil for nodes
}

func NodeObject(eid EntityId) Object {
	return Object{Kind: ObjectNode, Entity: eid}
}

func ComponentObject(eid EntityId, component any) Object {
	return Object{Kind: ObjectComponent, Entity: eid, Component: component}
}

func (o Object) IsZero() bool {
	if o.Entity == 0 {
		return true
	}
	return o.Kind == ObjectComponent && o.Component == nil
}

// Value is what typed pick callbacks receive: the EntityId for nodes, the
// component pointer otherwise.
func (o Object) Value() any {
	if o.Kind == ObjectNode {
		return o.Entity
	}
	return o.Component
}

// TypeName is the Go type name of the object, "Node" for nodes.
func (o Object) TypeName() string {
	if o.Kind == ObjectNode || o.Component == nil {
		return "Node"
	}
	t := reflect.TypeOf(o.Component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Candidate is a pickable object with the data needed to rank it. It is built
// once per object when a pick session starts.
type Candidate struct {
	object         Object
	node           EntityId
	name           string
	label          string
	depth          int
	hierarchyOrder *big.Int
}

// NewCandidate resolves the positioning node of obj and precomputes its label
// and hierarchy order. Objects without a positioned node yield an invalid
// candidate.
func NewCandidate(cmd *Commands, graph *SceneGraph, obj Object) Candidate {
	c := Candidate{object: obj}
	if obj.IsZero() {
		return c
	}

	node := obj.Entity
	if !cmd.HasEntity(node) || GetComponent[TransformComponent](cmd, node) == nil {
		return c
	}
	c.node = node
	c.name = nodeName(cmd, node)

	// '/' would split the label into submenus in the disambiguation menu.
	path := strings.ReplaceAll(nodePath(cmd, graph, node), "/", "\\")
	c.label = path + " (" + strcase.ToTitle(obj.TypeName()) + ")"

	c.depth = graph.Depth(node)
	c.hierarchyOrder = order.Key(graph.SiblingPath(node))
	return c
}

func (c Candidate) Valid() bool {
	return c.node != 0 && !c.object.IsZero()
}

func (c Candidate) Object() Object { return c.object }
func (c Candidate) Node() EntityId { return c.node }
func (c Candidate) Name() string   { return c.name }
func (c Candidate) Label() string  { return c.label }
func (c Candidate) Depth() int     { return c.depth }

// HierarchyOrder is nil when the node is not reachable from a scene root.
func (c Candidate) HierarchyOrder() *big.Int { return c.hierarchyOrder }

// Position is the current world position of the candidate's node.
func (c Candidate) Position(cmd *Commands) (mgl32.Vec3, bool) {
	if !c.Valid() {
		return mgl32.Vec3{}, false
	}
	tr := GetComponent[TransformComponent](cmd, c.node)
	if tr == nil {
		return mgl32.Vec3{}, false
	}
	return tr.Position, true
}

// ScreenPosition projects the candidate's node into viewport space.
func (c Candidate) ScreenPosition(cmd *Commands, projector Projector) (mgl32.Vec3, bool) {
	pos, ok := c.Position(cmd)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return projector.WorldToScreen(pos), true
}

func (c Candidate) IsBehindCamera(cmd *Commands, projector Projector) bool {
	screen, ok := c.ScreenPosition(cmd, projector)
	return ok && IsBehindCamera(screen)
}

func nodeName(cmd *Commands, eid EntityId) string {
	if n := GetComponent[NameComponent](cmd, eid); n != nil {
		return n.Name
	}
	return ""
}

// nodePath joins the names from the root down to eid with '/'.
func nodePath(cmd *Commands, graph *SceneGraph, eid EntityId) string {
	var b strings.Builder
	for _, a := range graph.Ancestors(eid) {
		b.WriteString(nodeName(cmd, a))
		b.WriteByte('/')
	}
	b.WriteString(nodeName(cmd, eid))
	return b.String()
}
