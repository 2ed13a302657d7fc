package picker

import (
	"fmt"

	"github.com/google/uuid"
)

// ObjectRef is a serializable reference to a node, or to one of its
// components, by the GUID of the node.
type ObjectRef struct {
	Guid      uuid.UUID `yaml:"guid" json:"guid"`
	Component string    `yaml:"component,omitempty" json:"component,omitempty"`
}

func (r ObjectRef) IsZero() bool {
	return r.Guid == uuid.Nil
}

func (r ObjectRef) String() string {
	if r.IsZero() {
		return "None"
	}
	if r.Component != "" {
		return r.Guid.String() + ":" + r.Component
	}
	return r.Guid.String()
}

// RefTo builds the reference for obj. Nodes without a GUID cannot be referenced.
func RefTo(cmd *Commands, obj Object) (ObjectRef, bool) {
	if obj.IsZero() {
		return ObjectRef{}, false
	}
	g := GetComponent[GuidComponent](cmd, obj.Entity)
	if g == nil {
		return ObjectRef{}, false
	}
	ref := ObjectRef{Guid: g.Guid}
	if obj.Kind == ObjectComponent {
		ref.Component = obj.TypeName()
	}
	return ref, true
}

// Resolve finds the object the reference points at.
func (r ObjectRef) Resolve(cmd *Commands) (Object, bool) {
	if r.IsZero() {
		return Object{}, false
	}

	var owner EntityId
	MakeQuery1[GuidComponent](cmd).Map(func(eid EntityId, g *GuidComponent) bool {
		if g.Guid == r.Guid {
			owner = eid
			return false
		}
		return true
	})
	if owner == 0 {
		return Object{}, false
	}
	if r.Component == "" {
		return NodeObject(owner), true
	}

	for _, c := range cmd.GetAllComponents(owner) {
		obj := ComponentObject(owner, c)
		if obj.TypeName() == r.Component {
			return obj, true
		}
	}
	return Object{}, false
}

// Property is an object reference field owned by an entity, the target a pick
// session writes its result into.
type Property struct {
	Owner EntityId
	// Path names the field for diagnostics, e.g. "Connections[0].Target".
	Path  string
	Field *ObjectRef

	// OnChanged runs after a successful write with the previous and new value.
	OnChanged func(previous, current ObjectRef)
}

func (p *Property) String() string {
	return fmt.Sprintf("%d.%s", p.Owner, p.Path)
}

// apply writes obj into the field, marks the owner modified and fires the
// change callback. Unresolvable targets are logged and skipped.
func (p *Property) apply(cmd *Commands, logger Logger, obj Object) bool {
	if p.Field == nil {
		logger.Warnf("Was asked to write property '%s' but it has no field to write to", p)
		return false
	}
	if !cmd.HasEntity(p.Owner) {
		logger.Warnf("Was asked to write property '%s' but its owner no longer exists", p)
		return false
	}
	current, ok := RefTo(cmd, obj)
	if !ok {
		logger.Warnf("Picked object on entity %d has no GUID; property '%s' left unchanged", obj.Entity, p)
		return false
	}

	previous := *p.Field
	*p.Field = current
	cmd.AddComponents(p.Owner, &ModifiedComponent{})

	if p.OnChanged != nil {
		p.OnChanged(previous, current)
	}
	return true
}
