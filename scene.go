package picker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Scene is one editable scene. Roots are kept in sibling order.
type Scene struct {
	Id    uuid.UUID
	Name  string
	Roots []EntityId
}

// TransformComponent is the world-space placement of a node.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is the placement relative to the parent node.
// Nodes without one keep whatever world transform they are given.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type NameComponent struct {
	Name string
}

// GuidComponent is the stable identity serialized object references point at.
type GuidComponent struct {
	Guid uuid.UUID
}

// ModifiedComponent marks an entity whose serialized fields changed and
// need saving by the host.
type ModifiedComponent struct{}

// NodeSpec describes a node to spawn.
type NodeSpec struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Parent attaches the node under an existing node. When zero the node
	// becomes the last root of Scene.
	Parent EntityId
	Scene  uuid.UUID

	Components []any
}

// SpawnNode queues a node entity and links it into the scene graph right away
// so later spawns can parent to it before the next flush.
func SpawnNode(cmd *Commands, graph *SceneGraph, spec NodeSpec) (EntityId, error) {
	rot := spec.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	scale := spec.Scale
	if scale == (mgl32.Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}

	if spec.Parent != 0 {
		if !graph.Contains(spec.Parent) {
			return 0, fmt.Errorf("spawn %q: %w", spec.Name, ErrUnknownNode)
		}
	} else if graph.Scene(spec.Scene) == nil {
		return 0, fmt.Errorf("spawn %q: %w", spec.Name, ErrUnknownScene)
	}

	comps := []any{
		&NameComponent{Name: spec.Name},
		&GuidComponent{Guid: uuid.New()},
		&LocalTransformComponent{Position: spec.Position, Rotation: rot, Scale: scale},
		&TransformComponent{Position: spec.Position, Rotation: rot, Scale: scale},
	}
	comps = append(comps, spec.Components...)
	eid := cmd.AddEntity(comps...)

	if spec.Parent != 0 {
		graph.attach(eid, spec.Parent)
	} else {
		graph.addRoot(spec.Scene, eid)
	}
	return eid, nil
}
