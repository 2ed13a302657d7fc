package picker

import (
	"github.com/go-gl/mathgl/mgl32"
)

// HierarchyModule provides the SceneGraph resource and keeps world transforms
// in sync with local ones.
type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	if Resource[SceneGraph](app) == nil {
		cmd.AddResources(NewSceneGraph())
	}
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate),
	)
}

// TransformHierarchySystem walks every scene parents-first, so one pass
// settles hierarchies of any depth.
func TransformHierarchySystem(cmd *Commands, graph *SceneGraph) {
	for _, scene := range graph.Scenes() {
		graph.Walk(scene.Id, func(eid EntityId) bool {
			local := GetComponent[LocalTransformComponent](cmd, eid)
			world := GetComponent[TransformComponent](cmd, eid)
			if local == nil || world == nil {
				return true
			}

			parent := graph.Parent(eid)
			if parent == 0 {
				world.Position = local.Position
				world.Rotation = local.Rotation
				world.Scale = local.Scale
				return true
			}

			parentWorld := GetComponent[TransformComponent](cmd, parent)
			if parentWorld == nil {
				return true
			}

			// Components are propagated directly to preserve scale signs (reflections).
			// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
			scaledLocalPos := mgl32.Vec3{
				local.Position.X() * parentWorld.Scale.X(),
				local.Position.Y() * parentWorld.Scale.Y(),
				local.Position.Z() * parentWorld.Scale.Z(),
			}
			world.Position = parentWorld.Position.Add(parentWorld.Rotation.Rotate(scaledLocalPos))
			world.Rotation = parentWorld.Rotation.Mul(local.Rotation).Normalize()
			world.Scale = mgl32.Vec3{
				parentWorld.Scale.X() * local.Scale.X(),
				parentWorld.Scale.Y() * local.Scale.Y(),
				parentWorld.Scale.Z() * local.Scale.Z(),
			}
			return true
		})
	}
}
