package picker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// SceneDef is a scene described in YAML:
//
//	name: Level
//	nodes:
//	  - name: Door
//	    position: [0, 5, 0]
//	    children:
//	      - name: Handle
//	        position: [0.4, 0, 1]
type SceneDef struct {
	Name  string    `yaml:"name"`
	Nodes []NodeDef `yaml:"nodes"`
}

type NodeDef struct {
	Name     string    `yaml:"name"`
	Position []float32 `yaml:"position,omitempty"`
	// Rotation is in Euler degrees, applied X then Y then Z.
	Rotation []float32 `yaml:"rotation,omitempty"`
	Scale    []float32 `yaml:"scale,omitempty"`
	Children []NodeDef `yaml:"children,omitempty"`
}

func LoadSceneDef(path string) (SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneDef{}, fmt.Errorf("failed to read scene: %w", err)
	}
	def, err := ParseSceneDef(data)
	if err != nil {
		return SceneDef{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func ParseSceneDef(data []byte) (SceneDef, error) {
	var def SceneDef
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return SceneDef{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	return def, nil
}

// SpawnSceneDef creates a scene and spawns its nodes in file order. It returns
// the new scene and the spawned nodes in depth-first order.
func SpawnSceneDef(cmd *Commands, graph *SceneGraph, def SceneDef) (*Scene, []EntityId, error) {
	scene := graph.NewScene(def.Name)

	var spawned []EntityId
	var spawn func(nodes []NodeDef, parent EntityId) error
	spawn = func(nodes []NodeDef, parent EntityId) error {
		for _, n := range nodes {
			spec, err := n.nodeSpec()
			if err != nil {
				return err
			}
			spec.Parent = parent
			spec.Scene = scene.Id

			eid, err := SpawnNode(cmd, graph, spec)
			if err != nil {
				return err
			}
			spawned = append(spawned, eid)
			if err := spawn(n.Children, eid); err != nil {
				return err
			}
		}
		return nil
	}

	if err := spawn(def.Nodes, 0); err != nil {
		return scene, spawned, fmt.Errorf("scene %q: %w", def.Name, err)
	}
	return scene, spawned, nil
}

func (n NodeDef) nodeSpec() (NodeSpec, error) {
	spec := NodeSpec{Name: n.Name}

	var err error
	if spec.Position, err = vec3(n.Position, "position", n.Name); err != nil {
		return spec, err
	}
	if spec.Scale, err = vec3(n.Scale, "scale", n.Name); err != nil {
		return spec, err
	}
	euler, err := vec3(n.Rotation, "rotation", n.Name)
	if err != nil {
		return spec, err
	}
	if euler != (mgl32.Vec3{}) {
		spec.Rotation = mgl32.AnglesToQuat(
			mgl32.DegToRad(euler.X()),
			mgl32.DegToRad(euler.Y()),
			mgl32.DegToRad(euler.Z()),
			mgl32.XYZ,
		)
	}
	return spec, nil
}

func vec3(v []float32, field, node string) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec3{}, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	default:
		return mgl32.Vec3{}, fmt.Errorf("node %q: %s needs 3 values, got %d", node, field, len(v))
	}
}
