package picker

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrUnknownScene = errors.New("unknown scene")
	ErrCycle        = errors.New("node cannot be parented under its own subtree")
)

// SceneGraph is the parent/child structure of every scene. It is a resource
// rather than a component so sibling order is a single ordered slice.
type SceneGraph struct {
	scenes   []*Scene
	parent   map[EntityId]EntityId
	children map[EntityId][]EntityId
	rootOf   map[EntityId]uuid.UUID // scene of each root node
}

func NewSceneGraph() *SceneGraph {
	return &SceneGraph{
		parent:   make(map[EntityId]EntityId),
		children: make(map[EntityId][]EntityId),
		rootOf:   make(map[EntityId]uuid.UUID),
	}
}

// NewScene registers an empty scene and returns it.
func (g *SceneGraph) NewScene(name string) *Scene {
	s := &Scene{Id: uuid.New(), Name: name}
	g.scenes = append(g.scenes, s)
	return s
}

func (g *SceneGraph) Scenes() []*Scene {
	return g.scenes
}

func (g *SceneGraph) Scene(id uuid.UUID) *Scene {
	for _, s := range g.scenes {
		if s.Id == id {
			return s
		}
	}
	return nil
}

// Contains reports whether eid is linked into some scene, directly as a root
// or under a parent.
func (g *SceneGraph) Contains(eid EntityId) bool {
	if _, ok := g.rootOf[eid]; ok {
		return true
	}
	_, ok := g.parent[eid]
	return ok
}

// AddRoot makes eid the last root of the scene, detaching it from wherever it
// was before.
func (g *SceneGraph) AddRoot(sceneId uuid.UUID, eid EntityId) error {
	if g.Scene(sceneId) == nil {
		return fmt.Errorf("add root %d: %w", eid, ErrUnknownScene)
	}
	g.detach(eid)
	g.addRoot(sceneId, eid)
	return nil
}

func (g *SceneGraph) addRoot(sceneId uuid.UUID, eid EntityId) {
	s := g.Scene(sceneId)
	s.Roots = append(s.Roots, eid)
	g.rootOf[eid] = sceneId
}

// SetParent moves child to the end of parent's children.
func (g *SceneGraph) SetParent(child, parent EntityId) error {
	if !g.Contains(parent) {
		return fmt.Errorf("set parent of %d: %w", child, ErrUnknownNode)
	}
	for p := parent; p != 0; p = g.parent[p] {
		if p == child {
			return fmt.Errorf("set parent of %d to %d: %w", child, parent, ErrCycle)
		}
	}
	g.detach(child)
	g.attach(child, parent)
	return nil
}

func (g *SceneGraph) attach(child, parent EntityId) {
	g.parent[child] = parent
	g.children[parent] = append(g.children[parent], child)
}

func (g *SceneGraph) detach(eid EntityId) {
	if sceneId, ok := g.rootOf[eid]; ok {
		s := g.Scene(sceneId)
		s.Roots = slices.DeleteFunc(s.Roots, func(e EntityId) bool { return e == eid })
		delete(g.rootOf, eid)
		return
	}
	if p, ok := g.parent[eid]; ok {
		g.children[p] = slices.DeleteFunc(g.children[p], func(e EntityId) bool { return e == eid })
		delete(g.parent, eid)
	}
}

// Remove unlinks eid and forgets its whole subtree. It returns the removed
// entities, eid first, so the caller can despawn them.
func (g *SceneGraph) Remove(eid EntityId) []EntityId {
	var removed []EntityId
	g.walk(eid, func(e EntityId) bool {
		removed = append(removed, e)
		return true
	})
	g.detach(eid)
	for _, e := range removed {
		delete(g.children, e)
		delete(g.parent, e)
	}
	return removed
}

// SetSiblingIndex moves eid to index among its siblings, clamped to range.
func (g *SceneGraph) SetSiblingIndex(eid EntityId, index int) {
	siblings, set := g.siblings(eid)
	if set == nil {
		return
	}
	cur := slices.Index(siblings, eid)
	rest := slices.Delete(slices.Clone(siblings), cur, cur+1)
	index = max(0, min(index, len(rest)))
	set(slices.Insert(rest, index, eid))
}

// siblings returns the ordered list eid lives in and a setter replacing it.
func (g *SceneGraph) siblings(eid EntityId) ([]EntityId, func([]EntityId)) {
	if sceneId, ok := g.rootOf[eid]; ok {
		s := g.Scene(sceneId)
		return s.Roots, func(r []EntityId) { s.Roots = r }
	}
	if p, ok := g.parent[eid]; ok {
		return g.children[p], func(c []EntityId) { g.children[p] = c }
	}
	return nil, nil
}

// Parent returns the parent of eid, or 0 for roots and unknown nodes.
func (g *SceneGraph) Parent(eid EntityId) EntityId {
	return g.parent[eid]
}

func (g *SceneGraph) Children(eid EntityId) []EntityId {
	return g.children[eid]
}

// SiblingIndex is the position of eid under its parent, or among its scene's
// roots. Unknown nodes report -1.
func (g *SceneGraph) SiblingIndex(eid EntityId) int {
	siblings, set := g.siblings(eid)
	if set == nil {
		return -1
	}
	return slices.Index(siblings, eid)
}

// Depth counts the ancestors of eid; roots are at depth 0.
func (g *SceneGraph) Depth(eid EntityId) int {
	depth := 0
	for p := g.parent[eid]; p != 0; p = g.parent[p] {
		depth++
	}
	return depth
}

// Ancestors returns eid's ancestors from the root down, excluding eid.
func (g *SceneGraph) Ancestors(eid EntityId) []EntityId {
	var res []EntityId
	for p := g.parent[eid]; p != 0; p = g.parent[p] {
		res = append(res, p)
	}
	slices.Reverse(res)
	return res
}

// SiblingPath returns the sibling indices from the scene root down to eid.
// Nodes that are not reachable from a scene root have no path.
func (g *SceneGraph) SiblingPath(eid EntityId) []int {
	chain := append(g.Ancestors(eid), eid)
	if _, ok := g.rootOf[chain[0]]; !ok {
		return nil
	}
	path := make([]int, len(chain))
	for i, e := range chain {
		path[i] = g.SiblingIndex(e)
	}
	return path
}

// SceneOf returns the scene eid belongs to through its root, or uuid.Nil.
func (g *SceneGraph) SceneOf(eid EntityId) uuid.UUID {
	root := eid
	for p := g.parent[root]; p != 0; p = g.parent[p] {
		root = p
	}
	return g.rootOf[root]
}

// Walk visits the scene's nodes depth-first in sibling order: a node, then its
// children, then its next sibling. Returning false from fn stops the walk.
func (g *SceneGraph) Walk(sceneId uuid.UUID, fn func(EntityId) bool) {
	s := g.Scene(sceneId)
	if s == nil {
		return
	}
	for _, root := range s.Roots {
		if !g.walk(root, fn) {
			return
		}
	}
}

func (g *SceneGraph) walk(eid EntityId, fn func(EntityId) bool) bool {
	if !fn(eid) {
		return false
	}
	for _, c := range g.children[eid] {
		if !g.walk(c, fn) {
			return false
		}
	}
	return true
}
