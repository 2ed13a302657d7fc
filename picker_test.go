package picker

import (
	"reflect"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPicker_NearbyWithinGroupDistance(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{5, 0, 0})
	w.node(t, "B", 0, mgl32.Vec3{15, 0, 0})
	w.node(t, "C", 0, mgl32.Vec3{29, 0, 0})
	w.node(t, "D", 0, mgl32.Vec3{31, 0, 0})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, Scope: GlobalScope()}))
	require.True(t, w.picker.IsPicking())
	assert.Len(t, w.picker.Candidates(), 4)

	w.hover(0, 0)

	assert.Equal(t, "A", w.picker.Best().Name())
	// B, C and D sit 10, 24 and 26 away from A; only D is outside 25.
	if diff := cmp.Diff([]string{"A", "B", "C"}, names(w.picker.Nearby())); diff != "" {
		t.Errorf("nearby mismatch (-want +got):\n%s", diff)
	}
}

func TestPicker_BestIsNearestToPointer(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "Left", 0, mgl32.Vec3{-100, 0, 0})
	w.node(t, "Right", 0, mgl32.Vec3{100, 0, 0})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))

	w.hover(90, 0)
	assert.Equal(t, "Right", w.picker.Best().Name())

	w.hover(-90, 5)
	assert.Equal(t, "Left", w.picker.Best().Name())
	assert.Equal(t, []string{"Left"}, names(w.picker.Nearby()))
}

func TestPicker_EmptyCandidateSetStaysIdle(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "Plain", 0, mgl32.Vec3{})

	err := Pick(w.picker, GlobalScope(), func(l *LampComponent) {
		t.Fatal("nothing should be picked")
	})
	require.NoError(t, err)
	assert.False(t, w.picker.IsPicking())
	assert.Empty(t, w.picker.Candidates())
}

func TestPicker_NilTarget(t *testing.T) {
	w := newTestWorld(t)
	assert.ErrorIs(t, w.picker.StartPicking(Request{}), ErrNoTarget)
	assert.False(t, w.picker.IsPicking())
}

func TestPicker_BehindCameraIsNeverBest(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "Behind", 0, mgl32.Vec3{1, 0, -5})
	w.node(t, "Ahead", 0, mgl32.Vec3{10, 0, 0})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)

	assert.Equal(t, "Ahead", w.picker.Best().Name())
	assert.Equal(t, []string{"Ahead"}, names(w.picker.Nearby()))
}

func TestPicker_AllBehindCameraHasNoBest(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "Behind", 0, mgl32.Vec3{0, 0, -1})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)

	assert.False(t, w.picker.Best().Valid())
	assert.Empty(t, w.picker.Nearby())
	assert.False(t, w.picker.Overlay().Visible)

	// Committing nothing keeps the session open.
	w.click(MouseButtonLeft)
	assert.True(t, w.picker.IsPicking())
}

func TestPicker_EqualDistanceOrderedByHierarchy(t *testing.T) {
	w := newTestWorld(t)
	second := w.node(t, "Second", 0, mgl32.Vec3{5, 0, 0})
	first := w.node(t, "First", 0, mgl32.Vec3{5, 0, 0})
	w.graph.SetSiblingIndex(first, 0)
	require.Equal(t, 1, w.graph.SiblingIndex(second))

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)

	// Ties for best go to the first discovered candidate.
	assert.Equal(t, "Second", w.picker.Best().Name())
	assert.Equal(t, []string{"First", "Second"}, names(w.picker.Nearby()))
}

func TestPicker_SameNodeOrderedByLabel(t *testing.T) {
	w := newTestWorld(t)
	room := w.node(t, "Room", 0, mgl32.Vec3{})
	w.node(t, "Desk", room, mgl32.Vec3{3, 0, 0}, &SwitchComponent{}, &LampComponent{Watts: 40})

	require.NoError(t, w.picker.StartPicking(Request{Target: reflect.TypeFor[Targetable]()}))
	w.hover(0, 0)

	want := []string{
		"Room\\Desk (Lamp Component)",
		"Room\\Desk (Switch Component)",
	}
	if diff := cmp.Diff(want, labels(w.picker.Nearby())); diff != "" {
		t.Errorf("nearby labels mismatch (-want +got):\n%s", diff)
	}
}

func TestPicker_CapabilityTargetSkipsStructuralComponents(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "Lamp", 0, mgl32.Vec3{}, &LampComponent{})
	w.node(t, "Empty", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: reflect.TypeFor[Targetable]()}))
	cs := w.picker.Candidates()
	require.Len(t, cs, 1)
	assert.Equal(t, ObjectComponent, cs[0].Object().Kind)
	assert.IsType(t, &LampComponent{}, cs[0].Object().Component)
}

func TestPicker_ExactComponentTarget(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "Lamp", 0, mgl32.Vec3{}, &LampComponent{})
	w.node(t, "Switch", 0, mgl32.Vec3{}, &SwitchComponent{})

	for _, target := range []reflect.Type{reflect.TypeFor[SwitchComponent](), reflect.TypeFor[*SwitchComponent]()} {
		require.NoError(t, w.picker.StartPicking(Request{Target: target}))
		assert.Equal(t, []string{"Switch"}, names(w.picker.Candidates()), "target %s", target)
		w.picker.StopPicking()
	}
}

func TestPicker_SceneScopeWalksDepthFirst(t *testing.T) {
	w := newTestWorld(t)
	r := w.node(t, "R", 0, mgl32.Vec3{})
	w.node(t, "S", 0, mgl32.Vec3{})
	w.node(t, "a", r, mgl32.Vec3{})

	other := w.graph.NewScene("Other")
	_, err := SpawnNode(w.cmd, w.graph, NodeSpec{Name: "Elsewhere", Scene: other.Id})
	require.NoError(t, err)
	w.app.FlushCommands()

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, Scope: SceneScope(w.scene.Id)}))
	assert.Equal(t, []string{"R", "a", "S"}, names(w.picker.Candidates()))
	w.picker.StopPicking()

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, Scope: GlobalScope()}))
	assert.Equal(t, []string{"R", "S", "a", "Elsewhere"}, names(w.picker.Candidates()))
}

func TestPicker_UnknownSceneWarns(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, Scope: SceneScope(uuid.New())}))
	assert.False(t, w.picker.IsPicking())
	assert.Len(t, w.logger.warnings, 1)
}

func TestPicker_StartWhileActive(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	first := w.picker.Candidates()

	err := w.picker.StartPicking(Request{Target: NodeType})
	assert.ErrorIs(t, err, ErrAlreadyPicking)
	assert.Len(t, w.logger.warnings, 1)
	assert.Equal(t, first, w.picker.Candidates())
}

func TestPicker_LeftClickWritesProperty(t *testing.T) {
	w := newTestWorld(t)
	door := w.node(t, "Door", 0, mgl32.Vec3{200, 0, 0}, &DoorComponent{})
	lever := w.node(t, "Lever", 0, mgl32.Vec3{4, 0, 0})

	doorComp := GetComponent[DoorComponent](w.cmd, door)
	require.NotNil(t, doorComp)

	var calls [][2]ObjectRef
	prop := &Property{
		Owner: door,
		Path:  "DoorComponent.Target",
		Field: &doorComp.Target,
		OnChanged: func(previous, current ObjectRef) {
			calls = append(calls, [2]ObjectRef{previous, current})
		},
	}
	require.NoError(t, w.picker.StartPickingFor(prop, NodeType))
	assert.Equal(t, []string{"Door", "Lever"}, names(w.picker.Candidates()))

	w.hover(0, 0)
	require.Equal(t, lever, w.picker.Best().Node())
	w.click(MouseButtonLeft)

	assert.False(t, w.picker.IsPicking())

	leverGuid := GetComponent[GuidComponent](w.cmd, lever).Guid
	assert.Equal(t, ObjectRef{Guid: leverGuid}, doorComp.Target)
	require.Len(t, calls, 1)
	assert.True(t, calls[0][0].IsZero())
	assert.Equal(t, doorComp.Target, calls[0][1])
	assert.NotNil(t, GetComponent[ModifiedComponent](w.cmd, door))

	obj, ok := doorComp.Target.Resolve(w.cmd)
	require.True(t, ok)
	assert.Equal(t, NodeObject(lever), obj)
}

func TestPicker_PropertyWithoutFieldWarns(t *testing.T) {
	w := newTestWorld(t)
	owner := w.node(t, "Owner", 0, mgl32.Vec3{100, 0, 0})
	target := w.node(t, "Target", 0, mgl32.Vec3{1, 0, 0})

	var picked []Object
	require.NoError(t, w.picker.StartPicking(Request{
		Target:   NodeType,
		Property: &Property{Owner: owner, Path: "Missing"},
		OnPick:   func(o Object) { picked = append(picked, o) },
	}))
	w.hover(0, 0)
	w.click(MouseButtonLeft)

	assert.False(t, w.picker.IsPicking())
	assert.Len(t, w.logger.warnings, 1)
	assert.Equal(t, []Object{NodeObject(target)}, picked)
	assert.Nil(t, GetComponent[ModifiedComponent](w.cmd, owner))
}

func TestPicker_CommitWithoutReceiverWarns(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)
	w.click(MouseButtonLeft)

	assert.False(t, w.picker.IsPicking())
	assert.Len(t, w.logger.warnings, 1)
}

func TestPicker_MiddleClickMenuCommitsItem(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{5, 0, 0})
	b := w.node(t, "B", 0, mgl32.Vec3{8, 0, 0})

	var picked []EntityId
	require.NoError(t, Pick(w.picker, GlobalScope(), func(eid EntityId) {
		picked = append(picked, eid)
	}))
	w.hover(0, 0)
	require.Len(t, w.picker.Nearby(), 2)

	w.click(MouseButtonMiddle)
	menu := w.picker.Menu()
	require.NotNil(t, menu)
	assert.Equal(t, []string{"A (Node)", "B (Node)"}, []string{menu.Items[0].Label, menu.Items[1].Label})

	// Best is frozen while the menu is open.
	w.hover(8, 0)
	assert.Equal(t, "A", w.picker.Best().Name())

	center := menu.Items[1].Rect.Min.Add(menu.Items[1].Rect.Size.Mul(0.5))
	w.frame(func(in *Input) {
		in.MouseX, in.MouseY = float64(center.X()), float64(center.Y())
		in.SetButton(MouseButtonLeft, true)
	})

	assert.False(t, w.picker.IsPicking())
	assert.Equal(t, []EntityId{b}, picked)
}

func TestPicker_ClickOutsideMenuClosesIt(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{5, 0, 0})
	w.node(t, "B", 0, mgl32.Vec3{8, 0, 0})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, OnPick: func(Object) {}}))
	w.hover(0, 0)
	w.click(MouseButtonMiddle)
	require.NotNil(t, w.picker.Menu())

	w.frame(func(in *Input) {
		in.MouseX, in.MouseY = -500, -500
		in.SetButton(MouseButtonLeft, true)
	})
	assert.Nil(t, w.picker.Menu())
	assert.True(t, w.picker.IsPicking())
}

func TestPicker_MiddleClickWithSingleNearbyCancels(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{5, 0, 0})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)
	w.click(MouseButtonMiddle)

	assert.Nil(t, w.picker.Menu())
	assert.False(t, w.picker.IsPicking())
}

func TestPicker_CancelTriggers(t *testing.T) {
	tests := []struct {
		name  string
		input func(in *Input)
	}{
		{"right click", func(in *Input) { in.SetButton(MouseButtonRight, true) }},
		{"escape", func(in *Input) { in.SetButton(KeyEscape, true) }},
		{"extra button", func(in *Input) { in.SetButton(MouseButton4, true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			w.node(t, "A", 0, mgl32.Vec3{})

			var picked bool
			require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, OnPick: func(Object) { picked = true }}))
			w.hover(0, 0)
			w.frame(tt.input)

			assert.False(t, w.picker.IsPicking())
			assert.False(t, picked)
		})
	}
}

func TestPicker_NavigationModifierIgnoresClicks(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType, OnPick: func(Object) {}}))
	w.hover(0, 0)
	w.frame(func(in *Input) {
		in.SetButton(KeyLeftAlt, true)
		in.SetButton(MouseButtonLeft, true)
	})
	assert.True(t, w.picker.IsPicking())

	w.frame(func(in *Input) {
		in.SetButton(KeyLeftAlt, false)
		in.SetButton(MouseButtonLeft, false)
		in.SetButton(KeyControl, true)
		in.SetButton(MouseButtonRight, true)
	})
	assert.True(t, w.picker.IsPicking())
}

func TestPick_TypedCallbacks(t *testing.T) {
	w := newTestWorld(t)
	lamp := w.node(t, "Lamp", 0, mgl32.Vec3{}, &LampComponent{Watts: 60})

	var byPointer *LampComponent
	require.NoError(t, Pick(w.picker, GlobalScope(), func(l *LampComponent) { byPointer = l }))
	w.hover(0, 0)
	w.click(MouseButtonLeft)
	require.NotNil(t, byPointer)
	assert.Same(t, GetComponent[LampComponent](w.cmd, lamp), byPointer)

	var byValue LampComponent
	require.NoError(t, Pick(w.picker, GlobalScope(), func(l LampComponent) { byValue = l }))
	w.hover(1, 0)
	w.click(MouseButtonLeft)
	assert.Equal(t, 60, byValue.Watts)

	var byCapability Targetable
	require.NoError(t, Pick(w.picker, GlobalScope(), func(tg Targetable) { byCapability = tg }))
	w.hover(0, 0)
	w.click(MouseButtonLeft)
	require.NotNil(t, byCapability)
	assert.Equal(t, "lamp", byCapability.TargetName())
}

func TestPicker_CallbackMayStartNextSession(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{})

	var chained error
	require.NoError(t, w.picker.StartPicking(Request{
		Target: NodeType,
		OnPick: func(Object) {
			chained = w.picker.StartPicking(Request{Target: NodeType, OnPick: func(Object) {}})
		},
	}))
	w.hover(0, 0)
	w.click(MouseButtonLeft)

	assert.NoError(t, chained)
	assert.True(t, w.picker.IsPicking())
}

func TestPicker_HintShownOnceAndExpires(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	hint := w.picker.Hint()
	require.NotNil(t, hint)
	assert.Equal(t, DefaultConfig().HintText, hint.Text)

	w.clock.now = w.clock.now.Add(2 * time.Second)
	w.frame(nil)
	assert.NotNil(t, w.picker.Hint())

	w.clock.now = w.clock.now.Add(2 * time.Second)
	w.frame(nil)
	assert.Nil(t, w.picker.Hint())

	w.picker.StopPicking()
	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	assert.Nil(t, w.picker.Hint())
}

func TestPicker_OverlayFollowsPointer(t *testing.T) {
	w := newTestWorld(t)
	w.node(t, "A", 0, mgl32.Vec3{5, 0, 0})
	w.node(t, "B", 0, mgl32.Vec3{8, 0, 0})
	w.node(t, "C", 0, mgl32.Vec3{12, 0, 0})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)

	o := w.picker.Overlay()
	require.True(t, o.Visible)
	assert.Equal(t, "A + 2 nearby", o.Label.Text)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, o.Line.From)
	assert.Equal(t, DefaultConfig().DashSize, o.Line.DashSize)

	// The label is centered above the pointer, shadow one pixel down-right.
	center := o.Label.Shadow.Min.Add(o.Label.Shadow.Size.Mul(0.5))
	assert.InDelta(t, 0, center.X(), 1e-4)
	assert.InDelta(t, -DefaultConfig().LabelOffset, center.Y(), 1e-4)
	assert.Equal(t, o.Label.Shadow.Min.Sub(mgl32.Vec2{1, 1}), o.Label.Rect.Min)
}

func TestPicker_NoCameraNoProjection(t *testing.T) {
	w := newTestWorld(t)
	w.picker.Projector = nil
	w.node(t, "A", 0, mgl32.Vec3{})

	require.NoError(t, w.picker.StartPicking(Request{Target: NodeType}))
	w.hover(0, 0)
	assert.False(t, w.picker.Best().Valid())

	cam := NewCameraComponent()
	cam.Position = mgl32.Vec3{0, 20, 0}
	w.cmd.AddEntity(cam)
	w.app.FlushCommands()
	w.frame(func(in *Input) {
		in.WindowWidth, in.WindowHeight = 800, 600
		in.MoveMouse(400, 300)
	})
	assert.Equal(t, "A", w.picker.Best().Name())
}

func TestPickerModule_SecondPickerPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewAppBuilder().
			UseModule(PickerModule{Name: "one"}).
			UseModule(PickerModule{Name: "two"}).
			Build()
	})
}

func TestPickerModule_InvalidConfigFallsBack(t *testing.T) {
	logger := &recordingLogger{}
	cfg := DefaultConfig()
	cfg.DepthDamping = 0

	app := NewAppBuilder().
		UseModule(loggerModule{logger: logger}).
		UseModule(PickerModule{Config: &cfg}).
		Build()

	assert.Equal(t, DefaultConfig(), Resource[Picker](app).Config())
	assert.Len(t, logger.warnings, 1)
}
