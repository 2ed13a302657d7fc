package picker

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warnings []string
	errors   []string
}

func (l *recordingLogger) DebugEnabled() bool                { return false }
func (l *recordingLogger) SetDebug(enabled bool)             {}
func (l *recordingLogger) Debugf(format string, args ...any) {}
func (l *recordingLogger) Infof(format string, args ...any)  {}
func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// loggerModule installs a recordingLogger.
type loggerModule struct {
	logger *recordingLogger
}

func (m loggerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(m.logger)
}

// identityProjector treats world coordinates as screen coordinates.
type identityProjector struct{}

func (identityProjector) WorldToScreen(p mgl32.Vec3) mgl32.Vec3 { return p }

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type testWorld struct {
	app    *App
	cmd    *Commands
	graph  *SceneGraph
	picker *Picker
	input  *Input
	logger *recordingLogger
	clock  *testClock
	scene  *Scene
}

// newTestWorld builds an App with the picker installed, an identity projector
// and one empty scene.
func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	logger := &recordingLogger{}
	app := NewAppBuilder().
		UseModule(loggerModule{logger: logger}).
		UseModule(TimeModule{}).
		UseModule(InputModule{}).
		UseModule(HierarchyModule{}).
		UseModule(PickerModule{Name: "test"}).
		Build()

	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	tm := Resource[Time](app)
	require.NotNil(t, tm)
	tm.Now = clock.Now
	tm.Time = clock.now

	w := &testWorld{
		app:    app,
		cmd:    app.Commands(),
		graph:  Resource[SceneGraph](app),
		picker: Resource[Picker](app),
		input:  Resource[Input](app),
		logger: logger,
		clock:  clock,
	}
	require.NotNil(t, w.graph)
	require.NotNil(t, w.picker)
	require.NotNil(t, w.input)

	w.picker.Projector = identityProjector{}
	w.scene = w.graph.NewScene("Main")
	return w
}

// node spawns a root node (parent 0) or a child and flushes it into the store.
func (w *testWorld) node(t *testing.T, name string, parent EntityId, pos mgl32.Vec3, comps ...any) EntityId {
	t.Helper()
	eid, err := SpawnNode(w.cmd, w.graph, NodeSpec{
		Name:       name,
		Position:   pos,
		Parent:     parent,
		Scene:      w.scene.Id,
		Components: comps,
	})
	require.NoError(t, err)
	w.app.FlushCommands()
	return eid
}

// frame runs one App step after letting fn set up this frame's input.
func (w *testWorld) frame(fn func(in *Input)) {
	w.input.BeginFrame()
	if fn != nil {
		fn(w.input)
	}
	w.app.Step()
}

// hover points at world (x, y) under the identity projector. The viewport has
// no height, so screen y is the negated window y.
func (w *testWorld) hover(x, y float32) {
	w.frame(func(in *Input) {
		in.MouseX, in.MouseY = float64(x), float64(-y)
		in.MouseMoved = true
	})
}

func (w *testWorld) click(btn int) {
	w.frame(func(in *Input) {
		in.SetButton(btn, true)
	})
	w.frame(func(in *Input) {
		in.SetButton(btn, false)
	})
}

func names(cs []Candidate) []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.Name()
	}
	return res
}

func labels(cs []Candidate) []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.Label()
	}
	return res
}

// Behavior components used by the tests.

type Targetable interface {
	TargetName() string
}

type LampComponent struct{ Watts int }

func (l *LampComponent) TargetName() string { return "lamp" }

type SwitchComponent struct{ On bool }

func (s *SwitchComponent) TargetName() string { return "switch" }

type DoorComponent struct {
	Target ObjectRef
}
