package picker

import (
	"cmp"
	"errors"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/picker/order"
)

var (
	ErrAlreadyPicking = errors.New("a pick session is already active")
	ErrNoTarget       = errors.New("pick target type is nil")
)

// NodeType as a Request target picks whole nodes rather than components.
var NodeType = reflect.TypeFor[EntityId]()

// Scope limits candidate discovery to one scene, or searches everywhere.
type Scope struct {
	Scene uuid.UUID
}

func GlobalScope() Scope            { return Scope{} }
func SceneScope(id uuid.UUID) Scope { return Scope{Scene: id} }
func (s Scope) IsGlobal() bool      { return s.Scene == uuid.Nil }

// Request describes what a pick session looks for and where the result goes.
type Request struct {
	// Target is NodeType, an interface type (any component satisfying it), or
	// a component struct type (exact match, pointer or not).
	Target reflect.Type
	Scope  Scope

	// Property, when set, receives a reference to the picked object.
	Property *Property
	// OnPick, when set, receives the picked object.
	OnPick func(Object)
}

// Picker resolves which scene object the user points at. It is owned by the
// App as a resource and driven once per frame by the picker system; at most
// one session is live at a time.
type Picker struct {
	config Config
	app    *App

	// Projector overrides the camera projection, for hosts with custom views.
	Projector Projector

	session      *session
	hasShownHint bool
	hint         *Notification
}

type session struct {
	id         uuid.UUID
	request    Request
	candidates []Candidate
	best       Candidate
	nearby     []Candidate
	menu       *Menu
	overlay    Overlay
}

type rankedCandidate struct {
	Candidate
	distance float32
}

func NewPicker(app *App, config Config) *Picker {
	return &Picker{config: config, app: app}
}

func (p *Picker) Config() Config { return p.config }

func (p *Picker) IsPicking() bool { return p.session != nil }

func (p *Picker) logger() Logger { return p.app.Logger() }

func (p *Picker) commands() *Commands { return p.app.Commands() }

func (p *Picker) graph() *SceneGraph {
	if g := Resource[SceneGraph](p.app); g != nil {
		return g
	}
	return NewSceneGraph()
}

func (p *Picker) now() time.Time {
	if t := Resource[Time](p.app); t != nil && !t.Time.IsZero() {
		return t.Time
	}
	return time.Now()
}

// StartPicking opens a pick session. A request that discovers no candidates
// leaves the picker idle and is not an error.
func (p *Picker) StartPicking(req Request) error {
	if req.Target == nil {
		return ErrNoTarget
	}
	if p.session != nil {
		p.logger().Warnf("Pick session %s is still active; stop it before picking %s", p.session.id, req.Target)
		return ErrAlreadyPicking
	}

	if !p.hasShownHint {
		p.hint = &Notification{
			Text:    p.config.HintText,
			Expires: p.now().Add(p.config.HintDuration),
		}
		p.hasShownHint = true
	}

	candidates := p.findAllCandidates(req.Target, req.Scope)
	if len(candidates) == 0 {
		p.logger().Debugf("No %s candidates found, nothing to pick", req.Target)
		return nil
	}

	p.session = &session{
		id:         uuid.New(),
		request:    req,
		candidates: candidates,
	}
	p.logger().Debugf("Pick session %s started: %d %s candidates", p.session.id, len(candidates), req.Target)
	return nil
}

// StartPickingFor picks into prop, searching the scene its owner lives in.
func (p *Picker) StartPickingFor(prop *Property, target reflect.Type) error {
	return p.StartPicking(Request{
		Target:   target,
		Scope:    SceneScope(p.graph().SceneOf(prop.Owner)),
		Property: prop,
	})
}

// Pick starts a session for objects of type T and hands the chosen one to
// callback. T may be EntityId (any node), an interface or a component type.
func Pick[T any](p *Picker, scope Scope, callback func(T)) error {
	return p.StartPicking(Request{
		Target: reflect.TypeFor[T](),
		Scope:  scope,
		OnPick: func(o Object) {
			if callback == nil {
				return
			}
			if v, ok := valueAs[T](o); ok {
				callback(v)
			}
		},
	})
}

func valueAs[T any](o Object) (T, bool) {
	if v, ok := o.Value().(T); ok {
		return v, true
	}
	// Struct targets get a copy of the stored component.
	rv := reflect.ValueOf(o.Value())
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if v, ok := rv.Elem().Interface().(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// StopPicking ends the session without committing anything.
func (p *Picker) StopPicking() {
	if p.session != nil {
		p.logger().Debugf("Pick session %s stopped", p.session.id)
	}
	p.session = nil
}

// Candidates returns the candidate set of the live session.
func (p *Picker) Candidates() []Candidate {
	if p.session == nil {
		return nil
	}
	return p.session.candidates
}

// Best returns the candidate nearest the pointer; it is invalid when there is none.
func (p *Picker) Best() Candidate {
	if p.session == nil {
		return Candidate{}
	}
	return p.session.best
}

// Nearby returns the candidates grouped around Best, Best included.
func (p *Picker) Nearby() []Candidate {
	if p.session == nil {
		return nil
	}
	return p.session.nearby
}

// Menu returns the open disambiguation menu, or nil.
func (p *Picker) Menu() *Menu {
	if p.session == nil {
		return nil
	}
	return p.session.menu
}

func (p *Picker) Overlay() Overlay {
	if p.session == nil {
		return Overlay{}
	}
	return p.session.overlay
}

// Hint returns the usage hint while it is still showing.
func (p *Picker) Hint() *Notification {
	if !p.hint.Active(p.now()) {
		return nil
	}
	return p.hint
}

// Update advances the session by one frame of input.
func (p *Picker) Update(cmd *Commands, input *Input) {
	s := p.session
	if s == nil {
		return
	}
	projector := p.projector(cmd, input)
	if projector == nil {
		return
	}

	if s.menu != nil {
		p.updateMenu(input)
		return
	}

	if input.MouseMoved {
		pointer := PointerPoint(input.MouseX, input.MouseY, input.Viewport())
		s.best = p.findBestCandidate(cmd, projector, pointer)
		s.nearby = p.findNearbyCandidates(cmd, projector, s.best)
	}
	s.overlay = p.layoutOverlay(cmd, projector, input)

	if input.JustPressed[KeyEscape] {
		p.StopPicking()
		return
	}
	if input.NavigationModifier() {
		return
	}

	switch btn := input.ClickedButton(); {
	case btn == -1:
	case btn == MouseButtonLeft:
		p.Commit(s.best)
	case btn == MouseButtonMiddle && len(s.nearby) > 1:
		p.openMenu(input)
	default:
		p.StopPicking()
	}
}

func (p *Picker) projector(cmd *Commands, input *Input) Projector {
	if p.Projector != nil {
		return p.Projector
	}
	var camera *CameraComponent
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		camera = cam
		return false
	})
	if camera == nil {
		return nil
	}
	return NewCameraProjector(camera, input.Viewport())
}

// Commit writes c into the session's property and callback, then ends the
// session. Invalid candidates are ignored and the session stays live.
func (p *Picker) Commit(c Candidate) bool {
	s := p.session
	if s == nil || !c.Valid() {
		return false
	}
	// The session is closed first so callbacks may start a new one.
	p.StopPicking()

	req := s.request
	cmd := p.commands()
	if req.Property == nil && req.OnPick == nil {
		p.logger().Warnf("Picked %s but session %s has no property or callback to receive it", c.Label(), s.id)
	}
	if req.Property != nil {
		req.Property.apply(cmd, p.logger(), c.Object())
	}
	if req.OnPick != nil {
		req.OnPick(c.Object())
	}
	return true
}

func (p *Picker) openMenu(input *Input) {
	s := p.session
	labels := make([]string, len(s.nearby))
	for i, c := range s.nearby {
		labels[i] = c.Label()
	}
	s.menu = newMenu(input.MouseX, input.MouseY, labels)
}

func (p *Picker) updateMenu(input *Input) {
	s := p.session
	s.menu.Hover(input.MouseX, input.MouseY)

	btn := input.ClickedButton()
	if btn == -1 {
		return
	}
	if i := s.menu.ItemAt(input.MouseX, input.MouseY); btn == MouseButtonLeft && i >= 0 {
		p.Commit(s.nearby[i])
		return
	}
	s.menu = nil
}

func (p *Picker) findBestCandidate(cmd *Commands, projector Projector, pointer mgl32.Vec3) Candidate {
	distanceMin := float32(math.Inf(1))
	var best Candidate

	for _, c := range p.session.candidates {
		screen, ok := visibleScreenPosition(cmd, projector, c)
		if !ok {
			continue
		}
		if d := DistanceToPointer(screen, pointer, p.config.DepthDamping); d < distanceMin {
			best = c
			distanceMin = d
		}
	}
	return best
}

func (p *Picker) findNearbyCandidates(cmd *Commands, projector Projector, best Candidate) []Candidate {
	bestScreen, ok := visibleScreenPosition(cmd, projector, best)
	if !ok {
		return nil
	}

	var ranked []rankedCandidate
	for _, c := range p.session.candidates {
		screen, ok := visibleScreenPosition(cmd, projector, c)
		if !ok {
			continue
		}
		if d := PickDistance(bestScreen, screen, p.config.DepthDamping); d < p.config.GroupDistance {
			ranked = append(ranked, rankedCandidate{Candidate: c, distance: d})
		}
	}

	slices.SortStableFunc(ranked, compareNearby)

	nearby := make([]Candidate, len(ranked))
	for i, r := range ranked {
		nearby[i] = r.Candidate
	}
	return nearby
}

// compareNearby orders by distance to the best candidate; candidates on the
// same node go alphabetically, others by hierarchy order.
func compareNearby(x, y rankedCandidate) int {
	if c := cmp.Compare(x.distance, y.distance); c != 0 {
		return c
	}
	if x.Node() == y.Node() {
		return strings.Compare(x.Label(), y.Label())
	}
	return order.Compare(x.HierarchyOrder(), y.HierarchyOrder())
}

func visibleScreenPosition(cmd *Commands, projector Projector, c Candidate) (mgl32.Vec3, bool) {
	screen, ok := c.ScreenPosition(cmd, projector)
	if !ok || IsBehindCamera(screen) {
		return mgl32.Vec3{}, false
	}
	return screen, true
}

type pointerRayer interface {
	PointerRay(x, y float64) (origin, dir mgl32.Vec3)
}

func (p *Picker) layoutOverlay(cmd *Commands, projector Projector, input *Input) Overlay {
	s := p.session
	from, ok := s.best.Position(cmd)
	if !ok {
		return Overlay{}
	}

	to := from
	if r, ok := projector.(pointerRayer); ok {
		origin, dir := r.PointerRay(input.MouseX, input.MouseY)
		to = origin.Add(dir.Mul(p.config.PointerRayDepth))
	}

	return Overlay{
		Visible: true,
		Label:   layoutLabel(labelText(s.best.Name(), len(s.nearby)), input.MouseX, input.MouseY, p.config.LabelOffset),
		Line: GuideLine{
			From:     from,
			To:       to,
			DashSize: p.config.DashSize,
			Color:    [4]float32{1, 1, 1, 0.75},
		},
	}
}
