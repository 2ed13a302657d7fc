package picker

const (
	MouseButtonLeft int = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButton4
	MouseButton5
	KeyShift
	KeyControl
	KeyLeftAlt
	KeyEscape

	inputCount
)

// Input is the per-frame pointer and button state. A platform backend (see
// package glfwinput) or a test fills it before the frame's systems run.
type Input struct {
	Pressed      [inputCount]bool
	JustPressed  [inputCount]bool
	JustReleased [inputCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseMoved               bool

	WindowWidth, WindowHeight int
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	if Resource[Input](app) == nil {
		cmd.AddResources(&Input{})
	}
}

// BeginFrame clears the edge-triggered state of the previous frame.
func (in *Input) BeginFrame() {
	in.JustPressed = [inputCount]bool{}
	in.JustReleased = [inputCount]bool{}
	in.MouseDeltaX, in.MouseDeltaY = 0, 0
	in.MouseMoved = false
}

// MoveMouse records a new pointer position in top-left window coordinates.
func (in *Input) MoveMouse(x, y float64) {
	in.MouseDeltaX += x - in.MouseX
	in.MouseDeltaY += y - in.MouseY
	if x != in.MouseX || y != in.MouseY {
		in.MouseMoved = true
	}
	in.MouseX, in.MouseY = x, y
}

// SetButton records the current state of a button or key.
func (in *Input) SetButton(btn int, down bool) {
	if down && !in.Pressed[btn] {
		in.JustPressed[btn] = true
	} else if !down && in.Pressed[btn] {
		in.JustReleased[btn] = true
	}
	in.Pressed[btn] = down
}

func (in *Input) Viewport() Viewport {
	return Viewport{Width: in.WindowWidth, Height: in.WindowHeight}
}

// ClickedButton returns the first mouse button pressed this frame, or -1.
func (in *Input) ClickedButton() int {
	for btn := MouseButtonLeft; btn <= MouseButton5; btn++ {
		if in.JustPressed[btn] {
			return btn
		}
	}
	return -1
}

// NavigationModifier reports whether Alt or Control is held; clicks made with
// them belong to camera navigation.
func (in *Input) NavigationModifier() bool {
	return in.Pressed[KeyLeftAlt] || in.Pressed[KeyControl]
}
