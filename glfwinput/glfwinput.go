// Package glfwinput feeds picker.Input from a GLFW window.
package glfwinput

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/picker"
)

var buttonToGlfw = map[int]glfw.MouseButton{
	picker.MouseButtonLeft:   glfw.MouseButtonLeft,
	picker.MouseButtonRight:  glfw.MouseButtonRight,
	picker.MouseButtonMiddle: glfw.MouseButtonMiddle,
	picker.MouseButton4:      glfw.MouseButton4,
	picker.MouseButton5:      glfw.MouseButton5,
}

var keyToGlfw = map[int][]glfw.Key{
	picker.KeyShift:   {glfw.KeyLeftShift, glfw.KeyRightShift},
	picker.KeyControl: {glfw.KeyLeftControl, glfw.KeyRightControl},
	picker.KeyLeftAlt: {glfw.KeyLeftAlt},
	picker.KeyEscape:  {glfw.KeyEscape},
}

// WindowState is the window input is read from.
type WindowState struct {
	window *glfw.Window
}

// Module polls Window once per frame in PreUpdate, before the picker runs.
// The caller owns the window and the GLFW lifetime.
type Module struct {
	Window *glfw.Window
}

func (mod Module) Install(app *picker.App, cmd *picker.Commands) {
	if mod.Window == nil {
		panic("glfwinput: Module needs a window")
	}
	picker.InputModule{}.Install(app, cmd)
	cmd.AddResources(&WindowState{window: mod.Window})
	app.UseSystem(
		picker.System(inputSystem).
			InStage(picker.PreUpdate),
	)
}

func inputSystem(s *WindowState, input *picker.Input) {
	input.BeginFrame()
	glfw.PollEvents()

	input.MoveMouse(s.window.GetCursorPos())
	input.WindowWidth, input.WindowHeight = s.window.GetSize()

	for btn, glfwBtn := range buttonToGlfw {
		input.SetButton(btn, s.window.GetMouseButton(glfwBtn) == glfw.Press)
	}
	for key, glfwKeys := range keyToGlfw {
		down := false
		for _, k := range glfwKeys {
			down = down || s.window.GetKey(k) == glfw.Press
		}
		input.SetButton(key, down)
	}
}
