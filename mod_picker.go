package picker

// PickerModule installs the Picker resource and the system that drives it from
// Input every frame. Only one picker can be installed per App.
type PickerModule struct {
	Name string
	// Config defaults to DefaultConfig when nil.
	Config *Config
}

func (mod PickerModule) Install(app *App, cmd *Commands) {
	name := mod.Name
	if name == "" {
		name = "scene-view"
	}
	ensureSinglePicker(app, name)

	cfg := DefaultConfig()
	if mod.Config != nil {
		cfg = *mod.Config
	}
	if err := cfg.validate(); err != nil {
		app.Logger().Warnf("Invalid picker config (%v), using defaults", err)
		cfg = DefaultConfig()
	}

	if Resource[Input](app) == nil {
		cmd.AddResources(&Input{})
	}
	if Resource[SceneGraph](app) == nil {
		cmd.AddResources(NewSceneGraph())
	}
	cmd.AddResources(NewPicker(app, cfg))

	app.UseSystem(
		System(pickerSystem).
			InStage(Update),
	)
}

func pickerSystem(cmd *Commands, input *Input, picker *Picker) {
	picker.Update(cmd, input)
}
