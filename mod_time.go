package picker

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration

	// Now is the clock read each frame; tests replace it.
	Now func() time.Time
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Now:  time.Now,
	})
	app.UseSystem(System(timeSystem).InStage(PreUpdate))
}

func timeSystem(timeResource *Time) {
	now := timeResource.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
