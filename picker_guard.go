package picker

import (
	"fmt"
	"reflect"
)

// PickerTag marks that a picker has been installed into the App.
type PickerTag struct {
	Name string
}

// ensureSinglePicker enforces one picker per App. Installing a second one is a
// programming error and fails immediately.
func ensureSinglePicker(app *App, name string) {
	if app == nil {
		panic("ensureSinglePicker: app is nil")
	}
	t := reflect.TypeOf((*PickerTag)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		tag, ok := res.(*PickerTag)
		if !ok {
			panic("PickerTag resource present with unexpected type")
		}
		app.Logger().Errorf("Multiple pickers installed: %s and %s", tag.Name, name)
		panic(fmt.Sprintf("Multiple pickers installed: %s and %s", tag.Name, name))
	}
	app.addResources(&PickerTag{Name: name})
}
