package picker

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	menuPaddingX = 8.0
	menuPaddingY = 3.0
)

// MenuItem is one selectable row of a context menu.
type MenuItem struct {
	Label       string
	Rect        Rect
	Highlighted bool
}

// Menu is a context menu opened at the pointer. Items are laid out top to
// bottom with a shared width.
type Menu struct {
	Position mgl32.Vec2
	Items    []MenuItem
}

func newMenu(x, y float64, labels []string) *Menu {
	m := &Menu{Position: mgl32.Vec2{float32(x), float32(y)}}

	var width float32
	for _, l := range labels {
		width = max(width, measureText(l).X())
	}
	width += 2 * menuPaddingX
	rowHeight := float32(labelFace.Metrics().Height.Ceil()) + 2*menuPaddingY

	for i, l := range labels {
		m.Items = append(m.Items, MenuItem{
			Label: l,
			Rect: Rect{
				Min:  m.Position.Add(mgl32.Vec2{0, float32(i) * rowHeight}),
				Size: mgl32.Vec2{width, rowHeight},
			},
		})
	}
	return m
}

// ItemAt returns the index of the item under the pointer, or -1.
func (m *Menu) ItemAt(x, y float64) int {
	for i, item := range m.Items {
		if item.Rect.Contains(x, y) {
			return i
		}
	}
	return -1
}

// Hover highlights the item under the pointer.
func (m *Menu) Hover(x, y float64) {
	hit := m.ItemAt(x, y)
	for i := range m.Items {
		m.Items[i].Highlighted = i == hit
	}
}
