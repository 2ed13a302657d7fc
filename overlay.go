package picker

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// labelFace measures overlay and menu text. Hosts rendering with another font
// get boxes sized for this fixed 7x13 face.
var labelFace font.Face = basicfont.Face7x13

const labelPadding = 4

// Rect is an axis-aligned box in top-left window coordinates.
type Rect struct {
	Min  mgl32.Vec2
	Size mgl32.Vec2
}

func (r Rect) Contains(x, y float64) bool {
	fx, fy := float32(x), float32(y)
	return fx >= r.Min.X() && fx <= r.Min.X()+r.Size.X() &&
		fy >= r.Min.Y() && fy <= r.Min.Y()+r.Size.Y()
}

func (r Rect) Offset(d mgl32.Vec2) Rect {
	return Rect{Min: r.Min.Add(d), Size: r.Size}
}

// Label is the name tag drawn next to the pointer: a black shadow box at
// Shadow, then white text at Text.
type Label struct {
	Text   string
	Shadow Rect
	Rect   Rect
}

// GuideLine is a dashed line from the best candidate to a point on the
// pointer ray, in world space.
type GuideLine struct {
	From, To mgl32.Vec3
	DashSize float32
	Color    [4]float32
}

// Overlay is what the host draws over the viewport while picking.
type Overlay struct {
	Visible bool
	Label   Label
	Line    GuideLine
}

// Notification is a transient on-screen hint.
type Notification struct {
	Text    string
	Expires time.Time
}

func (n *Notification) Active(now time.Time) bool {
	return n != nil && now.Before(n.Expires)
}

// measureText returns the pixel size of possibly multi-line text.
func measureText(text string) mgl32.Vec2 {
	lines := strings.Split(text, "\n")
	var width int
	for _, line := range lines {
		width = max(width, font.MeasureString(labelFace, line).Ceil())
	}
	height := labelFace.Metrics().Height.Ceil() * len(lines)
	return mgl32.Vec2{float32(width), float32(height)}
}

// labelText is the candidate name, plus how many others are nearby.
func labelText(name string, nearby int) string {
	if nearby > 1 {
		return name + " + " + strconv.Itoa(nearby-1) + " nearby"
	}
	return name
}

// layoutLabel centers the label offset pixels above the pointer.
func layoutLabel(text string, mouseX, mouseY float64, offset float32) Label {
	size := measureText(text).Add(mgl32.Vec2{labelPadding, labelPadding})
	center := mgl32.Vec2{float32(mouseX), float32(mouseY) - offset}
	shadow := Rect{Min: center.Sub(size.Mul(0.5)), Size: size}

	return Label{
		Text:   text,
		Shadow: shadow,
		Rect:   shadow.Offset(mgl32.Vec2{-1, -1}),
	}
}
