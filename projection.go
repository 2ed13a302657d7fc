package picker

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDepthDamping divides the depth axis before measuring pick distance,
// so lateral distance on screen outweighs distance along the view axis.
const DefaultDepthDamping = 10

// DampDepth returns a projected point with its depth scaled down by damping.
func DampDepth(screen mgl32.Vec3, damping float32) mgl32.Vec3 {
	if damping == 0 {
		damping = DefaultDepthDamping
	}
	return mgl32.Vec3{screen.X(), screen.Y(), screen.Z() / damping}
}

// PickDistance is the Euclidean distance between two projected points after
// depth damping.
func PickDistance(a, b mgl32.Vec3, damping float32) float32 {
	return DampDepth(a, damping).Sub(DampDepth(b, damping)).Len()
}

// PointerPoint converts a pointer in top-left window coordinates into
// bottom-left viewport space at depth 0.
func PointerPoint(x, y float64, vp Viewport) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(vp.Height) - float32(y), 0}
}

// DistanceToPointer measures a projected point against the pointer, which
// sits on the camera plane.
func DistanceToPointer(screen, pointer mgl32.Vec3, damping float32) float32 {
	return PickDistance(screen, pointer, damping)
}

// IsBehindCamera reports whether a projected point lies behind the camera plane.
func IsBehindCamera(screen mgl32.Vec3) bool {
	return screen.Z() < 0
}
