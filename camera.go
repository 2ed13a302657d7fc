package picker

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraComponent is the editor viewport camera. The world is Z-up; Yaw and
// Pitch are in radians.
type CameraComponent struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	FovY     float32 // degrees
	Near     float32
	Far      float32
}

func NewCameraComponent() *CameraComponent {
	return &CameraComponent{
		Position: mgl32.Vec3{0, 2, 20},
		FovY:     60,
		Near:     0.1,
		Far:      1000,
	}
}

func (c *CameraComponent) Forward() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Pitch)) * math.Sin(float64(c.Yaw))),
		float32(-math.Cos(float64(c.Pitch)) * math.Cos(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
	}
}

// Right is horizontal and perpendicular to Forward, matching the basis
// LookAtV builds with a Z up vector.
func (c *CameraComponent) Right() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(-math.Cos(float64(c.Yaw))),
		float32(-math.Sin(float64(c.Yaw))),
		0,
	}
}

func (c *CameraComponent) ViewMatrix() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), mgl32.Vec3{0, 0, 1})
}

func (c *CameraComponent) ProjectionMatrix(vp Viewport) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), vp.Aspect(), c.Near, c.Far)
}

// Viewport is the pixel size of the view the camera renders into.
type Viewport struct {
	Width, Height int
}

func (vp Viewport) Aspect() float32 {
	if vp.Height == 0 {
		return 1
	}
	return float32(vp.Width) / float32(vp.Height)
}

// Projector maps world positions into viewport space: x and y in pixels with
// the origin at the bottom-left, z the signed distance in front of the camera.
type Projector interface {
	WorldToScreen(p mgl32.Vec3) mgl32.Vec3
}

// CameraProjector projects through a perspective camera.
type CameraProjector struct {
	Camera   *CameraComponent
	Viewport Viewport

	view, proj mgl32.Mat4
}

func NewCameraProjector(cam *CameraComponent, vp Viewport) *CameraProjector {
	return &CameraProjector{
		Camera:   cam,
		Viewport: vp,
		view:     cam.ViewMatrix(),
		proj:     cam.ProjectionMatrix(vp),
	}
}

func (cp *CameraProjector) WorldToScreen(p mgl32.Vec3) mgl32.Vec3 {
	viewPos := cp.view.Mul4x1(p.Vec4(1))
	depth := -viewPos.Z()

	clip := cp.proj.Mul4x1(viewPos)
	if clip.W() == 0 {
		return mgl32.Vec3{0, 0, depth}
	}
	ndc := clip.Vec3().Mul(1 / clip.W())

	return mgl32.Vec3{
		(ndc.X() + 1) * 0.5 * float32(cp.Viewport.Width),
		(ndc.Y() + 1) * 0.5 * float32(cp.Viewport.Height),
		depth,
	}
}

// PointerRay returns the world-space ray under a pointer given in top-left
// window coordinates.
func (cp *CameraProjector) PointerRay(x, y float64) (origin, dir mgl32.Vec3) {
	w, h := cp.Viewport.Width, cp.Viewport.Height
	if w == 0 || h == 0 {
		return cp.Camera.Position, cp.Camera.Forward()
	}

	nx := (2.0*float32(x))/float32(w) - 1.0
	ny := 1.0 - (2.0*float32(y))/float32(h)

	forward := cp.Camera.Forward()
	right := cp.Camera.Right()
	up := right.Cross(forward)

	tanHalfFov := float32(math.Tan(float64(mgl32.DegToRad(cp.Camera.FovY) / 2.0)))

	dir = forward.Add(right.Mul(nx * cp.Viewport.Aspect() * tanHalfFov)).Add(up.Mul(ny * tanHalfFov))
	return cp.Camera.Position, dir.Normalize()
}
