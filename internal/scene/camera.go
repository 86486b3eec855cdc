package scene

import "cogentcore.org/core/math32"

const (
	defaultYaw   = -30
	defaultPitch = 55
	minZoom      = 0.05
	maxZoom      = 64
)

// Camera is an orthographic orbit camera looking at the center of the scene
// bounds. Angles are in degrees; z is up.
type Camera struct {
	Yaw   float32
	Pitch float32
	Zoom  float32

	// pan, in cells
	OffsetX int
	OffsetY int
}

func defaultCamera() Camera {
	return Camera{Yaw: defaultYaw, Pitch: defaultPitch, Zoom: 1}
}

// Orbit rotates around the target. Pitch is clamped to [-90, 90].
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw = math32.Mod(c.Yaw+dYaw, 360)
	c.Pitch = math32.Clamp(c.Pitch+dPitch, -90, 90)
}

// ZoomBy multiplies the zoom, within [minZoom, maxZoom].
func (c *Camera) ZoomBy(f float32) {
	c.Zoom = math32.Clamp(c.Zoom*f, minZoom, maxZoom)
}

func (c *Camera) PanBy(dx, dy int) {
	c.OffsetX += dx
	c.OffsetY += dy
}

// basis returns the screen right and up vectors in world space.
func (c *Camera) basis() (right, up math32.Vector3) {
	yaw := math32.DegToRad(c.Yaw)
	pitch := math32.DegToRad(c.Pitch)
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	right = math32.Vec3(cy, sy, 0)
	up = math32.Vec3(-sp*sy, sp*cy, cp)
	return right, up
}

// projector maps view-space points onto a braille micro-grid of wMic x hMic
// dots. scale is dots per world unit at zoom 1.
type projector struct {
	right, up  math32.Vector3
	scale      float32
	cx, cy     float32
	offX, offY int
}

func (c *Camera) projector(wMic, hMic int, radius float32) projector {
	right, up := c.basis()
	scale := float32(1)
	if radius > 0 {
		scale = 0.9 * float32(min(wMic, hMic)) / 2 / radius
	}
	return projector{
		right: right,
		up:    up,
		scale: scale * c.Zoom,
		cx:    float32(wMic-1) / 2,
		cy:    float32(hMic-1) / 2,
		offX:  c.OffsetX * 2,
		offY:  c.OffsetY * 4,
	}
}

func (p projector) project(q math32.Vector3) (int, int) {
	sx := q.Dot(p.right) * p.scale
	sy := q.Dot(p.up) * p.scale
	return int(math32.Round(p.cx+sx)) + p.offX, int(math32.Round(p.cy-sy)) + p.offY
}
