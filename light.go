package bz2xsi

import "github.com/go-gl/mathgl/mgl64"

// PointLight is an SI_Light of type 0. Other Softimage light types
// (directional, spot, infinite) are skipped by the reader since BZ2 never
// uses them.
type PointLight struct {
	Name     string     `json:"name" yaml:"name"`         // Light name
	Color    mgl64.Vec3 `json:"color" yaml:"color"`       // RGB color
	Position mgl64.Vec3 `json:"position" yaml:"position"` // World position
}

// NewPointLight creates a point light; zero color defaults to white.
func NewPointLight(name string, color, position mgl64.Vec3) PointLight {
	if color == (mgl64.Vec3{}) {
		color = mgl64.Vec3{1, 1, 1}
	}

	return PointLight{Name: name, Color: color, Position: position}
}

// Camera is an SI_Camera block: a viewpoint with an interest point, roll,
// and clip planes.
type Camera struct {
	Name      string     `json:"name" yaml:"name"`           // Camera name
	Position  mgl64.Vec3 `json:"position" yaml:"position"`   // World position
	Interest  mgl64.Vec3 `json:"interest" yaml:"interest"`   // Look-at point
	Roll      float64    `json:"roll" yaml:"roll"`           // Roll angle
	NearPlane float64    `json:"nearPlane" yaml:"nearPlane"` // Near clip plane
	FarPlane  float64    `json:"farPlane" yaml:"farPlane"`   // Far clip plane
}

// NewCamera creates a camera with the stock clip planes.
func NewCamera(name string, position, interest mgl64.Vec3) Camera {
	return Camera{
		Name:      name,
		Position:  position,
		Interest:  interest,
		NearPlane: 0.001,
		FarPlane:  1000.0,
	}
}
