package bz2xsi

import "github.com/go-gl/mathgl/mgl64"

// ShadingType selects the SI_Material shading model.
type ShadingType int

const (
	// ShadingConstant is unlit constant shading.
	ShadingConstant ShadingType = 0
	// ShadingLambert is diffuse-only lambert shading.
	ShadingLambert ShadingType = 1
	// ShadingPhong is phong shading, the BZ2 default.
	ShadingPhong ShadingType = 2
	// ShadingBlinn is blinn shading.
	ShadingBlinn ShadingType = 3
)

// Stock material defaults, applied when a custom property or a file block
// leaves a field unset.
var (
	// DefaultDiffuse is the default diffuse color with alpha.
	DefaultDiffuse = mgl64.Vec4{0.7, 0.7, 0.7, 1.0}
	// DefaultSpecular is the default specular color.
	DefaultSpecular = mgl64.Vec3{0.35, 0.35, 0.35}
	// DefaultEmissive is the default emissive color.
	DefaultEmissive = mgl64.Vec3{0, 0, 0}
	// DefaultAmbient is the default ambient color.
	DefaultAmbient = mgl64.Vec3{0.5, 0.5, 0.5}
)

// DefaultHardness is the default specular hardness.
const DefaultHardness = 200.0

// DefaultShadingType is the default shading model.
const DefaultShadingType = ShadingPhong

// Material represents an SI_Material block: phong-style colors, specular
// hardness, a shading model, and an optional texture file reference. An
// empty Texture means untextured.
type Material struct {
	Diffuse     mgl64.Vec4  `json:"diffuse" yaml:"diffuse"`                   // Diffuse color + alpha
	Hardness    float64     `json:"hardness" yaml:"hardness"`                 // Specular hardness
	Specular    mgl64.Vec3  `json:"specular" yaml:"specular"`                 // Specular color
	Emissive    mgl64.Vec3  `json:"emissive" yaml:"emissive"`                 // Emissive color
	ShadingType ShadingType `json:"shadingType" yaml:"shadingType"`           // Shading model
	Ambient     mgl64.Vec3  `json:"ambient" yaml:"ambient"`                   // Ambient color
	Texture     string      `json:"texture,omitempty" yaml:"texture,omitempty"` // Texture file reference
}

// NewMaterial returns a material with the stock defaults.
func NewMaterial() Material {
	return Material{
		Diffuse:     DefaultDiffuse,
		Hardness:    DefaultHardness,
		Specular:    DefaultSpecular,
		Emissive:    DefaultEmissive,
		ShadingType: DefaultShadingType,
		Ambient:     DefaultAmbient,
	}
}

// IsTextured reports whether the material references a texture file.
func (m Material) IsTextured() bool { return m.Texture != "" }
