package bz2xsi

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Custom material property names. Modeling tools attach these as per-material
// key/value metadata; exporters read them as explicit overrides for the
// corresponding Material fields.
const (
	// PropDiffuse is a 4-tuple of floats (diffuse color + alpha). A 3-tuple
	// is accepted and gains alpha 1.0.
	PropDiffuse = "diffuse"
	// PropHardness is a float (specular hardness).
	PropHardness = "hardness"
	// PropSpecular is a 3-tuple of floats (specular color).
	PropSpecular = "specular"
	// PropAmbient is a 3-tuple of floats (ambient color).
	PropAmbient = "ambient"
	// PropEmissive is a 3-tuple of floats (emissive color).
	PropEmissive = "emissive"
	// PropShadingType is an integer (shading mode selector).
	PropShadingType = "shading_type"
	// PropTexture is a string (texture file reference).
	PropTexture = "texture"
)

// Properties is a set of custom material properties keyed by the Prop*
// names. Keys outside the vocabulary are ignored, matching how exporters
// only look up the names they know.
type Properties map[string]any

// KnownProperty reports whether key belongs to the property vocabulary.
func KnownProperty(key string) bool {
	switch key {
	case PropDiffuse, PropHardness, PropSpecular, PropAmbient,
		PropEmissive, PropShadingType, PropTexture:
		return true
	}

	return false
}

// MaterialFromProperties builds a material from custom properties. Every
// absent property falls back to its stock default; present properties must
// match their documented value shape.
func MaterialFromProperties(props Properties) (Material, error) {
	m := NewMaterial()
	if err := m.ApplyProperties(props); err != nil {
		return Material{}, err
	}

	return m, nil
}

// ApplyProperties overrides material fields from custom properties. Fields
// without a property keep their current value.
func (m *Material) ApplyProperties(props Properties) error {
	if v, ok := props[PropDiffuse]; ok {
		rgba, err := propColorWithAlpha(PropDiffuse, v)
		if err != nil {
			return err
		}
		m.Diffuse = rgba
	}

	if v, ok := props[PropHardness]; ok {
		f, err := propFloat(PropHardness, v)
		if err != nil {
			return err
		}
		m.Hardness = f
	}

	if v, ok := props[PropSpecular]; ok {
		rgb, err := propColor(PropSpecular, v)
		if err != nil {
			return err
		}
		m.Specular = rgb
	}

	if v, ok := props[PropAmbient]; ok {
		rgb, err := propColor(PropAmbient, v)
		if err != nil {
			return err
		}
		m.Ambient = rgb
	}

	if v, ok := props[PropEmissive]; ok {
		rgb, err := propColor(PropEmissive, v)
		if err != nil {
			return err
		}
		m.Emissive = rgb
	}

	if v, ok := props[PropShadingType]; ok {
		n, err := propInt(PropShadingType, v)
		if err != nil {
			return err
		}
		m.ShadingType = ShadingType(n)
	}

	if v, ok := props[PropTexture]; ok {
		s, err := propString(PropTexture, v)
		if err != nil {
			return err
		}
		m.Texture = s
	}

	return nil
}

// Properties returns the material as a custom property set, the inverse of
// ApplyProperties. Importers use this to seed override properties on
// freshly created materials.
func (m Material) Properties() Properties {
	props := Properties{
		PropDiffuse:     []float64{m.Diffuse[0], m.Diffuse[1], m.Diffuse[2], m.Diffuse[3]},
		PropHardness:    m.Hardness,
		PropSpecular:    []float64{m.Specular[0], m.Specular[1], m.Specular[2]},
		PropAmbient:     []float64{m.Ambient[0], m.Ambient[1], m.Ambient[2]},
		PropEmissive:    []float64{m.Emissive[0], m.Emissive[1], m.Emissive[2]},
		PropShadingType: int(m.ShadingType),
	}
	if m.Texture != "" {
		props[PropTexture] = m.Texture
	}

	return props
}

// propColorWithAlpha coerces an RGB or RGBA tuple, padding alpha to 1.
func propColorWithAlpha(key string, v any) (mgl64.Vec4, error) {
	vals, ok := floatTuple(v)
	if !ok || (len(vals) != 3 && len(vals) != 4) {
		return mgl64.Vec4{}, propErrorf(key, "expected 3 or 4 floats, got %v", v)
	}

	if len(vals) == 3 {
		vals = append(vals, 1.0)
	}

	return mgl64.Vec4{vals[0], vals[1], vals[2], vals[3]}, nil
}

// propColor coerces a 3-tuple of floats.
func propColor(key string, v any) (mgl64.Vec3, error) {
	vals, ok := floatTuple(v)
	if !ok || len(vals) != 3 {
		return mgl64.Vec3{}, propErrorf(key, "expected 3 floats, got %v", v)
	}

	return mgl64.Vec3{vals[0], vals[1], vals[2]}, nil
}

// propFloat coerces a scalar float.
func propFloat(key string, v any) (float64, error) {
	f, ok := floatScalar(v)
	if !ok {
		return 0, propErrorf(key, "expected float, got %v", v)
	}

	return f, nil
}

// propInt coerces a scalar integer. Float values are truncated, so "2.0"
// style values round-trip the way integer fields do in the file format.
func propInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	}

	return 0, propErrorf(key, "expected integer, got %v", v)
}

// propString coerces a string.
func propString(key string, v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}

	return "", propErrorf(key, "expected string, got %v", v)
}

// floatScalar widens numeric scalars to float64.
func floatScalar(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}

	return 0, false
}

// floatTuple widens numeric tuples to []float64.
func floatTuple(v any) ([]float64, bool) {
	switch t := v.(type) {
	case []float64:
		return append([]float64(nil), t...), true

	case []float32:
		out := make([]float64, len(t))
		for i, f := range t {
			out[i] = float64(f)
		}
		return out, true

	case []int:
		out := make([]float64, len(t))
		for i, n := range t {
			out[i] = float64(n)
		}
		return out, true

	case [3]float64:
		return []float64{t[0], t[1], t[2]}, true

	case [4]float64:
		return []float64{t[0], t[1], t[2], t[3]}, true

	case mgl64.Vec3:
		return []float64{t[0], t[1], t[2]}, true

	case mgl64.Vec4:
		return []float64{t[0], t[1], t[2], t[3]}, true

	case []any:
		out := make([]float64, len(t))
		for i, e := range t {
			f, ok := floatScalar(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}

	return nil, false
}

// propErrorf wraps ErrProperty with the property name and shape complaint.
func propErrorf(key, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrProperty, key, fmt.Sprintf(format, args...))
}
