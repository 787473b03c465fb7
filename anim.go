package bz2xsi

import "fmt"

// KeyType selects the animation channel encoding.
type KeyType int

const (
	// KeyRotateQuaternion is a WXYZ quaternion rotation channel.
	KeyRotateQuaternion KeyType = 0
	// KeyScale is an XYZ scale channel.
	KeyScale KeyType = 1
	// KeyTranslate is an XYZ translation channel.
	KeyTranslate KeyType = 2
	// KeyRotateEuler is an XYZ euler rotation channel.
	KeyRotateEuler KeyType = 3
)

// keyVectorSize maps key types to their fixed per-key vector sizes.
var keyVectorSize = [...]int{4, 3, 3, 3}

// VectorSize returns the per-key vector size for the type, or 0 when the
// type is unknown.
func (t KeyType) VectorSize() int {
	if t < 0 || int(t) >= len(keyVectorSize) {
		return 0
	}

	return keyVectorSize[t]
}

// Keyframe is a single animation sample: a keyframe position and its
// fixed-size value vector.
type Keyframe struct {
	Frame  int       `json:"frame" yaml:"frame"`   // Keyframe position
	Values []float64 `json:"values" yaml:"values"` // Vector of VectorSize values
}

// AnimationKey is one animation channel of a frame.
type AnimationKey struct {
	Type KeyType    `json:"type" yaml:"type"`                 // Channel encoding
	Keys []Keyframe `json:"keys,omitempty" yaml:"keys,omitempty"` // Samples in keyframe order
}

// NewAnimationKey creates an animation channel, rejecting unknown types.
func NewAnimationKey(keyType KeyType) (*AnimationKey, error) {
	if keyType.VectorSize() == 0 {
		return nil, fmt.Errorf("%w: invalid animation key type %d", ErrParse, keyType)
	}

	return &AnimationKey{Type: keyType}, nil
}

// AddKey appends a keyframe, rejecting vectors of the wrong size.
func (k *AnimationKey) AddKey(frame int, values []float64) error {
	if len(values) != k.Type.VectorSize() {
		return fmt.Errorf("%w: animation key type %d expects %d values, got %d",
			ErrParse, k.Type, k.Type.VectorSize(), len(values))
	}

	k.Keys = append(k.Keys, Keyframe{Frame: frame, Values: values})
	return nil
}

// VertexWeight is one weighted vertex inside an envelope. Weight is a
// percentage in [0, 100].
type VertexWeight struct {
	Index  int     `json:"index" yaml:"index"`   // Mesh vertex index
	Weight float64 `json:"weight" yaml:"weight"` // Influence percentage
}

// Envelope binds a set of weighted vertices to a bone frame. Envelopes live
// on the skinned mesh frame; the bone frame is only referenced.
type Envelope struct {
	Bone    *Frame         `json:"-" yaml:"-"`                               // Referenced bone frame
	Weights []VertexWeight `json:"weights,omitempty" yaml:"weights,omitempty"` // Weighted vertices
}

// BoneName returns the referenced bone's name, or "" without a bone.
func (e *Envelope) BoneName() string {
	if e.Bone == nil {
		return ""
	}

	return e.Bone.Name
}

// AddWeight appends a weighted vertex to the envelope.
func (e *Envelope) AddWeight(index int, weight float64) {
	e.Weights = append(e.Weights, VertexWeight{Index: index, Weight: weight})
}
