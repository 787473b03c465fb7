package bz2xsi

import (
	"fmt"
	"strings"
)

// Frame is a node in the XSI hierarchy: a transform with an optional mesh,
// child frames, animation keys, and envelopes.
type Frame struct {
	Name          string          `json:"name" yaml:"name"`                                         // Unique frame name
	Transform     *Matrix         `json:"transform,omitempty" yaml:"transform,omitempty"`           // Local transform
	Pose          *Matrix         `json:"pose,omitempty" yaml:"pose,omitempty"`                     // Base pose for skinning
	Mesh          *Mesh           `json:"mesh,omitempty" yaml:"mesh,omitempty"`                     // Mesh data, if any
	Frames        []*Frame        `json:"frames,omitempty" yaml:"frames,omitempty"`                 // Child frames
	AnimationKeys []*AnimationKey `json:"animationKeys,omitempty" yaml:"animationKeys,omitempty"`   // Animation channels
	Envelopes     []*Envelope     `json:"envelopes,omitempty" yaml:"envelopes,omitempty"`           // Bone weight envelopes
	IsBone        bool            `json:"isBone,omitempty" yaml:"isBone,omitempty"`                 // Referenced by an envelope
	Parent        *Frame          `json:"-" yaml:"-"`                                               // Parent frame, nil at root

	xsi *XSI // Owning scene, for the frame table
}

// errDuplicateFrame wraps ErrDuplicateFrame with the offending name.
func errDuplicateFrame(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateFrame, name)
}

// AddFrame creates a child frame. Frame names are unique per scene.
func (f *Frame) AddFrame(name string) (*Frame, error) {
	if f.xsi == nil {
		f.xsi = New()
	}

	child, err := f.xsi.newFrame(name)
	if err != nil {
		return nil, err
	}

	child.Parent = f
	f.Frames = append(f.Frames, child)
	return child, nil
}

// AllFrames returns the frame's descendants in pre-order.
func (f *Frame) AllFrames() []*Frame {
	var out []*Frame
	for _, c := range f.Frames {
		out = append(out, c)
		out = append(out, c.AllFrames()...)
	}

	return out
}

// ChainedName returns the path of frame names from the root down to f.
func (f *Frame) ChainedName(delimiter string) string {
	if delimiter == "" {
		delimiter = " -> "
	}

	var chain []string
	for frm := f; frm != nil; frm = frm.Parent {
		chain = append(chain, frm.Name)
	}

	// Reverse so the root comes first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return strings.Join(chain, delimiter)
}

// WorldTransform composes the frame's transform with its ancestors.
// Frames without an explicit transform contribute identity.
func (f *Frame) WorldTransform() Matrix {
	local := IdentityMatrix()
	if f.Transform != nil {
		local = *f.Transform
	}

	if f.Parent == nil {
		return local
	}

	return local.Mul(f.Parent.WorldTransform())
}

// Flags parses the frame's name flags. See ParseFrameFlags.
func (f *Frame) Flags() FrameFlags {
	return ParseFrameFlags(f.Name)
}

// AddAnimationKey appends a new animation channel of the given key type.
func (f *Frame) AddAnimationKey(keyType KeyType) (*AnimationKey, error) {
	key, err := NewAnimationKey(keyType)
	if err != nil {
		return nil, err
	}

	f.AnimationKeys = append(f.AnimationKeys, key)
	return key, nil
}

// AddEnvelope appends an envelope referencing the given bone frame and
// marks the bone.
func (f *Frame) AddEnvelope(bone *Frame) *Envelope {
	bone.IsBone = true
	env := &Envelope{Bone: bone}
	f.Envelopes = append(f.Envelopes, env)

	return env
}
