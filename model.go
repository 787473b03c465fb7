package bz2xsi

// DefaultName is used for scenes built in memory rather than read from a file.
const DefaultName = "<XSI ROOT>"

// XSI represents a parsed or assembled XSI scene.
//
// Frames hold the root-level hierarchy; every frame in the scene is also
// registered in a flat table keyed by its unique name, which animations and
// envelopes use to resolve their targets.
type XSI struct {
	Name    string       `json:"name,omitempty" yaml:"name,omitempty"`       // Source path or DefaultName
	Frames  []*Frame     `json:"frames,omitempty" yaml:"frames,omitempty"`   // Root-level frames
	Lights  []PointLight `json:"lights,omitempty" yaml:"lights,omitempty"`   // Scene point lights
	Cameras []Camera     `json:"cameras,omitempty" yaml:"cameras,omitempty"` // Scene cameras

	frameTable map[string]*Frame // All frames by unique name
}

// New creates an empty scene.
func New() *XSI {
	return &XSI{Name: DefaultName, frameTable: map[string]*Frame{}}
}

// AddFrame creates a root-level frame. Frame names are unique per scene;
// a colliding name returns ErrDuplicateFrame.
func (x *XSI) AddFrame(name string) (*Frame, error) {
	f, err := x.newFrame(name)
	if err != nil {
		return nil, err
	}

	x.Frames = append(x.Frames, f)
	return f, nil
}

// newFrame registers a frame in the scene table without attaching it.
func (x *XSI) newFrame(name string) (*Frame, error) {
	if x.frameTable == nil {
		x.frameTable = map[string]*Frame{}
	}
	if _, ok := x.frameTable[name]; ok {
		return nil, errDuplicateFrame(name)
	}

	f := &Frame{Name: name, xsi: x}
	x.frameTable[name] = f
	return f, nil
}

// hasFrame reports whether a frame name is taken.
func (x *XSI) hasFrame(name string) bool {
	_, ok := x.frameTable[name]
	return ok
}

// FindFrame returns the frame with the given name, or nil.
func (x *XSI) FindFrame(name string) *Frame {
	if f, ok := x.frameTable[name]; ok {
		return f
	}
	return nil
}

// AllFrames returns every frame in the scene in pre-order.
func (x *XSI) AllFrames() []*Frame {
	var out []*Frame
	for _, f := range x.Frames {
		out = append(out, f)
		out = append(out, f.AllFrames()...)
	}

	return out
}

// AnimatedFrames returns frames carrying animation keys.
func (x *XSI) AnimatedFrames() []*Frame {
	var out []*Frame
	for _, f := range x.AllFrames() {
		if len(f.AnimationKeys) > 0 {
			out = append(out, f)
		}
	}

	return out
}

// SkinnedFrames returns frames carrying envelopes. Frames holding skinned
// meshes carry envelopes; bone frames are referenced by them instead.
func (x *XSI) SkinnedFrames() []*Frame {
	var out []*Frame
	for _, f := range x.AllFrames() {
		if len(f.Envelopes) > 0 {
			out = append(out, f)
		}
	}

	return out
}

// BoneFrames returns frames referenced as bones by envelopes.
func (x *XSI) BoneFrames() []*Frame {
	var out []*Frame
	for _, f := range x.AllFrames() {
		if f.IsBone {
			out = append(out, f)
		}
	}

	return out
}

// Meshes returns every mesh in the scene in frame pre-order.
func (x *XSI) Meshes() []*Mesh {
	var out []*Mesh
	for _, f := range x.AllFrames() {
		if f.Mesh != nil {
			out = append(out, f.Mesh)
		}
	}

	return out
}

// EnvelopeCount returns the total number of envelopes across all frames.
func (x *XSI) EnvelopeCount() int {
	n := 0
	for _, f := range x.SkinnedFrames() {
		n += len(f.Envelopes)
	}

	return n
}

// IsSkinned reports whether any frame carries envelopes.
func (x *XSI) IsSkinned() bool { return len(x.SkinnedFrames()) > 0 }

// IsAnimated reports whether any frame carries animation keys.
func (x *XSI) IsAnimated() bool { return len(x.AnimatedFrames()) > 0 }
