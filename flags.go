package bz2xsi

import "strings"

// FrameFlags are rendering hints BZ2 encodes into frame names. A suffix
// after the last "__" holds single-character flags; a few well-known name
// prefixes imply flags of their own (flame emitters, hardpoints, tractor
// beams).
type FrameFlags struct {
	DoubleSided  bool `json:"doubleSided,omitempty" yaml:"doubleSided,omitempty"`   // "2": render both face sides
	Hidden       bool `json:"hidden,omitempty" yaml:"hidden,omitempty"`             // "h": hidden geometry
	Collision    bool `json:"collision,omitempty" yaml:"collision,omitempty"`       // "c": collision-only geometry
	Emissive     bool `json:"emissive,omitempty" yaml:"emissive,omitempty"`         // "e": self-lit
	Glow         bool `json:"glow,omitempty" yaml:"glow,omitempty"`                 // "g": self-lit with boosted strength
	Flame        bool `json:"flame,omitempty" yaml:"flame,omitempty"`               // flame prefix: untextured flame quad
	IgnoreHidden bool `json:"ignoreHidden,omitempty" yaml:"ignoreHidden,omitempty"` // flame/tractor prefix: never hide
}

// ParseFrameFlags extracts flags from a frame name.
//
// The flag suffix is everything after the last "__", case-insensitive, e.g.
// "turret_y__2e". A first name part of "flame" implies flame+emissive+ignore
// hidden, "hp" implies hidden, "tractor" implies ignore hidden.
func ParseFrameFlags(name string) FrameFlags {
	var flags FrameFlags

	if idx := strings.LastIndex(name, "__"); idx >= 0 {
		for _, c := range strings.ToLower(name[idx+2:]) {
			switch c {
			case '2':
				flags.DoubleSided = true
			case 'h':
				flags.Hidden = true
			case 'c':
				flags.Collision = true
			case 'e':
				flags.Emissive = true
			case 'g':
				flags.Glow = true
			}
		}
	}

	switch strings.ToLower(firstNamePart(name)) {
	case "flame":
		flags.IgnoreHidden = true
		flags.Flame = true
		flags.Emissive = true
	case "hp":
		flags.Hidden = true
	case "tractor":
		flags.IgnoreHidden = true
	}

	return flags
}

// SelfLit reports whether the frame renders self-lit.
func (f FrameFlags) SelfLit() bool { return f.Emissive || f.Glow }

// EmissiveStrength returns the emission multiplier for self-lit frames.
func (f FrameFlags) EmissiveStrength() float64 {
	if f.Glow {
		return 7.0
	}

	return 1.0
}

// ShouldHide reports whether the frame is hidden from normal rendering.
func (f FrameFlags) ShouldHide() bool {
	if f.IgnoreHidden {
		return false
	}

	return f.Hidden || f.Collision
}

// firstNamePart returns the name up to the first underscore.
func firstNamePart(name string) string {
	if idx := strings.Index(name, "_"); idx >= 0 {
		return name[:idx]
	}

	return name
}
