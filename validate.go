package bz2xsi

import (
	"fmt"
	"path/filepath"
	"strings"
)

// IssueLevel represents severity of validation issue.
type IssueLevel string

const (
	// IssueError indicates a validation error.
	IssueError IssueLevel = "error"
	// IssueWarning indicates a validation warning.
	IssueWarning IssueLevel = "warning"
)

// Issue represents a validation issue.
type Issue struct {
	Level   IssueLevel `json:"level" yaml:"level"`                   // Severity level
	Code    string     `json:"code,omitempty" yaml:"code,omitempty"` // Machine-readable code
	Message string     `json:"message" yaml:"message"`               // Issue message
	Path    string     `json:"path,omitempty" yaml:"path,omitempty"` // Affected frame, material, or file
}

// Validate validates a scene and returns issues.
//
// Errors mark data the game engine rejects or renders wrong: out-of-range
// indices, broken animation channels, dangling bones. Warnings mark data
// that loads but usually signals an export mistake.
func Validate(x *XSI, opt *ValidateOptions) []Issue {
	vopt := opt.normalize()
	var out []Issue

	if x == nil {
		return out
	}

	// Game models carry a single root object.
	if len(x.Frames) > 1 {
		out = append(out, Issue{Level: IssueWarning, Message: "more than one root frame", Path: x.Name})
	}

	seen := make(map[string]struct{})
	for _, frame := range x.AllFrames() {
		if _, ok := seen[frame.Name]; ok {
			out = append(out, Issue{Level: IssueError, Message: "duplicate frame name", Path: frame.Name})
		}
		seen[frame.Name] = struct{}{}

		out = append(out, validateFrame(frame, vopt)...)
	}

	return out
}

// validateFrame validates one frame's mesh, animation channels, and
// envelopes.
func validateFrame(frame *Frame, opt ValidateOptions) []Issue {
	var out []Issue

	if frame.Mesh != nil {
		out = append(out, validateMesh(frame.Name, frame.Mesh, opt)...)
	}

	for _, key := range frame.AnimationKeys {
		if key.Type.VectorSize() == 0 {
			out = append(out, Issue{
				Level:   IssueError,
				Message: fmt.Sprintf("unknown animation key type %d", key.Type),
				Path:    frame.Name,
			})
			continue
		}

		for _, kf := range key.Keys {
			if len(kf.Values) != key.Type.VectorSize() {
				out = append(out, Issue{
					Level: IssueError,
					Message: fmt.Sprintf("animation key type %d expects %d values, keyframe %d has %d",
						key.Type, key.Type.VectorSize(), kf.Frame, len(kf.Values)),
					Path: frame.Name,
				})
			}
		}
	}

	for _, env := range frame.Envelopes {
		if env.Bone == nil {
			out = append(out, Issue{Level: IssueError, Message: "envelope without bone", Path: frame.Name})
		}

		vertexCount := 0
		if frame.Mesh != nil {
			vertexCount = len(frame.Mesh.Vertices)
		}

		for _, vw := range env.Weights {
			if vw.Index < 0 || vw.Index >= vertexCount {
				out = append(out, Issue{
					Level:   IssueError,
					Message: fmt.Sprintf("envelope weight index %d out of range (%d vertices)", vw.Index, vertexCount),
					Path:    frame.Name,
				})
			}
			if vw.Weight < 0 || vw.Weight > 100 {
				out = append(out, Issue{
					Level:   IssueWarning,
					Message: fmt.Sprintf("envelope weight %g outside [0, 100]", vw.Weight),
					Path:    frame.Name,
				})
			}
		}
	}

	return out
}

// validateMesh validates face indices and materials.
func validateMesh(framePath string, m *Mesh, opt ValidateOptions) []Issue {
	var out []Issue

	for i, face := range m.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(m.Vertices) {
				out = append(out, Issue{
					Level:   IssueError,
					Message: fmt.Sprintf("face %d vertex index %d out of range (%d vertices)", i, idx, len(m.Vertices)),
					Path:    framePath,
				})
			}
		}
	}

	out = append(out, validateIndexedLayer(framePath, "normal", m.NormalFaces, len(m.NormalVertices))...)
	out = append(out, validateIndexedLayer(framePath, "UV", m.UVFaces, len(m.UVVertices))...)
	out = append(out, validateIndexedLayer(framePath, "vertex color", m.VertexColorFaces, len(m.VertexColors))...)

	if len(m.FaceMaterials) > 0 && len(m.FaceMaterials) != len(m.Faces) {
		out = append(out, Issue{
			Level:   IssueWarning,
			Message: fmt.Sprintf("%d face materials for %d faces", len(m.FaceMaterials), len(m.Faces)),
			Path:    framePath,
		})
	}

	_, materials := m.MaterialIndices()
	for _, mat := range materials {
		out = append(out, validateMaterial(framePath, mat, opt)...)
	}

	return out
}

// validateIndexedLayer validates face indices of an indexed vertex pool
// (normals, UVs, vertex colors) against the pool size.
func validateIndexedLayer(framePath, name string, faces [][]int, poolSize int) []Issue {
	var out []Issue

	for i, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= poolSize {
				out = append(out, Issue{
					Level:   IssueError,
					Message: fmt.Sprintf("%s face %d index %d out of range (%d entries)", name, i, idx, poolSize),
					Path:    framePath,
				})
			}
		}
	}

	return out
}

// validateMaterial validates colors, shading type, and the texture
// reference of one material.
func validateMaterial(framePath string, m Material, opt ValidateOptions) []Issue {
	var out []Issue

	out = append(out, validateChannels(framePath, "diffuse", m.Diffuse[:])...)
	out = append(out, validateChannels(framePath, "specular", m.Specular[:])...)
	out = append(out, validateChannels(framePath, "emissive", m.Emissive[:])...)
	out = append(out, validateChannels(framePath, "ambient", m.Ambient[:])...)

	if m.Hardness < 0 {
		out = append(out, Issue{
			Level:   IssueWarning,
			Message: fmt.Sprintf("negative hardness %g", m.Hardness),
			Path:    framePath,
		})
	}

	if !opt.DisableShadingTypeCheck {
		switch m.ShadingType {
		case ShadingConstant, ShadingLambert, ShadingPhong, ShadingBlinn:
		default:
			out = append(out, Issue{
				Level:   IssueWarning,
				Message: fmt.Sprintf("unknown shading type %d", m.ShadingType),
				Path:    framePath,
			})
		}
	}

	if m.Texture == "" {
		return out
	}

	if !opt.DisableExtensionsCheck {
		if !hasAllowedExt(m.Texture, opt.Extensions) {
			out = append(out, Issue{Level: IssueWarning, Message: "unexpected texture extension", Path: m.Texture})
		}
	}

	if !opt.DisableFileCheck {
		search := &TextureSearchOptions{
			Dirs:       opt.SearchDirs,
			Extensions: opt.Extensions,
			Recursive:  opt.Recursive,
		}

		found := FindTexture(m.Texture, search)
		if !fileExists(found) {
			out = append(out, Issue{Level: IssueWarning, Code: "missing_resource", Message: "texture file not found", Path: m.Texture})
			return out
		}

		if !opt.DisableImageProbe {
			// Undecodable formats are skipped, not flagged.
			if w, h, ok := probeImage(found); ok && (!isPowerOfTwo(w) || !isPowerOfTwo(h)) {
				out = append(out, Issue{
					Level:   IssueWarning,
					Message: fmt.Sprintf("texture dimensions %dx%d are not powers of two", w, h),
					Path:    found,
				})
			}
		}
	}

	return out
}

// validateChannels warns on color channels outside [0, 1].
func validateChannels(framePath, name string, vals []float64) []Issue {
	for _, v := range vals {
		if v < 0 || v > 1 {
			return []Issue{{
				Level:   IssueWarning,
				Message: fmt.Sprintf("%s channel %g outside [0, 1]", name, v),
				Path:    framePath,
			}}
		}
	}

	return nil
}

// hasAllowedExt checks if the path has an allowed extension.
func hasAllowedExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(strings.ReplaceAll(path, "\\", "/")))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}

	return false
}
