package bz2xsi

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Format renders an XSI scene to bytes.
func Format(x *XSI, opt *FormatOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, x, opt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Encode writes an XSI scene to a writer.
func Encode(w io.Writer, x *XSI, opt *FormatOptions) error {
	fopt := opt.normalize()

	xw := &writer{w: bufio.NewWriter(w), indent: fopt.Indent}
	xw.scene(x)
	if xw.err != nil {
		return xw.err
	}

	return xw.w.Flush()
}

// EncodeFile writes an XSI scene to a file.
func EncodeFile(path string, x *XSI, opt *FormatOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, x, opt); err != nil {
		f.Close() //nolint:errcheck
		return err
	}

	return f.Close()
}

// SafeName replaces characters outside [A-Za-z0-9_-] with underscores so a
// name survives the word scanner on the way back in. Empty names become
// "unnamed".
func SafeName(name string) string {
	if name == "" {
		return unnamedFrame
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9', c == '_', c == '-':
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}

// writer renders a scene block by block. Write errors stick to the
// underlying bufio.Writer and surface on the final flush.
type writer struct {
	w       *bufio.Writer // Output writer
	indent  string        // Indentation string per level
	indents []string      // Cache of indentation prefixes
	err     error         // First scene data error
}

// fail records the first scene data error.
func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// indentFor returns the indentation prefix for a nesting level.
func (w *writer) indentFor(level int) string {
	for len(w.indents) <= level {
		w.indents = append(w.indents, strings.Repeat(w.indent, len(w.indents)))
	}

	return w.indents[level]
}

// line writes one indented line.
func (w *writer) line(t int, data string) {
	w.w.WriteString(w.indentFor(t)) //nolint:errcheck
	w.w.WriteString(data)           //nolint:errcheck
	w.w.WriteByte('\n')             //nolint:errcheck
}

// blank writes an empty line.
func (w *writer) blank() { w.w.WriteByte('\n') } //nolint:errcheck

// scene writes the header, coordinate system, frame hierarchy, animation
// set, and envelope list.
func (w *writer) scene(x *XSI) {
	w.line(0, "xsi 0101txt 0032")
	w.blank()

	// Fixed right-handed Y-up coordinate system block.
	w.line(0, "SI_CoordinateSystem coord {")
	w.line(1, "1;")
	w.line(1, "0;")
	w.line(1, "1;")
	w.line(1, "0;")
	w.line(1, "2;")
	w.line(1, "5;")
	w.line(0, "}")

	for _, frame := range x.Frames {
		w.blank()
		w.frame(0, frame)
	}

	if animated := x.AnimatedFrames(); len(animated) > 0 {
		w.blank()
		w.line(0, "AnimationSet {")
		for _, frame := range animated {
			w.animation(1, frame)
		}
		w.line(0, "}")
	}

	if skinned := x.SkinnedFrames(); len(skinned) > 0 {
		w.blank()
		w.line(0, "SI_EnvelopeList {")
		w.line(1, itoa(x.EnvelopeCount())+";")
		for _, frame := range skinned {
			for _, env := range frame.Envelopes {
				w.envelope(1, frame, env)
			}
		}
		w.line(0, "}")
	}
}

// frame writes a Frame block and its children.
func (w *writer) frame(t int, frame *Frame) {
	w.line(t, "Frame frm-"+SafeName(frame.Name)+" {")

	if frame.Transform != nil {
		w.matrix(t+1, "FrameTransformMatrix", *frame.Transform)
	}
	if frame.Pose != nil {
		w.matrix(t+1, "SI_FrameBasePoseMatrix", *frame.Pose)
	}
	if frame.Mesh != nil {
		name := frame.Mesh.Name
		if name == "" {
			name = frame.Name
		}
		w.mesh(t+1, frame.Mesh, name)
	}

	for _, child := range frame.Frames {
		w.frame(t+1, child)
	}

	w.line(t, "}")
}

// matrix writes a matrix block: three rows ending in "," and the last row
// ending in ";;".
func (w *writer) matrix(t int, blockName string, m Matrix) {
	w.line(t, blockName+" {")
	rows := m.rows()
	for i, row := range rows {
		term := ","
		if i == len(rows)-1 {
			term = ";;"
		}
		w.line(t+1, row4(row)+term)
	}
	w.line(t, "}")
}

// mesh writes a Mesh block with its material, normal, UV, and vertex color
// sub-blocks.
func (w *writer) mesh(t int, m *Mesh, name string) {
	w.line(t, "Mesh "+SafeName(name)+" {")

	if len(m.Vertices) > 0 {
		w.vec3List(t+1, m.Vertices)

		if len(m.Faces) > 0 {
			w.faceList(t+1, m.Faces, false)
		}

		if len(m.FaceMaterials) > 0 && len(m.Faces) > 0 {
			indices, materials := m.MaterialIndices()

			w.line(t+1, "MeshMaterialList {")
			w.line(t+2, itoa(len(materials))+";")
			w.line(t+2, itoa(len(indices))+";")
			for _, idx := range indices[:len(indices)-1] {
				w.line(t+2, itoa(idx)+",")
			}
			w.line(t+2, itoa(indices[len(indices)-1])+";")

			for _, mat := range materials {
				w.material(t+2, mat)
			}
			w.line(t+1, "}")
		}

		if len(m.NormalVertices) > 0 {
			w.line(t+1, "SI_MeshNormals {")
			w.vec3List(t+2, m.NormalVertices)
			if len(m.NormalFaces) > 0 {
				w.faceList(t+2, m.NormalFaces, true)
			}
			w.line(t+1, "}")
		}

		if len(m.UVVertices) > 0 {
			w.line(t+1, "SI_MeshTextureCoords {")
			w.vec2List(t+2, m.UVVertices)
			if len(m.UVFaces) > 0 {
				w.faceList(t+2, m.UVFaces, true)
			}
			w.line(t+1, "}")
		}

		if len(m.VertexColors) > 0 && len(m.VertexColorFaces) > 0 {
			w.line(t+1, "SI_MeshVertexColors {")
			w.faceColors(t+2, m.VertexColorFaces, m.VertexColors)
			w.faceList(t+2, m.VertexColorFaces, true)
			w.line(t+1, "}")
		}
	}

	w.line(t, "}")
}

// material writes an SI_Material block.
func (w *writer) material(t int, m Material) {
	w.line(t, "SI_Material {")
	w.line(t+1, ftoa(m.Diffuse[0])+";"+ftoa(m.Diffuse[1])+";"+ftoa(m.Diffuse[2])+";"+ftoa(m.Diffuse[3])+";;")
	w.line(t+1, ftoa(m.Hardness)+";")
	w.line(t+1, rgb(m.Specular)+";;")
	w.line(t+1, rgb(m.Emissive)+";;")
	w.line(t+1, itoa(int(m.ShadingType))+";")
	w.line(t+1, rgb(m.Ambient)+";;")

	if m.Texture != "" {
		w.line(t+1, "SI_Texture2D {")
		w.line(t+2, `"`+m.Texture+`";`)
		w.line(t+1, "}")
	}

	w.line(t, "}")
}

// animation writes an Animation block with one SI_AnimationKey per channel.
func (w *writer) animation(t int, frame *Frame) {
	name := SafeName(frame.Name)
	w.line(t, "Animation anim-"+name+" {")
	w.line(t+1, "{frm-"+name+"}")

	for _, key := range frame.AnimationKeys {
		w.line(t+1, "SI_AnimationKey {")
		w.line(t+2, itoa(int(key.Type))+";")
		w.keyframes(t+2, key)
		w.line(t+1, "}")
	}

	w.line(t, "}")
}

// keyframes writes the sample list of an animation channel.
func (w *writer) keyframes(t int, key *AnimationKey) {
	w.line(t, itoa(len(key.Keys))+";")
	if len(key.Keys) == 0 {
		return
	}

	for i, kf := range key.Keys {
		var b strings.Builder
		b.WriteString(itoa(kf.Frame))
		b.WriteByte(';')
		b.WriteString(itoa(len(kf.Values)))
		b.WriteByte(';')
		for j, v := range kf.Values {
			if j > 0 {
				b.WriteByte(';')
			}
			b.WriteString(ftoa(v))
		}
		b.WriteString(";;")
		if i < len(key.Keys)-1 {
			b.WriteByte(',')
		} else {
			b.WriteByte(';')
		}

		w.line(t, b.String())
	}
}

// envelope writes an SI_Envelope block binding a skinned frame to a bone.
func (w *writer) envelope(t int, frame *Frame, env *Envelope) {
	w.line(t, "SI_Envelope {")
	w.line(t+1, `"frm-`+SafeName(frame.Name)+`";`)
	w.line(t+1, `"frm-`+SafeName(env.BoneName())+`";`)

	w.line(t+1, itoa(len(env.Weights))+";")
	for i, vw := range env.Weights {
		term := ","
		if i == len(env.Weights)-1 {
			term = ";"
		}
		w.line(t+1, itoa(vw.Index)+";"+ftoa(vw.Weight)+";"+term)
	}

	w.line(t, "}")
}

// vec3List writes a counted vector pool with "," separators and a final ";".
func (w *writer) vec3List(t int, vecs []mgl64.Vec3) {
	w.line(t, itoa(len(vecs))+";")
	for i, v := range vecs {
		w.line(t, rgb(v)+";"+listTerm(i, len(vecs)))
	}
}

// vec2List writes a counted UV pool.
func (w *writer) vec2List(t int, vecs []mgl64.Vec2) {
	w.line(t, itoa(len(vecs))+";")
	for i, v := range vecs {
		w.line(t, ftoa(v[0])+";"+ftoa(v[1])+";"+listTerm(i, len(vecs)))
	}
}

// faceList writes a counted face list. Indexed lists carry a leading face
// index per entry, the shape used by normals, UVs, and vertex colors.
func (w *writer) faceList(t int, faces [][]int, indexed bool) {
	w.line(t, itoa(len(faces))+";")
	for i, face := range faces {
		var b strings.Builder
		if indexed {
			b.WriteString(itoa(i))
			b.WriteByte(';')
		}
		b.WriteString(itoa(len(face)))
		b.WriteByte(';')
		for j, idx := range face {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(itoa(idx))
		}
		b.WriteByte(';')
		b.WriteString(listTerm(i, len(faces)))

		w.line(t, b.String())
	}
}

// faceColors writes vertex colors in face order, one line per referenced
// vertex, each face's last vertex terminated with ";". The format stores
// colors through face indices, so the pool must cover every index.
func (w *writer) faceColors(t int, faces [][]int, colors []mgl64.Vec4) {
	w.line(t, itoa(len(colors))+";")
	if len(colors) == 0 {
		return
	}

	for _, face := range faces {
		for j, idx := range face {
			if idx < 0 || idx >= len(colors) {
				w.fail(fmt.Errorf("%w: vertex color index %d out of range (%d colors)", ErrEncode, idx, len(colors)))
				return
			}
			c := colors[idx]
			line := ftoa(c[0]) + ";" + ftoa(c[1]) + ";" + ftoa(c[2]) + ";" + ftoa(c[3]) + ";"
			if j < len(face)-1 {
				line += ","
			} else {
				line += ";"
			}
			w.line(t, line)
		}
	}
}

// listTerm returns the list separator for entry i of n: "," between
// entries, ";" after the last.
func listTerm(i, n int) string {
	if i < n-1 {
		return ","
	}

	return ";"
}

// ftoa formats a float with six fixed decimals, the precision the game's
// tooling writes.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// itoa formats an integer.
func itoa(n int) string {
	return strconv.Itoa(n)
}

// rgb formats a three component vector with ";" separators.
func rgb(v mgl64.Vec3) string {
	return ftoa(v[0]) + ";" + ftoa(v[1]) + ";" + ftoa(v[2])
}

// row4 formats a matrix row with "," separators.
func row4(row [4]float64) string {
	return ftoa(row[0]) + "," + ftoa(row[1]) + "," + ftoa(row[2]) + "," + ftoa(row[3])
}
