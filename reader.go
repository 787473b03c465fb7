package bz2xsi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// unnamedFrame is assigned to frames without a name parameter.
const unnamedFrame = "unnamed"

// Template name patterns. Matching is loose on purpose: real-world XSI
// files mix SI_-prefixed and bare template names, and matching is by
// prefix, so check order below matters (FrameTransformMatrix also matches
// the Frame pattern).
var (
	reHeader       = regexp.MustCompile(`(?i)^\s*xsi\s*0101txt\s*0032\s*$`)
	reFrame        = regexp.MustCompile(`(?i)^(?:SI_)?Frame`)
	reTransform    = regexp.MustCompile(`(?i)^(?:SI_)?(?:Frame)?(?:Transform)?Matrix`)
	rePose         = regexp.MustCompile(`(?i)^(?:SI_)?(?:Frame)?(?:Base)(?:Pose)?Matrix`)
	reMesh         = regexp.MustCompile(`(?i)^(?:SI_)?Mesh`)
	reMaterialList = regexp.MustCompile(`(?i)^(?:SI_)?(?:Mesh)?MaterialList`)
	reMaterial     = regexp.MustCompile(`(?i)^(?:SI_)?(?:Mesh)?Material`)
	reTexture      = regexp.MustCompile(`(?i)^(?:SI_)?(?:Texture|TextureFilename)(?:2D)?`)
	reNormals      = regexp.MustCompile(`(?i)^(?:SI_)?(?:Mesh)?Normals`)
	reVertexColors = regexp.MustCompile(`(?i)^(?:SI_)?(?:Mesh)?VertexColors`)
	reUVMap        = regexp.MustCompile(`(?i)^(?:SI_)?(?:Mesh)?TextureCoords`)
	reAnimationSet = regexp.MustCompile(`(?i)^(?:SI_)?AnimationSet`)
	reAnimation    = regexp.MustCompile(`(?i)^(?:SI_)?Animation`)
	reAnimationKey = regexp.MustCompile(`(?i)^(?:SI_)?AnimationKey`)
	reEnvelopeList = regexp.MustCompile(`(?i)^(?:SI_)?EnvelopeList`)
	reEnvelope     = regexp.MustCompile(`(?i)^(?:SI_)?Envelope`)
	reLight        = regexp.MustCompile(`(?i)^(?:SI_)?Light`)
	reCamera       = regexp.MustCompile(`(?i)^(?:SI_)?Camera`)

	// reJunk blocks carry scene metadata BZ2 never reads.
	reJunk = regexp.MustCompile(`(?i)^(?:SI_)?(?:Fog|Ambience|Angle|Coord.+?|AnimationParam.+?)`)
)

// Parse parses an XSI scene from bytes.
func Parse(data []byte, opt *ParseOptions) (*XSI, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses an XSI scene from a reader.
func Decode(r io.Reader, opt *ParseOptions) (*XSI, error) {
	return decode(r, "", opt)
}

// DecodeFile parses an XSI scene from a file.
func DecodeFile(path string, opt *ParseOptions) (*XSI, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	x, err := decode(bytes.NewReader(b), path, opt)
	if err != nil {
		return nil, err
	}

	x.Name = path
	return x, nil
}

// decode runs the parser over a stream.
func decode(r io.Reader, name string, opt *ParseOptions) (*XSI, error) {
	popt := opt.normalize()

	p := &parser{
		s:   newScanner(r, name),
		x:   New(),
		opt: popt,
		log: popt.Logger,
	}
	p.skip = append(p.skip, reJunk)
	for _, pattern := range popt.SkipBlocks {
		// Patterns match from the start of the template name, like the
		// built-in junk set.
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			return nil, fmt.Errorf("%w: skip pattern %q: %v", ErrParse, pattern, err)
		}
		p.skip = append(p.skip, re)
	}

	if err := p.readRoot(); err != nil {
		return nil, err
	}

	return p.x, nil
}

// parser reads XSI blocks into a scene.
type parser struct {
	s    *scanner         // Word scanner
	x    *XSI             // Scene being built
	opt  ParseOptions     // Options for the parser
	skip []*regexp.Regexp // Block names skipped without parsing
	log  *zap.Logger      // Diagnostics sink
}

// readRoot checks the file header and dispatches top-level blocks.
func (p *parser) readRoot() error {
	var header [3]string
	for i := range header {
		w, err := p.s.word()
		if err != nil {
			return fmt.Errorf("%w: missing header", ErrHeader)
		}
		header[i] = w
	}

	joined := strings.Join(header[:], " ")
	if !reHeader.MatchString(joined) {
		return fmt.Errorf("%w: %q", ErrHeader, joined)
	}

	for {
		name, params, ok, err := p.s.blockHeader()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch {
		case p.skipMatch(name):
			if err := p.skipBlock(); err != nil {
				return err
			}

		case reLight.MatchString(name):
			if err := p.readLight(params); err != nil {
				return err
			}

		case reCamera.MatchString(name):
			if err := p.readCamera(params); err != nil {
				return err
			}

		case reFrame.MatchString(name):
			if err := p.readFrame(nil, params); err != nil {
				return err
			}

		case reAnimationSet.MatchString(name):
			if err := p.readAnimationSet(); err != nil {
				return err
			}

		case reEnvelopeList.MatchString(name):
			if err := p.readEnvelopeList(); err != nil {
				return err
			}

		default:
			p.warn("unknown block in scene", zap.String("block", name))
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}
}

// readLight reads an SI_Light block. Only type-0 point lights carry data
// BZ2 understands; everything else is skipped.
func (p *parser) readLight(params []string) error {
	name := paramName(params)

	lightType, err := p.parseInt()
	if err != nil {
		return err
	}

	if lightType == 0 {
		rgb, err := p.parseVec3()
		if err != nil {
			return err
		}
		pos, err := p.parseVec3()
		if err != nil {
			return err
		}

		p.x.Lights = append(p.x.Lights, NewPointLight(name, rgb, pos))
	}

	return p.skipBlock()
}

// readCamera reads an SI_Camera block.
func (p *parser) readCamera(params []string) error {
	name := paramName(params)

	pos, err := p.parseVec3()
	if err != nil {
		return err
	}
	interest, err := p.parseVec3()
	if err != nil {
		return err
	}
	roll, err := p.parseFloat()
	if err != nil {
		return err
	}
	near, err := p.parseFloat()
	if err != nil {
		return err
	}
	far, err := p.parseFloat()
	if err != nil {
		return err
	}

	cam := NewCamera(name, pos, interest)
	cam.Roll = roll
	cam.NearPlane = near
	cam.FarPlane = far
	p.x.Cameras = append(p.x.Cameras, cam)

	return p.skipBlock()
}

// readFrame reads a Frame block and its children into the hierarchy.
func (p *parser) readFrame(parent *Frame, params []string) error {
	name := paramName(params)

	if p.opt.DisableDuplicateRename {
		if p.x.hasFrame(name) {
			return errDuplicateFrame(name)
		}
	} else {
		renamed := false
		for range 9999 {
			if !p.x.hasFrame(name) {
				break
			}
			renamed = true
			name += "_"
		}
		if p.x.hasFrame(name) {
			return fmt.Errorf("%w: failed to generate unique name for %q", ErrDuplicateFrame, name)
		}
		if renamed {
			p.warn("duplicate frame renamed", zap.String("frame", name))
		}
	}

	var (
		frame *Frame
		err   error
	)
	if parent != nil {
		frame, err = parent.AddFrame(name)
	} else {
		frame, err = p.x.AddFrame(name)
	}
	if err != nil {
		return err
	}

	for {
		blockName, blockParams, ok, err := p.s.blockHeader()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch {
		case p.skipMatch(blockName):
			if err := p.skipBlock(); err != nil {
				return err
			}

		case reTransform.MatchString(blockName):
			m, err := p.readMatrix()
			if err != nil {
				return err
			}
			frame.Transform = &m

		case rePose.MatchString(blockName):
			m, err := p.readMatrix()
			if err != nil {
				return err
			}
			frame.Pose = &m

		case reMesh.MatchString(blockName):
			meshName := frame.Name
			if len(blockParams) > 0 {
				meshName = cleanName(blockParams[0])
			}
			mesh, err := p.readMesh(meshName)
			if err != nil {
				return err
			}
			frame.Mesh = mesh

		case reFrame.MatchString(blockName):
			if err := p.readFrame(frame, blockParams); err != nil {
				return err
			}

		// Some files leave frame braces unclosed, which makes the
		// animation set or envelope list appear as a child of the last
		// frame. Both are non-hierarchical, so they parse the same here
		// as at root level.
		case reAnimationSet.MatchString(blockName):
			if err := p.readAnimationSet(); err != nil {
				return err
			}

		case reEnvelopeList.MatchString(blockName):
			if err := p.readEnvelopeList(); err != nil {
				return err
			}

		default:
			p.warn("unknown block in frame",
				zap.String("block", blockName), zap.String("frame", frame.Name))
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}
}

// readMatrix reads the four rows of a matrix block.
func (p *parser) readMatrix() (Matrix, error) {
	var rows [4][4]float64
	for i := range rows {
		vals, err := p.parseFloats(4)
		if err != nil {
			return Matrix{}, err
		}
		copy(rows[i][:], vals)
	}

	m := Matrix{Right: rows[0], Up: rows[1], Front: rows[2], Posit: rows[3]}
	return m, p.skipBlock()
}

// readMesh reads a Mesh block: vertex and face pools followed by optional
// material list, normals, UV, and vertex color sub-blocks.
func (p *parser) readMesh(name string) (*Mesh, error) {
	mesh := &Mesh{Name: name}

	verts, faces, err := p.parse3D(3, false)
	if err != nil {
		return nil, err
	}
	mesh.Vertices = vec3List(verts)
	mesh.Faces = faces

	for {
		name, _, ok, err := p.s.blockHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			return mesh, nil
		}

		switch {
		case p.skipMatch(name):
			if err := p.skipBlock(); err != nil {
				return nil, err
			}

		case reMaterialList.MatchString(name):
			if err := p.readMaterialList(mesh); err != nil {
				return nil, err
			}

		case reNormals.MatchString(name):
			verts, faces, err := p.parse3D(3, true)
			if err != nil {
				return nil, err
			}
			mesh.NormalVertices = vec3List(verts)
			mesh.NormalFaces = faces
			if err := p.skipBlock(); err != nil {
				return nil, err
			}

		case reUVMap.MatchString(name):
			verts, faces, err := p.parse3D(2, true)
			if err != nil {
				return nil, err
			}
			mesh.UVVertices = vec2List(verts)
			mesh.UVFaces = faces
			if err := p.skipBlock(); err != nil {
				return nil, err
			}

		case reVertexColors.MatchString(name):
			verts, faces, err := p.parse3D(4, true)
			if err != nil {
				return nil, err
			}
			mesh.VertexColors = vec4List(verts)
			mesh.VertexColorFaces = faces
			if err := p.skipBlock(); err != nil {
				return nil, err
			}

		default:
			p.warn("unknown block in mesh", zap.String("block", name))
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
		}
	}
}

// readMaterialList reads a MeshMaterialList block and assigns one material
// per face.
func (p *parser) readMaterialList(mesh *Mesh) error {
	materialCount, err := p.parseInt()
	if err != nil {
		return err
	}
	faceCount, err := p.parseInt()
	if err != nil {
		return err
	}

	faceIndices := make([]int, 0, faceCount)
	for range faceCount {
		idx, err := p.parseInt()
		if err != nil {
			return err
		}
		faceIndices = append(faceIndices, idx)
	}

	var materials []Material
	for {
		name, _, ok, err := p.s.blockHeader()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		switch {
		case p.skipMatch(name):
			if err := p.skipBlock(); err != nil {
				return err
			}

		case reMaterial.MatchString(name):
			mat, err := p.readMaterial()
			if err != nil {
				return err
			}
			materials = append(materials, mat)

		default:
			p.warn("unknown block in material list", zap.String("block", name))
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}

	// Keep the material count honest; missing entries get defaults.
	for len(materials) < materialCount {
		p.warn("missing material in material list", zap.Int("index", len(materials)))
		materials = append(materials, NewMaterial())
	}

	for _, idx := range faceIndices {
		if idx < 0 || idx >= len(materials) {
			return p.s.errorf("material face index %d out of range (%d materials)", idx, len(materials))
		}
		mesh.FaceMaterials = append(mesh.FaceMaterials, materials[idx])
	}

	return nil
}

// readMaterial reads an SI_Material block. Field order in the file is
// diffuse, hardness, specular, emissive, shading type, ambient.
func (p *parser) readMaterial() (Material, error) {
	mat := NewMaterial()

	diffuse, err := p.parseFloats(4)
	if err != nil {
		return Material{}, err
	}
	mat.Diffuse = mgl64.Vec4{diffuse[0], diffuse[1], diffuse[2], diffuse[3]}

	if mat.Hardness, err = p.parseFloat(); err != nil {
		return Material{}, err
	}
	if mat.Specular, err = p.parseVec3(); err != nil {
		return Material{}, err
	}
	if mat.Emissive, err = p.parseVec3(); err != nil {
		return Material{}, err
	}

	shading, err := p.parseInt()
	if err != nil {
		return Material{}, err
	}
	mat.ShadingType = ShadingType(shading)

	if mat.Ambient, err = p.parseVec3(); err != nil {
		return Material{}, err
	}

	for {
		name, _, ok, err := p.s.blockHeader()
		if err != nil {
			return Material{}, err
		}
		if !ok {
			return mat, nil
		}

		switch {
		case p.skipMatch(name):
			if err := p.skipBlock(); err != nil {
				return Material{}, err
			}

		case reTexture.MatchString(name):
			// BZ2 only uses the texture file name.
			tex, err := p.parseWord()
			if err != nil {
				return Material{}, err
			}
			mat.Texture = tex
			if err := p.skipBlock(); err != nil {
				return Material{}, err
			}

		default:
			p.warn("unknown block in material", zap.String("block", name))
			if err := p.skipBlock(); err != nil {
				return Material{}, err
			}
		}
	}
}

// readAnimationSet reads an AnimationSet block.
func (p *parser) readAnimationSet() error {
	for {
		name, params, ok, err := p.s.blockHeader()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch {
		case p.skipMatch(name):
			if err := p.skipBlock(); err != nil {
				return err
			}

		case reAnimation.MatchString(name):
			if err := p.readAnimation(params); err != nil {
				return err
			}

		default:
			p.warn("unknown block in animation set", zap.String("block", name))
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}
}

// readAnimation reads an Animation block targeting a frame by name.
func (p *parser) readAnimation(params []string) error {
	name := paramName(params)

	target, err := p.parseWord()
	if err != nil {
		return err
	}
	frameName := cleanName(target)

	frame := p.x.FindFrame(frameName)
	if frame == nil {
		p.warn("invalid frame referenced by animation",
			zap.String("frame", frameName), zap.String("animation", name))
		return p.skipBlock()
	}

	for {
		blockName, _, ok, err := p.s.blockHeader()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch {
		case p.skipMatch(blockName):
			if err := p.skipBlock(); err != nil {
				return err
			}

		case reAnimationKey.MatchString(blockName):
			if err := p.readAnimationKey(frame); err != nil {
				return err
			}

		default:
			p.warn("unknown block in animation",
				zap.String("block", blockName), zap.String("animation", name))
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}
}

// readAnimationKey reads one SI_AnimationKey channel. Malformed channels
// are logged and skipped rather than failing the whole file, matching how
// the game tooling tolerates them.
func (p *parser) readAnimationKey(frame *Frame) error {
	keyType, err := p.parseInt()
	if err != nil {
		return err
	}

	key, keyErr := NewAnimationKey(KeyType(keyType))
	if keyErr != nil {
		p.warn("invalid animation key", zap.String("frame", frame.Name), zap.Error(keyErr))
		return p.skipBlock()
	}

	keyCount, err := p.parseInt()
	if err != nil {
		return err
	}

	for range keyCount {
		keyframe, err := p.parseInt()
		if err != nil {
			return err
		}
		size, err := p.parseInt()
		if err != nil {
			return err
		}
		values, err := p.parseFloats(size)
		if err != nil {
			return err
		}

		if err := key.AddKey(keyframe, values); err != nil {
			p.warn("invalid animation key", zap.String("frame", frame.Name), zap.Error(err))
			return p.skipBlock()
		}
	}

	frame.AnimationKeys = append(frame.AnimationKeys, key)
	return p.skipBlock()
}

// readEnvelopeList reads an SI_EnvelopeList block.
func (p *parser) readEnvelopeList() error {
	remaining, err := p.parseInt()
	if err != nil {
		return err
	}

	for {
		name, _, ok, err := p.s.blockHeader()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		switch {
		case p.skipMatch(name):
			if err := p.skipBlock(); err != nil {
				return err
			}

		case reEnvelope.MatchString(name):
			if err := p.readEnvelope(); err != nil {
				return err
			}
			remaining--

		default:
			p.warn("unknown block in envelope list", zap.String("block", name))
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
	}

	if remaining != 0 {
		p.warn("envelope count mismatch in envelope list", zap.Int("difference", remaining))
	}

	return nil
}

// readEnvelope reads one SI_Envelope, resolving its frame and bone through
// the frame table. Dangling references are logged and skipped.
func (p *parser) readEnvelope() error {
	frameWord, err := p.parseWord()
	if err != nil {
		return err
	}
	boneWord, err := p.parseWord()
	if err != nil {
		return err
	}

	frameName := cleanName(frameWord)
	boneName := cleanName(boneWord)

	frame := p.x.FindFrame(frameName)
	bone := p.x.FindFrame(boneName)

	if frame == nil {
		p.warn("invalid frame used by envelope",
			zap.String("frame", frameName), zap.String("bone", boneName))
	}
	if bone == nil {
		p.warn("invalid bone used by envelope",
			zap.String("bone", boneName), zap.String("frame", frameName))
	}
	if frame == nil || bone == nil {
		return p.skipBlock()
	}

	weightCount, err := p.parseInt()
	if err != nil {
		return err
	}

	env := frame.AddEnvelope(bone)
	for range weightCount {
		index, err := p.parseInt()
		if err != nil {
			return err
		}
		weight, err := p.parseFloat()
		if err != nil {
			return err
		}
		env.AddWeight(index, weight)
	}

	return p.skipBlock()
}

// skipBlock consumes a block whose opening brace is already parsed,
// balancing nested braces. EOF inside a skipped block is tolerated.
func (p *parser) skipBlock() error {
	depth := 1
	for depth > 0 {
		w, err := p.s.word()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch w {
		case "{":
			depth++
		case "}":
			depth--
		}
	}

	return nil
}

// skipMatch reports whether the block name matches a skip pattern.
func (p *parser) skipMatch(name string) bool {
	for _, re := range p.skip {
		if re.MatchString(name) {
			return true
		}
	}

	return false
}

// parseWord reads the next data word, turning EOF into a parse error.
func (p *parser) parseWord() (string, error) {
	w, err := p.s.word()
	if err != nil {
		if err == io.EOF {
			return "", p.s.errorf("unexpected EOF")
		}
		return "", err
	}

	return w, nil
}

// parseFloat reads the next word as a float.
func (p *parser) parseFloat() (float64, error) {
	w, err := p.parseWord()
	if err != nil {
		return 0, err
	}

	f, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, p.s.errorf("expected float, got %q", w)
	}

	return f, nil
}

// parseInt reads the next word as an integer. Counts are often written as
// "0.0" style floats in the wild, so integers parse through float.
func (p *parser) parseInt() (int, error) {
	f, err := p.parseFloat()
	if err != nil {
		return 0, err
	}

	return int(f), nil
}

// parseFloats reads n consecutive floats.
func (p *parser) parseFloats(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		f, err := p.parseFloat()
		if err != nil {
			return nil, err
		}
		out[i] = f
	}

	return out, nil
}

// parseVec3 reads three consecutive floats.
func (p *parser) parseVec3() (mgl64.Vec3, error) {
	vals, err := p.parseFloats(3)
	if err != nil {
		return mgl64.Vec3{}, err
	}

	return mgl64.Vec3{vals[0], vals[1], vals[2]}, nil
}

// parse3D reads a vertex pool followed by a face list: a count, that many
// vectors of size vecSize, another count, and that many index tuples.
// Indexed face lists (normals, UVs, colors) carry a leading face index per
// tuple which is read and dropped.
func (p *parser) parse3D(vecSize int, indexed bool) ([][]float64, [][]int, error) {
	vertCount, err := p.parseInt()
	if err != nil {
		return nil, nil, err
	}

	vertices := make([][]float64, 0, vertCount)
	for range vertCount {
		vals, err := p.parseFloats(vecSize)
		if err != nil {
			return nil, nil, err
		}
		vertices = append(vertices, vals)
	}

	faceCount, err := p.parseInt()
	if err != nil {
		return nil, nil, err
	}

	faces := make([][]int, 0, faceCount)
	for range faceCount {
		if indexed {
			if _, err := p.parseInt(); err != nil {
				return nil, nil, err
			}
		}

		size, err := p.parseInt()
		if err != nil {
			return nil, nil, err
		}

		face := make([]int, size)
		for i := range face {
			idx, err := p.parseInt()
			if err != nil {
				return nil, nil, err
			}
			face[i] = idx
		}
		faces = append(faces, face)
	}

	return vertices, faces, nil
}

// warn logs a reader diagnostic with the current input position.
func (p *parser) warn(msg string, fields ...zap.Field) {
	fields = append(fields, zap.Int("line", p.s.pos.line), zap.Int("col", p.s.pos.col))
	p.log.Warn(msg, fields...)
}

// paramName returns the cleaned first block parameter, or the unnamed
// placeholder.
func paramName(params []string) string {
	if len(params) == 0 {
		return unnamedFrame
	}

	return cleanName(params[0])
}

// cleanName strips block reference decorations from a name: surrounding
// braces and the frm-/anim- prefixes written by exporters.
func cleanName(name string) string {
	if len(name) >= 2 && name[0] == '{' && name[len(name)-1] == '}' {
		name = name[1 : len(name)-1]
	}

	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "frm-"):
		name = name[4:]
	case strings.HasPrefix(lower, "anim-"):
		name = name[5:]
	}

	if name == "" {
		return unnamedFrame
	}

	return name
}

// vec3List converts raw float tuples to vectors.
func vec3List(vals [][]float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(vals))
	for i, v := range vals {
		out[i] = mgl64.Vec3{v[0], v[1], v[2]}
	}

	return out
}

// vec2List converts raw float tuples to vectors.
func vec2List(vals [][]float64) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(vals))
	for i, v := range vals {
		out[i] = mgl64.Vec2{v[0], v[1]}
	}

	return out
}

// vec4List converts raw float tuples to vectors.
func vec4List(vals [][]float64) []mgl64.Vec4 {
	out := make([]mgl64.Vec4, len(vals))
	for i, v := range vals {
		out[i] = mgl64.Vec4{v[0], v[1], v[2], v[3]}
	}

	return out
}
