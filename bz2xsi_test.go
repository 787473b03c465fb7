package bz2xsi

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestParseMinimal(t *testing.T) {
	x, err := DecodeFile(filepath.Join("testdata", "minimal.xsi"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(x.Frames) != 1 {
		t.Fatalf("expected 1 root frame, got %d", len(x.Frames))
	}

	body := x.FindFrame("body")
	if body == nil {
		t.Fatalf("frame body not found")
	}
	if body.Transform == nil {
		t.Fatalf("expected transform on body")
	}
	if *body.Transform != IdentityMatrix() {
		t.Fatalf("unexpected transform: %+v", body.Transform)
	}

	mesh := body.Mesh
	if mesh == nil {
		t.Fatalf("expected mesh on body")
	}
	if len(mesh.Vertices) != 4 || len(mesh.Faces) != 2 {
		t.Fatalf("unexpected geometry: %d vertices, %d faces", len(mesh.Vertices), len(mesh.Faces))
	}
	if len(mesh.NormalVertices) != 1 || len(mesh.NormalFaces) != 2 {
		t.Fatalf("unexpected normals: %d vertices, %d faces", len(mesh.NormalVertices), len(mesh.NormalFaces))
	}
	if len(mesh.UVVertices) != 4 || len(mesh.UVFaces) != 2 {
		t.Fatalf("unexpected UVs: %d vertices, %d faces", len(mesh.UVVertices), len(mesh.UVFaces))
	}

	if len(mesh.FaceMaterials) != 2 {
		t.Fatalf("expected 2 face materials, got %d", len(mesh.FaceMaterials))
	}
	mat := mesh.FaceMaterials[0]
	if mat.Texture != "body.png" {
		t.Fatalf("unexpected texture: %q", mat.Texture)
	}
	if mat.Hardness != 50.0 || mat.ShadingType != ShadingPhong {
		t.Fatalf("unexpected material: %+v", mat)
	}
	if mat.Diffuse[0] != 0.8 || mat.Diffuse[3] != 1.0 {
		t.Fatalf("unexpected diffuse: %v", mat.Diffuse)
	}

	indices, materials := mesh.MaterialIndices()
	if len(materials) != 1 || len(indices) != 2 {
		t.Fatalf("expected 1 unique material over 2 faces, got %d over %d", len(materials), len(indices))
	}
}

func TestParseAnimated(t *testing.T) {
	x, err := DecodeFile(filepath.Join("testdata", "animated.xsi"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if !x.IsAnimated() || !x.IsSkinned() {
		t.Fatalf("expected animated and skinned scene")
	}

	bone := x.FindFrame("bone1")
	if bone == nil {
		t.Fatalf("frame bone1 not found")
	}
	if !bone.IsBone {
		t.Fatalf("expected bone1 to be marked as bone")
	}
	if bone.Pose == nil {
		t.Fatalf("expected base pose on bone1")
	}

	if len(bone.AnimationKeys) != 1 {
		t.Fatalf("expected 1 animation key on bone1, got %d", len(bone.AnimationKeys))
	}
	key := bone.AnimationKeys[0]
	if key.Type != KeyTranslate {
		t.Fatalf("unexpected key type: %d", key.Type)
	}
	if len(key.Keys) != 2 {
		t.Fatalf("expected 2 keyframes, got %d", len(key.Keys))
	}
	if key.Keys[1].Frame != 10 || key.Keys[1].Values[1] != 2.0 {
		t.Fatalf("unexpected keyframe: %+v", key.Keys[1])
	}

	root := x.FindFrame("root")
	if root == nil || len(root.Envelopes) != 1 {
		t.Fatalf("expected 1 envelope on root")
	}
	env := root.Envelopes[0]
	if env.BoneName() != "bone1" {
		t.Fatalf("unexpected bone: %q", env.BoneName())
	}
	if len(env.Weights) != 2 || env.Weights[0].Weight != 100.0 {
		t.Fatalf("unexpected weights: %+v", env.Weights)
	}
	if x.EnvelopeCount() != 1 {
		t.Fatalf("unexpected envelope count: %d", x.EnvelopeCount())
	}
}

func TestHeaderRejected(t *testing.T) {
	for _, in := range []string{
		"",
		"xof 0302txt 0032",
		"xsi 0102txt 0032",
	} {
		if _, err := Parse([]byte(in), nil); !errors.Is(err, ErrHeader) {
			t.Fatalf("input %q: expected ErrHeader, got %v", in, err)
		}
	}
}

func TestDuplicateFrameRename(t *testing.T) {
	in := `xsi 0101txt 0032
Frame frm-wheel {
}
Frame frm-wheel {
}`

	x, err := Parse([]byte(in), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if x.FindFrame("wheel") == nil || x.FindFrame("wheel_") == nil {
		t.Fatalf("expected renamed duplicate, got frames %v", frameNames(x))
	}

	_, err = Parse([]byte(in), &ParseOptions{DisableDuplicateRename: true})
	if !errors.Is(err, ErrDuplicateFrame) {
		t.Fatalf("expected ErrDuplicateFrame, got %v", err)
	}
}

func TestParseLightsAndCameras(t *testing.T) {
	in := `xsi 0101txt 0032
SI_Light lamp {
	0;
	1.000000;0.900000;0.800000;
	5.000000;10.000000;-3.000000;
}
SI_Light spot {
	1;
	0.000000;0.000000;0.000000;
}
SI_Camera cam {
	0.000000;5.000000;-10.000000;
	0.000000;0.000000;0.000000;
	0.000000;
	0.001000;
	1000.000000;
}`

	x, err := Parse([]byte(in), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(x.Lights) != 1 {
		t.Fatalf("expected 1 point light, got %d", len(x.Lights))
	}
	if x.Lights[0].Name != "lamp" || x.Lights[0].Position[1] != 10.0 {
		t.Fatalf("unexpected light: %+v", x.Lights[0])
	}

	if len(x.Cameras) != 1 {
		t.Fatalf("expected 1 camera, got %d", len(x.Cameras))
	}
	cam := x.Cameras[0]
	if cam.Name != "cam" || cam.Position[2] != -10.0 || cam.FarPlane != 1000.0 {
		t.Fatalf("unexpected camera: %+v", cam)
	}
}

func TestQuotedNamesAndReferences(t *testing.T) {
	in := `xsi 0101txt 0032
Frame frm-hull {
}
AnimationSet {
	Animation anim-hull {
		{frm-hull}
		SI_AnimationKey {
			2;
			1;
			0;3;1.000000;0.000000;0.000000;;;
		}
	}
}`

	x, err := Parse([]byte(in), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	hull := x.FindFrame("hull")
	if hull == nil || len(hull.AnimationKeys) != 1 {
		t.Fatalf("expected animation on hull")
	}
}

func TestEncodeRejectsBadVertexColorIndices(t *testing.T) {
	// Vertex color faces may reference a pool entry that does not exist;
	// such files parse, but writing them back must fail cleanly.
	in := `xsi 0101txt 0032
Frame frm-quad {
	Mesh quad {
		3;
		0.000000;0.000000;0.000000;,
		1.000000;0.000000;0.000000;,
		0.000000;1.000000;0.000000;;
		1;
		3;0,1,2;;
		SI_MeshVertexColors {
			1;
			1.000000;0.000000;0.000000;1.000000;;
			1;
			0;3;0,1,5;;
		}
	}
}`

	x, err := Parse([]byte(in), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := Format(x, nil); !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
}

func TestSkipBlocksAnchored(t *testing.T) {
	path := filepath.Join("testdata", "minimal.xsi")

	// A pattern matching mid-name must not skip the block.
	x, err := DecodeFile(path, &ParseOptions{SkipBlocks: []string{"esh"}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if x.FindFrame("body").Mesh == nil {
		t.Fatalf("mesh should not be skipped by an unanchored substring")
	}

	x, err = DecodeFile(path, &ParseOptions{SkipBlocks: []string{"Mesh"}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if x.FindFrame("body").Mesh != nil {
		t.Fatalf("mesh should be skipped")
	}
}

func TestRoundTripStable(t *testing.T) {
	for _, f := range []string{"minimal.xsi", "animated.xsi"} {
		x, err := DecodeFile(filepath.Join("testdata", f), nil)
		if err != nil {
			t.Fatalf("parse %s: %v", f, err)
		}

		first, err := Format(x, nil)
		if err != nil {
			t.Fatalf("format %s: %v", f, err)
		}

		x2, err := Parse(first, nil)
		if err != nil {
			t.Fatalf("reparse %s: %v", f, err)
		}

		second, err := Format(x2, nil)
		if err != nil {
			t.Fatalf("reformat %s: %v", f, err)
		}

		if !bytes.Equal(first, second) {
			t.Fatalf("unstable round trip for %s", f)
		}
	}
}

func TestFormatOutput(t *testing.T) {
	x := New()
	frame, err := x.AddFrame("turret")
	if err != nil {
		t.Fatalf("add frame: %v", err)
	}
	m := TranslationMatrix(0, 2, 0)
	frame.Transform = &m

	out, err := Format(x, nil)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	text := string(out)

	if !strings.HasPrefix(text, "xsi 0101txt 0032\n") {
		t.Fatalf("missing header:\n%s", text)
	}
	for _, want := range []string{
		"SI_CoordinateSystem coord {",
		"Frame frm-turret {",
		"FrameTransformMatrix {",
		"0.000000,2.000000,0.000000,1.000000;;",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in output:\n%s", want, text)
		}
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"turret_y", "turret_y"},
		{"body part", "body_part"},
		{"a.b/c", "a_b_c"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.in); got != tt.want {
			t.Fatalf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWorldTransform(t *testing.T) {
	x := New()
	parent, _ := x.AddFrame("parent")
	pm := TranslationMatrix(1, 0, 0)
	parent.Transform = &pm

	child, err := parent.AddFrame("child")
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	cm := TranslationMatrix(0, 2, 0)
	child.Transform = &cm

	world := child.WorldTransform()
	if got := world.Translation(); got != (mgl64.Vec3{1, 2, 0}) {
		t.Fatalf("unexpected world translation: %v", got)
	}

	if child.ChainedName("") != "parent -> child" {
		t.Fatalf("unexpected chained name: %q", child.ChainedName(""))
	}
}

func frameNames(x *XSI) []string {
	var names []string
	for _, f := range x.AllFrames() {
		names = append(names, f.Name)
	}
	return names
}
