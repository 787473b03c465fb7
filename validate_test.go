package bz2xsi

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func issueCounts(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Level {
		case IssueError:
			errors++
		case IssueWarning:
			warnings++
		}
	}
	return errors, warnings
}

func hasIssue(issues []Issue, substr string) bool {
	for _, issue := range issues {
		if strings.Contains(issue.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanScene(t *testing.T) {
	x, err := DecodeFile(filepath.Join("testdata", "minimal.xsi"), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	issues := Validate(x, nil)
	if errs, _ := issueCounts(issues); errs != 0 {
		t.Fatalf("expected no errors, got %+v", issues)
	}
}

func TestValidateMaterials(t *testing.T) {
	x := New()
	frame, _ := x.AddFrame("body")

	mat := NewMaterial()
	mat.Diffuse = mgl64.Vec4{2.0, 0.5, 0.5, 1.0}
	mat.Hardness = -1
	mat.ShadingType = 9

	frame.Mesh = &Mesh{
		Vertices:      []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:         [][]int{{0, 1, 2}},
		FaceMaterials: []Material{mat},
	}

	issues := Validate(x, nil)
	if !hasIssue(issues, "diffuse channel") {
		t.Fatalf("expected diffuse warning, got %+v", issues)
	}
	if !hasIssue(issues, "negative hardness") {
		t.Fatalf("expected hardness warning, got %+v", issues)
	}
	if !hasIssue(issues, "unknown shading type") {
		t.Fatalf("expected shading warning, got %+v", issues)
	}

	relaxed := Validate(x, &ValidateOptions{DisableShadingTypeCheck: true})
	if hasIssue(relaxed, "unknown shading type") {
		t.Fatalf("shading check should be disabled, got %+v", relaxed)
	}
}

func TestValidateGeometry(t *testing.T) {
	x := New()
	frame, _ := x.AddFrame("hull")
	frame.Mesh = &Mesh{
		Vertices: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}},
		Faces:    [][]int{{0, 1, 5}},
	}

	issues := Validate(x, nil)
	errs, _ := issueCounts(issues)
	if errs != 1 || !hasIssue(issues, "out of range") {
		t.Fatalf("expected face index error, got %+v", issues)
	}
}

func TestValidateIndexedLayers(t *testing.T) {
	x := New()
	frame, _ := x.AddFrame("hull")
	frame.Mesh = &Mesh{
		Vertices:         []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:            [][]int{{0, 1, 2}},
		NormalVertices:   []mgl64.Vec3{{0, 0, 1}},
		NormalFaces:      [][]int{{0, 0, 3}},
		UVVertices:       []mgl64.Vec2{{0, 0}},
		UVFaces:          [][]int{{0, 2, 0}},
		VertexColors:     []mgl64.Vec4{{1, 0, 0, 1}},
		VertexColorFaces: [][]int{{0, 1, 5}},
	}

	issues := Validate(x, nil)
	for _, layer := range []string{"normal face", "UV face", "vertex color face"} {
		if !hasIssue(issues, layer) {
			t.Fatalf("expected %s error, got %+v", layer, issues)
		}
	}
	if errs, _ := issueCounts(issues); errs != 4 {
		t.Fatalf("expected 4 index errors, got %+v", issues)
	}
}

func TestValidateEnvelopes(t *testing.T) {
	x := New()
	frame, _ := x.AddFrame("skin")
	bone, _ := x.AddFrame("bone")
	frame.Mesh = &Mesh{Vertices: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}}

	env := frame.AddEnvelope(bone)
	env.AddWeight(0, 100)
	env.AddWeight(5, 50)  // index out of range
	env.AddWeight(1, 150) // weight out of range

	issues := Validate(x, nil)
	errs, warns := issueCounts(issues)
	if errs != 1 || warns < 2 {
		t.Fatalf("expected 1 error and 2+ warnings, got %+v", issues)
	}
}

func TestValidateAnimationKeys(t *testing.T) {
	x := New()
	frame, _ := x.AddFrame("gun")
	frame.AnimationKeys = []*AnimationKey{
		{Type: KeyType(7)},
		{Type: KeyTranslate, Keys: []Keyframe{{Frame: 0, Values: []float64{1, 2}}}},
	}

	issues := Validate(x, nil)
	if !hasIssue(issues, "unknown animation key type") {
		t.Fatalf("expected key type error, got %+v", issues)
	}
	if !hasIssue(issues, "expects 3 values") {
		t.Fatalf("expected vector size error, got %+v", issues)
	}
}

func TestValidateTextures(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "hull.png"), 100, 100)

	x := New()
	frame, _ := x.AddFrame("body")
	mat := NewMaterial()
	mat.Texture = "hull.png"
	frame.Mesh = &Mesh{
		Vertices:      []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:         [][]int{{0, 1, 2}},
		FaceMaterials: []Material{mat},
	}

	issues := Validate(x, &ValidateOptions{SearchDirs: []string{dir}})
	if !hasIssue(issues, "not powers of two") {
		t.Fatalf("expected dimension warning, got %+v", issues)
	}

	missing := mat
	missing.Texture = "gone.png"
	frame.Mesh.FaceMaterials = []Material{missing}

	issues = Validate(x, &ValidateOptions{SearchDirs: []string{dir}})
	found := false
	for _, issue := range issues {
		if issue.Code == "missing_resource" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing_resource, got %+v", issues)
	}
}

func TestValidateExtensions(t *testing.T) {
	x := New()
	frame, _ := x.AddFrame("body")
	mat := NewMaterial()
	mat.Texture = "hull.pcx"
	frame.Mesh = &Mesh{
		Vertices:      []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:         [][]int{{0, 1, 2}},
		FaceMaterials: []Material{mat},
	}

	issues := Validate(x, &ValidateOptions{})
	if !hasIssue(issues, "unexpected texture extension") {
		t.Fatalf("expected extension warning, got %+v", issues)
	}

	relaxed := Validate(x, &ValidateOptions{DisableExtensionsCheck: true})
	if hasIssue(relaxed, "unexpected texture extension") {
		t.Fatalf("extension check should be disabled, got %+v", relaxed)
	}
}

func TestValidateFrameStructure(t *testing.T) {
	x := New()
	x.AddFrame("a")
	x.AddFrame("b")

	issues := Validate(x, nil)
	if !hasIssue(issues, "more than one root frame") {
		t.Fatalf("expected root frame warning, got %+v", issues)
	}

	// Duplicates cannot enter through AddFrame; build the tree by hand.
	dup := &XSI{Frames: []*Frame{{Name: "x"}, {Name: "x"}}}
	issues = Validate(dup, nil)
	if !hasIssue(issues, "duplicate frame name") {
		t.Fatalf("expected duplicate error, got %+v", issues)
	}
}
