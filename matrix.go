package bz2xsi

import "github.com/go-gl/mathgl/mgl64"

// Matrix is the four-row transform used by XSI frames. Rows follow the
// Softimage layout: right, up, front, and posit, with posit carrying the
// translation. BZ2 ignores any scaling baked into the basis rows.
type Matrix struct {
	Right [4]float64 `json:"right" yaml:"right"` // Right basis row
	Up    [4]float64 `json:"up" yaml:"up"`       // Up basis row
	Front [4]float64 `json:"front" yaml:"front"` // Front basis row
	Posit [4]float64 `json:"posit" yaml:"posit"` // Translation row
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{
		Right: [4]float64{1, 0, 0, 0},
		Up:    [4]float64{0, 1, 0, 0},
		Front: [4]float64{0, 0, 1, 0},
		Posit: [4]float64{0, 0, 0, 1},
	}
}

// TranslationMatrix returns an identity transform positioned at xyz.
func TranslationMatrix(x, y, z float64) Matrix {
	m := IdentityMatrix()
	m.Posit = [4]float64{x, y, z, 1}
	return m
}

// Mat4 converts the row layout to a column-major mgl64 matrix, so that
// composed transforms multiply as parent.Mul4(child).
func (m Matrix) Mat4() mgl64.Mat4 {
	return mgl64.Mat4{
		m.Right[0], m.Right[1], m.Right[2], m.Right[3],
		m.Up[0], m.Up[1], m.Up[2], m.Up[3],
		m.Front[0], m.Front[1], m.Front[2], m.Front[3],
		m.Posit[0], m.Posit[1], m.Posit[2], m.Posit[3],
	}
}

// MatrixFromMat4 converts a column-major mgl64 matrix back to XSI rows.
func MatrixFromMat4(t mgl64.Mat4) Matrix {
	return Matrix{
		Right: [4]float64{t[0], t[1], t[2], t[3]},
		Up:    [4]float64{t[4], t[5], t[6], t[7]},
		Front: [4]float64{t[8], t[9], t[10], t[11]},
		Posit: [4]float64{t[12], t[13], t[14], t[15]},
	}
}

// Translation returns the posit row as a vector.
func (m Matrix) Translation() mgl64.Vec3 {
	return mgl64.Vec3{m.Posit[0], m.Posit[1], m.Posit[2]}
}

// Mul composes two transforms, applying m first and then other.
func (m Matrix) Mul(other Matrix) Matrix {
	return MatrixFromMat4(other.Mat4().Mul4(m.Mat4()))
}

// rows returns the matrix rows in file order.
func (m Matrix) rows() [4][4]float64 {
	return [4][4]float64{m.Right, m.Up, m.Front, m.Posit}
}
