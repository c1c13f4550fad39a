// Package vecmath holds the numeric value tuples persisted by scene
// components. The types carry no identity and are encoded as plain float
// arrays.
package vecmath

import (
	"errors"
	"fmt"
	stdmath "math"
)

// ErrTupleLength is returned when a decoded tuple has the wrong arity.
var ErrTupleLength = errors.New("unexpected tuple length")

type Vector3 struct {
	X, Y, Z float64
}

type Quaternion struct {
	X, Y, Z, W float64
}

var (
	Zero3 = Vector3{}
	One3  = Vector3{X: 1, Y: 1, Z: 1}
	// Identity is the no-rotation quaternion.
	Identity = Quaternion{W: 1}
)

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// ApproxEqual compares component-wise within eps.
func (v Vector3) ApproxEqual(o Vector3, eps float64) bool {
	return near(v.X, o.X, eps) && near(v.Y, o.Y, eps) && near(v.Z, o.Z, eps)
}

func (q Quaternion) ApproxEqual(o Quaternion, eps float64) bool {
	return near(q.X, o.X, eps) && near(q.Y, o.Y, eps) && near(q.Z, o.Z, eps) && near(q.W, o.W, eps)
}

// Tuple returns the value as [x, y, z].
func (v Vector3) Tuple() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Tuple returns the value as [x, y, z, w].
func (q Quaternion) Tuple() []float64 {
	return []float64{q.X, q.Y, q.Z, q.W}
}

// Vector3FromTuple is the inverse of Vector3.Tuple.
func Vector3FromTuple(t []float64) (Vector3, error) {
	if len(t) != 3 {
		return Vector3{}, fmt.Errorf("vector3: %w: got %d", ErrTupleLength, len(t))
	}
	return Vector3{X: t[0], Y: t[1], Z: t[2]}, nil
}

// QuaternionFromTuple is the inverse of Quaternion.Tuple.
func QuaternionFromTuple(t []float64) (Quaternion, error) {
	if len(t) != 4 {
		return Quaternion{}, fmt.Errorf("quaternion: %w: got %d", ErrTupleLength, len(t))
	}
	return Quaternion{X: t[0], Y: t[1], Z: t[2], W: t[3]}, nil
}

func near(a, b, eps float64) bool {
	return stdmath.Abs(a-b) <= eps
}
