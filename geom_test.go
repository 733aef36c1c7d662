package mdl

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_ops(t *testing.T) {
	p := Pt(3, -2)
	assert.Equal(t, Pt(5, 1), p.Add(Pt(2, 3)))
	assert.Equal(t, Pt(1, -5), p.Sub(Pt(2, 3)))
	assert.Equal(t, Pt(6, -4), p.Mul(2))
	assert.True(t, p.Eq(Pt(3, -2)))
	assert.False(t, p.Eq(Pt(3, 2)))
	assert.Equal(t, image.Pt(3, -2), p.Image())
	assert.Equal(t, Pt(3, -2), PtPt(image.Pt(3, -2)))
	assert.Equal(t, "(3,-2)", p.String())
}

func TestPoint_In(t *testing.T) {
	r := Rect{X: 1, Y: 1, W: 4, H: 3}
	assert.True(t, Pt(1, 1).In(r))
	assert.True(t, Pt(4, 3).In(r))
	assert.False(t, Pt(5, 1).In(r), "right edge is exclusive")
	assert.False(t, Pt(1, 4).In(r), "bottom edge is exclusive")
	assert.False(t, Pt(0, 1).In(r))
}

func TestRect_basics(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 5}
	assert.Equal(t, Pt(4, 5), r.Size())
	assert.Equal(t, Pt(2, 3), r.Pos())
	assert.False(t, r.Empty())
	assert.True(t, Rect{W: 0, H: 5}.Empty())
	assert.True(t, Rect{W: 4, H: -1}.Empty())
	assert.Equal(t, Rect{X: 3, Y: 5, W: 4, H: 5}, r.Add(Pt(1, 2)))
	assert.Equal(t, Rect{X: 1, Y: 1, W: 4, H: 5}, r.Sub(Pt(1, 2)))
	assert.True(t, r.Contains(Pt(5, 7)))
	assert.False(t, r.Contains(Pt(6, 3)))
	assert.Equal(t, "(2,3 4x5)", r.String())
}

func TestRect_Bounds_roundtrip(t *testing.T) {
	r := Rect{X: -3, Y: 2, W: 7, H: 4}
	b := r.Bounds()
	assert.Equal(t, image.Rect(-3, 2, 4, 6), b)
	assert.Equal(t, r, RectOf(b))
}

func TestRect_Intersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 4, 4}, Rect{2, 2, 4, 4}, Rect{2, 2, 2, 2}},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 3, 4, 4}, Rect{2, 3, 4, 4}},
		{"disjoint", Rect{0, 0, 2, 2}, Rect{5, 5, 2, 2}, Rect{}},
		{"touching", Rect{0, 0, 2, 2}, Rect{2, 0, 2, 2}, Rect{}},
		{"empty operand", Rect{0, 0, 4, 4}, Rect{1, 1, 0, 3}, Rect{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Intersect(tc.b))
			assert.Equal(t, tc.want, tc.b.Intersect(tc.a))
		})
	}
}

func TestRect_Overlaps(t *testing.T) {
	assert.True(t, Rect{0, 0, 4, 4}.Overlaps(Rect{3, 3, 4, 4}))
	assert.False(t, Rect{0, 0, 4, 4}.Overlaps(Rect{4, 0, 4, 4}), "touching rectangles do not overlap")
	assert.False(t, Rect{0, 0, 4, 4}.Overlaps(Rect{1, 1, 0, 0}), "empty rectangles overlap nothing")
}
