package gmat

import (
	"fmt"
	"iter"
	"slices"

	"gonum.org/v1/gonum/mat"
)

type Direction bool

const (
	Vertical   Direction = true
	Horizontal Direction = false
)

// Matrix with the ability to quickly
// delete (mask) rows or columns
type Mat[T any] struct {
	s                        []T
	masked_rows, masked_cols []bool
	stride                   int
}

// Vector backed by the data of the
// underlying matrix
type Vector[T any] struct {
	Mat[T]
	index     int
	direction Direction
}

func NewMat[T any](r, c int) *Mat[T] {
	return &Mat[T]{
		s:           make([]T, r*c),
		masked_rows: make([]bool, r),
		masked_cols: make([]bool, c),
		stride:      c,
	}
}

// Returns a new matrix by mapping a mat.Dense with a provided function f
func NewMatFromDense[T any](m *mat.Dense, f func(float64) T) *Mat[T] {
	r, c := m.Dims()
	new_mat := NewMat[T](r, c)
	for ind_r := range r {
		for ind_c := range c {
			new_mat.Set(ind_r, ind_c, f(m.At(ind_r, ind_c)))
		}
	}
	return new_mat
}

func (m Mat[T]) Size(direction Direction) int {
	if direction == Vertical {
		return len(m.masked_rows)
	} else {
		return len(m.masked_cols)
	}
}

func (m *Mat[T]) Set(r, c int, v T) error {
	if r >= len(m.masked_rows) || c >= len(m.masked_cols) {
		return fmt.Errorf("Out of bounds")
	}
	m.s[m.stride*r+c] = v
	return nil
}

func (m Mat[T]) At(r, c int) T {
	return m.s[m.stride*r+c]
}

// Copies the matrix out into the row-major nested-slice
// form third party solvers expect
func (m Mat[T]) To2d() [][]T {
	rows := make([][]T, len(m.masked_rows))
	for ind_r := range m.masked_rows {
		rows[ind_r] = make([]T, len(m.masked_cols))
		for ind_c := range m.masked_cols {
			rows[ind_r][ind_c] = m.At(ind_r, ind_c)
		}
	}
	return rows
}

// Iterator over the unmasked rows/columns of the
// reciever as vectors
func (m Mat[T]) Vectors(direction Direction) iter.Seq2[int, Vector[T]] {
	return func(yield func(int, Vector[T]) bool) {
		iterate_over := m.masked_rows
		if direction == Vertical {
			iterate_over = m.masked_cols
		}
		for ind, masked := range iterate_over {
			if masked {
				continue
			}
			if !yield(ind, Vector[T]{
				Mat: m, index: ind,
				direction: direction,
			}) {
				return
			}
		}
	}
}

func (v Vector[T]) At(index int) T {
	if v.direction {
		return v.Mat.s[v.Mat.stride*index+v.index]
	} else {
		return v.Mat.s[v.Mat.stride*v.index+index]
	}
}

// Iterate over the unmasked values of vector
func (v Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		iterate_over := v.Mat.masked_cols
		if v.direction {
			iterate_over = v.Mat.masked_rows
		}
		for ind, masked := range iterate_over {
			if masked {
				continue
			}
			if !yield(ind, v.At(ind)) {
				return
			}
		}
	}
}

// Mask selected rows/columns
func (m Mat[T]) Mask(direction Direction, indices ...int) *Mat[T] {
	new_mat := &Mat[T]{
		s:           m.s,
		masked_rows: slices.Clone(m.masked_rows),
		masked_cols: slices.Clone(m.masked_cols),
		stride:      m.stride,
	}
	for _, ind := range indices {
		if direction == Vertical {
			new_mat.masked_cols[ind] = true
		} else {
			new_mat.masked_rows[ind] = true
		}
	}
	return new_mat
}
