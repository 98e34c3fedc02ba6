// Package distance implements the pluggable scoring kernel the query
// engine delegates to: score(query, matrix, metric) plus the mapping
// from metric to sort direction. No vector-math library appears anywhere
// in the retrieved reference pack, so this is hand-rolled the same way
// the teacher hand-rolls cosineSimilarity in its SQLite storage client.
package distance

import (
	"fmt"
	"math"
)

// Order is the sort direction a metric implies.
type Order int

const (
	// BiggerIsBetter means higher scores rank first (cosine, dot).
	BiggerIsBetter Order = iota
	// SmallerIsBetter means lower scores rank first (squared Euclidean).
	SmallerIsBetter
)

// Kernel scores a query vector against every row of a matrix.
type Kernel interface {
	// Score returns one score per row of matrix. Returns an error if the
	// query's length does not match each row's length.
	Score(query []float32, matrix [][]float32) ([]float32, error)
	// Order is the sort direction this kernel's scores imply.
	Order() Order
}

// ByName resolves a metric name to its Kernel, case-sensitive on the
// canonical names ("Cosine", "Dot", "Euclid"). Unknown names return
// (nil, false) so callers can surface their own error (NewCollection
// reports a config error).
func ByName(name string) (Kernel, bool) {
	switch name {
	case "Cosine":
		return cosine{}, true
	case "Dot":
		return dot{}, true
	case "Euclid":
		return euclid{}, true
	default:
		return nil, false
	}
}

func checkDims(query []float32, matrix [][]float32) error {
	for _, row := range matrix {
		if len(row) != len(query) {
			return fmt.Errorf("dimension mismatch: query has %d components, row has %d", len(query), len(row))
		}
	}
	return nil
}

type dot struct{}

func (dot) Order() Order { return BiggerIsBetter }

func (dot) Score(query []float32, matrix [][]float32) ([]float32, error) {
	if err := checkDims(query, matrix); err != nil {
		return nil, err
	}
	out := make([]float32, len(matrix))
	for i, row := range matrix {
		var sum float32
		for j, q := range query {
			sum += q * row[j]
		}
		out[i] = sum
	}
	return out, nil
}

type cosine struct{}

func (cosine) Order() Order { return BiggerIsBetter }

func (cosine) Score(query []float32, matrix [][]float32) ([]float32, error) {
	if err := checkDims(query, matrix); err != nil {
		return nil, err
	}
	var qNorm float64
	for _, q := range query {
		qNorm += float64(q) * float64(q)
	}
	qNorm = math.Sqrt(qNorm)

	out := make([]float32, len(matrix))
	for i, row := range matrix {
		var dotProd, rowNorm float64
		for j, q := range query {
			dotProd += float64(q) * float64(row[j])
			rowNorm += float64(row[j]) * float64(row[j])
		}
		rowNorm = math.Sqrt(rowNorm)
		if qNorm == 0 || rowNorm == 0 {
			out[i] = 0
			continue
		}
		out[i] = float32(dotProd / (qNorm * rowNorm))
	}
	return out, nil
}

type euclid struct{}

func (euclid) Order() Order { return SmallerIsBetter }

func (euclid) Score(query []float32, matrix [][]float32) ([]float32, error) {
	if err := checkDims(query, matrix); err != nil {
		return nil, err
	}
	out := make([]float32, len(matrix))
	for i, row := range matrix {
		var sum float64
		for j, q := range query {
			d := float64(q) - float64(row[j])
			sum += d * d
		}
		out[i] = float32(sum)
	}
	return out, nil
}
