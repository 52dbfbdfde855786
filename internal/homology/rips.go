package homology

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Rips is the built-in persistence engine. Dimension 0 is computed with
// Kruskal's algorithm over the sorted edge list; dimension 1 by
// reducing the triangle boundary matrix over Z/2. The triangle pass is
// cubic in the number of points, which is acceptable for the capped
// cloud sizes the condensation observers feed it.
type Rips struct{}

// NewRips returns the built-in engine.
func NewRips() *Rips {
	return &Rips{}
}

type ripsEdge struct {
	i, j int
	w    float64
}

// Diagram implements Engine. Dimensions above 1 are not supported by
// the built-in reduction; use the ripser adapter for those.
func (r *Rips) Diagram(D mat.Matrix, maxDim int) ([]Pair, error) {
	if maxDim > 1 {
		return nil, fmt.Errorf("built-in rips engine supports dimension <= 1, got %d", maxDim)
	}
	n, m := D.Dims()
	if n != m {
		return nil, fmt.Errorf("distance matrix must be square, got %d x %d", n, m)
	}

	edges := make([]ripsEdge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, ripsEdge{i: i, j: j, w: D.At(i, j)})
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a].w != edges[b].w {
			return edges[a].w < edges[b].w
		}
		if edges[a].i != edges[b].i {
			return edges[a].i < edges[b].i
		}
		return edges[a].j < edges[b].j
	})

	pairs := dimension0(n, edges)
	if maxDim >= 1 {
		pairs = append(pairs, dimension1(n, edges, D)...)
	}

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Dimension != pairs[b].Dimension {
			return pairs[a].Dimension < pairs[b].Dimension
		}
		if pairs[a].Birth != pairs[b].Birth {
			return pairs[a].Birth < pairs[b].Birth
		}
		return pairs[a].Death < pairs[b].Death
	})
	return pairs, nil
}

// dimension0 pairs every component merge with the edge scale at which
// it happens. All vertices are born at scale 0; the last surviving
// component is essential.
func dimension0(n int, edges []ripsEdge) []Pair {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	pairs := make([]Pair, 0, n)
	for _, e := range edges {
		ri, rj := find(e.i), find(e.j)
		if ri == rj {
			continue
		}
		parent[ri] = rj
		pairs = append(pairs, Pair{Birth: 0, Death: e.w, Dimension: 0})
	}
	pairs = append(pairs, Pair{Birth: 0, Death: math.Inf(1), Dimension: 0})
	return pairs
}

// dimension1 runs the standard boundary-matrix reduction restricted to
// triangle columns. Each reduced column pairs its lowest edge (the
// cycle creator) with the triangle that kills the cycle; pairs with
// zero persistence are dropped.
func dimension1(n int, edges []ripsEdge, D mat.Matrix) []Pair {
	// Position of every edge in filtration order.
	edgePos := make(map[int]int, len(edges))
	for pos, e := range edges {
		edgePos[e.i*n+e.j] = pos
	}

	type triangle struct {
		i, j, k int
		w       float64
	}
	triangles := make([]triangle, 0)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dij := D.At(i, j)
			for k := j + 1; k < n; k++ {
				w := math.Max(dij, math.Max(D.At(i, k), D.At(j, k)))
				triangles = append(triangles, triangle{i: i, j: j, k: k, w: w})
			}
		}
	}
	sort.Slice(triangles, func(a, b int) bool {
		if triangles[a].w != triangles[b].w {
			return triangles[a].w < triangles[b].w
		}
		if triangles[a].i != triangles[b].i {
			return triangles[a].i < triangles[b].i
		}
		if triangles[a].j != triangles[b].j {
			return triangles[a].j < triangles[b].j
		}
		return triangles[a].k < triangles[b].k
	})

	// lowToColumn maps the lowest edge position of each reduced column
	// to the column itself (a descending-sorted set of edge positions).
	lowToColumn := make(map[int][]int)

	pairs := make([]Pair, 0)
	for _, t := range triangles {
		column := []int{
			edgePos[t.i*n+t.j],
			edgePos[t.i*n+t.k],
			edgePos[t.j*n+t.k],
		}
		sort.Sort(sort.Reverse(sort.IntSlice(column)))

		for len(column) > 0 {
			other, ok := lowToColumn[column[0]]
			if !ok {
				break
			}
			column = symmetricDifference(column, other)
		}
		if len(column) == 0 {
			continue
		}

		low := column[0]
		lowToColumn[low] = column
		birth := edges[low].w
		if t.w > birth {
			pairs = append(pairs, Pair{Birth: birth, Death: t.w, Dimension: 1})
		}
	}
	return pairs
}

// symmetricDifference of two descending-sorted sets of edge positions.
func symmetricDifference(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		switch {
		case a[ia] == b[ib]:
			ia++
			ib++
		case a[ia] > b[ib]:
			out = append(out, a[ia])
			ia++
		default:
			out = append(out, b[ib])
			ib++
		}
	}
	out = append(out, a[ia:]...)
	out = append(out, b[ib:]...)
	return out
}

var _ Engine = (*Rips)(nil)
