package condense

// UnionFind is a disjoint-set structure over the indices 0..n-1 with
// path compression and union by rank. Merges are monotone: components
// only ever coalesce.
type UnionFind struct {
	parent []int
	rank   []int
	count  int
}

// NewUnionFind creates a union-find over n singleton components.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
		count:  n,
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Find returns the representative of i's component. The result is
// consistent with the transitive closure of all merges performed.
func (uf *UnionFind) Find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

// Merge unions the components containing i and j. It reports whether
// the two were in distinct components; merging an already-unified pair
// is a no-op.
func (uf *UnionFind) Merge(i, j int) bool {
	ri, rj := uf.Find(i), uf.Find(j)
	if ri == rj {
		return false
	}
	if uf.rank[ri] < uf.rank[rj] {
		ri, rj = rj, ri
	}
	uf.parent[rj] = ri
	if uf.rank[ri] == uf.rank[rj] {
		uf.rank[ri]++
	}
	uf.count--
	return true
}

// Count returns the current number of distinct components.
func (uf *UnionFind) Count() int {
	return uf.count
}
