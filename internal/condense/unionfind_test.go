package condense

import "testing"

func TestUnionFind_MergeAllPairs(t *testing.T) {
	const n = 10
	uf := NewUnionFind(n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			uf.Merge(i, j)
		}
	}

	root := uf.Find(0)
	for i := 1; i < n; i++ {
		if got := uf.Find(i); got != root {
			t.Errorf("Find(%d) = %d, want common representative %d", i, got, root)
		}
	}
	if uf.Count() != 1 {
		t.Errorf("Count() = %d, want 1", uf.Count())
	}
}

func TestUnionFind_MergeIsIdempotent(t *testing.T) {
	uf := NewUnionFind(4)

	if !uf.Merge(0, 1) {
		t.Fatal("first merge should report a new union")
	}
	if uf.Merge(0, 1) {
		t.Error("repeated merge should be a no-op")
	}
	if uf.Merge(1, 0) {
		t.Error("reversed merge of unified pair should be a no-op")
	}
	if uf.Count() != 3 {
		t.Errorf("Count() = %d, want 3", uf.Count())
	}
}

func TestUnionFind_ComponentCountNonIncreasing(t *testing.T) {
	uf := NewUnionFind(8)
	merges := [][2]int{{0, 1}, {2, 3}, {1, 2}, {0, 3}, {4, 5}, {6, 7}, {5, 6}}

	prev := uf.Count()
	for _, m := range merges {
		uf.Merge(m[0], m[1])
		if uf.Count() > prev {
			t.Fatalf("component count grew from %d to %d after merge %v", prev, uf.Count(), m)
		}
		prev = uf.Count()
	}
	if uf.Count() != 2 {
		t.Errorf("Count() = %d, want 2", uf.Count())
	}
}

func TestUnionFind_FindConsistentWithTransitiveClosure(t *testing.T) {
	uf := NewUnionFind(6)
	uf.Merge(0, 1)
	uf.Merge(2, 3)
	uf.Merge(3, 4)

	if uf.Find(2) != uf.Find(4) {
		t.Error("2 and 4 should share a representative via 3")
	}
	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in distinct components")
	}
	if uf.Find(5) != 5 {
		t.Errorf("untouched singleton representative = %d, want 5", uf.Find(5))
	}
}
