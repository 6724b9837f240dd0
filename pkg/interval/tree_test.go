package interval

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iv = Interval[uint64]

func newTree() *Tree[uint64] {
	return New[uint64](cmp.Compare[uint64])
}

// overlapping returns the intervals of ivs overlapping [lo, hi], in the
// order the tree is expected to return them.
func overlapping(ivs []iv, lo, hi uint64) []iv {
	ret := []iv{}
	for _, i := range ivs {
		if i.Start <= hi && i.End >= lo {
			ret = append(ret, i)
		}
	}
	slices.SortStableFunc(ret, func(a, b iv) int { return cmp.Compare(a.Start, b.Start) })
	return ret
}

func collect(t *Tree[uint64], lo, hi uint64) []iv {
	ret := []iv{}
	iter := t.Iterate(lo, hi)
	for iter.Next() {
		ret = append(ret, iter.Value())
	}
	return ret
}

func TestIterate(t *testing.T) {
	entries := []iv{{1, 5}, {3, 8}, {10, 12}, {1, 100}, {20, 20}, {7, 9}}
	cases := map[string]struct {
		lo, hi   uint64
		expected []iv
	}{
		"All": {
			lo: 0, hi: 1000,
			expected: []iv{{1, 5}, {1, 100}, {3, 8}, {7, 9}, {10, 12}, {20, 20}},
		},
		"Narrow": {
			lo: 40, hi: 50,
			expected: []iv{{1, 100}},
		},
		"Point": {
			lo: 8, hi: 8,
			expected: []iv{{1, 100}, {3, 8}, {7, 9}},
		},
		"TouchEnd": {
			lo: 12, hi: 20,
			expected: []iv{{1, 100}, {10, 12}, {20, 20}},
		},
		"Nothing": {
			lo: 101, hi: 200,
			expected: []iv{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tr := newTree()
			for _, e := range entries {
				tr.Insert(e.Start, e.End)
			}
			if diff := gocmp.Diff(tc.expected, collect(tr, tc.lo, tc.hi)); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestEmptyTree(t *testing.T) {
	tr := newTree()
	_, ok := tr.IterFirst(0, 100)
	assert.False(t, ok)
	assert.Equal(t, 0, tr.Len())
	assert.NoError(t, tr.Verify())
	assert.Empty(t, tr.All())
}

func TestRandomInsertRemove(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 20; round++ {
		tr := newTree()
		live := map[Handle]iv{}

		for op := 0; op < 400; op++ {
			if len(live) == 0 || rnd.IntN(3) != 0 {
				s := rnd.Uint64N(200)
				e := s + rnd.Uint64N(30)
				h := tr.Insert(s, e)
				_, dup := live[h]
				require.False(t, dup, "handle %d reused while live", h)
				live[h] = iv{s, e}
			} else {
				// remove a pseudo random live handle
				handles := make([]Handle, 0, len(live))
				for h := range live {
					handles = append(handles, h)
				}
				slices.Sort(handles)
				h := handles[rnd.IntN(len(handles))]
				got := tr.Remove(h)
				assert.Equal(t, live[h], got)
				delete(live, h)
			}
			require.NoError(t, tr.Verify(), "round %d op %d", round, op)
			require.Equal(t, len(live), tr.Len())
			maxEnd, ok := tr.MaxEnd()
			require.Equal(t, len(live) > 0, ok)
			if ok {
				var want uint64
				for _, v := range live {
					want = max(want, v.End)
				}
				require.Equal(t, want, maxEnd, "round %d op %d", round, op)
			}
		}

		// every live handle still resolves to its interval
		for h, want := range live {
			assert.Equal(t, want, tr.Get(h))
		}

		all := make([]iv, 0, len(live))
		for _, v := range live {
			all = append(all, v)
		}
		for q := 0; q < 50; q++ {
			lo := rnd.Uint64N(240)
			hi := lo + rnd.Uint64N(40)
			want := overlapping(all, lo, hi)
			got := collect(tr, lo, hi)
			require.True(t, slices.IsSortedFunc(got, func(a, b iv) int { return cmp.Compare(a.Start, b.Start) }),
				"round %d query [%d, %d]: starts out of order: %v", round, lo, hi, got)
			// ties on start may come out in any relative order here since
			// the map lost insertion order
			slices.SortFunc(want, compareIv)
			slices.SortFunc(got, compareIv)
			if diff := gocmp.Diff(want, got); diff != "" {
				t.Fatalf("round %d query [%d, %d]: -want, +got:\n%s", round, lo, hi, diff)
			}
		}
	}
}

func compareIv(a, b iv) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

func TestInsertionOrderOnTies(t *testing.T) {
	tr := newTree()
	ends := []uint64{9, 3, 7, 5, 1, 8}
	for _, e := range ends {
		tr.Insert(0, e)
	}
	got := []uint64{}
	for _, v := range tr.All() {
		got = append(got, v.End)
	}
	assert.Equal(t, ends, got)
	assert.NoError(t, tr.Verify())
}

func TestIterNextWidening(t *testing.T) {
	tr := newTree()
	a := tr.Insert(1, 5)
	tr.Insert(6, 9)
	tr.Insert(8, 20)
	tr.Insert(30, 40)

	// with the initial window only a itself overlaps
	_, ok := tr.IterNext(a, 1, 5)
	assert.False(t, ok)

	// a widened window reaches the later intervals in start order
	h, ok := tr.IterNext(a, 1, 9)
	require.True(t, ok)
	assert.Equal(t, iv{6, 9}, tr.Get(h))

	h, ok = tr.IterNext(h, 1, 20)
	require.True(t, ok)
	assert.Equal(t, iv{8, 20}, tr.Get(h))

	_, ok = tr.IterNext(h, 1, 20)
	assert.False(t, ok)
}

func TestIterNextSkipsNonOverlappingAncestors(t *testing.T) {
	tr := newTree()
	for i := uint64(0); i < 64; i++ {
		// short intervals everywhere, one long interval far to the right
		tr.Insert(i*10, i*10+1)
	}
	long := tr.Insert(200, 1000)
	h, ok := tr.IterFirst(500, 600)
	require.True(t, ok)
	assert.Equal(t, long, h)
	assert.Equal(t, iv{200, 1000}, tr.Get(h))

	h, ok = tr.IterNext(h, 500, 600)
	require.True(t, ok)
	assert.Equal(t, iv{500, 501}, tr.Get(h))
}

func TestRemoveKeepsOtherHandles(t *testing.T) {
	tr := newTree()
	handles := []Handle{}
	for i := uint64(0); i < 32; i++ {
		handles = append(handles, tr.Insert(i, i+2))
	}
	// removing nodes with two children relinks successors in place
	for i := 0; i < len(handles); i += 2 {
		tr.Remove(handles[i])
		assert.NoError(t, tr.Verify())
	}
	for i := 1; i < len(handles); i += 2 {
		assert.Equal(t, iv{uint64(i), uint64(i + 2)}, tr.Get(handles[i]))
	}
}

func TestRemoveInvalidHandle(t *testing.T) {
	tr := newTree()
	h := tr.Insert(1, 2)
	tr.Remove(h)
	assert.Panics(t, func() { tr.Remove(h) })
	assert.Panics(t, func() { tr.Remove(0) })
	assert.Panics(t, func() { tr.Remove(99) })
}

func TestInsertReversed(t *testing.T) {
	tr := newTree()
	assert.Panics(t, func() { tr.Insert(5, 4) })
}

func TestSlotReuse(t *testing.T) {
	tr := newTree()
	h := tr.Insert(1, 2)
	tr.Remove(h)
	h2 := tr.Insert(3, 4)
	assert.Equal(t, h, h2)
	assert.Equal(t, iv{3, 4}, tr.Get(h2))
	assert.NoError(t, tr.Verify())
}

func TestClone(t *testing.T) {
	tr := newTree()
	h := tr.Insert(1, 5)
	tr.Insert(3, 8)

	c := tr.Clone()
	c.Remove(h)
	c.Insert(100, 200)

	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, []iv{{1, 5}, {3, 8}}, tr.All())
	assert.Equal(t, []iv{{3, 8}, {100, 200}}, c.All())
	assert.NoError(t, tr.Verify())
	assert.NoError(t, c.Verify())
}

func TestDrainInOrder(t *testing.T) {
	rnd := rand.New(rand.NewPCG(7, 11))
	tr := newTree()
	for i := 0; i < 500; i++ {
		s := rnd.Uint64N(10000)
		tr.Insert(s, s+rnd.Uint64N(100))
	}
	for tr.Len() > 0 {
		h, ok := tr.IterFirst(0, ^uint64(0))
		require.True(t, ok)
		tr.Remove(h)
	}
	assert.NoError(t, tr.Verify())
	_, ok := tr.IterFirst(0, ^uint64(0))
	assert.False(t, ok)
}

func TestMaxEnd(t *testing.T) {
	tr := newTree()
	_, ok := tr.MaxEnd()
	assert.False(t, ok)

	a := tr.Insert(10, 50)
	tr.Insert(1, 5)
	c := tr.Insert(20, 30)
	got, ok := tr.MaxEnd()
	assert.True(t, ok)
	assert.Equal(t, uint64(50), got)

	tr.Remove(a)
	got, _ = tr.MaxEnd()
	assert.Equal(t, uint64(30), got)

	tr.Remove(c)
	got, _ = tr.MaxEnd()
	assert.Equal(t, uint64(5), got)
}
