// pkg/spatial/bench_test.go
package spatial

import (
	"math/rand"
	"testing"

	"github.com/opd-ai/go-collide/pkg/physics"
)

func benchmarkIndex(b *testing.B, idx Index) {
	rng := rand.New(rand.NewSource(1))
	items := make([]*box, 0, 2000)
	for i := 0; i < cap(items); i++ {
		items = append(items, newBox("b", rng.Float64()*2000, rng.Float64()*2000, 4+rng.Float64()*12, 4+rng.Float64()*12))
	}
	for _, it := range items {
		idx.Insert(it)
	}

	out := make([]Item, 0, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := items[i%len(items)]
		it.r = it.r.Translate(physics.Vector2D{X: rng.Float64()*4 - 2, Y: rng.Float64()*4 - 2})
		idx.Relocate(it)
		out = idx.QueryItem(it, out[:0])
	}
}

func BenchmarkQuadTree_RelocateQuery(b *testing.B) {
	benchmarkIndex(b, NewQuadTree(QuadTreeOptions{
		Bounds:   physics.NewRect(0, 0, 2048, 2048),
		MaxDepth: DefaultMaxDepth,
		MaxItems: DefaultMaxItems,
	}))
}

func BenchmarkGrid_RelocateQuery(b *testing.B) {
	benchmarkIndex(b, NewGrid(physics.NewRect(0, 0, 2048, 2048), DefaultCellSize))
}
