package resolve

import (
	"math"
	"sort"
	"sync"

	"github.com/kailas-cloud/orderdex/internal/domain"
	"github.com/kailas-cloud/orderdex/internal/domain/company"
)

// DefaultThreshold is the similarity cutoff used when none is configured.
const DefaultThreshold = 0.7

// Clusterer partitions company ids into identity groups: two ids belong to
// the same group when their normalized names score at or above the
// threshold, directly or through a chain of intermediate ids.
type Clusterer struct {
	threshold float64
	workers   int
}

// NewClusterer validates the threshold and creates a clusterer. The
// threshold must lie in [0,1]; anything else is a configuration error.
// workers > 1 enables parallel edge discovery; 0 or 1 runs sequentially.
func NewClusterer(threshold float64, workers int) (*Clusterer, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, domain.NewConfigError("threshold", threshold)
	}
	if workers < 0 {
		return nil, domain.NewConfigError("workers", workers)
	}
	return &Clusterer{threshold: threshold, workers: workers}, nil
}

// Threshold returns the configured similarity cutoff.
func (c *Clusterer) Threshold() float64 { return c.threshold }

// Cluster partitions the keys of names into identity groups. The result is
// independent of map iteration order: ids are processed as a sorted set.
// Each cluster is sorted ascending and clusters are ordered by their
// smallest member. Ids whose normalized name is empty merge with each other
// (mutual score 1.0) and with nothing else unless the threshold is 0, in
// which case the whole universe collapses into one cluster.
func (c *Clusterer) Cluster(names map[string]company.NormalizedName) [][]string {
	if len(names) == 0 {
		return nil
	}

	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	uf := newUnionFind(len(ids))

	if c.threshold == 0 {
		// Every pair scores >= 0, so the partition is a single cluster.
		for i := 1; i < len(ids); i++ {
			uf.union(0, i)
		}
		return groups(ids, uf)
	}

	blocks := buildBlocks(ids, names)
	if c.workers > 1 && len(blocks) > 1 {
		c.mergeParallel(ids, names, blocks, uf)
	} else {
		c.mergeSequential(ids, names, blocks, uf)
	}

	return groups(ids, uf)
}

// buildBlocks builds the inverted token index used as the blocking key:
// only ids sharing at least one token can score above a positive threshold,
// so restricting comparisons to same-block pairs never drops an edge.
// Ids with empty token sets form one extra block of mutual 1.0 scores.
func buildBlocks(ids []string, names map[string]company.NormalizedName) [][]int {
	byToken := make(map[string][]int)
	var empty []int
	for i, id := range ids {
		nn := names[id]
		if nn.Empty() {
			empty = append(empty, i)
			continue
		}
		for t := range nn.Tokens {
			byToken[t] = append(byToken[t], i)
		}
	}

	tokens := make([]string, 0, len(byToken))
	for t := range byToken {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	blocks := make([][]int, 0, len(tokens)+1)
	for _, t := range tokens {
		if members := byToken[t]; len(members) > 1 {
			blocks = append(blocks, members)
		}
	}
	if len(empty) > 1 {
		blocks = append(blocks, empty)
	}
	return blocks
}

func (c *Clusterer) mergeSequential(
	ids []string, names map[string]company.NormalizedName, blocks [][]int, uf *unionFind,
) {
	for _, block := range blocks {
		for x := 0; x < len(block); x++ {
			for y := x + 1; y < len(block); y++ {
				a, b := block[x], block[y]
				if uf.find(a) == uf.find(b) {
					continue
				}
				if Similarity(names[ids[a]], names[ids[b]]) >= c.threshold {
					uf.union(a, b)
				}
			}
		}
	}
}

// mergeParallel shards blocks across workers for edge discovery. Workers
// only read the shared names; the union-find is owned by the single
// reducing loop below, so the final partition matches the sequential one.
func (c *Clusterer) mergeParallel(
	ids []string, names map[string]company.NormalizedName, blocks [][]int, uf *unionFind,
) {
	blockCh := make(chan []int, c.workers*2)
	edges := make(chan [2]int, 1024)

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for block := range blockCh {
				for x := 0; x < len(block); x++ {
					for y := x + 1; y < len(block); y++ {
						a, b := block[x], block[y]
						if Similarity(names[ids[a]], names[ids[b]]) >= c.threshold {
							edges <- [2]int{a, b}
						}
					}
				}
			}
		}()
	}

	go func() {
		for _, block := range blocks {
			blockCh <- block
		}
		close(blockCh)
		wg.Wait()
		close(edges)
	}()

	for e := range edges {
		uf.union(e[0], e[1])
	}
}

// groups materializes the partition: each cluster sorted ascending, clusters
// ordered by their smallest member. Relies on ids being sorted already.
func groups(ids []string, uf *unionFind) [][]string {
	byRoot := make(map[int][]string)
	order := make([]int, 0)
	for i, id := range ids {
		root := uf.find(i)
		if _, seen := byRoot[root]; !seen {
			order = append(order, root)
		}
		byRoot[root] = append(byRoot[root], id)
	}

	clusters := make([][]string, 0, len(order))
	for _, root := range order {
		clusters = append(clusters, byRoot[root])
	}
	return clusters
}

// unionFind is an arena-indexed disjoint-set over dense int ids, with path
// halving and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
	return true
}
