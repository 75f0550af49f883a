package routing

import (
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

type candidatePath struct {
	nodes []da.Index
	cost  float64
}

// kShortestSimplePaths enumerates loopless s-t paths in non-decreasing cost (Yen). first must be a
// shortest path under the dijkstra's cost function. Candidates of equal cost come out in the order they
// were generated. At most maxCandidates spur paths are generated in total.
func kShortestSimplePaths(d *Dijkstra, first []da.Index, firstCost float64, k, maxCandidates int) []candidatePath {
	accepted := []candidatePath{{nodes: first, cost: firstCost}}
	if len(first) < 2 || k <= 1 {
		return accepted
	}

	seen := map[string]struct{}{pathKey(first): {}}
	candidates := da.NewBinaryHeap[int]()
	pool := make([]candidatePath, 0, maxCandidates)

	for len(accepted) < k {
		prev := accepted[len(accepted)-1].nodes

		for i := 0; i+1 < len(prev) && len(pool) < maxCandidates; i++ {
			spurNode := prev[i]
			rootPath := prev[:i+1]

			restriction := newSearchRestriction()
			for _, p := range accepted {
				if len(p.nodes) > i+1 && samePrefix(p.nodes, rootPath) {
					restriction.banArc(p.nodes[i], p.nodes[i+1])
				}
			}
			for _, u := range rootPath[:i] {
				restriction.banVertex(u)
			}

			spurPath, _, found := d.shortestPath(spurNode, prev[len(prev)-1], restriction)
			if !found {
				continue
			}

			total := make([]da.Index, 0, len(rootPath)+len(spurPath)-1)
			total = append(total, rootPath...)
			total = append(total, spurPath[1:]...)

			key := pathKey(total)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			cost, err := PathCost(d.graph, d.costFunction, total)
			if err != nil {
				continue
			}
			pool = append(pool, candidatePath{nodes: total, cost: cost})
			candidates.Insert(da.NewPriorityQueueNode(cost, len(pool)-1))
		}

		if candidates.IsEmpty() {
			break
		}
		best, _ := candidates.ExtractMin()
		accepted = append(accepted, pool[best.GetItem()])
	}

	return accepted
}

func samePrefix(path, prefix []da.Index) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}
