package router

import (
	"github.com/driftlabs/routeflow/internal/domain"
)

// MaxCandidatePaths caps the number of candidate paths handed to pricing.
// Search order is deterministic, so the cap always keeps the same prefix.
const MaxCandidatePaths = 32

// DefaultMaxHops bounds path depth when no policy override is given.
const DefaultMaxHops = 3

// FindPaths enumerates candidate paths from `from` to `to` bounded by
// maxHops, scoped to one chain when scope is non-empty. Paths never revisit
// a token and every hop stays on a single chain. The result order is stable
// for a given index: chains are visited sorted, edges in pool-ID order.
func FindPaths(idx *Index, from, to domain.Token, scope domain.Chain, maxHops int) []domain.Path {
	if maxHops < 1 {
		maxHops = DefaultMaxHops
	}

	var chains []domain.Chain
	if scope != "" {
		chains = []domain.Chain{scope}
	} else {
		chains = idx.TokenChains(from)
	}

	var paths []domain.Path
	for _, chain := range chains {
		paths = appendChainPaths(paths, idx, chain, from, to, maxHops)
		if len(paths) >= MaxCandidatePaths {
			return paths[:MaxCandidatePaths]
		}
	}
	return paths
}

// appendChainPaths runs a bounded BFS over token IDs on one chain, then
// expands each token path into concrete pool assignments.
func appendChainPaths(paths []domain.Path, idx *Index, chain domain.Chain, from, to domain.Token, maxHops int) []domain.Path {
	fromID, okFrom := idx.Lookup(chain, from)
	toID, okTo := idx.Lookup(chain, to)
	if !okFrom || !okTo || fromID == toID {
		return paths
	}

	// BFS frontier holds full token-ID paths; cheap at these depths and it
	// keeps per-path visited checks trivial.
	queue := [][]TokenID{{fromID}}
	var tokenPaths [][]TokenID

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		last := current[len(current)-1]
		if last == toID {
			tokenPaths = append(tokenPaths, current)
			if len(tokenPaths) >= MaxCandidatePaths {
				break
			}
			continue
		}
		if len(current) > maxHops {
			continue
		}

		// Parallel pools yield several edges to the same token; expand each
		// neighbor token once, pool assignment happens in expandPools.
		var enqueued []TokenID
		for _, edge := range idx.Edges(last) {
			if containsToken(current, edge.To) || containsToken(enqueued, edge.To) {
				continue
			}
			enqueued = append(enqueued, edge.To)
			next := make([]TokenID, len(current), len(current)+1)
			copy(next, current)
			next = append(next, edge.To)
			queue = append(queue, next)
		}
	}

	for _, tp := range tokenPaths {
		paths = expandPools(paths, idx, chain, tp)
		if len(paths) >= MaxCandidatePaths {
			break
		}
	}
	return paths
}

func containsToken(path []TokenID, id TokenID) bool {
	for _, t := range path {
		if t == id {
			return true
		}
	}
	return false
}

// expandPools turns one token-ID path into candidate paths, one per pool
// assignment, walking pool choices depth-first in pool-ID order.
func expandPools(paths []domain.Path, idx *Index, chain domain.Chain, tokenPath []TokenID) []domain.Path {
	hops := make([][]Edge, len(tokenPath)-1)
	for i := 0; i < len(tokenPath)-1; i++ {
		var pools []Edge
		for _, edge := range idx.Edges(tokenPath[i]) {
			if edge.To == tokenPath[i+1] {
				pools = append(pools, edge)
			}
		}
		if len(pools) == 0 {
			return paths
		}
		hops[i] = pools
	}

	choice := make([]Edge, len(hops))
	var walk func(depth int) bool
	walk = func(depth int) bool {
		if depth == len(hops) {
			path := domain.Path{Chain: chain, Hops: make([]domain.Hop, len(hops))}
			for i, e := range choice {
				_, fromTok := idx.Node(tokenPath[i])
				_, toTok := idx.Node(tokenPath[i+1])
				path.Hops[i] = domain.Hop{Pool: e.Pool, From: fromTok, To: toTok}
			}
			paths = append(paths, path)
			return len(paths) < MaxCandidatePaths
		}
		for _, e := range hops[depth] {
			choice[depth] = e
			if !walk(depth + 1) {
				return false
			}
		}
		return true
	}
	walk(0)
	return paths
}
