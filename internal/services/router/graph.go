package router

import (
	"sort"

	"github.com/driftlabs/routeflow/internal/domain"
	"github.com/driftlabs/routeflow/internal/liquidity"
)

// Edge is one directed adjacency: trading the owning node's token through
// Pool yields token To. Tokens never connect across chains; every edge stays
// on its pool's chain.
type Edge struct {
	To   TokenID
	Pool *domain.Pool
}

// Index is the pool graph for one snapshot version. Built in a single pass
// over the snapshot's pools and immutable afterwards; a new snapshot gets a
// fresh Index.
type Index struct {
	snap *liquidity.Snapshot
	reg  *Registry
	adj  [][]Edge
}

// BuildIndex constructs the adjacency structure for snap. Pools with no
// usable liquidity are skipped. Edge lists are sorted by pool ID so graph
// traversal order is stable across runs against the same snapshot.
func BuildIndex(snap *liquidity.Snapshot) *Index {
	idx := &Index{
		snap: snap,
		reg:  NewRegistry(),
	}

	for _, chain := range snap.Chains() {
		for _, pool := range snap.ChainPools(chain) {
			if !pool.HasLiquidity() {
				continue
			}
			idA := idx.reg.GetOrCreate(chain, pool.TokenA)
			idB := idx.reg.GetOrCreate(chain, pool.TokenB)
			idx.grow(idA)
			idx.grow(idB)
			idx.adj[idA] = append(idx.adj[idA], Edge{To: idB, Pool: pool})
			idx.adj[idB] = append(idx.adj[idB], Edge{To: idA, Pool: pool})
		}
	}

	for i := range idx.adj {
		edges := idx.adj[i]
		sort.Slice(edges, func(a, b int) bool {
			if edges[a].Pool.ID != edges[b].Pool.ID {
				return edges[a].Pool.ID < edges[b].Pool.ID
			}
			return edges[a].To < edges[b].To
		})
	}

	return idx
}

func (x *Index) grow(id TokenID) {
	for int(id) >= len(x.adj) {
		x.adj = append(x.adj, nil)
	}
}

// Snapshot returns the snapshot this index was built from.
func (x *Index) Snapshot() *liquidity.Snapshot {
	return x.snap
}

// Lookup resolves a (chain, token) node.
func (x *Index) Lookup(chain domain.Chain, token domain.Token) (TokenID, bool) {
	return x.reg.GetID(chain, token)
}

// Node returns the (chain, token) pair behind an ID.
func (x *Index) Node(id TokenID) (domain.Chain, domain.Token) {
	return x.reg.Node(id)
}

// Edges returns the adjacency list for a node in stable order. The returned
// slice is shared and must not be mutated.
func (x *Index) Edges(id TokenID) []Edge {
	if int(id) >= len(x.adj) {
		return nil
	}
	return x.adj[id]
}

// TokenChains returns the chains on which token has at least one pool,
// sorted. Used to resolve an unscoped request to concrete search roots.
func (x *Index) TokenChains(token domain.Token) []domain.Chain {
	var out []domain.Chain
	for _, key := range x.reg.toNode {
		if key.token == token {
			out = append(out, key.chain)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
