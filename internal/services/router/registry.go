package router

import (
	"github.com/driftlabs/routeflow/internal/domain"
)

// TokenID is a compact integer identifier for (chain, token) nodes, giving
// O(1) array access during search instead of map lookups on string pairs.
type TokenID uint32

// InvalidTokenID represents an unknown node.
const InvalidTokenID TokenID = 0xFFFFFFFF

type nodeKey struct {
	chain domain.Chain
	token domain.Token
}

// Registry maps (chain, token) pairs to compact IDs. It is populated while
// an Index is built and read-only afterwards, so no locking is needed.
type Registry struct {
	toID   map[nodeKey]TokenID
	toNode []nodeKey
}

func NewRegistry() *Registry {
	return &Registry{
		toID:   make(map[nodeKey]TokenID, 256),
		toNode: make([]nodeKey, 0, 256),
	}
}

// GetOrCreate returns the ID for a node, creating one if it doesn't exist.
// Only called during index construction.
func (r *Registry) GetOrCreate(chain domain.Chain, token domain.Token) TokenID {
	key := nodeKey{chain: chain, token: token}
	if id, ok := r.toID[key]; ok {
		return id
	}
	id := TokenID(len(r.toNode))
	r.toID[key] = id
	r.toNode = append(r.toNode, key)
	return id
}

// GetID returns the ID for a node, or InvalidTokenID if not found.
func (r *Registry) GetID(chain domain.Chain, token domain.Token) (TokenID, bool) {
	id, ok := r.toID[nodeKey{chain: chain, token: token}]
	if !ok {
		return InvalidTokenID, false
	}
	return id, true
}

// Node returns the (chain, token) pair for an ID.
func (r *Registry) Node(id TokenID) (domain.Chain, domain.Token) {
	if int(id) >= len(r.toNode) {
		return "", ""
	}
	key := r.toNode[id]
	return key.chain, key.token
}

// Size returns the number of registered nodes.
func (r *Registry) Size() int {
	return len(r.toNode)
}
