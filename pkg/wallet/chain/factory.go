// SPDX-License-Identifier: Apache-2.0
package chain

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	solanachain "github.com/jup-ag/chainkit/pkg/chains/solana"
	"github.com/jup-ag/chainkit/pkg/types"
)

// ChainFactory routes a Blockchain tag to its registered implementation.
type ChainFactory struct {
	chains map[types.Blockchain]Chain
	logger *zap.Logger
	mu     sync.RWMutex
}

// NewChainFactory creates a factory with the built-in chains registered.
// A nil logger falls back to a no-op.
func NewChainFactory(logger *zap.Logger) *ChainFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := &ChainFactory{
		chains: make(map[types.Blockchain]Chain),
		logger: logger,
	}
	factory.RegisterChain(types.Solana, solanachain.NewFactory(logger))
	return factory
}

// RegisterChain registers a chain implementation under its tag.
func (cf *ChainFactory) RegisterChain(tag types.Blockchain, chain Chain) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	cf.chains[tag] = chain
}

// GetChain returns the implementation registered for the tag.
func (cf *ChainFactory) GetChain(tag types.Blockchain) (Chain, error) {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	chain, exists := cf.chains[tag]
	if !exists {
		return nil, fmt.Errorf("unsupported chain: %s", tag)
	}
	return chain, nil
}

// SupportedChains lists the registered chain tags.
func (cf *ChainFactory) SupportedChains() []types.Blockchain {
	cf.mu.RLock()
	defer cf.mu.RUnlock()
	tags := make([]types.Blockchain, 0, len(cf.chains))
	for tag := range cf.chains {
		tags = append(tags, tag)
	}
	return tags
}
