// Package order computes hierarchy order keys: integers whose natural ordering
// reproduces a depth-first, sibling-respecting walk of a node tree (a node,
// then its children in sibling order, then its later siblings).
//
// Every level of the tree owns a block of MaxChildren^L indices, where L is
// the number of levels that may still exist below it. Trees with more than
// MaxChildren siblings under one parent or deeper than MaxDepth still get a
// key, but ordering between the affected nodes is only approximate.
package order

import (
	"math/big"
)

const (
	MaxChildren = 100
	MaxDepth    = 100
)

var radix = big.NewInt(MaxChildren)

// Key returns the order key for the node reached by path, where path[0] is the
// root's index among its siblings and path[len-1] is the node's own index
// under its parent. An empty path yields nil.
func Key(path []int) *big.Int {
	if len(path) == 0 {
		return nil
	}

	key := new(big.Int)
	block := new(big.Int)
	digit := new(big.Int)
	for depth, siblingIndex := range path {
		levelsBelow := max(0, MaxDepth-depth)

		block.Exp(radix, big.NewInt(int64(levelsBelow)), nil)
		digit.SetInt64(int64(siblingIndex) + 1)
		key.Add(key, digit.Mul(digit, block))
	}
	return key
}

// Compare orders two keys. A nil key sorts after every non-nil key.
func Compare(a, b *big.Int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Cmp(b)
}
