package coloring

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// TopoSort orders items so that every item follows the items it depends
// on. Independent items keep their input order. Dependencies on keys not
// present in items are ignored, and a dependency that would close a cycle
// is dropped.
func TopoSort[T any, K comparable](items []T, key func(T) K, deps func(T) []K) []T {
	index := make(map[K]int, len(items))
	for i, item := range items {
		if _, ok := index[key(item)]; !ok {
			index[key(item)] = i
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(items))
	sorted := make([]T, 0, len(items))

	type frame struct {
		item int
		deps []int
	}
	depsOf := func(i int) []int {
		var list []int
		for _, k := range deps(items[i]) {
			if j, ok := index[k]; ok && j != i {
				list = append(list, j)
			}
		}
		return list
	}

	for root := range items {
		if state[root] != unvisited {
			continue
		}
		state[root] = visiting
		stack := []*frame{{item: root, deps: depsOf(root)}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if len(top.deps) == 0 {
				state[top.item] = done
				sorted = append(sorted, items[top.item])
				stack = stack[:len(stack)-1]
				continue
			}
			next := top.deps[0]
			top.deps = top.deps[1:]
			if state[next] != unvisited {
				continue
			}
			state[next] = visiting
			stack = append(stack, &frame{item: next, deps: depsOf(next)})
		}
	}
	return sorted
}

// SortByDependency orders txs so that a transaction spending another one
// of the set comes after it.
func SortByDependency(txs []*Tx) []*Tx {
	return TopoSort(txs,
		func(tx *Tx) chainhash.Hash { return tx.Hash },
		func(tx *Tx) []chainhash.Hash { return tx.SpentHashes() },
	)
}

// SortMsgTxsByDependency is SortByDependency for raw transactions.
func SortMsgTxsByDependency(txs []*wire.MsgTx) []*wire.MsgTx {
	return TopoSort(txs,
		func(tx *wire.MsgTx) chainhash.Hash { return tx.TxHash() },
		func(tx *wire.MsgTx) []chainhash.Hash {
			hashes := make([]chainhash.Hash, 0, len(tx.TxIn))
			for _, in := range tx.TxIn {
				hashes = append(hashes, in.PreviousOutPoint.Hash)
			}
			return hashes
		},
	)
}
