package fpgrowth

import "sort"

// pattern is a weighted list of item (column) indexes: a transaction of the
// input table, or a prefix path of a conditional pattern base.
type pattern struct {
	items []int
	count int
}

// node is one vertex of the prefix tree.
type node struct {
	item     int
	count    int
	parent   *node
	children map[int]*node

	// next links nodes carrying the same item (header table chain).
	next *node
}

// tree is an FP-tree together with its header table.
type tree struct {
	root *node

	// heads holds the first node of each item's chain.
	heads map[int]*node

	// counts holds the total count of each frequent item.
	counts map[int]int

	// order lists the frequent items by descending count, then by column
	// index. Paths are inserted in this order.
	order []int
}

// newTree builds an FP-tree from weighted patterns, keeping only items whose
// total count reaches minCount.
func newTree(patterns []pattern, minCount int) *tree {
	counts := make(map[int]int)
	for _, p := range patterns {
		for _, item := range p.items {
			counts[item] += p.count
		}
	}

	t := &tree{
		root:   &node{item: -1, children: make(map[int]*node)},
		heads:  make(map[int]*node),
		counts: make(map[int]int),
	}
	for item, c := range counts {
		if c >= minCount {
			t.counts[item] = c
			t.order = append(t.order, item)
		}
	}
	sort.Slice(t.order, func(a, b int) bool {
		ca, cb := t.counts[t.order[a]], t.counts[t.order[b]]
		if ca != cb {
			return ca > cb
		}
		return t.order[a] < t.order[b]
	})

	rank := make(map[int]int, len(t.order))
	for i, item := range t.order {
		rank[item] = i
	}

	path := make([]int, 0)
	for _, p := range patterns {
		path = path[:0]
		for _, item := range p.items {
			if _, ok := rank[item]; ok {
				path = append(path, item)
			}
		}
		if len(path) == 0 {
			continue
		}
		sort.Slice(path, func(a, b int) bool { return rank[path[a]] < rank[path[b]] })
		t.insert(path, p.count)
	}
	return t
}

// insert adds a rank-ordered path with the given weight.
func (t *tree) insert(path []int, count int) {
	cur := t.root
	for _, item := range path {
		child, ok := cur.children[item]
		if !ok {
			child = &node{
				item:     item,
				parent:   cur,
				children: make(map[int]*node),
				next:     t.heads[item],
			}
			cur.children[item] = child
			t.heads[item] = child
		}
		child.count += count
		cur = child
	}
}

// prefixPaths returns the conditional pattern base of item: for every node of
// the item, the path from its parent up to (excluding) the root, weighted by
// the node count.
func (t *tree) prefixPaths(item int) []pattern {
	var base []pattern
	for n := t.heads[item]; n != nil; n = n.next {
		var items []int
		for p := n.parent; p != nil && p.parent != nil; p = p.parent {
			items = append(items, p.item)
		}
		if len(items) > 0 {
			base = append(base, pattern{items: items, count: n.count})
		}
	}
	return base
}
