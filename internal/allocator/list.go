package allocator

// blockList is a doubly-linked, address-ordered registry of blocks. The
// free list and the used list are each one of these, holding disjoint
// status subsets: a block belongs to at most one list at a time.
type blockList struct {
	head *blockHeader
}

// insert splices b into the list preserving address order. It scans from
// the head for the first entry with a greater address and inserts b
// immediately before it, matching add_used_block/add_free_block's
// forward walk.
func (l *blockList) insert(b *blockHeader) {
	b.prev, b.next = nil, nil

	if l.head == nil {
		l.head = b

		return
	}

	if headerAddr(b) < headerAddr(l.head) {
		b.next = l.head
		l.head.prev = b
		l.head = b

		return
	}

	cur := l.head
	for cur.next != nil && headerAddr(cur.next) < headerAddr(b) {
		cur = cur.next
	}

	b.next = cur.next
	b.prev = cur

	if cur.next != nil {
		cur.next.prev = b
	}

	cur.next = b
}

// remove detaches b from the list, fixing up its neighbours and the head
// pointer. Both of b's links are nulled on return.
func (l *blockList) remove(b *blockHeader) {
	if b.prev != nil {
		b.prev.next = b.next
	} else if l.head == b {
		l.head = b.next
	}

	if b.next != nil {
		b.next.prev = b.prev
	}

	b.prev, b.next = nil, nil
}

// forEach walks the list in address order, calling fn for every member.
// fn must not mutate the list's link structure; callers that need to
// remove while walking should capture the next pointer first.
func (l *blockList) forEach(fn func(*blockHeader)) {
	for cur := l.head; cur != nil; cur = cur.next {
		fn(cur)
	}
}

// tail returns the highest-address member of the list, or nil if empty.
func (l *blockList) tail() *blockHeader {
	cur := l.head
	if cur == nil {
		return nil
	}

	for cur.next != nil {
		cur = cur.next
	}

	return cur
}
