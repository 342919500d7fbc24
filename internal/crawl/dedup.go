package crawl

// Deduplicator remembers the external ids seen during one run.
type Deduplicator struct {
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Add reports whether id was not seen before.
func (d *Deduplicator) Add(id string) bool {
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	return true
}

func (d *Deduplicator) Len() int {
	return len(d.seen)
}
