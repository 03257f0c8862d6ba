// Package dedup groups media records into exact-duplicate sets keyed by
// (name, size). The key is a heuristic: without a content hash two distinct
// files with the same name and byte size will be grouped together. That
// trade-off is deliberate, since hashing would require downloading full
// content for every candidate.
package dedup

import (
	"fmt"

	"cloudsaver/internal/model"
)

// Group is one set of records sharing a (name, size) key, in listing order.
// The first member is the keeper; the rest are candidates for removal.
type Group struct {
	Name      string
	SizeBytes int64
	Members   []model.MediaRecord
}

// Key returns the bucket key for a record.
func Key(r model.MediaRecord) string {
	return fmt.Sprintf("%s\x00%d", r.Name, r.SizeBytes)
}

// GroupDuplicates buckets records by (name, size) preserving first-seen
// order within each bucket and between buckets. Only buckets with at least
// two members are returned; singletons are not duplicates. The function is
// pure: it never mutates records and performs no remote calls.
func GroupDuplicates(records []model.MediaRecord) []Group {
	buckets := make(map[string]*Group)
	var order []string

	for _, r := range records {
		k := Key(r)
		g, ok := buckets[k]
		if !ok {
			g = &Group{Name: r.Name, SizeBytes: r.SizeBytes}
			buckets[k] = g
			order = append(order, k)
		}
		g.Members = append(g.Members, r)
	}

	var groups []Group
	for _, k := range order {
		if g := buckets[k]; len(g.Members) >= 2 {
			groups = append(groups, *g)
		}
	}
	return groups
}

// RedundantCandidates returns every member of the group except the keeper,
// preserving listing order. The keeper is always the first-listed member.
func RedundantCandidates(g Group) []model.MediaRecord {
	if len(g.Members) < 2 {
		return nil
	}
	return g.Members[1:]
}

// TotalReclaimable sums the sizes of all redundant candidates across groups.
func TotalReclaimable(groups []Group) int64 {
	var total int64
	for _, g := range groups {
		for _, r := range RedundantCandidates(g) {
			total += r.SizeBytes
		}
	}
	return total
}
