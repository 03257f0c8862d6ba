package dedup

import (
	"testing"

	"cloudsaver/internal/model"
)

func rec(id, name string, size int64) model.MediaRecord {
	return model.MediaRecord{
		Name:      name,
		RemoteID:  id,
		SizeBytes: size,
		MimeType:  "image/jpeg",
		OwnedByMe: true,
	}
}

func TestGroupDuplicatesBasic(t *testing.T) {
	records := []model.MediaRecord{
		rec("1", "a.jpg", 100),
		rec("2", "a.jpg", 100),
		rec("3", "b.jpg", 100),
	}

	groups := GroupDuplicates(records)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	if len(g.Members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(g.Members))
	}
	if g.Members[0].RemoteID != "1" {
		t.Errorf("Keeper should be the first-listed record, got %s", g.Members[0].RemoteID)
	}

	candidates := RedundantCandidates(g)
	if len(candidates) != 1 || candidates[0].RemoteID != "2" {
		t.Errorf("Redundant candidates should be exactly the second a.jpg, got %v", candidates)
	}

	if total := TotalReclaimable(groups); total != 100 {
		t.Errorf("Expected 100 reclaimable bytes, got %d", total)
	}
}

func TestGroupDuplicatesNoSingletons(t *testing.T) {
	records := []model.MediaRecord{
		rec("1", "a.jpg", 100),
		rec("2", "b.jpg", 200),
		rec("3", "c.jpg", 300),
	}

	groups := GroupDuplicates(records)
	if len(groups) != 0 {
		t.Errorf("Expected no groups for all-unique input, got %d", len(groups))
	}
}

// Every group must have at least two members, and the union of group members
// plus singletons must reconstruct the input exactly once each.
func TestGroupDuplicatesPartition(t *testing.T) {
	records := []model.MediaRecord{
		rec("1", "a.jpg", 100),
		rec("2", "b.jpg", 50),
		rec("3", "a.jpg", 100),
		rec("4", "c.jpg", 70),
		rec("5", "a.jpg", 100),
		rec("6", "b.jpg", 50),
	}

	groups := GroupDuplicates(records)

	seen := make(map[string]int)
	for _, g := range groups {
		if len(g.Members) < 2 {
			t.Errorf("Group %s has fewer than 2 members", g.Name)
		}
		for _, r := range g.Members {
			seen[r.RemoteID]++
		}
	}

	grouped := 0
	for id, n := range seen {
		if n != 1 {
			t.Errorf("Record %s appears %d times across groups", id, n)
		}
		grouped++
	}

	// 5 records are in duplicate groups (3x a.jpg, 2x b.jpg); c.jpg is a singleton.
	if grouped != 5 {
		t.Errorf("Expected 5 grouped records, got %d", grouped)
	}
	if seen["4"] != 0 {
		t.Error("Singleton c.jpg must not appear in any group")
	}
}

func TestRedundantCandidatesOrder(t *testing.T) {
	records := []model.MediaRecord{
		rec("first", "x.png", 10),
		rec("second", "x.png", 10),
		rec("third", "x.png", 10),
		rec("fourth", "x.png", 10),
	}

	groups := GroupDuplicates(records)
	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}

	candidates := RedundantCandidates(groups[0])
	want := []string{"second", "third", "fourth"}
	if len(candidates) != len(want) {
		t.Fatalf("Expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, id := range want {
		if candidates[i].RemoteID != id {
			t.Errorf("Candidate %d: expected %s, got %s", i, id, candidates[i].RemoteID)
		}
	}
}

// Files with unknown size (0) but distinct names must not collapse into one
// group, while identical name plus size 0 still groups. The key is a
// heuristic, not a byte-equality guarantee.
func TestGroupDuplicatesZeroSize(t *testing.T) {
	distinct := []model.MediaRecord{
		rec("1", "a.jpg", 0),
		rec("2", "b.jpg", 0),
	}
	if groups := GroupDuplicates(distinct); len(groups) != 0 {
		t.Errorf("Zero-size files with distinct names must not be grouped, got %d groups", len(groups))
	}

	same := []model.MediaRecord{
		rec("1", "a.jpg", 0),
		rec("2", "a.jpg", 0),
	}
	groups := GroupDuplicates(same)
	if len(groups) != 1 || len(groups[0].Members) != 2 {
		t.Errorf("Zero-size files with the same name must be grouped, got %v", groups)
	}
}

func TestTotalReclaimableMultipleGroups(t *testing.T) {
	records := []model.MediaRecord{
		rec("1", "a.jpg", 100),
		rec("2", "a.jpg", 100),
		rec("3", "a.jpg", 100),
		rec("4", "b.jpg", 40),
		rec("5", "b.jpg", 40),
	}

	groups := GroupDuplicates(records)
	// Two redundant a.jpg copies plus one redundant b.jpg copy.
	if total := TotalReclaimable(groups); total != 240 {
		t.Errorf("Expected 240 reclaimable bytes, got %d", total)
	}
}

func TestGroupDuplicatesEmptyInput(t *testing.T) {
	if groups := GroupDuplicates(nil); len(groups) != 0 {
		t.Errorf("Expected no groups for empty input, got %d", len(groups))
	}
}
