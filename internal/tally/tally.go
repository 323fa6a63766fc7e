// Package tally counts listing identifiers in first-seen order.
package tally

import "listing-dupes/models"

// Tally maps an identifier to its number of occurrences and remembers the
// order in which identifiers were first seen.
type Tally struct {
	counts map[string]int
	order  []string
	total  int
}

// Duplicate is an identifier seen more often than the reporting threshold.
// Address comes from the first record carrying the identifier.
type Duplicate struct {
	ID      string
	Address string
	Count   int
}

func New() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Build folds records into a new tally in their given order.
func Build(records []models.Property) *Tally {
	t := New()
	for _, r := range records {
		t.Add(r.ID)
	}
	return t
}

func (t *Tally) Add(id string) {
	if _, ok := t.counts[id]; !ok {
		t.order = append(t.order, id)
	}
	t.counts[id]++
	t.total++
}

// Count returns 0 for identifiers never added.
func (t *Tally) Count(id string) int {
	return t.counts[id]
}

// IDs returns identifiers in first-seen order.
func (t *Tally) IDs() []string {
	ids := make([]string, len(t.order))
	copy(ids, t.order)
	return ids
}

// Len is the number of distinct identifiers.
func (t *Tally) Len() int {
	return len(t.order)
}

// Total is the sum of all counts.
func (t *Tally) Total() int {
	return t.total
}

// Duplicates returns every identifier whose count exceeds threshold, in
// first-seen order, paired with the address of its first record.
func Duplicates(records []models.Property, threshold int) []Duplicate {
	t := Build(records)
	first := firstByID(records)

	var dups []Duplicate
	for _, id := range t.order {
		n := t.counts[id]
		if n <= threshold {
			continue
		}
		dups = append(dups, Duplicate{
			ID:      id,
			Address: first[id].Address,
			Count:   n,
		})
	}
	return dups
}

// Dedupe keeps the first record for each identifier, preserving order.
func Dedupe(records []models.Property) []models.Property {
	seen := make(map[string]struct{}, len(records))
	out := make([]models.Property, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

func firstByID(records []models.Property) map[string]models.Property {
	first := make(map[string]models.Property, len(records))
	for _, r := range records {
		if _, ok := first[r.ID]; !ok {
			first[r.ID] = r
		}
	}
	return first
}
