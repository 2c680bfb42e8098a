package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"lovelog-backend/domain"
)

// Snapshot is the serialized export of all five collections plus the
// relationship start date.
type Snapshot struct {
	Memories      []domain.Memory      `json:"memories"`
	Anniversaries []domain.Anniversary `json:"anniversaries"`
	Messages      []domain.Message     `json:"messages"`
	Wishes        []domain.Wish        `json:"wishes"`
	Moods         []domain.Mood        `json:"moods"`
	LoveStartDate string               `json:"loveStartDate,omitempty"`
	ExportDate    string               `json:"exportDate"`
}

// ImportSummary reports the outcome of a batch import. Individual failures
// never abort the batch; they are counted and reported in aggregate.
type ImportSummary struct {
	Total    int
	Imported int
	Skipped  int
	Failed   int
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("imported %d of %d records (%d duplicates skipped, %d failed)",
		s.Imported, s.Total, s.Skipped, s.Failed)
}

// Export captures the current cache as a snapshot.
func (s *StateCache) Export() Snapshot {
	return Snapshot{
		Memories:      s.Memories,
		Anniversaries: s.Anniversaries,
		Messages:      s.Messages,
		Wishes:        s.Wishes,
		Moods:         s.Moods,
		LoveStartDate: s.LoveStartDate,
		ExportDate:    time.Now().UTC().Format(time.RFC3339),
	}
}

// ExportToFile writes the snapshot as indented JSON.
func (s *StateCache) ExportToFile(path string) error {
	data, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ImportFile reads a snapshot file and imports it.
func (s *StateCache) ImportFile(ctx context.Context, path string) (ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ImportSummary{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s.Import(ctx, snap)
}

// Import submits every snapshot record that is not already present,
// detecting duplicates with a per-kind equality heuristic against the
// currently loaded cache. Backend-assigned fields are stripped so the
// destination assigns fresh ones. The batch continues past individual
// failures; the summary reports the totals. The relationship start date, if
// present, unconditionally overwrites the current value.
func (s *StateCache) Import(ctx context.Context, snap Snapshot) (ImportSummary, error) {
	var sum ImportSummary
	sum.Total = len(snap.Memories) + len(snap.Anniversaries) + len(snap.Messages) +
		len(snap.Wishes) + len(snap.Moods)

	for _, m := range snap.Memories {
		if s.hasMemory(m) {
			sum.Skipped++
			continue
		}
		stripAssigned(&m.ID, &m.NativeID, &m.CreatedAt, &m.UpdatedAt)
		if _, err := s.client.CreateMemory(ctx, m); err != nil {
			sum.Failed++
			continue
		}
		sum.Imported++
	}

	for _, a := range snap.Anniversaries {
		if s.hasAnniversary(a) {
			sum.Skipped++
			continue
		}
		stripAssigned(&a.ID, &a.NativeID, &a.CreatedAt, &a.UpdatedAt)
		if _, err := s.client.CreateAnniversary(ctx, a); err != nil {
			sum.Failed++
			continue
		}
		sum.Imported++
	}

	for _, m := range snap.Messages {
		if s.hasMessage(m) {
			sum.Skipped++
			continue
		}
		stripAssigned(&m.ID, &m.NativeID, &m.CreatedAt, &m.UpdatedAt)
		if _, err := s.client.CreateMessage(ctx, m); err != nil {
			sum.Failed++
			continue
		}
		sum.Imported++
	}

	for _, w := range snap.Wishes {
		if s.hasWish(w) {
			sum.Skipped++
			continue
		}
		stripAssigned(&w.ID, &w.NativeID, &w.CreatedAt, &w.UpdatedAt)
		if _, err := s.client.CreateWish(ctx, w); err != nil {
			sum.Failed++
			continue
		}
		sum.Imported++
	}

	for _, m := range snap.Moods {
		if s.hasMood(m) {
			sum.Skipped++
			continue
		}
		stripAssigned(&m.ID, &m.NativeID, &m.CreatedAt, &m.UpdatedAt)
		if _, err := s.client.CreateMood(ctx, m); err != nil {
			sum.Failed++
			continue
		}
		sum.Imported++
	}

	if snap.LoveStartDate != "" {
		s.LoveStartDate = snap.LoveStartDate
	}

	if err := s.RefreshAll(ctx); err != nil {
		return sum, err
	}
	return sum, nil
}

func stripAssigned(fields ...*string) {
	for _, f := range fields {
		*f = ""
	}
}

// Duplicate heuristics, one per kind. These compare against the cache as it
// was when the import began; records created by the import itself are not
// rechecked, matching last-write-wins simplicity.

func (s *StateCache) hasMemory(m domain.Memory) bool {
	for _, existing := range s.Memories {
		if existing.Content == m.Content && existing.Date == m.Date && existing.Type == m.Type {
			return true
		}
	}
	return false
}

func (s *StateCache) hasAnniversary(a domain.Anniversary) bool {
	for _, existing := range s.Anniversaries {
		if existing.Name == a.Name && existing.Date == a.Date {
			return true
		}
	}
	return false
}

func (s *StateCache) hasMessage(m domain.Message) bool {
	for _, existing := range s.Messages {
		if existing.Content == m.Content && existing.Mood == m.Mood {
			return true
		}
	}
	return false
}

func (s *StateCache) hasWish(w domain.Wish) bool {
	for _, existing := range s.Wishes {
		if existing.Text == w.Text {
			return true
		}
	}
	return false
}

func (s *StateCache) hasMood(m domain.Mood) bool {
	for _, existing := range s.Moods {
		if existing.Date == m.Date {
			return true
		}
	}
	return false
}
