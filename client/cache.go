package client

import (
	"context"

	"lovelog-backend/domain"
)

// StateCache mirrors all five collections client-side. After every
// successful mutation the whole set is refetched; there is no partial
// patching of the cache, which avoids invalidation bugs at the cost of one
// round trip per collection per mutation. Incoming records are normalized so
// `id` and `_id` are always both set and equal.
type StateCache struct {
	client *Client

	Memories      []domain.Memory
	Anniversaries []domain.Anniversary
	Messages      []domain.Message
	Wishes        []domain.Wish
	Moods         []domain.Mood

	// LoveStartDate is the relationship start date (ISO date). It lives
	// client-side only and travels with snapshots.
	LoveStartDate string
}

// NewStateCache creates an empty cache backed by the given client.
func NewStateCache(c *Client) *StateCache {
	return &StateCache{client: c}
}

// RefreshAll refetches every collection and renormalizes identifiers.
func (s *StateCache) RefreshAll(ctx context.Context) error {
	memories, err := s.client.ListMemories(ctx)
	if err != nil {
		return err
	}
	anniversaries, err := s.client.ListAnniversaries(ctx)
	if err != nil {
		return err
	}
	messages, err := s.client.ListMessages(ctx)
	if err != nil {
		return err
	}
	wishes, err := s.client.ListWishes(ctx)
	if err != nil {
		return err
	}
	moods, err := s.client.ListMoods(ctx)
	if err != nil {
		return err
	}

	for i := range memories {
		syncIDs(&memories[i].ID, &memories[i].NativeID)
	}
	for i := range anniversaries {
		syncIDs(&anniversaries[i].ID, &anniversaries[i].NativeID)
	}
	for i := range messages {
		syncIDs(&messages[i].ID, &messages[i].NativeID)
	}
	for i := range wishes {
		syncIDs(&wishes[i].ID, &wishes[i].NativeID)
	}
	for i := range moods {
		syncIDs(&moods[i].ID, &moods[i].NativeID)
	}

	s.Memories = memories
	s.Anniversaries = anniversaries
	s.Messages = messages
	s.Wishes = wishes
	s.Moods = moods
	return nil
}

// syncIDs keeps the canonical id and the backend-native `_id` equal,
// whichever one the backend populated.
func syncIDs(id, native *string) {
	if *id == "" {
		*id = *native
	}
	if *native == "" {
		*native = *id
	}
}

// AddMemory creates a memory and refreshes the cache.
func (s *StateCache) AddMemory(ctx context.Context, m domain.Memory) error {
	if _, err := s.client.CreateMemory(ctx, m); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// UpdateMemory applies a partial update and refreshes the cache.
func (s *StateCache) UpdateMemory(ctx context.Context, id string, patch interface{}) error {
	if _, err := s.client.UpdateMemory(ctx, id, patch); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// DeleteMemory removes a memory and refreshes the cache.
func (s *StateCache) DeleteMemory(ctx context.Context, id string) error {
	if err := s.client.DeleteMemory(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// AddAnniversary creates an anniversary and refreshes the cache.
func (s *StateCache) AddAnniversary(ctx context.Context, a domain.Anniversary) error {
	if _, err := s.client.CreateAnniversary(ctx, a); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// DeleteAnniversary removes an anniversary and refreshes the cache.
func (s *StateCache) DeleteAnniversary(ctx context.Context, id string) error {
	if err := s.client.DeleteAnniversary(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// AddMessage creates a message and refreshes the cache.
func (s *StateCache) AddMessage(ctx context.Context, m domain.Message) error {
	if _, err := s.client.CreateMessage(ctx, m); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// DeleteMessage removes a message and refreshes the cache.
func (s *StateCache) DeleteMessage(ctx context.Context, id string) error {
	if err := s.client.DeleteMessage(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// AddWish creates a wish and refreshes the cache.
func (s *StateCache) AddWish(ctx context.Context, w domain.Wish) error {
	if _, err := s.client.CreateWish(ctx, w); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// ToggleWish flips a wish's completed flag and refreshes the cache.
func (s *StateCache) ToggleWish(ctx context.Context, id string) error {
	for _, w := range s.Wishes {
		if w.ID == id {
			w.Completed = !w.Completed
			if _, err := s.client.UpdateWish(ctx, id, w); err != nil {
				return err
			}
			return s.RefreshAll(ctx)
		}
	}
	return &APIError{StatusCode: 404, Message: "wish not found"}
}

// DeleteWish removes a wish and refreshes the cache.
func (s *StateCache) DeleteWish(ctx context.Context, id string) error {
	if err := s.client.DeleteWish(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// SaveMood records a mood check-in. One entry per calendar day: if the cache
// already holds a mood for the same date it is updated in place, never
// duplicated. Neither backend enforces this; it is this client's job.
func (s *StateCache) SaveMood(ctx context.Context, m domain.Mood) error {
	for _, existing := range s.Moods {
		if existing.Date == m.Date {
			if _, err := s.client.UpdateMood(ctx, existing.ID, m); err != nil {
				return err
			}
			return s.RefreshAll(ctx)
		}
	}
	if _, err := s.client.CreateMood(ctx, m); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// DeleteMood removes a mood entry and refreshes the cache.
func (s *StateCache) DeleteMood(ctx context.Context, id string) error {
	if err := s.client.DeleteMood(ctx, id); err != nil {
		return err
	}
	return s.RefreshAll(ctx)
}

// ClearAll empties every collection server-side and drops the local mirror.
func (s *StateCache) ClearAll(ctx context.Context) error {
	clears := []func(context.Context) error{
		s.client.ClearMemories,
		s.client.ClearAnniversaries,
		s.client.ClearMessages,
		s.client.ClearWishes,
		s.client.ClearMoods,
	}
	for _, clear := range clears {
		if err := clear(ctx); err != nil {
			return err
		}
	}
	return s.RefreshAll(ctx)
}
