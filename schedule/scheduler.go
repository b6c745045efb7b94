package schedule

import (
	"github.com/shuuuting95/kaleido-core/ad"
)

type interval struct {
	tokenID ad.TokenID
	start   int64
	end     int64
}

// Scheduler is the interval-conflict scheduler for period display windows.
// It is not safe for concurrent use; the facade serializes access.
type Scheduler struct {
	spaces    map[string]ad.Account
	intervals map[string][]interval
	byToken   map[ad.TokenID]string
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		spaces:    make(map[string]ad.Account),
		intervals: make(map[string][]interval),
		byToken:   make(map[ad.TokenID]string),
	}
}

// Register claims a space id for an owner. Space ids are unique across the
// whole system; the first writer wins.
func (s *Scheduler) Register(spaceID string, owner ad.Account) error {
	if _, ok := s.spaces[spaceID]; ok {
		return ad.ErrSpaceExists
	}
	s.spaces[spaceID] = owner
	return nil
}

// Registered reports whether the space id has been claimed.
func (s *Scheduler) Registered(spaceID string) bool {
	_, ok := s.spaces[spaceID]
	return ok
}

// OwnerOf returns the account that registered the space.
func (s *Scheduler) OwnerOf(spaceID string) (ad.Account, error) {
	owner, ok := s.spaces[spaceID]
	if !ok {
		return ad.ZeroAccount, ad.ErrSpaceNotFound
	}
	return owner, nil
}

// Reserve inserts the display window [start, end) for the space and
// returns the deterministic token id. It fails with ErrBadOrdering if the
// window is empty or inverted, and ErrOverlap if any live window on the
// space intersects it.
func (s *Scheduler) Reserve(spaceID string, start, end int64) (ad.TokenID, error) {
	if start >= end {
		return ad.ZeroToken, ad.ErrBadOrdering
	}
	if !s.Registered(spaceID) {
		return ad.ZeroToken, ad.ErrSpaceNotFound
	}
	for _, iv := range s.intervals[spaceID] {
		if start < iv.end && iv.start < end {
			return ad.ZeroToken, ad.ErrOverlap
		}
	}
	id := ad.NewTokenID(spaceID, start, end)
	s.intervals[spaceID] = append(s.intervals[spaceID], interval{tokenID: id, start: start, end: end})
	s.byToken[id] = spaceID
	return id, nil
}

// Release frees the window held by the token, making it available again.
func (s *Scheduler) Release(tokenID ad.TokenID) error {
	spaceID, ok := s.byToken[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	delete(s.byToken, tokenID)
	live := s.intervals[spaceID]
	for i, iv := range live {
		if iv.tokenID == tokenID {
			s.intervals[spaceID] = append(live[:i], live[i+1:]...)
			break
		}
	}
	return nil
}

// Reserved reports whether the token currently holds a window.
func (s *Scheduler) Reserved(tokenID ad.TokenID) bool {
	_, ok := s.byToken[tokenID]
	return ok
}
