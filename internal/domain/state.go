package domain

import (
	"slices"
	"sort"
	"strings"
)

// State is the aggregate root: all users, all submissions and the used-topic ledger.
// It is always loaded and saved as a whole.
type State struct {
	Users       map[string]*User       `json:"users"`
	Submissions map[string]*Submission `json:"submissions"`
	UsedTopics  map[Pool][]string      `json:"usedTopics"`

	// Version is bumped by stores that support compare-and-swap saves.
	Version uint64 `json:"version,omitempty"`
}

// NewState returns an empty aggregate.
func NewState() *State {
	s := &State{}
	s.Normalize()
	return s
}

// Normalize fills in collections missing from older serialized aggregates,
// drops null entries and backfills identities of documents that stored the
// display name as "fio".
func (s *State) Normalize() {
	if s.Users == nil {
		s.Users = make(map[string]*User)
	}
	if s.Submissions == nil {
		s.Submissions = make(map[string]*Submission)
	}
	if s.UsedTopics == nil {
		s.UsedTopics = make(map[Pool][]string)
	}

	for key, u := range s.Users {
		if u == nil {
			delete(s.Users, key)
			continue
		}
		if u.Name == "" {
			u.Name = strings.TrimSpace(u.LegacyName)
		}
		if u.Name == "" {
			u.Name = key
		}
		u.LegacyName = ""
		if k := u.Key(); k != key {
			delete(s.Users, key)
			if _, taken := s.Users[k]; !taken && k != "" {
				s.Users[k] = u
			}
		}
	}

	for id, sub := range s.Submissions {
		if sub == nil {
			delete(s.Submissions, id)
			continue
		}
		if sub.ID == "" {
			sub.ID = id
		}
		if sub.OwnerName == "" {
			sub.OwnerName = strings.TrimSpace(sub.LegacyName)
		}
		if sub.Owner == "" {
			sub.Owner = NormalizeName(sub.OwnerName)
		}
		sub.LegacyName = ""
	}

	for p := range s.UsedTopics {
		if !p.IsValid() {
			delete(s.UsedTopics, p)
		}
	}
	for _, p := range Pools() {
		if s.UsedTopics[p] == nil {
			s.UsedTopics[p] = []string{}
		}
	}
}

// User returns the user registered under name (normalized), or nil.
func (s *State) User(name string) *User {
	return s.Users[NormalizeName(name)]
}

// PutUser stores u under its key.
func (s *State) PutUser(u *User) {
	s.Users[u.Key()] = u
}

// SubmissionsOf returns the submissions owned by the user key, newest first.
func (s *State) SubmissionsOf(key string) []*Submission {
	var out []*Submission
	for _, sub := range s.Submissions {
		if sub.Owner == key {
			out = append(out, sub)
		}
	}
	SortNewestFirst(out)
	return out
}

// LatestSubmission returns the most recently created submission of the user key, or nil.
func (s *State) LatestSubmission(key string) *Submission {
	subs := s.SubmissionsOf(key)
	if len(subs) == 0 {
		return nil
	}
	return subs[0]
}

// PendingSubmission returns the pending submission of the user key, or nil.
func (s *State) PendingSubmission(key string) *Submission {
	for _, sub := range s.SubmissionsOf(key) {
		if sub.IsPending() {
			return sub
		}
	}
	return nil
}

// FilterSubmissions returns submissions with the given status (all when empty), newest first.
func (s *State) FilterSubmissions(status SubmissionStatus) []*Submission {
	out := make([]*Submission, 0, len(s.Submissions))
	for _, sub := range s.Submissions {
		if status == "" || sub.Status == status {
			out = append(out, sub)
		}
	}
	SortNewestFirst(out)
	return out
}

// Used returns the topic identifiers already drawn from pool.
func (s *State) Used(pool Pool) []string {
	return s.UsedTopics[pool]
}

// MarkUsed appends id to the pool's ledger. The ledger never shrinks.
func (s *State) MarkUsed(pool Pool, id string) {
	if slices.Contains(s.UsedTopics[pool], id) {
		return
	}
	s.UsedTopics[pool] = append(s.UsedTopics[pool], id)
}

// SortNewestFirst orders submissions by creation time, newest first.
// Ties fall back to update time and then id so the order is deterministic.
func SortNewestFirst(subs []*Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID > b.ID
	})
}
