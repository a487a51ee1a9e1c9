package service

import "github.com/dtroode/userkeeper-server/internal/model"

// SeedStrategy picks the first id handed out after loading a collection.
type SeedStrategy func(users []model.User) int

// SeedFromCount seeds the sequence at len(users)+1.
//
// This can hand out an id that is still in use when records were deleted
// before the collection was last saved: with ids [1 3] loaded the next id is
// 3. Use SeedFromMax to avoid that.
func SeedFromCount(users []model.User) int {
	return len(users) + 1
}

// SeedFromMax seeds the sequence one past the highest loaded id.
func SeedFromMax(users []model.User) int {
	highest := 0
	for _, u := range users {
		highest = max(highest, u.ID)
	}
	return highest + 1
}

// Sequence is a monotonically increasing id allocator.
type Sequence struct {
	next int
}

// NewSequence creates a Sequence whose first value is start.
func NewSequence(start int) *Sequence {
	if start < 1 {
		start = 1
	}
	return &Sequence{next: start}
}

// Next returns the current value and advances the sequence.
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Peek returns the value the next call to Next will return.
func (s *Sequence) Peek() int {
	return s.next
}
