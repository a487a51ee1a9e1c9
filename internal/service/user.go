package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dtroode/userkeeper-server/internal/logger"
	"github.com/dtroode/userkeeper-server/internal/model"
)

var _ model.UserStore = (*User)(nil)

// User owns the authoritative user collection for the process lifetime and
// mirrors it to a Snapshotter after every mutation.
//
// A single mutex guards the collection, the id sequence and the write to the
// snapshotter, so concurrent requests cannot interleave two saves.
type User struct {
	mu          sync.Mutex
	users       []model.User
	seq         *Sequence
	seed        SeedStrategy
	snapshotter model.Snapshotter
	logger      *logger.Logger
	ready       atomic.Bool
}

// NewUser creates a User service persisting through snapshotter. A nil seed
// defaults to SeedFromCount.
func NewUser(snapshotter model.Snapshotter, seed SeedStrategy, logger *logger.Logger) *User {
	if seed == nil {
		seed = SeedFromCount
	}
	return &User{
		users:       []model.User{},
		seq:         NewSequence(1),
		seed:        seed,
		snapshotter: snapshotter,
		logger:      logger,
	}
}

// Load replaces the in-memory collection with the snapshotter content and
// reseeds the id sequence.
func (s *User) Load(ctx context.Context) error {
	users, err := s.snapshotter.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = users
	s.seq = NewSequence(s.seed(users))
	s.ready.Store(true)

	s.logger.Info("User service: collection loaded",
		"count", len(users),
		"next_id", s.seq.Peek())

	return nil
}

// Ready reports whether the initial load has completed.
func (s *User) Ready() bool {
	return s.ready.Load()
}

// Create appends a user with a freshly allocated id and persists the collection.
func (s *User) Create(ctx context.Context, params model.UserParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := model.User{
		ID:    s.seq.Next(),
		Name:  params.Name,
		Email: params.Email,
	}
	s.users = append(s.users, user)

	if err := s.persist(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// List returns all users in insertion order.
func (s *User) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.users), nil
}

// Get returns the user with the given id.
func (s *User) Get(_ context.Context, id int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, model.ErrNotFound
	}
	return s.users[i], nil
}

// Update replaces name and email of the user with the given id.
func (s *User) Update(ctx context.Context, id int, params model.UserParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, model.ErrNotFound
	}

	user := model.User{
		ID:    id,
		Name:  params.Name,
		Email: params.Email,
	}
	s.users[i] = user

	if err := s.persist(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes the first user with the given id.
func (s *User) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.ErrNotFound
	}
	s.users = slices.Delete(s.users, i, i+1)

	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *User) indexOf(id int) int {
	return slices.IndexFunc(s.users, func(u model.User) bool {
		return u.ID == id
	})
}

// persist must be called with mu held. The in-memory change is kept even
// when the save fails. The save runs detached from ctx cancellation so a
// disconnecting client cannot leave memory ahead of the backing store.
func (s *User) persist(ctx context.Context) error {
	if err := s.snapshotter.Save(context.WithoutCancel(ctx), slices.Clone(s.users)); err != nil {
		s.logger.Error("User service: failed to persist collection",
			"count", len(s.users),
			"error", err)
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}
