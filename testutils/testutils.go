package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"etudia/model"
	"etudia/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FixedTime returns a clock that always reads t.
func FixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NoteStore is an in-memory stand-in for the notes repository. Filters passed
// to FindPage and Count are ignored: every note matches.
type NoteStore struct {
	mu    sync.Mutex
	notes []*model.CourseNote
}

func NewNoteStore(notes ...*model.CourseNote) *NoteStore {
	s := &NoteStore{}
	for _, n := range notes {
		n := cloneNote(n)
		if n.ID.IsZero() {
			n.ID = primitive.NewObjectID()
		}
		n.NormalizeOwners()
		s.notes = append(s.notes, n)
	}
	return s
}

func cloneNote(n *model.CourseNote) *model.CourseNote {
	c := *n
	c.Owners = append([]string(nil), n.Owners...)
	return &c
}

func (s *NoteStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func (s *NoteStore) FindPage(_ context.Context, _ bson.M, _ string, skip, limit int64) ([]*model.CourseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]*model.CourseNote, len(s.notes))
	copy(sorted, s.notes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Title < sorted[j].Title })

	out := make([]*model.CourseNote, 0)
	for i := skip; i < int64(len(sorted)); i++ {
		if limit > 0 && int64(len(out)) == limit {
			break
		}
		out = append(out, cloneNote(sorted[i]))
	}
	return out, nil
}

func (s *NoteStore) Count(_ context.Context, _ bson.M) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.notes)), nil
}

func (s *NoteStore) find(match func(*model.CourseNote) bool) (int, *model.CourseNote) {
	for i, n := range s.notes {
		if match(n) {
			return i, n
		}
	}
	return -1, nil
}

func (s *NoteStore) FindBySlug(_ context.Context, slug string) (*model.CourseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, n := s.find(func(n *model.CourseNote) bool { return n.Slug == slug }); n != nil {
		return cloneNote(n), nil
	}
	return nil, repository.ErrNotFound
}

func (s *NoteStore) insert(note *model.CourseNote) (*model.CourseNote, error) {
	if note.Slug != "" {
		if _, n := s.find(func(n *model.CourseNote) bool { return n.Slug == note.Slug }); n != nil {
			return nil, repository.ErrDuplicateKey
		}
	}
	stored := cloneNote(note)
	stored.ID = primitive.NewObjectID()
	stored.NormalizeOwners()
	s.notes = append(s.notes, stored)
	return stored, nil
}

func (s *NoteStore) Insert(_ context.Context, note *model.CourseNote) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.insert(note)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return stored.ID, nil
}

func (s *NoteStore) UpsertByFileHash(_ context.Context, note *model.CourseNote) (*model.CourseNote, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.NormalizeOwners()
	if _, n := s.find(func(n *model.CourseNote) bool { return n.FileHash == note.FileHash }); n != nil {
		n.Owners = model.MergeOwners(n.Owners, note.Owners)
		n.UserID = ""
		n.NormalizeOwners()
		return cloneNote(n), false, nil
	}

	stored, err := s.insert(note)
	if err != nil {
		return nil, false, err
	}
	return cloneNote(stored), true, nil
}

// UpdateBySlug copies the non-empty fields of note, like a $set of its
// storage projection.
func (s *NoteStore) UpdateBySlug(_ context.Context, slug string, note *model.CourseNote) (*model.CourseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, n := s.find(func(n *model.CourseNote) bool { return n.Slug == slug })
	if n == nil {
		return nil, repository.ErrNotFound
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&n.Title, note.Title)
	set(&n.Slug, note.Slug)
	set(&n.FileHash, note.FileHash)
	set(&n.DescText, note.DescText)
	set(&n.Course, note.Course)
	set(&n.Promotion, note.Promotion)
	set(&n.Source, note.Source)
	if note.AddedAt != nil {
		n.AddedAt = note.AddedAt
	}
	if note.UpdatedAt != nil {
		n.UpdatedAt = note.UpdatedAt
	}
	note.NormalizeOwners()
	if len(note.Owners) > 0 {
		n.Owners = note.Owners
		n.UserID = ""
		n.NormalizeOwners()
	}
	return cloneNote(n), nil
}

func (s *NoteStore) DeleteBySlug(_ context.Context, slug string) (*model.CourseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, n := s.find(func(n *model.CourseNote) bool { return n.Slug == slug })
	if n == nil {
		return nil, repository.ErrNotFound
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return n, nil
}

func (s *NoteStore) FindByOwner(_ context.Context, ownerID string) ([]*model.CourseNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.CourseNote, 0)
	for _, n := range s.notes {
		for _, o := range n.Owners {
			if o == ownerID {
				out = append(out, cloneNote(n))
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// UserStore is an in-memory stand-in for the users repository.
type UserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewUserStore(users ...*model.User) *UserStore {
	s := &UserStore{users: make(map[string]*model.User)}
	for _, u := range users {
		c := *u
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		s.users[c.Phone] = &c
	}
	return s
}

func (s *UserStore) AddUser(_ context.Context, user *model.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Phone]; ok {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	c := *user
	c.ID = primitive.NewObjectID()
	s.users[c.Phone] = &c
	return c.ID, nil
}

func (s *UserStore) FindUserByPhone(_ context.Context, phone string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *UserStore) UpdateUserByPhone(_ context.Context, phone string, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if user.FullName != "" {
		u.FullName = user.FullName
	}
	if user.Source != "" {
		u.Source = user.Source
	}
	if user.Photo != "" {
		u.Photo = user.Photo
	}
	if user.Phone != "" && user.Phone != phone {
		delete(s.users, phone)
		u.Phone = user.Phone
		s.users[u.Phone] = u
	}
	c := *u
	return &c, nil
}

func (s *UserStore) DeleteUserByPhone(_ context.Context, phone string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.users, phone)
	return u, nil
}
