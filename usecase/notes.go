package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"etudia/model"
	"etudia/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotesPageSize = 10
	notesSortKey  = "title"
)

var ErrInvalidPage = errors.New("page must be a positive integer")

// NoteStore is the persistence the notes service needs.
type NoteStore interface {
	FindPage(ctx context.Context, filter bson.M, sortKey string, skip, limit int64) ([]*model.CourseNote, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindBySlug(ctx context.Context, slug string) (*model.CourseNote, error)
	Insert(ctx context.Context, note *model.CourseNote) (primitive.ObjectID, error)
	UpsertByFileHash(ctx context.Context, note *model.CourseNote) (*model.CourseNote, bool, error)
	UpdateBySlug(ctx context.Context, slug string, note *model.CourseNote) (*model.CourseNote, error)
	DeleteBySlug(ctx context.Context, slug string) (*model.CourseNote, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.CourseNote, error)
}

type NotesService struct {
	NotesRepo NoteStore
	UsersRepo UserStore
	Now       func() time.Time
}

func NewNotesService(notes NoteStore, users UserStore) *NotesService {
	return &NotesService{NotesRepo: notes, UsersRepo: users}
}

func (svc *NotesService) now() time.Time {
	if svc.Now != nil {
		return svc.Now().UTC()
	}
	return time.Now().UTC()
}

// PageInfo describes where a page sits in the full listing.
type PageInfo struct {
	Page     int
	LastPage int
	HasPrev  bool
	HasNext  bool
}

// Paginate computes navigation for page given total items. The last page is
// total/size + 1, so an exact multiple of size still reports a trailing page.
func Paginate(page int, total int64, size int) PageInfo {
	full := int(total) / size
	return PageInfo{
		Page:     page,
		LastPage: full + 1,
		HasPrev:  page > 1,
		HasNext:  page-1 < full,
	}
}

type NotesPage struct {
	Notes []*model.CourseNote
	Info  PageInfo
	Total int64
}

// ListNotes returns one page of all notes sorted by title.
func (svc *NotesService) ListNotes(ctx context.Context, page int) (*NotesPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	total, err := svc.NotesRepo.Count(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}

	// Pages past the end are empty; skipping the query also keeps the skip
	// from overflowing on huge page numbers.
	notes := []*model.CourseNote{}
	if int64(page-1) <= total/NotesPageSize {
		skip := int64(page-1) * NotesPageSize
		notes, err = svc.NotesRepo.FindPage(ctx, bson.M{}, notesSortKey, skip, NotesPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list notes: %w", err)
		}
	}

	return &NotesPage{
		Notes: notes,
		Info:  Paginate(page, total, NotesPageSize),
		Total: total,
	}, nil
}

// CreateNote stores note stamped with the current time. A note carrying a
// file hash that is already stored is not duplicated: the submitter is added
// to the existing note's owners and that note is returned with created false.
func (svc *NotesService) CreateNote(ctx context.Context, note *model.CourseNote) (*model.CourseNote, bool, error) {
	if err := note.Validate(); err != nil {
		return nil, false, err
	}

	now := svc.now()
	note.ID = primitive.NilObjectID
	note.AddedAt = &now
	note.UpdatedAt = nil
	note.NormalizeOwners()

	if note.FileHash != "" {
		stored, created, err := svc.NotesRepo.UpsertByFileHash(ctx, note)
		if err != nil {
			return nil, false, err
		}
		if created {
			utils.TrackNoteOperation("create")
		} else {
			utils.TrackNoteOperation("dedup")
		}
		return stored, created, nil
	}

	id, err := svc.NotesRepo.Insert(ctx, note)
	if err != nil {
		return nil, false, err
	}
	note.ID = id
	utils.TrackNoteOperation("create")
	return note, true, nil
}

func (svc *NotesService) GetNote(ctx context.Context, slug string) (*model.CourseNote, error) {
	return svc.NotesRepo.FindBySlug(ctx, slug)
}

// UpdateNote overwrites the note at slug with the fields of note and stamps
// the update time.
func (svc *NotesService) UpdateNote(ctx context.Context, slug string, note *model.CourseNote) (*model.CourseNote, error) {
	if err := note.Validate(); err != nil {
		return nil, err
	}

	now := svc.now()
	note.ID = primitive.NilObjectID
	note.UpdatedAt = &now

	updated, err := svc.NotesRepo.UpdateBySlug(ctx, slug, note)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("update")
	return updated, nil
}

// DeleteNote removes the note at slug and returns it.
func (svc *NotesService) DeleteNote(ctx context.Context, slug string) (*model.CourseNote, error) {
	deleted, err := svc.NotesRepo.DeleteBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	utils.TrackNoteOperation("delete")
	return deleted, nil
}

// ListUserNotes returns every note owned by the user registered with phone.
func (svc *NotesService) ListUserNotes(ctx context.Context, phone string) ([]*model.CourseNote, error) {
	user, err := svc.UsersRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return svc.NotesRepo.FindByOwner(ctx, user.ID.Hex())
}
