package dto

import (
	"etudia/model"
	"time"
)

type NoteLink struct {
	Href string `json:"href"`
}

// NoteResponse is the client projection of a note. Desc text is never sent.
type NoteResponse struct {
	ID        string     `json:"_id,omitempty"`
	Title     string     `json:"title,omitempty"`
	Slug      string     `json:"slug,omitempty"`
	FileHash  string     `json:"file_hash,omitempty"`
	Course    string     `json:"course,omitempty"`
	Promotion string     `json:"promotion,omitempty"`
	Source    string     `json:"source,omitempty"`
	AddedAt   *time.Time `json:"added_dt,omitempty"`
	UpdatedAt *time.Time `json:"date_updated,omitempty"`
	UserID    string     `json:"userid,omitempty"`
}

type NotesPageResponse struct {
	Notes []NoteResponse      `json:"notes"`
	Links map[string]NoteLink `json:"_links"`
}

type UserNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

// ToNoteResponse converts a single note to its client projection.
func ToNoteResponse(note *model.CourseNote) NoteResponse {
	note.NormalizeOwners()

	response := NoteResponse{
		Title:     note.Title,
		Slug:      note.Slug,
		FileHash:  note.FileHash,
		Course:    note.Course,
		Promotion: note.Promotion,
		Source:    note.Source,
		AddedAt:   note.AddedAt,
		UpdatedAt: note.UpdatedAt,
		UserID:    note.UserID,
	}
	if !note.ID.IsZero() {
		response.ID = note.ID.Hex()
	}
	return response
}

// ToNoteResponses never returns nil so empty pages encode as [].
func ToNoteResponses(notes []*model.CourseNote) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}

func NewNotesPageResponse(notes []*model.CourseNote, links map[string]NoteLink) *NotesPageResponse {
	return &NotesPageResponse{
		Notes: ToNoteResponses(notes),
		Links: links,
	}
}
