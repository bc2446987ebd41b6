package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerSeparator joins owner ids in the client-facing userid field.
const OwnerSeparator = ", "

// CourseNote is a note attached to a course for a given promotion. Desc text
// holds the extracted note content and is only ever read by the ask pipeline.
type CourseNote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title     string             `bson:"title,omitempty" json:"title" validate:"required"`
	Slug      string             `bson:"slug,omitempty" json:"slug,omitempty"`
	FileHash  string             `bson:"file_hash,omitempty" json:"file_hash,omitempty"`
	DescText  string             `bson:"desc_text,omitempty" json:"desc_text" validate:"required"`
	Course    string             `bson:"course,omitempty" json:"course" validate:"required"`
	Promotion string             `bson:"promotion,omitempty" json:"promotion" validate:"required"`
	Source    string             `bson:"source,omitempty" json:"source,omitempty"`
	AddedAt   *time.Time         `bson:"added_dt,omitempty" json:"added_dt,omitempty"`
	UpdatedAt *time.Time         `bson:"date_updated,omitempty" json:"date_updated,omitempty"`

	// UserID is the legacy comma-joined owner list. Owners is what gets stored.
	UserID string   `bson:"userid,omitempty" json:"userid,omitempty"`
	Owners []string `bson:"owners,omitempty" json:"-"`
}

// Validate checks required fields.
func (n *CourseNote) Validate() error {
	return ValidateStruct(n)
}

// NormalizeOwners merges the legacy userid string into Owners and rewrites
// UserID from the result, so both always describe the same set. Legacy ids
// predate the owners array and come first.
func (n *CourseNote) NormalizeOwners() {
	n.Owners = MergeOwners(SplitOwners(n.UserID), n.Owners)
	n.UserID = strings.Join(n.Owners, OwnerSeparator)
}

// ToBSON is the storage projection: empty fields and an unset _id are left out,
// and ownership is written as the owners array only.
func (n *CourseNote) ToBSON() (bson.M, error) {
	n.NormalizeOwners()
	doc, err := toBSONMap(n)
	if err != nil {
		return nil, err
	}
	delete(doc, "userid")
	return doc, nil
}

// SplitOwners parses a comma-joined owner list, dropping blanks.
func SplitOwners(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	owners := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			owners = append(owners, p)
		}
	}
	return owners
}

// MergeOwners appends extra to owners, keeping first-seen order and no duplicates.
func MergeOwners(owners []string, extra []string) []string {
	seen := make(map[string]struct{}, len(owners)+len(extra))
	merged := make([]string, 0, len(owners)+len(extra))
	for _, list := range [][]string{owners, extra} {
		for _, id := range list {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
