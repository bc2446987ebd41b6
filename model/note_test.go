package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCourseNoteValidate(t *testing.T) {
	tests := []struct {
		name       string
		note       CourseNote
		wantFields []string
	}{
		{
			name: "Complete note",
			note: CourseNote{Title: "A", DescText: "x", Course: "c", Promotion: "p"},
		},
		{
			name:       "Empty note",
			note:       CourseNote{},
			wantFields: []string{"course", "desc_text", "promotion", "title"},
		},
		{
			name:       "Missing desc text",
			note:       CourseNote{Title: "A", Course: "c", Promotion: "p"},
			wantFields: []string{"desc_text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if !reflect.DeepEqual(validationErr.Fields, tt.wantFields) {
				t.Errorf("Expected fields %v, got %v", tt.wantFields, validationErr.Fields)
			}
		})
	}
}

func TestCourseNoteToBSON(t *testing.T) {
	note := &CourseNote{
		Title:     "A",
		DescText:  "x",
		Course:    "c",
		Promotion: "p",
		UserID:    "u1, u2",
	}

	doc, err := note.ToBSON()
	if err != nil {
		t.Fatalf("ToBSON failed: %v", err)
	}

	if _, ok := doc["_id"]; ok {
		t.Error("Expected unset _id to be omitted")
	}
	if _, ok := doc["userid"]; ok {
		t.Error("Expected userid to be replaced by owners")
	}
	if _, ok := doc["slug"]; ok {
		t.Error("Expected empty slug to be omitted")
	}
	if doc["desc_text"] != "x" {
		t.Errorf("Expected desc_text in storage projection, got %v", doc["desc_text"])
	}
	owners, ok := doc["owners"].(primitive.A)
	if !ok || len(owners) != 2 || owners[0] != "u1" || owners[1] != "u2" {
		t.Errorf("Expected owners [u1 u2], got %v", doc["owners"])
	}

	id := primitive.NewObjectID()
	note.ID = id
	doc, err = note.ToBSON()
	if err != nil {
		t.Fatalf("ToBSON failed: %v", err)
	}
	if doc["_id"] != id {
		t.Errorf("Expected _id %v, got %v", id, doc["_id"])
	}
}

func TestCourseNoteJSONHidesOwners(t *testing.T) {
	note := &CourseNote{Title: "A", Owners: []string{"u1"}}
	note.NormalizeOwners()

	data, err := json.Marshal(note)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := fields["owners"]; ok {
		t.Error("Expected owners to stay out of JSON")
	}
	if fields["userid"] != "u1" {
		t.Errorf("Expected userid u1, got %v", fields["userid"])
	}
}

func TestNormalizeOwners(t *testing.T) {
	tests := []struct {
		name       string
		owners     []string
		userID     string
		wantOwners []string
		wantUserID string
	}{
		{"Legacy single id", nil, "u1", []string{"u1"}, "u1"},
		{"Legacy joined list", nil, "u1,u2 ,  u3", []string{"u1", "u2", "u3"}, "u1, u2, u3"},
		{"Legacy ids come before owners", []string{"u2"}, "u1", []string{"u1", "u2"}, "u1, u2"},
		{"Owners and legacy merged", []string{"u1"}, "u2, u1", []string{"u2", "u1"}, "u2, u1"},
		{"Nothing", nil, "", nil, ""},
		{"Blank entries dropped", []string{" ", "u1"}, ", ,", []string{"u1"}, "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := &CourseNote{Owners: tt.owners, UserID: tt.userID}
			note.NormalizeOwners()

			if !reflect.DeepEqual(note.Owners, tt.wantOwners) {
				t.Errorf("Expected owners %v, got %v", tt.wantOwners, note.Owners)
			}
			if note.UserID != tt.wantUserID {
				t.Errorf("Expected userid %q, got %q", tt.wantUserID, note.UserID)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"Valid", User{Phone: "+33 6 12 34 56 78", FullName: "Ada"}, false},
		{"Missing name", User{Phone: "0612345678"}, true},
		{"Bad phone", User{Phone: "call-me", FullName: "Ada"}, true},
		{"Short phone", User{Phone: "123", FullName: "Ada"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserToBSONKeepsSecret(t *testing.T) {
	user := &User{Phone: "0612345678", FullName: "Ada", OTP: "SECRET"}

	doc, err := user.ToBSON()
	if err != nil {
		t.Fatalf("ToBSON failed: %v", err)
	}
	if doc["otp"] != "SECRET" {
		t.Errorf("Expected otp to be stored, got %v", doc["otp"])
	}

	data, _ := json.Marshal(user)
	var fields map[string]interface{}
	_ = json.Unmarshal(data, &fields)
	if _, ok := fields["otp"]; ok {
		t.Error("Expected otp to stay out of JSON")
	}
}
