package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"etudia/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

// ValidationError names every field that is missing or malformed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// ValidateStruct runs the shared validator and converts field errors into a
// ValidationError.
func ValidateStruct(record interface{}) error {
	err := utils.Validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

// toBSONMap marshals through the bson codec so omitempty rules match the
// struct tags. A zero ObjectID is omitted, letting the store assign one.
func toBSONMap(record interface{}) (bson.M, error) {
	data, err := bson.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return doc, nil
}
