package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "schemaviz-backend/pkg/errors"
)

var validate = validator.New()

// SelectNodeCommand makes a graph node the current selection
type SelectNodeCommand struct {
	ID string `json:"id" validate:"required"`
}

// Validate validates the command
func (cmd SelectNodeCommand) Validate() error {
	return validateStruct(cmd)
}

// ClearSelectionCommand drops the current selection
type ClearSelectionCommand struct{}

// Validate validates the command
func (cmd ClearSelectionCommand) Validate() error {
	return nil
}

// UpvotePostCommand adds one vote to a post
type UpvotePostCommand struct {
	PostID int32 `json:"post_id" validate:"required,gt=0"`
}

// Validate validates the command
func (cmd UpvotePostCommand) Validate() error {
	return validateStruct(cmd)
}

// validateStruct runs the struct tags and folds failures into one
// validation error.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	fields := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		fields[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError(strings.Join(messages, "; ")).WithDetails(fields)
}
