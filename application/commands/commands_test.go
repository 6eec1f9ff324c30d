package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "schemaviz-backend/pkg/errors"
)

func TestCommands_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     interface{ Validate() error }
		wantErr bool
	}{
		{name: "select with id", cmd: SelectNodeCommand{ID: "Post"}},
		{name: "select without id", cmd: SelectNodeCommand{}, wantErr: true},
		{name: "clear", cmd: ClearSelectionCommand{}},
		{name: "upvote", cmd: UpvotePostCommand{PostID: 3}},
		{name: "upvote zero id", cmd: UpvotePostCommand{}, wantErr: true},
		{name: "upvote negative id", cmd: UpvotePostCommand{PostID: -2}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestValidateStruct_Details(t *testing.T) {
	err := UpvotePostCommand{PostID: -1}.Validate()

	appErr := apperrors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, "PostID failed on 'gt'", appErr.Message)
		assert.Equal(t, map[string]interface{}{"PostID": "gt"}, appErr.Details)
	}
}
