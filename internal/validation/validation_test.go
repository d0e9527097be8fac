package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/models"
)

func TestValidateClientName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{name: "valid lowercase", input: "alice", wantErr: false},
		{name: "valid with dash", input: "alice-laptop", wantErr: false},
		{name: "valid with underscore and digits", input: "desk_01", wantErr: false},
		{name: "max length", input: strings.Repeat("a", 32), wantErr: false},
		{name: "empty", input: "", wantErr: true, errMsg: "cannot be empty"},
		{name: "too short", input: "ab", wantErr: true, errMsg: "at least 3"},
		{name: "too long", input: strings.Repeat("a", 33), wantErr: true, errMsg: "must not exceed 32"},
		{name: "with space", input: "alice smith", wantErr: true, errMsg: "can only contain"},
		{name: "with dot", input: "alice.smith", wantErr: true, errMsg: "can only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClientName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateRecord(t *testing.T) {
	tooManyTags := make([]string, MaxTags+1)
	for i := range tooManyTags {
		tooManyTags[i] = strings.Repeat("t", i+1)
	}

	tests := []struct {
		record  models.Record
		target  error
		name    string
		wantErr bool
	}{
		{
			name:   "valid",
			record: models.Record{Title: "Buy milk", Priority: models.PriorityHigh, Tags: []string{"home"}},
		},
		{
			name:    "empty title",
			record:  models.Record{Title: "   "},
			wantErr: true,
			target:  ErrEmptyTitle,
		},
		{
			name:    "title too long",
			record:  models.Record{Title: strings.Repeat("я", MaxTitleLen+1)},
			wantErr: true,
		},
		{
			name:   "title at limit counted in runes",
			record: models.Record{Title: strings.Repeat("я", MaxTitleLen)},
		},
		{
			name:    "invalid priority",
			record:  models.Record{Title: "x", Priority: models.Priority(9)},
			wantErr: true,
			target:  ErrInvalidPriority,
		},
		{
			name:    "too many tags",
			record:  models.Record{Title: "x", Tags: tooManyTags},
			wantErr: true,
		},
		{
			name:    "tag too long",
			record:  models.Record{Title: "x", Tags: []string{strings.Repeat("t", MaxTagLen+1)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(&tt.record)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}
