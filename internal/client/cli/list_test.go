package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/models"
)

func TestCli_runList(t *testing.T) {
	tests := []struct {
		name       string
		loadErr    error
		args       []string
		items      []board.Item
		contains   []string
		notContain []string
		wantErr    string
	}{
		{
			name:     "empty list",
			items:    nil,
			contains: []string{"No records found."},
		},
		{
			name:  "all records",
			items: sampleItems(),
			contains: []string{
				"ID", "STATUS", "TITLE",
				"Write report [work]", "high", "2026-11-01",
				"Buy milk [home]", "done", "locked",
				"Fix bike", "mine",
				"Found 3 record(s).",
			},
		},
		{
			name:       "filtered by tag",
			args:       []string{"HOME"},
			items:      sampleItems(),
			contains:   []string{"Buy milk", "Found 1 record(s)."},
			notContain: []string{"Write report", "Fix bike"},
		},
		{
			name:     "offline shows cached records",
			loadErr:  fmt.Errorf("%w: connection refused", board.ErrOffline),
			items:    sampleItems(),
			contains: []string{"Server unavailable", "read-only", "Write report"},
		},
		{
			name:    "load failure",
			loadErr: errors.New("connection refused"),
			wantErr: "failed to load records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockIO, out := newMockIO()
			mockBoard := &BoardMock{
				LoadFunc: func(ctx context.Context) error { return tt.loadErr },
				ItemsFunc: func(ctx context.Context) ([]board.Item, error) {
					return tt.items, nil
				},
			}
			c := New(mockIO, mockBoard, nil, "")

			err := c.Run(context.Background(), "list", tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Empty(t, mockBoard.ItemsCalls())
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestCli_runList_UnconfirmedRecord(t *testing.T) {
	mockIO, out := newMockIO()
	mockBoard := &BoardMock{
		LoadFunc: func(ctx context.Context) error { return nil },
		ItemsFunc: func(ctx context.Context) ([]board.Item, error) {
			return []board.Item{{Record: models.Record{Title: "Pending"}}}, nil
		},
	}
	c := New(mockIO, mockBoard, nil, "")

	require.NoError(t, c.Run(context.Background(), "list", nil))
	assert.Contains(t, out.String(), "…")
	assert.Contains(t, out.String(), "Pending")
}

func TestTitleCell(t *testing.T) {
	rec := models.Record{Title: "Длинный заголовок записи", Tags: []string{"a"}}

	assert.Equal(t, "Длинный заголовок записи [a]", titleCell(rec, 100))

	short := titleCell(rec, 8)
	assert.Equal(t, "Длинный…", short)
	assert.Len(t, []rune(short), 8)
}

func TestCli_runShow(t *testing.T) {
	items := sampleItems()
	mockIO, out := newMockIO()
	mockBoard := &BoardMock{
		LoadFunc: func(ctx context.Context) error { return nil },
		GetFunc: func(ctx context.Context, id int64) (board.Item, error) {
			for _, it := range items {
				if it.Record.ID == id {
					return it, nil
				}
			}
			return board.Item{}, board.ErrNotFound
		},
	}
	c := New(mockIO, mockBoard, nil, "")

	require.NoError(t, c.Run(context.Background(), "show", []string{"1"}))
	text := out.String()
	assert.Contains(t, text, "=== Record #1 ===")
	assert.Contains(t, text, "Title:    Write report")
	assert.Contains(t, text, "Priority: high")
	assert.Contains(t, text, "Tags:     work")
	assert.Contains(t, text, "Due:      2026-11-01")
	assert.NotContains(t, text, "Lock:")

	require.NoError(t, c.Run(context.Background(), "show", []string{"2"}))
	assert.Contains(t, out.String(), "Lock:     locked")

	err := c.Run(context.Background(), "show", []string{"99"})
	require.ErrorIs(t, err, board.ErrNotFound)
}
