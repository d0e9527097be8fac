package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/models"
)

func TestFormatChange(t *testing.T) {
	rec := models.Record{ID: 7, Title: "Call plumber"}
	item := func(holder string) board.Item {
		return board.Item{Record: rec, LeaseHolder: holder, MyConnectionID: "me"}
	}

	tests := []struct {
		name   string
		change board.Change
		want   string
	}{
		{name: "loaded", change: board.Change{Kind: board.ChangeLoaded}, want: "↻ list reloaded"},
		{name: "added", change: board.Change{Kind: board.ChangeAdded, Item: item("")}, want: "+ #7 Call plumber"},
		{name: "added unconfirmed", change: board.Change{Kind: board.ChangeAdded, Item: board.Item{Record: models.Record{Title: "x"}}}, want: ""},
		{name: "updated", change: board.Change{Kind: board.ChangeUpdated, Item: item("")}, want: "~ #7 Call plumber (open)"},
		{name: "removed", change: board.Change{Kind: board.ChangeRemoved, Item: item("")}, want: "- #7 Call plumber"},
		{name: "locked by other", change: board.Change{Kind: board.ChangeLease, Item: item("other")}, want: "🔒 #7 locked"},
		{name: "locked by me", change: board.Change{Kind: board.ChangeLease, Item: item("me")}, want: "🔒 #7 locked by you"},
		{name: "unlocked", change: board.Change{Kind: board.ChangeLease, Item: item("")}, want: "🔓 #7 unlocked"},
		{name: "connected", change: board.Change{Kind: board.ChangeConnection, Connected: true}, want: "● connected"},
		{name: "disconnected", change: board.Change{Kind: board.ChangeConnection}, want: "○ connection lost, reconnecting..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatChange(tt.change))
		})
	}
}

func TestCli_Notify_OnlyWhileWatching(t *testing.T) {
	mockIO, out := newMockIO()
	c := New(mockIO, &BoardMock{}, nil, "")

	c.Notify(board.Change{Kind: board.ChangeConnection, Connected: true})
	assert.Empty(t, out.String())

	c.watching.Store(true)
	c.Notify(board.Change{Kind: board.ChangeConnection, Connected: true})
	assert.Equal(t, "● connected\n", out.String())
}

func TestCli_runWatch(t *testing.T) {
	mockIO, out := newMockIO(
		"",
		"lock 3",
		"done 3",
		"unlock 3",
		"unlock 3",
		"bogus",
		"done",
		"list home",
		"quit",
	)
	var calls []string
	mockBoard := leaseBoard(t, nil, nil, &calls)
	mockBoard.ItemsFunc = func(ctx context.Context) ([]board.Item, error) {
		return sampleItems(), nil
	}
	c := New(mockIO, mockBoard, nil, "")

	// событие сервера во время watch печатается сразу
	acquire := mockBoard.AcquireLeaseFunc
	mockBoard.AcquireLeaseFunc = func(ctx context.Context, id int64) error {
		c.Notify(board.Change{Kind: board.ChangeLease, Item: board.Item{
			Record: models.Record{ID: id}, LeaseHolder: "me", MyConnectionID: "me",
		}})
		return acquire(ctx, id)
	}

	require.NoError(t, c.Run(context.Background(), "watch", nil))

	// done для удерживаемой записи не берет и не снимает блокировку
	assert.Equal(t, []string{"acquire 3", "edit 3", "release 3"}, calls)

	text := out.String()
	assert.Contains(t, text, "Watching for changes")
	assert.Contains(t, text, "🔒 #3 locked by you")
	assert.Contains(t, text, "✓ Record #3 completed")
	assert.Contains(t, text, "🔓 Record #3 unlocked")
	assert.Contains(t, text, "Error: record 3 is not locked by you")
	assert.Contains(t, text, "Error: unknown command: bogus")
	assert.Contains(t, text, "Error: missing record ID")
	assert.Contains(t, text, "Found 1 record(s).")
	assert.False(t, c.watching.Load())
}

func TestCli_runWatch_ReleasesHeldLocksOnEOF(t *testing.T) {
	mockIO, _ := newMockIO("lock 2", "lock 3")
	var calls []string
	mockBoard := leaseBoard(t, nil, nil, &calls)
	mockBoard.ItemsFunc = func(ctx context.Context) ([]board.Item, error) {
		return nil, nil
	}
	c := New(mockIO, mockBoard, nil, "")

	require.NoError(t, c.Run(context.Background(), "watch", nil))

	assert.ElementsMatch(t, []string{"acquire 2", "acquire 3", "release 2", "release 3"}, calls)
}

func TestCli_watchCommand_RemoveForgetsLock(t *testing.T) {
	mockIO, _ := newMockIO()
	var calls []string
	mockBoard := leaseBoard(t, nil, nil, &calls)
	mockBoard.DeleteFunc = func(ctx context.Context, id int64) error { return nil }
	c := New(mockIO, mockBoard, nil, "")

	held := map[int64]bool{5: true}
	quit, err := c.watchCommand(context.Background(), "rm 5", held)
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, held)
}
