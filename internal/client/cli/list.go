package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/iudanet/gophtodo/internal/client/board"
	"github.com/iudanet/gophtodo/internal/models"
)

// minTitleWidth минимальная ширина колонки заголовка
const minTitleWidth = 16

func (c *Cli) runList(ctx context.Context, args []string) error {
	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	return c.list(ctx, args)
}

// list печатает текущий список доски; первый аргумент фильтрует по тегу
func (c *Cli) list(ctx context.Context, args []string) error {
	items, err := c.board.Items(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if len(args) > 0 {
		tag := models.NormalizeTag(args[0])
		filtered := items[:0]
		for _, it := range items {
			if it.Record.HasTag(tag) {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	return c.printItems(items)
}

func (c *Cli) printItems(items []board.Item) error {
	if len(items) == 0 {
		c.io.Println("No records found.")
		c.io.Println()
		c.io.Println("Use 'gophtodo add <title>' to add your first record.")
		return nil
	}

	titleWidth := max(c.io.Width()-48, minTitleWidth)

	tw := tabwriter.NewWriter(c.io, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tLOCK\tTITLE")
	for _, it := range items {
		rec := it.Record
		due := "-"
		if rec.DueAt != nil {
			due = rec.DueAt.Local().Format(dateLayout)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			formatID(rec), statusLabel(rec), rec.Priority, due, lockMark(it), titleCell(rec, titleWidth))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to print records: %w", err)
	}

	c.io.Println()
	c.io.Printf("Found %d record(s).\n", len(items))
	return nil
}

func (c *Cli) runShow(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return err
	}
	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	return c.show(ctx, id)
}

func (c *Cli) show(ctx context.Context, id int64) error {
	it, err := c.board.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get record %d: %w", id, err)
	}

	var sb strings.Builder
	if err := recordTmpl.Execute(&sb, it); err != nil {
		return fmt.Errorf("failed to render record: %w", err)
	}
	c.io.Println(sb.String())
	return nil
}

func formatID(rec models.Record) string {
	if !rec.IsConfirmed() {
		return "…"
	}
	return fmt.Sprintf("%d", rec.ID)
}

func statusLabel(rec models.Record) string {
	if rec.Completed {
		return "done"
	}
	return "open"
}

func lockMark(it board.Item) string {
	switch it.LockState() {
	case board.LockedByMe:
		return "mine"
	case board.LockedByOther:
		return "locked"
	default:
		return ""
	}
}

func titleCell(rec models.Record, width int) string {
	t := rec.Title
	if len(rec.Tags) > 0 {
		t += " [" + strings.Join(rec.Tags, ", ") + "]"
	}
	runes := []rune(t)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return t
}
