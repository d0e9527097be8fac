package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
)

// recordFlags поля записи, задаваемые флагами add и edit.
// Пустое значение означает "не менять".
type recordFlags struct {
	title    string
	priority string
	tags     string
	due      string
	undone   bool
}

func newRecordFlagSet(name string, f *recordFlags, withEditOnly bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&f.priority, "priority", "", "priority: low, medium or high")
	fs.StringVar(&f.tags, "tags", "", "comma-separated tags (\"-\" clears tags)")
	fs.StringVar(&f.due, "due", "", "due date YYYY-MM-DD (\"-\" clears due date)")
	if withEditOnly {
		fs.StringVar(&f.title, "title", "", "new title")
		fs.BoolVar(&f.undone, "undone", false, "mark record as not completed")
	}
	return fs
}

// apply переносит заданные флаги в запись
func (f *recordFlags) apply(rec *models.Record) error {
	if f.title != "" {
		rec.Title = strings.TrimSpace(f.title)
	}
	if f.priority != "" {
		p, err := models.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		rec.Priority = p
	}
	switch f.tags {
	case "":
	case "-":
		rec.Tags = nil
	default:
		rec.Tags = models.NormalizeTags(strings.Split(f.tags, ","))
	}
	switch f.due {
	case "":
	case "-":
		rec.DueAt = nil
	default:
		due, err := time.ParseInLocation(dateLayout, f.due, time.Local)
		if err != nil {
			return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", f.due)
		}
		rec.DueAt = &due
	}
	if f.undone {
		rec.Completed = false
	}
	return nil
}

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	rec, err := c.parseAdd(args)
	if err != nil {
		return err
	}

	if err := c.load(ctx); err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if err := c.create(ctx, rec); err != nil {
		return err
	}
	c.persist(ctx)
	return nil
}

// parseAdd собирает новую запись из аргументов add
func (c *Cli) parseAdd(args []string) (models.Record, error) {
	var f recordFlags
	fs := newRecordFlagSet("add", &f, false)
	fs.SetOutput(c.io)
	if err := fs.Parse(args); err != nil {
		return models.Record{}, fmt.Errorf("invalid arguments: %w", err)
	}

	f.title = strings.Join(fs.Args(), " ")
	if strings.TrimSpace(f.title) == "" {
		if c.watching.Load() || !c.io.IsTerminal() {
			return models.Record{}, errors.New("missing title. Usage: add [FLAGS] <title>")
		}
		input, err := c.io.ReadInput("Title: ")
		if err != nil {
			return models.Record{}, fmt.Errorf("failed to read title: %w", err)
		}
		f.title = input
	}

	rec := models.Record{CreatedAt: c.now().UTC()}
	if err := f.apply(&rec); err != nil {
		return models.Record{}, err
	}
	return rec, nil
}

func (c *Cli) create(ctx context.Context, rec models.Record) error {
	created, err := c.board.Create(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}
	c.io.Printf("✓ Record #%d added: %s\n", created.ID, created.Title)
	return nil
}

// persist обновляет локальный кэш; ошибка не прерывает команду
func (c *Cli) persist(ctx context.Context) {
	if err := c.board.Persist(ctx); err != nil {
		c.io.Printf("⚠ Failed to update local cache: %v\n", err)
	}
}
