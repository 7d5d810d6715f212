package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/filex"
	"github.com/dmitrijs2005/gophtodo/internal/netx"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
)

var errUnknownTask = errors.New("no such task, run 'list' to see task numbers")

// show replaces the current view and prints it.
func (a *App) show(v tasklist.View) {
	a.view = v
	renderView(a.out, v, a.loc)
}

func (a *App) List(ctx context.Context) error {
	v, err := a.taskService.View(ctx)
	if err != nil {
		return a.checkSession(ctx, err)
	}
	a.show(v)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	text, err := getSimpleText(a.reader, "Task", a.out)
	if err != nil {
		return err
	}

	d, _, err := readDeadline(a.reader, a.out, a.loc, false)
	if err != nil {
		return err
	}

	v, err := a.taskService.Add(ctx, text, d)
	if err != nil {
		return a.checkSession(ctx, err)
	}
	fmt.Fprintln(a.out, "Todo created successfully!")
	a.show(v)
	return nil
}

func (a *App) Edit(ctx context.Context, ref string) error {
	item, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}

	text, err := getSimpleText(a.reader, fmt.Sprintf("New text (empty to keep %q)", item.Text), a.out)
	if err != nil {
		return err
	}

	d, clear, err := readDeadline(a.reader, a.out, a.loc, true)
	if err != nil {
		return err
	}

	upd := client.TaskUpdate{Deadline: d, ClearDeadline: clear}
	if text != "" {
		upd.Text = &text
	}

	v, err := a.taskService.Edit(ctx, item.ID, upd)
	if err != nil {
		return a.checkSession(ctx, err)
	}
	fmt.Fprintln(a.out, "Todo updated successfully!")
	a.show(v)
	return nil
}

func (a *App) Toggle(ctx context.Context, ref string) error {
	item, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}

	v, err := a.taskService.Toggle(ctx, item.ID)
	if err != nil {
		return a.checkSession(ctx, err)
	}
	a.show(v)
	return nil
}

func (a *App) Delete(ctx context.Context, ref string) error {
	item, err := a.resolve(ctx, ref)
	if err != nil {
		return err
	}

	v, err := a.taskService.Delete(ctx, item.ID)
	if err != nil {
		return a.checkSession(ctx, err)
	}
	fmt.Fprintln(a.out, "Todo deleted successfully!")
	a.show(v)
	return nil
}

// Export uploads a snapshot and prints its link. With a non-empty path the
// snapshot is also downloaded and saved there.
func (a *App) Export(ctx context.Context, path string) error {
	exp, err := a.taskService.Export(ctx)
	if err != nil {
		return a.checkSession(ctx, err)
	}

	fmt.Fprintf(a.out, "Exported %d tasks to %s\n", exp.Count, exp.Key)
	fmt.Fprintf(a.out, "Download (valid until %s):\n%s\n", exp.ExpiresAt.In(a.loc).Format(timeLayout), exp.URL)

	if path == "" {
		return nil
	}

	data, err := netx.DownloadPresignedURL(ctx, nil, exp.URL)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	if err := filex.WriteFile(path, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", len(data), path)
	return nil
}

// resolve finds the task a command refers to: its number in the current
// view, or its id. An empty ref is asked for.
func (a *App) resolve(ctx context.Context, ref string) (tasklist.Item, error) {
	if ref == "" {
		var err error
		if ref, err = getSimpleText(a.reader, "Enter task number", a.out); err != nil {
			return tasklist.Item{}, err
		}
	}

	if a.view.Len() == 0 {
		v, err := a.taskService.View(ctx)
		if err != nil {
			return tasklist.Item{}, a.checkSession(ctx, err)
		}
		a.view = v
	}

	if n, err := strconv.Atoi(ref); err == nil {
		items := numbered(a.view)
		if n >= 1 && n <= len(items) {
			return items[n-1], nil
		}
		return tasklist.Item{}, errUnknownTask
	}

	if it, ok := a.view.Find(ref); ok {
		return it, nil
	}
	return tasklist.Item{}, errUnknownTask
}
