package chexycli

import (
	"context"
	"errors"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/tasklib"
)

// Version returns the daemon build information.
func (c *Client) Version(ctx context.Context) (*common.VersionResult, error) {
	var res common.VersionResult
	if err := c.call(ctx, "system.getVersion", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Add creates a task. When the daemon kept the task but could not save it,
// the task is returned together with an error wrapping ErrSaveFailed.
func (c *Client) Add(ctx context.Context, p *common.AddParams) (*tasklib.Task, error) {
	var t tasklib.Task
	if err := c.call(ctx, "task.add", p, &t); err != nil {
		if errors.Is(err, ErrSaveFailed) && t.ID != "" {
			return &t, err
		}
		return nil, err
	}
	return &t, nil
}

// Modify patches the task p.ID.
func (c *Client) Modify(ctx context.Context, p *common.ModifyParams) (*tasklib.Task, error) {
	var t tasklib.Task
	if err := c.call(ctx, "task.modify", p, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.call(ctx, "task.delete", &common.IDParams{ID: id}, &common.EmptyResult{})
}

// Complete marks a task done, or not done when undo is set. For recurring
// tasks the result carries the next occurrence.
func (c *Client) Complete(ctx context.Context, id string, undo bool) (*common.CompleteResult, error) {
	var res common.CompleteResult
	if err := c.call(ctx, "task.complete", &common.CompleteParams{ID: id, Undo: undo}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Star toggles the starred flag.
func (c *Client) Star(ctx context.Context, id string) (*tasklib.Task, error) {
	var t tasklib.Task
	if err := c.call(ctx, "task.star", &common.IDParams{ID: id}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Get fetches one task.
func (c *Client) Get(ctx context.Context, id string) (*tasklib.Task, error) {
	var t tasklib.Task
	if err := c.call(ctx, "task.get", &common.IDParams{ID: id}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns the tasks matching p.
func (c *Client) List(ctx context.Context, p *common.ListParams) ([]*tasklib.Task, error) {
	var res common.ListResult
	if err := c.call(ctx, "task.list", p, &res); err != nil {
		return nil, err
	}
	return res.Tasks, nil
}

// History returns up to limit delivery records, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]history.Entry, error) {
	var res common.HistoryResult
	if err := c.call(ctx, "history.list", &common.HistoryParams{Limit: limit}, &res); err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// Tick asks the daemon to sweep for due tasks now.
func (c *Client) Tick(ctx context.Context) (*common.TickResult, error) {
	var res common.TickResult
	if err := c.call(ctx, "scheduler.tick", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
