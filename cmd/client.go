package cmd

import (
	"context"
	"time"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/chexycli"
	"github.com/chexy/chexy/pkg/credman/keyring"
	"github.com/chexy/chexy/pkg/tasklib"
)

// requestTimeout bounds a single command's RPC round trip.
const requestTimeout = 10 * time.Second

// taskClient is the part of *chexycli.Client the commands use.
type taskClient interface {
	Add(ctx context.Context, p *common.AddParams) (*tasklib.Task, error)
	Modify(ctx context.Context, p *common.ModifyParams) (*tasklib.Task, error)
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, undo bool) (*common.CompleteResult, error)
	Star(ctx context.Context, id string) (*tasklib.Task, error)
	Get(ctx context.Context, id string) (*tasklib.Task, error)
	List(ctx context.Context, p *common.ListParams) ([]*tasklib.Task, error)
	History(ctx context.Context, limit int) ([]history.Entry, error)
	Tick(ctx context.Context) (*common.TickResult, error)
	Watch(ctx context.Context, fn func(chexycli.Event)) error
	Close() error
}

// connect returns a client to the daemon, starting one when needed.
var connect = func() (taskClient, error) {
	secret, err := keyring.NewTokens(tasklib.ConfigDir, nil).Get()
	if err != nil {
		return nil, err
	}
	c, err := chexycli.New(chexycli.Options{Secret: secret, AutoStart: true})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	c.CheckVersionMismatch(ctx, currentBuildArgs.Version)
	return c, nil
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}
