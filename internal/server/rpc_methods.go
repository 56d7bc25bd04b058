package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/chexy/chexy/common"
	"github.com/chexy/chexy/internal/history"
	"github.com/chexy/chexy/pkg/logger"
	"github.com/chexy/chexy/pkg/tasklib"
)

// Custom JSON-RPC error codes for task operations.
const (
	codeTaskNotFound  = jrpc2.Code(-32001)
	codeSaveFailed    = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
)

// Ticker triggers a manual scheduler tick. *scheduler.Driver implements it.
type Ticker interface {
	TickNow(ctx context.Context) (ran bool, notified int, err error)
}

// HistoryLister reads the delivery history. *history.Log implements it.
type HistoryLister interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means every request is rejected)
	Version   string
	Commit    string
	BuildType string
}

// RPCServer holds the JSON-RPC method handlers and serves them over HTTP
// POST and WebSocket.
type RPCServer struct {
	methods   handler.Map
	bridge    jhttp.Bridge
	secret    string
	version   string
	commit    string
	buildType string
	store     *tasklib.Store
	ticker    Ticker
	history   HistoryLister
	notifier  *RPCNotifier
	log       logger.Logger
	now       func() time.Time
}

// NewRPCServer creates an RPCServer over store. ticker, hist and notifier
// may be nil; the corresponding methods then fail or push nothing.
func NewRPCServer(cfg *RPCConfig, store *tasklib.Store, ticker Ticker, hist HistoryLister, notifier *RPCNotifier, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		store:     store,
		ticker:    ticker,
		history:   hist,
		notifier:  notifier,
		log:       l,
		now:       time.Now,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"task.add":          handler.New(rs.taskAdd),
		"task.modify":       handler.New(rs.taskModify),
		"task.delete":       handler.New(rs.taskDelete),
		"task.complete":     handler.New(rs.taskComplete),
		"task.star":         handler.New(rs.taskStar),
		"task.get":          handler.New(rs.taskGet),
		"task.list":         handler.New(rs.taskList),
		"history.list":      handler.New(rs.historyList),
		"scheduler.tick":    handler.New(rs.schedulerTick),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Handler returns the HTTP handler serving both RPC endpoints behind token
// authentication.
func (rs *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(common.RPCPath, requireToken(rs.secret, rs.bridge))
	mux.Handle(common.RPCWSPath, requireToken(rs.secret, http.HandlerFunc(rs.serveWS)))
	return mux
}

// toRPCError maps store errors to JSON-RPC errors.
func toRPCError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tasklib.ErrTaskNotFound):
		return &jrpc2.Error{Code: codeTaskNotFound, Message: "task not found"}
	case errors.Is(err, tasklib.ErrSaveFailed):
		return &jrpc2.Error{Code: codeSaveFailed, Message: err.Error() + " (change kept in memory, will retry)"}
	default:
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
}

// withTask attaches t as the error data, so a client whose change was kept
// in memory still learns the task id.
func withTask(err error, t *tasklib.Task) error {
	var rpcErr *jrpc2.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	data, merr := json.Marshal(t)
	if merr != nil {
		return err
	}
	rpcErr.Data = data
	return rpcErr
}

func missingParam(name string) error {
	return &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: " + name}
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResult, error) {
	return &common.VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// taskAdd creates a new task.
func (rs *RPCServer) taskAdd(_ context.Context, p *common.AddParams) (*tasklib.Task, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, missingParam("name")
	}
	if p.CompletionTime.IsZero() {
		return nil, missingParam("completionTime")
	}
	imp := p.Importance
	if imp == "" {
		imp = string(tasklib.ImportanceLow)
	}
	t, err := rs.store.Add(tasklib.NewTask{
		Name:           p.Name,
		Importance:     tasklib.Importance(imp),
		CompletionTime: p.CompletionTime,
		InCharge:       p.InCharge,
		ReminderTime:   p.ReminderTime,
		Recurrence:     p.Recurrence,
	})
	if err != nil {
		if t != nil && errors.Is(err, tasklib.ErrSaveFailed) {
			rs.log.Warning("task.add: task %s kept in memory: %v", t.ID, err)
			return nil, withTask(toRPCError(err), t)
		}
		return nil, toRPCError(err)
	}
	return t, nil
}

// taskModify patches an existing task.
func (rs *RPCServer) taskModify(_ context.Context, p *common.ModifyParams) (*tasklib.Task, error) {
	if p.ID == "" {
		return nil, missingParam("id")
	}
	patch := tasklib.Patch{
		Name:           p.Name,
		CompletionTime: p.CompletionTime,
		InCharge:       p.InCharge,
		ReminderTime:   p.ReminderTime,
		Recurrence:     p.Recurrence,
	}
	if p.Importance != nil {
		imp := tasklib.Importance(*p.Importance)
		patch.Importance = &imp
	}
	t, err := rs.store.Modify(p.ID, patch)
	if err != nil {
		return nil, toRPCError(err)
	}
	return t, nil
}

func (rs *RPCServer) taskDelete(_ context.Context, p *common.IDParams) (*common.EmptyResult, error) {
	if p.ID == "" {
		return nil, missingParam("id")
	}
	if err := rs.store.Delete(p.ID); err != nil {
		return nil, toRPCError(err)
	}
	return &common.EmptyResult{}, nil
}

// taskComplete toggles completion; completing a recurring task returns the
// spawned next occurrence.
func (rs *RPCServer) taskComplete(_ context.Context, p *common.CompleteParams) (*common.CompleteResult, error) {
	if p.ID == "" {
		return nil, missingParam("id")
	}
	t, next, err := rs.store.SetCompleted(p.ID, !p.Undo, rs.now())
	if err != nil {
		return nil, toRPCError(err)
	}
	return &common.CompleteResult{Task: t, Next: next}, nil
}

func (rs *RPCServer) taskStar(_ context.Context, p *common.IDParams) (*tasklib.Task, error) {
	if p.ID == "" {
		return nil, missingParam("id")
	}
	t, err := rs.store.ToggleStar(p.ID)
	if err != nil {
		return nil, toRPCError(err)
	}
	return t, nil
}

func (rs *RPCServer) taskGet(_ context.Context, p *common.IDParams) (*tasklib.Task, error) {
	if p.ID == "" {
		return nil, missingParam("id")
	}
	t, err := rs.store.Get(p.ID)
	if err != nil {
		return nil, toRPCError(err)
	}
	return t, nil
}

// taskList returns the tasks of a view or calendar date, optionally narrowed
// by a keyword.
func (rs *RPCServer) taskList(_ context.Context, p *common.ListParams) (*common.ListResult, error) {
	now := rs.now()
	tasks := rs.store.Tasks()
	if p.Date != "" {
		day, err := time.ParseInLocation(common.ListDateLayout, p.Date, now.Location())
		if err != nil {
			return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid date: " + p.Date}
		}
		tasks = tasklib.OnDate(tasks, day)
	} else {
		v, err := tasklib.ParseView(p.View)
		if err != nil {
			return nil, toRPCError(err)
		}
		tasks = tasklib.Filter(tasks, v, now)
	}
	if p.Search != "" {
		tasks = tasklib.Search(tasks, p.Search)
	}
	return &common.ListResult{Tasks: tasks}, nil
}

func (rs *RPCServer) historyList(ctx context.Context, p *common.HistoryParams) (*common.HistoryResult, error) {
	if rs.history == nil {
		return &common.HistoryResult{Entries: []history.Entry{}}, nil
	}
	entries, err := rs.history.List(ctx, p.Limit)
	if err != nil {
		return nil, err
	}
	return &common.HistoryResult{Entries: entries}, nil
}

// schedulerTick runs a sweep now unless one is in flight.
func (rs *RPCServer) schedulerTick(ctx context.Context) (*common.TickResult, error) {
	if rs.ticker == nil {
		return nil, errors.New("scheduler is not running")
	}
	ran, n, err := rs.ticker.TickNow(ctx)
	res := &common.TickResult{Ran: ran, Notified: n}
	if err != nil {
		res.Error = err.Error()
	}
	return res, nil
}

// Close shuts down the jrpc2 bridge and every WebSocket session.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
	if rs.notifier != nil {
		rs.notifier.StopAll()
	}
}
