package bootstrap

import (
	"context"
	"os"
	"sync"

	"triage_server/adapter/in/worker"
	"triage_server/config"
	"triage_server/pkg/logger"

	"github.com/rs/zerolog"
)

// Worker owns the background pool and the inbox poller.
type Worker struct {
	pool   *worker.Pool
	poller *worker.Poller
	deps   *Dependencies
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	zlog   zerolog.Logger
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		return nil, nil, err
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "worker").Logger()

	inboxProcessor := worker.NewInboxProcessor(deps.Engine, deps.JobStore, deps.GmailProvider)
	handler := worker.NewHandler(inboxProcessor)
	pool := worker.NewPool(handler, poolConfig(cfg), zlog)

	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		pool:   pool,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		zlog:   zlog,
	}

	// Poll cycles need a mail provider to fetch from.
	if deps.GmailProvider != nil {
		w.poller = worker.NewPoller(deps.Engine, pool)
	} else {
		logger.Warn("Mail provider not configured, inbox poller disabled")
	}

	return w, cleanup, nil
}

// Start runs the pool and the poller, then blocks until Stop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pool.Start()
	}()

	if w.poller != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.zlog.Info().Msg("Starting inbox poller...")
			w.poller.Run(w.ctx)
		}()
	}

	<-w.ctx.Done()
}

func (w *Worker) Stop() {
	w.cancel()
	w.pool.Stop()
	w.wg.Wait()
}

func (w *Worker) Submit(msg *worker.Message) bool {
	if msg.IsPriority() {
		return w.pool.SubmitPriority(msg)
	}
	return w.pool.Submit(msg)
}

func (w *Worker) SubmitPriority(msg *worker.Message) bool {
	return w.pool.SubmitPriority(msg)
}

func (w *Worker) GetMetrics() worker.PoolMetrics {
	return w.pool.GetMetrics()
}

func (w *Worker) Dependencies() *Dependencies {
	return w.deps
}
