package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"credit-approval-service/internal/infrastructure/cache"
	"credit-approval-service/internal/metrics"
	"credit-approval-service/internal/usecase/ingest"
	"credit-approval-service/pkg/id"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var ErrJobNotFound = errors.New("ingest job not found")

const (
	StateQueued  = "queued"
	StateRunning = "running"
	StateDone    = "done"
	StateFailed  = "failed"

	statusTTL   = 24 * time.Hour
	popTimeout  = 2 * time.Second
	statusKeyNS = "ingest:job:"
)

// Processor runs one ingestion over a directory.
type Processor interface {
	ProcessDir(ctx context.Context, dir string) []ingest.Report
}

type ProcessorFunc func(ctx context.Context, dir string) []ingest.Report

func (f ProcessorFunc) ProcessDir(ctx context.Context, dir string) []ingest.Report { return f(ctx, dir) }

type Job struct {
	ID  string `json:"job_id"`
	Dir string `json:"dir"`
}

type Status struct {
	JobID     string          `json:"job_id"`
	State     string          `json:"state"`
	Dir       string          `json:"dir"`
	Reports   []ingest.Report `json:"reports,omitempty"`
	Error     string          `json:"error,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Queue schedules ingestion jobs on a Redis list. Any process sharing the Redis can
// enqueue; Run drains the list.
type Queue struct {
	rdb        *redis.Client
	key        string
	defaultDir string
	proc       Processor
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func NewQueue(rdb *redis.Client, key, defaultDir string, proc Processor, m *metrics.Metrics, log *slog.Logger) *Queue {
	if log == nil {
		log = slog.Default()
	}
	return &Queue{rdb: rdb, key: key, defaultDir: defaultDir, proc: proc, metrics: m, log: log}
}

// Enqueue schedules an ingestion of dir, or of the default directory when dir is empty.
func (q *Queue) Enqueue(ctx context.Context, dir string) (Status, error) {
	if dir == "" {
		dir = q.defaultDir
	}
	job := Job{ID: id.NewJobID(), Dir: dir}
	st := Status{JobID: job.ID, State: StateQueued, Dir: dir, UpdatedAt: time.Now().UTC()}

	// status first, so a fast worker never finds the job without one
	if err := q.saveStatus(ctx, st); err != nil {
		return Status{}, err
	}
	b, err := json.Marshal(job)
	if err != nil {
		return Status{}, err
	}
	if err := q.rdb.RPush(ctx, q.key, b).Err(); err != nil {
		return Status{}, err
	}
	q.log.InfoContext(ctx, "ingest job queued", "job_id", job.ID, "dir", dir)
	return st, nil
}

func (q *Queue) Status(ctx context.Context, jobID string) (Status, error) {
	var st Status
	err := cache.GetJSON(ctx, q.rdb, statusKeyNS+jobID, &st)
	if errors.Is(err, cache.ErrMiss) {
		return Status{}, ErrJobNotFound
	}
	return st, err
}

// Run starts n workers and blocks until ctx is cancelled or a worker fails on Redis.
func (q *Queue) Run(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		worker := i
		g.Go(func() error { return q.loop(ctx, worker) })
	}
	return g.Wait()
}

func (q *Queue) loop(ctx context.Context, worker int) error {
	for {
		res, err := q.rdb.BLPop(ctx, popTimeout, q.key).Result()
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			q.log.ErrorContext(ctx, "ingest queue pop", "worker", worker, "err", err)
			return err
		}
		// res is [key, value]
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.log.WarnContext(ctx, "dropping malformed ingest job", "payload", res[1], "err", err)
			continue
		}
		q.process(ctx, job)
	}
}

func (q *Queue) process(ctx context.Context, job Job) {
	st := Status{JobID: job.ID, State: StateRunning, Dir: job.Dir, UpdatedAt: time.Now().UTC()}
	if err := q.saveStatus(ctx, st); err != nil {
		q.log.WarnContext(ctx, "ingest job status", "job_id", job.ID, "err", err)
	}

	st.Reports = q.proc.ProcessDir(ctx, job.Dir)
	st.State = StateDone
	if err := ctx.Err(); err != nil {
		st.State = StateFailed
		st.Error = err.Error()
	}
	st.UpdatedAt = time.Now().UTC()
	q.metrics.IncrementIngestJob(st.State)

	// the job context may be cancelled already; the final status must still land
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := q.saveStatus(saveCtx, st); err != nil {
		q.log.WarnContext(ctx, "ingest job status", "job_id", job.ID, "err", err)
	}
	q.log.InfoContext(ctx, "ingest job finished", "job_id", job.ID, "state", st.State)
}

func (q *Queue) saveStatus(ctx context.Context, st Status) error {
	return cache.SetJSON(ctx, q.rdb, statusKeyNS+st.JobID, st, statusTTL)
}
