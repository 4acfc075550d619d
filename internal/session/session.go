package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/download"
	"github.com/ytget/videodl/internal/extractor"
	"github.com/ytget/videodl/internal/model"
)

// Job identifiers and sources
const (
	JobIDPrefix = "job-"

	// FinishedJobRetention is how many finished jobs stay queryable
	FinishedJobRetention = 100

	SourceGUI   = "gui"
	SourceCLI   = "cli"
)

// ErrJobNotFound is returned for unknown job ids
var ErrJobNotFound = errors.New("job not found")

// Poster runs f on the foreground loop. The GUI passes fyne.Do; headless
// callers use Inline.
type Poster func(f func())

// Inline runs f on the calling goroutine
func Inline(f func()) { f() }

// Session owns the background work of one window or one CLI invocation.
// Jobs run one at a time because they share the downloader's cancellation
// token.
type Session struct {
	adapter    *extractor.Adapter
	downloader *download.Downloader
	post       Poster
	log        *zap.Logger

	mu       sync.Mutex
	formats  []model.StreamDescriptor
	items    []model.MediaItem
	jobs     map[string]*job
	order    []string
	queue    []string
	active   *job
	retain   int
	onUpdate func(model.DownloadTask)
}

type job struct {
	task     model.DownloadTask
	req      model.DownloadRequest
	strategy download.Strategy
	cancel   context.CancelFunc
	done     func(model.Outcome)
}

// New creates a session. A nil post runs callbacks inline.
func New(adapter *extractor.Adapter, downloader *download.Downloader, post Poster, log *zap.Logger) *Session {
	if post == nil {
		post = Inline
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		adapter:    adapter,
		downloader: downloader,
		post:       post,
		log:        log,
		jobs:       make(map[string]*job),
		retain:     FinishedJobRetention,
	}
}

// SetUpdateCallback sets the callback that receives job snapshots on the
// foreground loop
func (s *Session) SetUpdateCallback(callback func(model.DownloadTask)) {
	s.mu.Lock()
	s.onUpdate = callback
	s.mu.Unlock()
}

// Resolve fetches playlist metadata in the background
func (s *Session) Resolve(ctx context.Context, url string, headers map[string]string, done func(model.ResolutionResult, error)) {
	go func() {
		res, err := s.adapter.ResolveMetadata(ctx, url, headers)
		if err != nil {
			s.log.Warn("resolve failed", zap.String("url", url), zap.Error(err))
		}
		s.post(func() { done(res, err) })
	}()
}

// ListItems lists playlist items in the background and caches the result
func (s *Session) ListItems(ctx context.Context, url string, headers map[string]string, done func([]model.MediaItem, error)) {
	go func() {
		items, err := s.adapter.ListItems(ctx, url, headers)
		if err == nil {
			s.mu.Lock()
			s.items = slices.Clone(items)
			s.mu.Unlock()
		}
		s.post(func() { done(items, err) })
	}()
}

// ListStreams lists the available formats in the background and caches
// the result
func (s *Session) ListStreams(ctx context.Context, url string, headers map[string]string, done func([]model.StreamDescriptor, error)) {
	go func() {
		formats, err := s.adapter.ListStreams(ctx, url, headers)
		if err == nil {
			s.mu.Lock()
			s.formats = slices.Clone(formats)
			s.mu.Unlock()
		}
		s.post(func() { done(formats, err) })
	}()
}

// Formats returns the last format listing
func (s *Session) Formats() []model.StreamDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.formats)
}

// Items returns the last item listing
func (s *Session) Items() []model.MediaItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Download queues req and returns its job record. done, when set, receives
// the outcome on the foreground loop.
func (s *Session) Download(req model.DownloadRequest, source string, done func(model.Outcome)) model.DownloadTask {
	j := &job{
		req:      req,
		strategy: strategyFor(req),
		done:     done,
		task: model.DownloadTask{
			ID:            generateJobID(),
			URL:           req.URL,
			Source:        source,
			Title:         req.Title,
			Status:        model.TaskStatusPending,
			ETASec:        -1,
			PlaylistCount: req.PlaylistCount,
			StartedAt:     time.Now(),
		},
	}

	s.mu.Lock()
	s.jobs[j.task.ID] = j
	s.order = append(s.order, j.task.ID)
	s.queue = append(s.queue, j.task.ID)
	snapshot := j.task
	start := s.active == nil
	s.mu.Unlock()

	s.log.Info("download queued",
		zap.String("job", snapshot.ID),
		zap.String("source", source),
		zap.String("strategy", string(j.strategy)))
	s.notify(snapshot)
	if start {
		go s.runQueue()
	}
	return snapshot
}

// Submit queues a request received from the browser bridge
func (s *Session) Submit(req model.DownloadRequest, source string) (string, error) {
	if req.URL == "" {
		return "", fmt.Errorf("submit: empty url")
	}
	return s.Download(req, source, nil).ID, nil
}

// Cancel stops the running job. Delegated downloads stop cooperatively at
// the next progress tick; remux and raw streams are torn down through
// their context and end as failures.
func (s *Session) Cancel() {
	s.mu.Lock()
	j := s.active
	if j == nil {
		s.mu.Unlock()
		return
	}
	j.task.Status = model.TaskStatusStopping
	snapshot := j.task
	s.downloader.Cancel()
	s.mu.Unlock()

	if j.strategy != download.StrategyDelegated {
		s.log.Warn("tearing down non-cooperative download", zap.String("job", snapshot.ID))
		j.cancel()
	}
	s.notify(snapshot)
}

// CancelJob cancels a queued or running job by id
func (s *Session) CancelJob(id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if s.active == j {
		s.mu.Unlock()
		s.Cancel()
		return nil
	}
	if j.task.Status != model.TaskStatusPending {
		s.mu.Unlock()
		return fmt.Errorf("job is not active: %s", j.task.Status)
	}
	s.queue = slices.DeleteFunc(s.queue, func(q string) bool { return q == id })
	s.finishLocked(j, model.Cancelled())
	snapshot, done := j.task, j.done
	s.mu.Unlock()

	s.notify(snapshot)
	if done != nil {
		s.post(func() { done(model.Cancelled()) })
	}
	return nil
}

// Job returns a snapshot of one job
func (s *Session) Job(id string) (model.DownloadTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.DownloadTask{}, false
	}
	return j.task, true
}

// Jobs returns snapshots of all jobs in submission order
func (s *Session) Jobs() []model.DownloadTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]model.DownloadTask, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.jobs[id].task)
	}
	return tasks
}

// Busy reports whether a job is running
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// runQueue drains the queue one job at a time
func (s *Session) runQueue() {
	for {
		s.mu.Lock()
		if s.active != nil || len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		j := s.jobs[s.queue[0]]
		s.queue = s.queue[1:]
		ctx, cancel := context.WithCancel(context.Background())
		j.cancel = cancel
		j.task.Status = model.TaskStatusDownloading
		j.task.StartedAt = time.Now()
		s.active = j
		snapshot := j.task
		s.mu.Unlock()

		s.notify(snapshot)
		s.run(ctx, j)
		cancel()
	}
}

func (s *Session) run(ctx context.Context, j *job) {
	tracker := download.NewTracker(j.req.PlaylistCount)
	outcome := s.downloader.Download(ctx, j.req, func(e model.ProgressEvent) {
		snap := tracker.Update(e)
		s.mu.Lock()
		applySnapshot(&j.task, snap)
		if e.OutputPath != "" {
			j.task.OutputPath = e.OutputPath
		}
		snapshot := j.task
		s.mu.Unlock()
		s.notify(snapshot)
	})

	s.mu.Lock()
	// a Cancel that raced with the end of Download must not leak into the next job
	s.downloader.Reset()
	s.finishLocked(j, outcome)
	s.active = nil
	snapshot, done := j.task, j.done
	s.mu.Unlock()

	s.log.Info("job finished",
		zap.String("job", snapshot.ID),
		zap.String("status", snapshot.Status.String()),
		zap.String("error", snapshot.LastError))
	s.notify(snapshot)
	if done != nil {
		s.post(func() { done(outcome) })
	}
}

// finishLocked records the outcome. s.mu must be held.
func (s *Session) finishLocked(j *job, o model.Outcome) {
	j.task.Status = model.StatusFor(o)
	j.task.FinishedAt = time.Now()
	switch o.State {
	case model.OutcomeDone:
		j.task.Percent = 100
		j.task.ItemPercent = 100
		if o.OutputPath != "" {
			j.task.OutputPath = o.OutputPath
		}
	case model.OutcomeFailed:
		if o.Err != nil {
			j.task.LastError = o.Err.Error()
		}
	}
	j.task.StatusText = o.Message()
	s.pruneLocked()
}

// pruneLocked forgets the oldest finished jobs past the retention count.
// s.mu must be held.
func (s *Session) pruneLocked() {
	excess := -s.retain
	for _, id := range s.order {
		if s.jobs[id].task.Status.IsFinished() {
			excess++
		}
	}
	if excess <= 0 {
		return
	}
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		if excess == 0 || !s.jobs[id].task.Status.IsFinished() {
			return false
		}
		delete(s.jobs, id)
		excess--
		return true
	})
}

// notify hands a job snapshot to the update callback on the foreground loop
func (s *Session) notify(task model.DownloadTask) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()
	if callback != nil {
		s.post(func() { callback(task) })
	}
}

func applySnapshot(task *model.DownloadTask, snap download.Snapshot) {
	task.Percent = snap.Percent
	task.ItemPercent = snap.ItemPercent
	task.Speed = snap.Speed
	task.PlaylistIndex = snap.Index
	task.PlaylistCount = snap.Count
	task.ETASec = -1
	if snap.ETA > 0 {
		task.ETASec = int(snap.ETA.Seconds())
	}
	task.StatusText = snap.StatusText()
}

func strategyFor(req model.DownloadRequest) download.Strategy {
	if !req.Direct {
		return download.StrategyDelegated
	}
	return download.Classify(req.URL)
}

// generateJobID returns a time-ordered job id
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
