package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func testLogger() *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	return logger.New(cfg)
}

// fakeJobAPI replays a fixed sequence of job snapshots; the last one repeats.
type fakeJobAPI struct {
	mu          sync.Mutex
	snapshots   []domain.Job
	getErr      error
	result      []byte
	resultErr   error
	cancelJob   *domain.Job
	listJobs    []domain.Job
	created     []domain.CaptureRequest
	getCalls    int
	resultCalls int
}

func (f *fakeJobAPI) CreateJob(ctx context.Context, req domain.CaptureRequest) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return &domain.Job{ID: "job-1", Status: domain.JobStatusQueued, URL: req.URL}, nil
}

func (f *fakeJobAPI) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	i := f.getCalls - 1
	if i >= len(f.snapshots) {
		i = len(f.snapshots) - 1
	}
	job := f.snapshots[i]
	job.ID = jobID
	return &job, nil
}

func (f *fakeJobAPI) GetJobResult(ctx context.Context, jobID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultCalls++
	return f.result, f.resultErr
}

func (f *fakeJobAPI) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return f.listJobs, nil
}

func (f *fakeJobAPI) CancelJob(ctx context.Context, jobID string) (*domain.Job, error) {
	return f.cancelJob, nil
}

func (f *fakeJobAPI) calls() (get, result int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, f.resultCalls
}

// fakeBulkAPI serves a sequence of bulk snapshots and per-item results.
type fakeBulkAPI struct {
	mu          sync.Mutex
	snapshots   []domain.BulkJob
	results     map[string][]byte
	resultErrs  map[string]error
	createCalls int
	getCalls    int
	submitted   *domain.BulkRequest

	inflight    int32
	maxInflight int32
	block       chan struct{} // when set, downloads wait on it
}

func (f *fakeBulkAPI) CreateBulkJob(ctx context.Context, req domain.BulkRequest) (*domain.BulkJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.submitted = &req
	return &domain.BulkJob{ID: "bulk-1", Status: "PROCESSING", TotalJobs: len(req.URLs)}, nil
}

func (f *fakeBulkAPI) GetBulkJob(ctx context.Context, bulkID string) (*domain.BulkJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	i := f.getCalls - 1
	if i >= len(f.snapshots) {
		i = len(f.snapshots) - 1
	}
	snap := f.snapshots[i]
	return &snap, nil
}

func (f *fakeBulkAPI) GetJobResult(ctx context.Context, jobID string) ([]byte, error) {
	n := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		old := atomic.LoadInt32(&f.maxInflight)
		if n <= old || atomic.CompareAndSwapInt32(&f.maxInflight, old, n) {
			break
		}
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.resultErrs[jobID]; err != nil {
		return nil, err
	}
	data, ok := f.results[jobID]
	if !ok {
		return nil, errors.New("no such result")
	}
	return data, nil
}

// fakeCaptureAPI answers Screenshot with fn, called with the 1-based call number.
type fakeCaptureAPI struct {
	calls int32
	fn    func(n int) ([]byte, error)
}

func (f *fakeCaptureAPI) Screenshot(ctx context.Context, req domain.CaptureRequest) ([]byte, error) {
	n := int(atomic.AddInt32(&f.calls, 1))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.fn(n)
}

type fakeDisplay struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (d *fakeDisplay) DisplayBytes(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return d.err
}

// memFiles stores saved files in memory; paths in fail are rejected.
type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	fail  map[string]bool
	order []string
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}, fail: map[string]bool{}}
}

func (m *memFiles) Save(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[path] {
		return &domain.WriteError{Path: path, Err: errors.New("disk full")}
	}
	m.files[path] = data
	m.order = append(m.order, path)
	return nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

type memHistory struct {
	mu      sync.Mutex
	records []domain.CaptureRecord
	err     error
}

func (h *memHistory) Record(ctx context.Context, rec *domain.CaptureRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, *rec)
	return nil
}

type fakeProgress struct {
	mu       sync.Mutex
	sets     []int
	finished bool
}

func (p *fakeProgress) Set(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets = append(p.sets, n)
}

func (p *fakeProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
}
