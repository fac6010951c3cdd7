package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nguyentantai21042004/slidecast/internal/artifact"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/domain"
	"github.com/nguyentantai21042004/slidecast/internal/extract"
	"github.com/nguyentantai21042004/slidecast/internal/generate"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

type fakeTranscriber struct {
	text string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath, _ string) string {
	os.Remove(audioPath)
	return f.text
}

type fakeGenerator struct {
	fn  func(ctx context.Context, req generate.Request, progress generate.Progress) (generate.Result, error)
	mu  sync.Mutex
	got []generate.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req generate.Request, progress generate.Progress) (generate.Result, error) {
	f.mu.Lock()
	f.got = append(f.got, req)
	f.mu.Unlock()
	return f.fn(ctx, req, progress)
}

// recordingStore captures every status a job passes through.
type recordingStore struct {
	*jobs.MemoryStore
	mu      sync.Mutex
	history map[string][]string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: jobs.NewMemoryStore(), history: map[string][]string{}}
}

func (r *recordingStore) record(code string) {
	job, _, _ := r.MemoryStore.Get(context.Background(), code)
	r.mu.Lock()
	r.history[code] = append(r.history[code], fmt.Sprintf("%s/%d", job.Status, job.Percent))
	r.mu.Unlock()
}

func (r *recordingStore) SetStatus(ctx context.Context, code string, s domain.JobStatus, p int) error {
	err := r.MemoryStore.SetStatus(ctx, code, s, p)
	r.record(code)
	return err
}

func (r *recordingStore) SetResult(ctx context.Context, code string, a domain.Artifact) error {
	err := r.MemoryStore.SetResult(ctx, code, a)
	r.record(code)
	return err
}

func (r *recordingStore) SetError(ctx context.Context, code, d string) error {
	err := r.MemoryStore.SetError(ctx, code, d)
	r.record(code)
	return err
}

type fixture struct {
	proc      *implProcessor
	store     *recordingStore
	artifacts *artifact.Local
	gen       *fakeGenerator
	uploads   string
}

func newFixture(t *testing.T, fn func(ctx context.Context, req generate.Request, progress generate.Progress) (generate.Result, error)) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{Uploads: filepath.Join(root, "uploads"), Output: filepath.Join(root, "outputs")},
		Performance: config.PerformanceConfig{
			MaxConcurrent: 2,
			JobTimeout:    time.Minute,
		},
		Generation: config.GenerationConfig{
			DefaultNotes: "No special instructions.",
			NoAudioText:  "No audio recorded.",
		},
	}
	if err := os.MkdirAll(cfg.Paths.Uploads, 0755); err != nil {
		t.Fatal(err)
	}

	artifacts, err := artifact.NewLocal(cfg.Paths.Output)
	if err != nil {
		t.Fatal(err)
	}
	store := newRecordingStore()
	gen := &fakeGenerator{fn: fn}
	proc := New(cfg, store, &fakeTranscriber{text: "lecture about graphs"}, gen, artifacts, logger.Nop()).(*implProcessor)

	return &fixture{proc: proc, store: store, artifacts: artifacts, gen: gen, uploads: cfg.Paths.Uploads}
}

func (f *fixture) job(t *testing.T, code string) domain.Job {
	t.Helper()
	job, ok, err := f.store.Get(context.Background(), code)
	if err != nil || !ok {
		t.Fatalf("job %s: ok=%v err=%v", code, ok, err)
	}
	return job
}

func deckResult(_ context.Context, _ generate.Request, progress generate.Progress) (generate.Result, error) {
	progress(context.Background(), 70)
	return generate.Result{FileID: "file_1", Data: []byte("PK-deck"), Turns: 2}, nil
}

func TestSubmitPresentation(t *testing.T) {
	f := newFixture(t, deckResult)

	audio := filepath.Join(f.uploads, "clip.m4a")
	if err := os.WriteFile(audio, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	code, err := f.proc.Submit(context.Background(), Submission{AudioPath: audio, AudioFormat: "m4a", Notes: "  focus on BFS "})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !jobs.ValidCode(code) {
		t.Fatalf("code = %q, want six digits", code)
	}
	f.proc.Wait()

	job := f.job(t, code)
	if job.Status != domain.JobStatusReady || job.Percent != 100 {
		t.Fatalf("job = %s/%d, want ready/100 (error %q)", job.Status, job.Percent, job.Error)
	}
	if job.Transcript != "lecture about graphs" || job.Notes != "focus on BFS" {
		t.Fatalf("job transcript/notes = %q/%q", job.Transcript, job.Notes)
	}
	want := &domain.Artifact{
		Object:      "presentation_" + code + ".pptx",
		ContentType: artifact.ContentTypePPTX,
		Filename:    "SlideGen_" + code + ".pptx",
	}
	if diff := cmp.Diff(want, job.Artifact); diff != "" {
		t.Fatalf("artifact (-want +got):\n%s", diff)
	}

	rc, _, err := f.artifacts.Open(context.Background(), want.Object)
	if err != nil {
		t.Fatalf("open artifact: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "PK-deck" {
		t.Fatalf("artifact data = %q", data)
	}

	if _, err := os.Stat(audio); !os.IsNotExist(err) {
		t.Fatalf("audio not consumed: %v", err)
	}

	wantHistory := []string{"transcribing/10", "generating/40", "generating/70", "ready/100"}
	if diff := cmp.Diff(wantHistory, f.store.history[code]); diff != "" {
		t.Fatalf("status history (-want +got):\n%s", diff)
	}
}

func TestSubmitUsesTranscriptAndDefaults(t *testing.T) {
	f := newFixture(t, deckResult)

	c1, _ := f.proc.Submit(context.Background(), Submission{Transcript: "typed transcript"})
	c2, _ := f.proc.Submit(context.Background(), Submission{})
	f.proc.Wait()

	byCode := map[string]generate.Request{}
	for _, r := range f.gen.got {
		byCode[r.Code] = r
	}
	if r := byCode[c1]; r.Transcript != "typed transcript" || r.Notes != "No special instructions." {
		t.Fatalf("request 1 = %+v", r)
	}
	if r := byCode[c2]; r.Transcript != "No audio recorded." {
		t.Fatalf("request 2 = %+v", r)
	}
}

func TestSubmitReturnsBeforeGeneration(t *testing.T) {
	release := make(chan struct{})
	f := newFixture(t, func(ctx context.Context, req generate.Request, progress generate.Progress) (generate.Result, error) {
		<-release
		return deckResult(ctx, req, progress)
	})

	code, err := f.proc.Submit(context.Background(), Submission{Transcript: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if job := f.job(t, code); job.Status.Terminal() {
		t.Fatalf("job already %s before generation finished", job.Status)
	}

	close(release)
	f.proc.Wait()
	if job := f.job(t, code); job.Status != domain.JobStatusReady {
		t.Fatalf("status = %s, want ready", job.Status)
	}
}

func TestSubmitSurvivesRequestCancellation(t *testing.T) {
	f := newFixture(t, deckResult)

	ctx, cancel := context.WithCancel(context.Background())
	code, _ := f.proc.Submit(ctx, Submission{Transcript: "x"})
	cancel()
	f.proc.Wait()

	if job := f.job(t, code); job.Status != domain.JobStatusReady {
		t.Fatalf("status = %s (%s), want ready", job.Status, job.Error)
	}
}

func TestJobFailures(t *testing.T) {
	tests := []struct {
		name       string
		fn         func(ctx context.Context, req generate.Request, progress generate.Progress) (generate.Result, error)
		wantDetail string
	}{
		{
			name: "no artifact",
			fn: func(context.Context, generate.Request, generate.Progress) (generate.Result, error) {
				return generate.Result{Turns: 15}, fmt.Errorf("%w: turn budget of 15 exhausted", generate.ErrNoArtifact)
			},
			wantDetail: "turn budget of 15 exhausted",
		},
		{
			name: "transport error",
			fn: func(context.Context, generate.Request, generate.Progress) (generate.Result, error) {
				return generate.Result{}, errors.New("turn 1: connection refused")
			},
			wantDetail: "connection refused",
		},
		{
			name: "malformed slide reply",
			fn: func(context.Context, generate.Request, generate.Progress) (generate.Result, error) {
				return generate.Result{Turns: 1}, fmt.Errorf("parse slides: %w: unbalanced braces", extract.ErrMalformedSlides)
			},
			wantDetail: "malformed slide JSON: unbalanced braces",
		},
		{
			name: "panic",
			fn: func(context.Context, generate.Request, generate.Progress) (generate.Result, error) {
				panic("nil map")
			},
			wantDetail: "internal error: nil map",
		},
		{
			name: "empty result",
			fn: func(context.Context, generate.Request, generate.Progress) (generate.Result, error) {
				return generate.Result{}, nil
			},
			wantDetail: "no content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.fn)
			code, err := f.proc.Submit(context.Background(), Submission{Transcript: "x"})
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			f.proc.Wait()

			job := f.job(t, code)
			if job.Status != domain.JobStatusError {
				t.Fatalf("status = %s, want error", job.Status)
			}
			if !strings.Contains(job.Error, tt.wantDetail) {
				t.Fatalf("error = %q, want it to mention %q", job.Error, tt.wantDetail)
			}
			if job.Artifact != nil {
				t.Fatalf("artifact = %+v, want none", job.Artifact)
			}
		})
	}
}

func TestJobTimeout(t *testing.T) {
	f := newFixture(t, func(ctx context.Context, _ generate.Request, _ generate.Progress) (generate.Result, error) {
		<-ctx.Done()
		return generate.Result{}, ctx.Err()
	})
	f.proc.cfg.Performance.JobTimeout = 20 * time.Millisecond

	code, _ := f.proc.Submit(context.Background(), Submission{Transcript: "x"})
	f.proc.Wait()

	job := f.job(t, code)
	if job.Status != domain.JobStatusError || !strings.HasPrefix(job.Error, "timed out") {
		t.Fatalf("job = %s %q, want timed out error", job.Status, job.Error)
	}
}

func TestSubmitSlides(t *testing.T) {
	pres := &domain.Presentation{Slides: []domain.Slide{{Title: "A", Bullets: []string{"x", "y"}, Notes: "n"}}}
	f := newFixture(t, func(context.Context, generate.Request, generate.Progress) (generate.Result, error) {
		return generate.Result{Presentation: pres, Turns: 1}, nil
	})

	code, _ := f.proc.Submit(context.Background(), Submission{Transcript: "x"})
	f.proc.Wait()

	job := f.job(t, code)
	if job.Status != domain.JobStatusReady {
		t.Fatalf("status = %s (%s)", job.Status, job.Error)
	}
	if job.Artifact.Object != "" {
		t.Fatalf("slides job must not carry a file object: %+v", job.Artifact)
	}
	if diff := cmp.Diff(pres, job.Artifact.Presentation); diff != "" {
		t.Fatalf("presentation (-want +got):\n%s", diff)
	}
	if job.Artifact.Handout != artifact.HandoutName(code) {
		t.Fatalf("handout = %q", job.Artifact.Handout)
	}
	rc, _, err := f.artifacts.Open(context.Background(), job.Artifact.Handout)
	if err != nil {
		t.Fatalf("handout not stored: %v", err)
	}
	rc.Close()
}

func TestAllocateCodeAvoidsLiveJobs(t *testing.T) {
	f := newFixture(t, deckResult)
	_ = f.store.Create(context.Background(), "111111", "")

	draws := []string{"111111", "111111", "222222"}
	f.proc.newCode = func() (string, error) {
		c := draws[0]
		draws = draws[1:]
		return c, nil
	}

	code, err := f.proc.allocateCode(context.Background())
	if err != nil || code != "222222" {
		t.Fatalf("allocateCode = %q, %v; want 222222", code, err)
	}
}

func TestAllocateCodeAcceptsCollisionEventually(t *testing.T) {
	f := newFixture(t, deckResult)
	_ = f.store.Create(context.Background(), "111111", "")
	f.proc.newCode = func() (string, error) { return "111111", nil }

	code, err := f.proc.allocateCode(context.Background())
	if err != nil || code != "111111" {
		t.Fatalf("allocateCode = %q, %v", code, err)
	}
}

func TestIngest(t *testing.T) {
	f := newFixture(t, deckResult)

	inbox := t.TempDir()
	src := filepath.Join(inbox, "Lecture 3.M4A")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := f.proc.Ingest(context.Background(), src); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	f.proc.Wait()

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("inbox file still present: %v", err)
	}
	if len(f.gen.got) != 1 || f.gen.got[0].Transcript != "lecture about graphs" {
		t.Fatalf("generator requests = %+v", f.gen.got)
	}
	entries, _ := os.ReadDir(f.uploads)
	if len(entries) != 0 {
		t.Fatalf("uploads not consumed: %d entries", len(entries))
	}
}
