package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/nguyentantai21042004/slidecast/internal/artifact"
	"github.com/nguyentantai21042004/slidecast/internal/domain"
	"github.com/nguyentantai21042004/slidecast/internal/generate"
	"github.com/nguyentantai21042004/slidecast/internal/handout"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/observability"
)

// Progress checkpoints reported to pollers.
const (
	percentTranscribing = 10
	percentGenerating   = 40
)

// codeAttempts is how many draws Submit makes to avoid a live join code
// before accepting a collision.
const codeAttempts = 5

// Submit allocates a join code, records the job and starts it in the background.
func (p *implProcessor) Submit(ctx context.Context, sub Submission) (string, error) {
	code, err := p.allocateCode(ctx)
	if err != nil {
		return "", err
	}

	notes := strings.TrimSpace(sub.Notes)
	if notes == "" {
		notes = p.cfg.Generation.DefaultNotes
	}
	sub.Notes = notes

	if err := p.store.Create(ctx, code, notes); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	// The job outlives the request that submitted it.
	jobCtx := logger.WithJob(context.WithoutCancel(ctx), code)

	p.wg.Add(1)
	go p.run(jobCtx, code, sub)

	p.logger.Info(jobCtx, "Job submitted (audio=%t, queued=%d)", sub.AudioPath != "", p.sem.queued())
	return code, nil
}

// Wait blocks until every submitted job has finished.
func (p *implProcessor) Wait() {
	p.wg.Wait()
}

func (p *implProcessor) allocateCode(ctx context.Context) (string, error) {
	var code string
	for i := 0; i < codeAttempts; i++ {
		c, err := p.newCode()
		if err != nil {
			return "", err
		}
		code = c
		if _, taken, err := p.store.Get(ctx, code); err != nil || !taken {
			return code, nil
		}
	}
	p.logger.Warn(ctx, "Join code %s collides with a live job, overwriting", code)
	return code, nil
}

// run is the job's error boundary: every failure, panic included, ends up in the record.
func (p *implProcessor) run(ctx context.Context, code string, sub Submission) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "Job panicked: %v\n%s", r, debug.Stack())
			p.fail(ctx, code, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := p.sem.acquire(ctx); err != nil {
		p.fail(ctx, code, fmt.Sprintf("not started: %v", err))
		return
	}
	defer p.sem.release()

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Performance.JobTimeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, "job", observability.JobCode(code))
	startTime := time.Now()
	err := p.process(ctx, code, sub)
	observability.EndSpan(span, err)

	if err != nil {
		p.logger.Error(ctx, "Job failed after %s: %v", time.Since(startTime).Round(time.Millisecond), err)
		p.fail(ctx, code, describe(err))
		return
	}
	p.logger.Info(ctx, "Job ready in %s", time.Since(startTime).Round(time.Millisecond))
}

// process runs transcribe, generate and persist for one job.
func (p *implProcessor) process(ctx context.Context, code string, sub Submission) error {
	p.setStatus(ctx, code, domain.JobStatusTranscribing, percentTranscribing)

	transcript := p.transcript(ctx, sub)
	if err := p.store.SetTranscript(ctx, code, transcript); err != nil {
		p.logger.Warn(ctx, "Failed to record transcript: %v", err)
	}

	p.setStatus(ctx, code, domain.JobStatusGenerating, percentGenerating)
	p.logger.Info(ctx, "Generating with %d transcript characters", len(transcript))

	progress := func(ctx context.Context, percent int) {
		p.setStatus(ctx, code, domain.JobStatusGenerating, percent)
	}
	result, err := p.generator.Generate(ctx, generate.Request{
		Code:       code,
		Transcript: transcript,
		Notes:      sub.Notes,
	}, progress)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	art, err := p.persist(ctx, code, result)
	if err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	if err := p.store.SetResult(ctx, code, art); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	return nil
}

func (p *implProcessor) transcript(ctx context.Context, sub Submission) string {
	switch {
	case sub.AudioPath != "":
		p.logger.Info(ctx, "Transcribing %s", sub.AudioPath)
		return p.transcriber.Transcribe(ctx, sub.AudioPath, sub.AudioFormat)
	case strings.TrimSpace(sub.Transcript) != "":
		return strings.TrimSpace(sub.Transcript)
	default:
		return p.cfg.Generation.NoAudioText
	}
}

// persist commits the generated output. Decks go to the artifact store;
// slide lists stay in the record, with a best-effort handout stored beside them.
func (p *implProcessor) persist(ctx context.Context, code string, result generate.Result) (domain.Artifact, error) {
	if result.Presentation != nil {
		art := domain.Artifact{Presentation: result.Presentation}

		data, err := handout.Render("Lecture "+code, *result.Presentation)
		if err == nil {
			err = p.put(ctx, artifact.HandoutName(code), artifact.ContentTypeDOCX, data)
		}
		if err != nil {
			p.logger.Warn(ctx, "Handout not stored: %v", err)
		} else {
			art.Handout = artifact.HandoutName(code)
		}
		return art, nil
	}

	if len(result.Data) == 0 {
		return domain.Artifact{}, fmt.Errorf("generator returned no content")
	}

	name := artifact.PresentationName(code)
	if err := p.put(ctx, name, artifact.ContentTypePPTX, result.Data); err != nil {
		return domain.Artifact{}, err
	}
	p.logger.Info(ctx, "Stored %s (%d bytes)", name, len(result.Data))

	return domain.Artifact{
		Object:      name,
		ContentType: artifact.ContentTypePPTX,
		Filename:    "SlideGen_" + code + ".pptx",
	}, nil
}

func (p *implProcessor) put(ctx context.Context, name, contentType string, data []byte) error {
	ctx, span := observability.StartSpan(ctx, "artifact.put")
	err := p.artifacts.Put(ctx, name, contentType, data)
	observability.EndSpan(span, err)
	return err
}

func (p *implProcessor) setStatus(ctx context.Context, code string, status domain.JobStatus, percent int) {
	if err := p.store.SetStatus(ctx, code, status, percent); err != nil {
		p.logger.Warn(ctx, "Status update %s/%d rejected: %v", status, percent, err)
	}
}

func (p *implProcessor) fail(ctx context.Context, code, detail string) {
	if err := p.store.SetError(ctx, code, detail); err != nil && !errors.Is(err, jobs.ErrInvalidTransition) {
		p.logger.Error(ctx, "Failed to record job error: %v", err)
	}
}

// describe turns a job error into the detail shown to pollers.
func describe(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out: " + err.Error()
	default:
		return err.Error()
	}
}
