package generate

import (
	"context"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nguyentantai21042004/slidecast/internal/anthropic"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/extract"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/observability"
)

const (
	// first tool turn lands at toolTurnPercent; later turns creep toward maxTurnPercent
	toolTurnPercent = 70
	maxTurnPercent  = 90
)

// Deck drives a code-execution conversation until the pptx skill yields a file.
type Deck struct {
	client     anthropic.Client
	model      string
	maxTokens  int
	maxTurns   int
	slideCount int
	skills     []anthropic.Skill
	logger     logger.Logger
}

// NewDeck creates the session driver for the presentation strategy.
func NewDeck(client anthropic.Client, acfg config.AnthropicConfig, gcfg config.GenerationConfig, log logger.Logger) *Deck {
	maxTurns := gcfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 15
	}
	return &Deck{
		client:     client,
		model:      acfg.Model,
		maxTokens:  acfg.MaxTokens,
		maxTurns:   maxTurns,
		slideCount: gcfg.SlideCount,
		skills: []anthropic.Skill{{
			Type:    "anthropic",
			SkillID: acfg.SkillID,
			Version: acfg.SkillVersion,
		}},
		logger: log,
	}
}

// Generate runs the turn loop. Turns are strictly sequential; each response
// decides whether another is issued. The loop never exceeds maxTurns calls.
func (d *Deck) Generate(ctx context.Context, req Request, progress Progress) (Result, error) {
	messages := []sdk.BetaMessageParam{anthropic.UserText(buildPrompt(deckPrompt, req, d.slideCount))}
	containerID := ""

	turns := 1
	resp, err := d.send(ctx, messages, containerID, turns)
	if err != nil {
		return Result{}, err
	}

	fileID, found := "", false
	for turns < d.maxTurns {
		if fileID, found = extract.FileID(resp); found {
			break
		}
		if !anthropic.Continues(resp.StopReason) {
			break
		}

		messages = append(messages, anthropic.AssistantTurn(resp))
		if id := resp.Container.ID; id != "" {
			containerID = id
		}
		report(ctx, progress, turnPercent(turns))

		d.logger.Debug(ctx, "Turn %d stopped with %s, continuing", turns, resp.StopReason)
		turns++
		resp, err = d.send(ctx, messages, containerID, turns)
		if err != nil {
			return Result{}, err
		}
	}

	if !found {
		fileID, found = extract.FileID(resp)
	}
	if !found {
		if anthropic.Continues(resp.StopReason) {
			return Result{Turns: turns}, fmt.Errorf("%w: turn budget of %d exhausted", ErrNoArtifact, d.maxTurns)
		}
		return Result{Turns: turns}, fmt.Errorf("%w: provider stopped with %q after %d turns", ErrNoArtifact, resp.StopReason, turns)
	}

	d.logger.Info(ctx, "File %s produced after %d turns, downloading", fileID, turns)

	ctx, span := observability.StartSpan(ctx, "anthropic.download_file", attribute.String("file_id", fileID))
	data, err := d.client.DownloadFile(ctx, fileID)
	observability.EndSpan(span, err)
	if err != nil {
		return Result{Turns: turns}, fmt.Errorf("download %s: %w", fileID, err)
	}

	return Result{FileID: fileID, Data: data, Turns: turns}, nil
}

func (d *Deck) send(ctx context.Context, messages []sdk.BetaMessageParam, containerID string, turn int) (*sdk.BetaMessage, error) {
	ctx, span := observability.StartSpan(ctx, "anthropic.create_message",
		attribute.Int("turn", turn),
		attribute.String("container", containerID),
	)
	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.model,
		MaxTokens:   d.maxTokens,
		ContainerID: containerID,
		Skills:      d.skills,
		Messages:    messages,
	})
	observability.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("turn %d: %w", turn, err)
	}
	return resp, nil
}

func turnPercent(completedTurns int) int {
	return min(toolTurnPercent+(completedTurns-1)*2, maxTurnPercent)
}

func report(ctx context.Context, progress Progress, percent int) {
	if progress != nil {
		progress(ctx, percent)
	}
}
