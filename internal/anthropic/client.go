package anthropic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Beta feature flags needed for code execution with skills and file downloads.
var DefaultBetas = []sdk.AnthropicBeta{
	"code-execution-2025-08-25",
	sdk.AnthropicBetaSkills2025_10_02,
	sdk.AnthropicBetaFilesAPI2025_04_14,
}

// Options configure a Client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Betas   []sdk.AnthropicBeta
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

type implClient struct {
	api   sdk.Client
	betas []sdk.AnthropicBeta
}

// New creates a Client. Requests are never retried automatically.
func New(opts Options) Client {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	} else if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}

	betas := opts.Betas
	if len(betas) == 0 {
		betas = DefaultBetas
	}
	return &implClient{
		api:   sdk.NewClient(reqOpts...),
		betas: betas,
	}
}

// CreateMessage sends one conversation turn with the code execution tool and
// the requested skills mounted in the container.
func (c *implClient) CreateMessage(ctx context.Context, req MessageRequest) (*sdk.BetaMessage, error) {
	msg, err := c.api.Beta.Messages.New(ctx, c.params(req))
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return msg, nil
}

func (c *implClient) params(req MessageRequest) sdk.BetaMessageNewParams {
	container := &sdk.BetaContainerParams{}
	if req.ContainerID != "" {
		container.ID = sdk.String(req.ContainerID)
	}
	for _, s := range req.Skills {
		skill := sdk.BetaSkillParams{
			SkillID: s.SkillID,
			Type:    sdk.BetaSkillParamsType(s.Type),
		}
		if s.Version != "" {
			skill.Version = sdk.String(s.Version)
		}
		container.Skills = append(container.Skills, skill)
	}

	return sdk.BetaMessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  req.Messages,
		Container: sdk.BetaMessageNewParamsContainerUnion{OfContainers: container},
		Tools: []sdk.BetaToolUnionParam{
			{OfCodeExecutionTool20250825: &sdk.BetaCodeExecutionTool20250825Param{}},
		},
		Betas: c.betas,
	}
}

// DownloadFile fetches the bytes of a file produced inside the container.
func (c *implClient) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("download file: empty file id")
	}

	resp, err := c.api.Beta.Files.Download(ctx, fileID, sdk.BetaFileDownloadParams{Betas: c.betas})
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fileID, err)
	}
	return data, nil
}
