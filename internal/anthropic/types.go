package anthropic

import (
	"bytes"
	"encoding/json"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

type Skill struct {
	Type    string
	SkillID string
	Version string
}

// MessageRequest is one conversation turn. ContainerID reuses the execution
// container returned by an earlier turn; Skills are attached either way.
type MessageRequest struct {
	Model       string
	MaxTokens   int
	ContainerID string
	Skills      []Skill
	Messages    []sdk.BetaMessageParam
}

// UserText builds a plain-text user message.
func UserText(text string) sdk.BetaMessageParam {
	return sdk.NewBetaUserMessage(sdk.NewBetaTextBlock(text))
}

// AssistantTurn returns the turn's content as an assistant message, byte for
// byte as the provider sent it, so server tool blocks survive resubmission.
func AssistantTurn(msg *sdk.BetaMessage) sdk.BetaMessageParam {
	content := rawContent(msg)
	if content == "" || content == "null" {
		content = "[]"
	}
	body, _ := json.Marshal(struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}{Role: string(sdk.BetaMessageParamRoleAssistant), Content: json.RawMessage(content)})
	return param.Override[sdk.BetaMessageParam](json.RawMessage(body))
}

// Continues reports whether the provider expects the conversation to be resubmitted.
func Continues(reason sdk.BetaStopReason) bool {
	return reason == sdk.BetaStopReasonToolUse || reason == sdk.BetaStopReasonPauseTurn
}

// Blocks decodes the turn's content into tagged blocks, including tool result
// shapes the typed union does not model.
func Blocks(msg *sdk.BetaMessage) ([]ContentBlock, error) {
	if msg == nil {
		return nil, nil
	}
	blocks, err := decodeChildren(json.RawMessage(rawContent(msg)))
	if err != nil {
		return nil, fmt.Errorf("decode message content: %w", err)
	}
	return blocks, nil
}

func rawContent(msg *sdk.BetaMessage) string {
	if msg == nil {
		return ""
	}
	if raw := msg.JSON.Content.Raw(); raw != "" {
		return raw
	}

	var parts [][]byte
	for _, b := range msg.Content {
		if raw := b.RawJSON(); raw != "" {
			parts = append(parts, []byte(raw))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + string(bytes.Join(parts, []byte(","))) + "]"
}

// ContentBlock is a tagged variant discriminated by Type. Tool result blocks
// carry nested blocks in their "content" field, which the provider sends as
// either a single object or an array; both decode into Children.
type ContentBlock struct {
	Type      string         `json:"type"`
	Text      string         `json:"text,omitempty"`
	ID        string         `json:"id,omitempty"`
	Name      string         `json:"name,omitempty"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
	FileID    string         `json:"file_id,omitempty"`
	ErrorCode string         `json:"error_code,omitempty"`
	Children  []ContentBlock `json:"-"`
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	type plain ContentBlock
	var aux struct {
		plain
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*b = ContentBlock(aux.plain)

	children, err := decodeChildren(aux.Content)
	if err != nil {
		return fmt.Errorf("decode %s content: %w", b.Type, err)
	}
	b.Children = children
	return nil
}

func decodeChildren(raw json.RawMessage) ([]ContentBlock, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var list []ContentBlock
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	case '{':
		var one ContentBlock
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, err
		}
		return []ContentBlock{one}, nil
	default:
		// strings and nulls carry no nested blocks
		return nil, nil
	}
}
