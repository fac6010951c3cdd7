package extract

import (
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/nguyentantai21042004/slidecast/internal/anthropic"
)

// maxDepth bounds how far below the top-level content the matcher descends.
const maxDepth = 6

// FileID returns the first file identifier nested under a tool result block
// of msg. Tool results may sit at any level; blocks are visited in order and
// depth-first, so the first match in insertion order wins.
func FileID(msg *sdk.BetaMessage) (string, bool) {
	blocks, err := anthropic.Blocks(msg)
	if err != nil {
		return "", false
	}
	return findFileID(blocks, 0, false)
}

func findFileID(blocks []anthropic.ContentBlock, depth int, inResult bool) (string, bool) {
	if depth > maxDepth {
		return "", false
	}
	for _, block := range blocks {
		if inResult && block.FileID != "" {
			return block.FileID, true
		}
		inside := inResult || isToolResult(block.Type)
		if id, ok := findFileID(block.Children, depth+1, inside); ok {
			return id, true
		}
	}
	return "", false
}

// isToolResult matches tool_result and every *_tool_result server tool variant.
func isToolResult(blockType string) bool {
	return blockType == "tool_result" || strings.HasSuffix(blockType, "_tool_result")
}
