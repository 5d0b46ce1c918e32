package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// optionProperties are the parse options shared by parse_html and parse_batch
func optionProperties() map[string]interface{} {
	return map[string]interface{}{
		"language": map[string]interface{}{
			"type":        "string",
			"description": "BCP 47 language code (ja, ko, zh, zh-TW, ...). Empty lets the segmenter detect it",
		},
		"class_name": map[string]interface{}{
			"type":        "string",
			"description": "Class of the output spans",
			"default":     "chunk",
		},
		"attributes": map[string]interface{}{
			"type":        "object",
			"description": "Extra attributes written on every span",
			"additionalProperties": map[string]interface{}{
				"type": "string",
			},
		},
		"max_length": map[string]interface{}{
			"type":        "integer",
			"description": "Chunks longer than this many characters are not wrapped (0 = no limit)",
			"default":     0,
			"minimum":     0,
		},
		"use_entity": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, keep named entities in a single chunk",
			"default":     false,
		},
		"keep_markup": map[string]interface{}{
			"type":        "boolean",
			"description": "If true, keep inline elements such as <a> and <b> in the output",
			"default":     false,
		},
	}
}

// parseHTMLTool returns the tool definition for parse_html
func parseHTMLTool() mcp.Tool {
	props := optionProperties()
	props["source"] = map[string]interface{}{
		"type":        "string",
		"description": "HTML fragment or plain text to organize",
	}

	return mcp.Tool{
		Name:        "parse_html",
		Description: "Insert line-break opportunities into CJK text by wrapping phrases in spans",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"source"},
		},
	}
}

// parseBatchTool returns the tool definition for parse_batch
func parseBatchTool() mcp.Tool {
	props := optionProperties()
	props["sources"] = map[string]interface{}{
		"type":        "array",
		"description": "HTML fragments to organize with the same options",
		"items": map[string]interface{}{
			"type": "string",
		},
		"minItems": 1,
		"maxItems": MaxBatchSize,
	}

	return mcp.Tool{
		Name:        "parse_batch",
		Description: "Organize several HTML fragments in parallel",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"sources"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report the active segmenter, cache and parse statistics",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
