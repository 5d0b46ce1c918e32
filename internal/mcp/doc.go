// Package mcp implements the Model Context Protocol (MCP) server for budou.
//
// The MCP server exposes three tools to MCP clients:
//   - parse_html: Organize one HTML fragment into line-break friendly chunks
//   - parse_batch: Organize several fragments in parallel
//   - get_status: Report the segmenter, cache and parse statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	budou serve
//
// It then listens on stdin for MCP protocol messages and writes responses to stdout.
//
// # Tool: parse_html
//
//	Request:
//	{
//	  "name": "parse_html",
//	  "arguments": {
//	    "source": "今日も<b>元気</b>です",
//	    "language": "ja",
//	    "class_name": "ww",
//	    "keep_markup": true
//	  }
//	}
//
//	Response:
//	{
//	  "chunks": [{"word": "今日も", "dependency": "unset", "kind": "word", "has_cjk": true}, ...],
//	  "html_code": "<span class=\"ww\">今日も</span><span class=\"ww\"><b>元気</b>です</span>",
//	  "language": "ja"
//	}
//
// # Tool: parse_batch
//
// Takes "sources" (an array of fragments) and the same options as
// parse_html. Results keep the order of the sources; the first failure
// fails the whole call.
//
// # Tool: get_status
//
//	Response:
//	{
//	  "segmenter": {"name": "nlapi", "languages": ["ja", ...], "entities": true},
//	  "cache": {"backend": "sqlite", "entries": 42, "schema_version": "1.1.0", ...},
//	  "statistics": {"parses": 10, "failures": 0, "chunks": 57, "cache_hits": 3}
//	}
//
// # Error Handling
//
// Errors are returned as MCPError values with JSON-RPC style codes:
//   - -32602: Invalid parameters
//   - -32603: Internal error
//   - -32001: Unsupported language
//   - -32002: Segmenter failed
//   - -32004: Missing source
package mcp
