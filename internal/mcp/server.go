/*
Package mcp implements an MCP server that lets AI clients query usage history.

The server uses stdio transport (newline-delimited JSON-RPC) and exposes 4 tools:
  - usage_ask: Answer a natural-language question about app usage
  - usage_classify: Show which intent a question resolves to
  - usage_index_status: Describe the semantic index
  - usage_stats: Summarize the usage log

Stdout is the protocol channel; logs go to stderr.
*/
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/khanglvm/focus-ask/internal/classify"
	"github.com/khanglvm/focus-ask/internal/engine"
	"github.com/khanglvm/focus-ask/internal/version"
)

// maxLineSize bounds a single JSON-RPC message.
const maxLineSize = 1 << 20

// Engine is the subset of *engine.Engine the server needs.
type Engine interface {
	Ask(ctx context.Context, question string) engine.Response
	Classify(question string) classify.Intent
	IndexStatus() engine.IndexStatus
	Stats() engine.Stats
}

// Server represents the focus-ask MCP server.
type Server struct {
	engine Engine
}

// NewServer creates a new MCP server over eng.
func NewServer(eng Engine) *Server {
	return &Server{engine: eng}
}

// Run serves on stdin/stdout until stdin is closed or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads requests from r and writes responses to w, one per line.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		response, err := s.handleRequest(ctx, line)
		if err != nil {
			response = &MCPResponse{
				JSONRPC: "2.0",
				Error:   &MCPError{Code: -32700, Message: err.Error()},
			}
		}

		if response != nil {
			if err := enc.Encode(response); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request. Notifications get no response.
func (s *Server) handleRequest(ctx context.Context, data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req), nil
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}, nil
	case "tools/list":
		return s.handleToolsList(&req), nil
	case "tools/call":
		return s.handleToolsCall(ctx, &req), nil
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "focus-ask",
				"version": version.Version,
			},
		},
	}
}

var questionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"question": map[string]interface{}{
			"type":        "string",
			"description": "Natural-language question about application usage",
		},
	},
	"required": []string{"question"},
}

var emptySchema = map[string]interface{}{
	"type":       "object",
	"properties": map[string]interface{}{},
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	tools := []map[string]interface{}{
		{
			"name": "usage_ask",
			"description": `Answer a question about how the user spent time in applications.

WHEN TO USE: Any question about app usage, focus time, daily totals, busiest hours or weekly trends.

Known phrasings are answered exactly from the log ("what app did I use most today?",
"compare today with yesterday", "what are my peak hours?"). Anything else is answered
from the most relevant indexed summaries.`,
			"inputSchema": questionSchema,
		},
		{
			"name": "usage_classify",
			"description": `Show which intent a question resolves to, without answering it.

Returns one of: ` + intentList() + `.`,
			"inputSchema": questionSchema,
		},
		{
			"name":        "usage_index_status",
			"description": `Describe the semantic index: document count, embedding model and document kinds.`,
			"inputSchema": emptySchema,
		},
		{
			"name":        "usage_stats",
			"description": `Summarize the usage log: total time, top apps and busiest hours.`,
			"inputSchema": emptySchema,
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}
}

func intentList() string {
	intents := classify.Intents()
	names := make([]string, len(intents))
	for i, in := range intents {
		names[i] = string(in)
	}
	return strings.Join(names, ", ")
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)},
		}
	}

	var result string
	var err error

	switch params.Name {
	case "usage_ask":
		question, _ := params.Arguments["question"].(string)
		result, err = s.execAsk(ctx, question)
	case "usage_classify":
		question, _ := params.Arguments["question"].(string)
		result, err = s.execClassify(question)
	case "usage_index_status":
		result, err = s.execIndexStatus()
	case "usage_stats":
		result, err = s.execStats()
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}
	}

	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func (s *Server) execAsk(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required")
	}
	return s.engine.Ask(ctx, question).Answer, nil
}

func (s *Server) execClassify(question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required")
	}
	return string(s.engine.Classify(question)), nil
}

func (s *Server) execIndexStatus() (string, error) {
	return toJSON(s.engine.IndexStatus())
}

func (s *Server) execStats() (string, error) {
	return toJSON(s.engine.Stats())
}

func toJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}
