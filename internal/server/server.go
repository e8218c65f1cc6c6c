// Package server speaks JSON-RPC 2.0 over stdio, one message per line,
// and dispatches tools/call requests into the tool registry. Tool
// failures are returned as readable result text flagged isError, never
// as protocol-level faults.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kvit-s/filesmith/internal/logging"
	"github.com/kvit-s/filesmith/internal/tools"
)

// MaxMessageSize is the maximum size for a single message (1MB).
// This accommodates large file writes and batch operations.
const MaxMessageSize = 1024 * 1024

const protocolVersion = "2024-11-05"

// Standard JSON-RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Message represents a JSON-RPC 2.0 message
type Message struct {
	Jsonrpc string          `json:"jsonrpc"`
	Id      any             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// IsRequest checks if the message is a request
func (m *Message) IsRequest() bool {
	return m.Method != "" && m.Id != nil
}

// IsNotification checks if the message is a notification
func (m *Message) IsNotification() bool {
	return m.Method != "" && m.Id == nil
}

func newErrorMessage(id any, code int, message string) *Message {
	return &Message{
		Jsonrpc: "2.0",
		Id:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

func newResultMessage(id any, result any) *Message {
	return &Message{Jsonrpc: "2.0", Id: id, Result: result}
}

// Server owns the stdio message loop.
type Server struct {
	stdin    io.Reader
	stdout   io.Writer
	scanner  *bufio.Scanner
	registry *tools.Registry
	log      *logging.Logger
	name     string
	version  string
}

// New creates a server reading from stdin and writing to stdout.
// The reader and writer are injectable for tests.
func New(name, version string, registry *tools.Registry, log *logging.Logger, stdin io.Reader, stdout io.Writer) *Server {
	return &Server{
		stdin:    stdin,
		stdout:   stdout,
		registry: registry,
		log:      log,
		name:     name,
		version:  version,
	}
}

// Serve runs the message loop until stdin closes or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.scanner = bufio.NewScanner(s.stdin)
	s.scanner.Buffer(make([]byte, MaxMessageSize), MaxMessageSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			return nil
		}

		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			s.writeMessage(newErrorMessage(nil, ParseError, "Parse error: invalid JSON"))
			continue
		}

		if resp := s.handleMessage(ctx, &msg); resp != nil {
			if err := s.writeMessage(resp); err != nil {
				return err
			}
		}
	}
}

func (s *Server) writeMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}
	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("writing stdout: %w", err)
	}
	return nil
}

func (s *Server) handleMessage(ctx context.Context, msg *Message) *Message {
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}
	if msg.IsRequest() {
		return s.handleRequest(ctx, msg)
	}
	return newErrorMessage(msg.Id, InvalidRequest, "Invalid message: not a request or notification")
}

func (s *Server) handleRequest(ctx context.Context, msg *Message) *Message {
	s.log.Debug("handling request",
		zap.String("method", msg.Method),
		zap.Any("id", msg.Id),
	)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "ping":
		return newResultMessage(msg.Id, map[string]any{})
	case "tools/list":
		return newResultMessage(msg.Id, map[string]any{
			"tools": s.registry.Definitions(),
		})
	case "tools/call":
		return s.handleCallTool(ctx, msg)
	default:
		return newErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method))
	}
}

func (s *Server) handleNotification(msg *Message) {
	switch msg.Method {
	case "notifications/initialized":
		s.log.Info("client initialized")
	default:
		s.log.Debug("unknown notification", zap.String("method", msg.Method))
	}
}

func (s *Server) handleInitialize(msg *Message) *Message {
	return newResultMessage(msg.Id, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	})
}

// callToolParams is the tools/call request parameter shape.
type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) handleCallTool(ctx context.Context, msg *Message) *Message {
	var params callToolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return newErrorMessage(msg.Id, InvalidParams, "Invalid params: expected object with name and arguments")
	}
	if params.Name == "" {
		return newErrorMessage(msg.Id, InvalidParams, "Invalid params: name is required")
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	tool := s.registry.Get(params.Name)
	if tool == nil {
		return newErrorMessage(msg.Id, InvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	start := time.Now()
	result, err := tool.Call(ctx, params.Arguments)
	s.log.ToolCalled(params.Name, time.Since(start), err)

	if err != nil {
		return newResultMessage(msg.Id, toolErrorResult(params.Name, err))
	}

	text, marshalErr := renderResult(result)
	if marshalErr != nil {
		return newErrorMessage(msg.Id, InternalError, marshalErr.Error())
	}
	return newResultMessage(msg.Id, textResult(text, false))
}

// toolErrorResult wraps a tool failure as readable result text, so the
// client model sees it instead of a transport fault.
func toolErrorResult(name string, err error) map[string]any {
	return textResult(fmt.Sprintf("%s failed: %s", name, err.Error()), true)
}

func textResult(text string, isError bool) map[string]any {
	result := map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
	}
	if isError {
		result["isError"] = true
	}
	return result
}

// renderResult marshals a tool's return value to the text payload.
// String results pass through as-is.
func renderResult(result any) (string, error) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling tool result: %w", err)
	}
	return string(data), nil
}
