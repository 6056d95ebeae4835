package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// MCPServer handles the MCP protocol over a line-delimited JSON-RPC
// stream, stdio by default. It holds no database connection of its own;
// the gateway opens one per invocation.
type MCPServer struct {
	cfg         *Config
	adapter     DBAdapter
	gateway     *Gateway
	logger      *zap.Logger
	initialized bool
	ctx         context.Context
	cancel      context.CancelFunc

	in  io.Reader
	out io.Writer
}

// NewMCPServer creates a server bound to the given configuration and
// adapter. Nothing is opened until the first invocation arrives.
func NewMCPServer(ctx context.Context, adapter DBAdapter, cfg *Config, logger *zap.Logger) *MCPServer {
	serverCtx, serverCancel := context.WithCancel(ctx)

	return &MCPServer{
		cfg:     cfg,
		adapter: adapter,
		gateway: NewGateway(adapter, cfg, logger),
		logger:  logger,
		ctx:     serverCtx,
		cancel:  serverCancel,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run starts the server, reading requests line by line until EOF or
// context cancellation.
func (s *MCPServer) Run() error {
	reader := bufio.NewReader(s.in)

	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if strings.TrimSpace(line) != "" {
					s.respond(s.handleMessage([]byte(line)))
				}
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.respond(s.handleMessage([]byte(line)))
	}
}

func (s *MCPServer) respond(response *JSONRPCResponse) {
	if response == nil {
		return
	}
	responseBytes, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	fmt.Fprintln(s.out, string(responseBytes))
}

func (s *MCPServer) handleMessage(data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      nil,
			Error: &Error{
				Code:    ParseError,
				Message: "Parse error",
				Data:    err.Error(),
			},
		}
	}

	if req.JSONRPC != "2.0" {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &Error{
				Code:    InvalidRequest,
				Message: "Invalid JSON-RPC version",
			},
		}
	}

	return s.handleRequest(&req)
}

func (s *MCPServer) handleRequest(req *JSONRPCRequest) *JSONRPCResponse {
	var result any
	var err *Error

	switch req.Method {
	case "initialize":
		result, err = s.handleInitialize(req.Params)
	case "initialized":
		// Notification, no response needed
		return nil
	case "tools/list":
		result, err = s.handleListTools()
	case "tools/call":
		result, err = s.handleCallTool(req.Params)
	case "resources/list":
		result, err = s.handleListResources()
	case "resources/read":
		result, err = s.handleReadResource(req.Params)
	case "ping":
		result = map[string]any{}
	default:
		err = &Error{
			Code:    MethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   err,
	}
}

// Shutdown cancels the server context; the read loop exits on its next
// iteration. In-flight invocations are not awaited.
func (s *MCPServer) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}
