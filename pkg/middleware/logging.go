// Package middleware provides MCP protocol-level middleware.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// methodToolsCall is the MCP method name for tool invocations.
const methodToolsCall = "tools/call"

// ToolCallLogging creates MCP middleware that logs every tools/call request
// with a generated request id, the tool name, duration, and outcome. Other
// methods pass through untouched.
func ToolCallLogging(logger *slog.Logger) mcp.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != methodToolsCall {
				return next(ctx, method, req)
			}

			requestID := uuid.NewString()
			tool := toolName(req)
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []any{
				"request_id", requestID,
				"tool", tool,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err != nil:
				logger.Error("tool call failed", append(attrs, "error", err)...)
			case isErrorResult(result):
				logger.Warn("tool call rejected", attrs...)
			default:
				logger.Info("tool call completed", attrs...)
			}

			return result, err
		}
	}
}

// toolName extracts the tool name from a tools/call request.
func toolName(req mcp.Request) string {
	if req == nil {
		return ""
	}
	params, ok := req.GetParams().(*mcp.CallToolParamsRaw)
	if !ok || params == nil {
		return ""
	}
	return params.Name
}

// isErrorResult reports whether the result is a tool error.
func isErrorResult(result mcp.Result) bool {
	ctr, ok := result.(*mcp.CallToolResult)
	return ok && ctr != nil && ctr.IsError
}
