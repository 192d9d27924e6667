package util

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// ArgumentsHandler handles a tool call from its arguments alone.
type ArgumentsHandler func(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error)

// AdaptArgumentsHandler turns an ArgumentsHandler into a server tool handler.
func AdaptArgumentsHandler(handler ArgumentsHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arguments := request.Params.Arguments
		if arguments == nil {
			arguments = map[string]interface{}{}
		}
		return handler(ctx, arguments)
	}
}

// ErrorGuard turns a panicking handler into a tool error result.
func ErrorGuard(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithFields(logrus.Fields{
					"tool":  request.Params.Name,
					"panic": r,
				}).Error("Tool handler panicked")
				logrus.Debug(string(debug.Stack()))
				result = mcp.NewToolResultError(fmt.Sprintf("Panic: %v", r))
				err = nil
			}
		}()
		return handler(ctx, request)
	}
}
