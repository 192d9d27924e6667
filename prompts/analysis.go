package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterAnalysisPrompts(s *server.MCPServer) {
	entities := mcp.NewPrompt("who_did_what",
		mcp.WithPromptDescription("Summarise who did what to whom in a text"),
		mcp.WithArgument("text", mcp.ArgumentDescription("Text to summarise"), mcp.RequiredArgument()),
	)
	s.AddPrompt(entities, whoDidWhatHandler)

	conversation := mcp.NewPrompt("follow_conversation",
		mcp.WithPromptDescription("Track the people in a conversation and resolve pronouns"),
		mcp.WithArgument("transcript", mcp.ArgumentDescription("Conversation, one utterance per line"), mcp.RequiredArgument()),
	)
	s.AddPrompt(conversation, followConversationHandler)
}

func userMessage(text string) []mcp.PromptMessage {
	return []mcp.PromptMessage{
		{
			Role: mcp.RoleUser,
			Content: mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func whoDidWhatHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := request.Params.Arguments["text"]
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	return &mcp.GetPromptResult{
		Description: "Relation summary",
		Messages: userMessage(fmt.Sprintf(`Use the sapien_core tool with view "graph" on the text below, then cortex_category on the same text.
For every relation report the subject, verb and object, and say whether each participant is a Person, Place or Thing.

%s`, text)),
	}, nil
}

func followConversationHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	transcript := request.Params.Arguments["transcript"]
	if transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}

	return &mcp.GetPromptResult{
		Description: "Conversation with resolved pronouns",
		Messages: userMessage(fmt.Sprintf(`Call sapien_coref with reset set to true on the first line below, then once per remaining line in order.
Rewrite the conversation using the resolved sentences and list the people it mentions.

%s`, transcript)),
	}, nil
}
