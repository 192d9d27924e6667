package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/plasticity-go/pkg/coref"
	"github.com/athapong/plasticity-go/pkg/sapien"
	"github.com/athapong/plasticity-go/pkg/sapien/core"
	"github.com/athapong/plasticity-go/services"
	"github.com/athapong/plasticity-go/util"
)

type ResolvedSentence struct {
	Text      string   `json:"text"`
	Resolved  string   `json:"resolved"`
	Pronouns  []string `json:"pronouns,omitempty"`
	Mentioned []string `json:"mentioned,omitempty"`
}

// CorefServer keeps the entities of every sentence seen so far so that
// pronouns in later calls can be resolved against them.
type CorefServer struct {
	sapien  func() *sapien.Service
	history [][]*core.Entity
	log     []ResolvedSentence
	mutex   sync.Mutex
}

func NewCorefServer(svc func() *sapien.Service) *CorefServer {
	return &CorefServer{
		sapien:  svc,
		history: make([][]*core.Entity, 0),
		log:     make([]ResolvedSentence, 0),
	}
}

func (s *CorefServer) processText(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	text, ok := stringArg(arguments, "text")
	if !ok {
		return mcp.NewToolResultError("text must be a non-empty string"), nil
	}

	svc := s.sapien()
	resp, err := svc.Core.Post(ctx, text, core.Flags{Graph: true})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to analyse text: %v", err)), nil
	}
	if err := resp.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if boolArg(arguments, "reset", false) {
		s.history = s.history[:0]
		s.log = s.log[:0]
	}

	resolver := coref.NewResolver(svc.Names)
	results := make([]ResolvedSentence, 0)
	for _, sentence := range resp.Sentences() {
		found := core.NewEntityIndex()
		for _, rel := range sentence.Graph {
			found.Merge(rel.Entities(false))
		}

		result := ResolvedSentence{}
		if sentence.Text != nil {
			result.Text = *sentence.Text
		}
		result.Resolved = result.Text

		words := make([]string, len(sentence.Tokens))
		for i, t := range sentence.Tokens {
			words[i] = t.Text
		}

		// every pronoun is looked up against the history before this
		// sentence and written into the same token slice
		var mentioned []*core.Entity
		replaced := false
		for _, e := range found.Entities() {
			if !coref.IsPronoun(e) {
				mentioned = append(mentioned, e)
				result.Mentioned = append(result.Mentioned, *e.Text)
				continue
			}
			result.Pronouns = append(result.Pronouns, *e.Text)
			if e.Index == nil || *e.Index < 0 || *e.Index >= len(words) {
				continue
			}
			antecedent, ok, err := resolver.Antecedent(ctx, e, s.history)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to resolve %q: %v", *e.Text, err)), nil
			}
			if ok {
				words[*e.Index] = antecedent
				replaced = true
			}
		}
		if replaced {
			result.Resolved = strings.Join(words, " ")
		}

		s.history = append(s.history, mentioned)
		s.log = append(s.log, result)
		results = append(results, result)
	}

	jsonResponse, err := json.MarshalIndent(map[string]interface{}{
		"sentences":   results,
		"historySize": len(s.history),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(jsonResponse)), nil
}

func (s *CorefServer) getHistory(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	jsonResponse, err := json.MarshalIndent(s.log, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(jsonResponse)), nil
}

// RegisterCorefTools registers the pronoun resolution tool and its history
// tool. Both share one conversation history.
func RegisterCorefTools(s *server.MCPServer) {
	corefServer := NewCorefServer(services.DefaultSapienService)

	corefTool := mcp.NewTool("sapien_coref",
		mcp.WithDescription(`Resolves he, she and they to people mentioned earlier in the conversation.
Each call analyses the text, replaces pronouns with the most recent matching names from previous calls
(he and she need a certain male or female name, they needs at least two first names) and then remembers
the entities of the text for later calls.`),
		mcp.WithString("text", mcp.Required(), mcp.Description("Next sentence or sentences of the conversation")),
		mcp.WithBoolean("reset", mcp.Description("Forget the conversation history before processing")),
	)
	s.AddTool(corefTool, util.ErrorGuard(util.AdaptArgumentsHandler(corefServer.processText)))

	historyTool := mcp.NewTool("sapien_coref_history",
		mcp.WithDescription("Returns every sentence processed by sapien_coref with its resolution"),
	)
	s.AddTool(historyTool, util.ErrorGuard(util.AdaptArgumentsHandler(corefServer.getHistory)))
}
