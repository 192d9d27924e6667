package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/plasticity-go/pkg/cortex"
	"github.com/athapong/plasticity-go/pkg/keypath"
	"github.com/athapong/plasticity-go/pkg/sapien"
	"github.com/athapong/plasticity-go/pkg/sapien/core"
	"github.com/athapong/plasticity-go/pkg/sapien/transform"
	"github.com/athapong/plasticity-go/services"
	"github.com/athapong/plasticity-go/util"
)

// Views accepted by sapien_core.
const (
	viewSummary      = "summary"
	viewTokens       = "tokens"
	viewPOS          = "pos"
	viewLemmas       = "lemmas"
	viewDependencies = "dependencies"
	viewGraph        = "graph"
	viewEntities     = "entities"
)

type sapienHandlers struct {
	sapien func() *sapien.Service
	cortex func() *cortex.Service
}

func defaultSapienHandlers() *sapienHandlers {
	return &sapienHandlers{
		sapien: services.DefaultSapienService,
		cortex: services.DefaultCortexService,
	}
}

func RegisterSapienCoreTool(s *server.MCPServer) {
	h := defaultSapienHandlers()

	coreTool := mcp.NewTool("sapien_core",
		mcp.WithDescription("Analyses English text with the Plasticity Sapien Core API and returns tokens, parts of speech, lemmas, syntax dependencies, the relation graph or named entities."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to analyse")),
		mcp.WithString("view", mcp.Description("What to return: summary (default), tokens, pos, lemmas, dependencies, graph or entities")),
		mcp.WithBoolean("ner", mcp.Description("Run named entity recognition (default true). With NER on results are grouped per sentence group")),
	)
	s.AddTool(coreTool, util.ErrorGuard(util.AdaptArgumentsHandler(h.coreHandler)))

	replaceTool := mcp.NewTool("sapien_ner_replace",
		mcp.WithDescription("Replaces every named entity in the text with its concept label, once per alternative reading of each sentence."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to rewrite")),
	)
	s.AddTool(replaceTool, util.ErrorGuard(util.AdaptArgumentsHandler(h.nerReplaceHandler)))
}

func RegisterSapienNamesTool(s *server.MCPServer) {
	h := defaultSapienHandlers()

	tool := mcp.NewTool("sapien_names",
		mcp.WithDescription("Classifies a personal name as male, female, first, family or any name. Only answers given with certain confidence count as true."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name to classify")),
	)
	s.AddTool(tool, util.ErrorGuard(util.AdaptArgumentsHandler(h.namesHandler)))
}

func RegisterSapienTransformTool(s *server.MCPServer) {
	h := defaultSapienHandlers()

	tool := mcp.NewTool("sapien_transform",
		mcp.WithDescription("Inflects a single word, for example leaf to leaves (NounPlural) or eating to ate (VerbPast)."),
		mcp.WithString("word", mcp.Required(), mcp.Description("Word to transform")),
		mcp.WithString("action", mcp.Required(), mcp.Description("Transformation such as NounPlural, NounSingular, VerbPast, VerbPresent or VerbGerund")),
	)
	s.AddTool(tool, util.ErrorGuard(util.AdaptArgumentsHandler(h.transformHandler)))
}

func RegisterCortexCategoryTool(s *server.MCPServer) {
	h := defaultSapienHandlers()

	tool := mcp.NewTool("cortex_category",
		mcp.WithDescription("Categorises every entity found in the text as Person, Place or Thing."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text whose entities should be categorised")),
	)
	s.AddTool(tool, util.ErrorGuard(util.AdaptArgumentsHandler(h.categoryHandler)))
}

func stringArg(arguments map[string]interface{}, key string) (string, bool) {
	v, ok := keypath.Lookup(arguments, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && strings.TrimSpace(s) != ""
}

func boolArg(arguments map[string]interface{}, key string, fallback bool) bool {
	if v, ok := keypath.Lookup(arguments, key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// analyse posts text and turns transport and service failures into tool
// errors.
func (h *sapienHandlers) analyse(ctx context.Context, text string, flags core.Flags) (*core.Response, *mcp.CallToolResult) {
	resp, err := h.sapien().Core.Post(ctx, text, flags)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to analyse text: %v", err))
	}
	if err := resp.Err(); err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return resp, nil
}

type namedEntity struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Labels  []string `json:"labels"`
	Concept string   `json:"concept_id,omitempty"`
}

func describeEntities(idx *core.EntityIndex) []namedEntity {
	out := make([]namedEntity, 0, idx.Len())
	for _, i := range idx.Indexes() {
		e, _ := idx.Get(i)
		ne := namedEntity{Index: i, Labels: []string{}}
		if e.Text != nil {
			ne.Text = *e.Text
		}
		for _, c := range e.NER {
			if c.Label != nil {
				ne.Labels = append(ne.Labels, *c.Label)
			}
		}
		if len(e.NER) > 0 && e.NER[0].ID != nil {
			ne.Concept = *e.NER[0].ID
		}
		out = append(out, ne)
	}
	return out
}

func viewResult[T any](v core.View[T]) (*mcp.CallToolResult, error) {
	if v.Grouped {
		return jsonResult(v.Groups)
	}
	return jsonResult(v.Flat)
}

func (h *sapienHandlers) coreHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	text, ok := stringArg(arguments, "text")
	if !ok {
		return mcp.NewToolResultError("text must be a non-empty string"), nil
	}
	view, ok := stringArg(arguments, "view")
	if !ok {
		view = viewSummary
	}
	flags := core.DefaultFlags()
	flags.NER = boolArg(arguments, "ner", true)

	resp, failure := h.analyse(ctx, text, flags)
	if failure != nil {
		return failure, nil
	}

	switch view {
	case viewSummary:
		return mcp.NewToolResultText(resp.String()), nil
	case viewTokens:
		return viewResult(resp.Tokenize())
	case viewPOS:
		return viewResult(resp.PartsOfSpeech())
	case viewLemmas:
		return viewResult(resp.Lemmatize())
	case viewDependencies:
		return viewResult(resp.Dependencies())
	case viewGraph:
		graphs, err := resp.Graphs()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(renderGraphs(graphs)), nil
	case viewEntities:
		named, err := resp.NamedEntities()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out := make([][][]namedEntity, 0, len(named))
		for _, group := range named {
			alternatives := make([][]namedEntity, 0, len(group))
			for _, idx := range group {
				alternatives = append(alternatives, describeEntities(idx))
			}
			out = append(out, alternatives)
		}
		return jsonResult(out)
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown view %q", view)), nil
}

func renderGraphs(v core.View[core.Graph]) string {
	var b strings.Builder
	if v.Grouped {
		for i, group := range v.Groups {
			for j, g := range group {
				fmt.Fprintf(&b, "Sentence %d, alternative %d: %s\n", i+1, j+1, g.String())
			}
		}
		return b.String()
	}
	for i, g := range v.Flat {
		fmt.Fprintf(&b, "Sentence %d: %s\n", i+1, g.String())
	}
	return b.String()
}

func (h *sapienHandlers) nerReplaceHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	text, ok := stringArg(arguments, "text")
	if !ok {
		return mcp.NewToolResultError("text must be a non-empty string"), nil
	}

	resp, failure := h.analyse(ctx, text, core.DefaultFlags())
	if failure != nil {
		return failure, nil
	}
	replaced, err := resp.NERReplace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(replaced)
}

func (h *sapienHandlers) namesHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	name, ok := stringArg(arguments, "name")
	if !ok {
		return mcp.NewToolResultError("name must be a non-empty string"), nil
	}

	resp, err := h.sapien().Names.Post(ctx, name, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to classify name: %v", err)), nil
	}
	if err := resp.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]bool{
		"is_male_name":   resp.IsMaleName(),
		"is_female_name": resp.IsFemaleName(),
		"is_first_name":  resp.IsFirstName(),
		"is_family_name": resp.IsFamilyName(),
		"is_name":        resp.IsName(),
	})
}

func (h *sapienHandlers) transformHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	word, ok := stringArg(arguments, "word")
	if !ok {
		return mcp.NewToolResultError("word must be a non-empty string"), nil
	}
	action, ok := stringArg(arguments, "action")
	if !ok {
		return mcp.NewToolResultError("action must be a non-empty string"), nil
	}

	out, err := h.sapien().Transform.Apply(ctx, word, transform.Action(action))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to transform word: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *sapienHandlers) categoryHandler(ctx context.Context, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	text, ok := stringArg(arguments, "text")
	if !ok {
		return mcp.NewToolResultError("text must be a non-empty string"), nil
	}

	resp, failure := h.analyse(ctx, text, core.Flags{Graph: true})
	if failure != nil {
		return failure, nil
	}

	categories := map[string]string{}
	for _, s := range resp.Sentences() {
		for _, rel := range s.Graph {
			for _, e := range rel.Entities(false).Entities() {
				if e.Text == nil {
					continue
				}
				if _, done := categories[*e.Text]; done {
					continue
				}
				c, err := h.cortex().Category.OfEntity(ctx, e)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("failed to categorise %q: %v", *e.Text, err)), nil
				}
				categories[*e.Text] = string(c)
			}
		}
	}
	return jsonResult(categories)
}
