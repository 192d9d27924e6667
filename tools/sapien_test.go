package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athapong/plasticity-go/pkg/cortex"
	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/athapong/plasticity-go/pkg/sapien"
)

const billGates = `{"data":[{"type":"sentenceGroup","alternatives":[{
	"type":"sentence",
	"sentence":"Bill Gates founded Microsoft.",
	"tokens":[["Bill","NNP","Bill"],["Gates","NNP","Gates"],["founded","VBD","found"],["Microsoft","NNP","Microsoft"],[".",".","."]],
	"dependencies":[],
	"graph":[{"type":"relation",
		"subject":{"type":"entity","entity":"Bill Gates","index":1,"properNoun":true,
			"ner":[{"type":"concept","label":"PERSON","id":"/m/017nt"}]},
		"predicate":{"verb":"founded","index":2},
		"object":{"type":"entity","entity":"Microsoft","index":3,"properNoun":true,
			"ner":[{"type":"concept","label":"ORGANIZATION"}]}}]
}]}],"error":false}`

const maryKitchen = `{"data":[{"type":"sentence",
	"sentence":"Mary entered the kitchen.",
	"tokens":[["Mary","NNP","Mary"],["entered","VBD","enter"],["the","DT","the"],["kitchen","NN","kitchen"],[".",".","."]],
	"graph":[{"type":"relation",
		"subject":{"type":"entity","entity":"Mary","index":0,"properNoun":true},
		"predicate":{"verb":"entered","index":1},
		"object":{"type":"entity","entity":"kitchen","index":3,"properNoun":false}}]
}],"error":false}`

const johnArrived = `{"data":[{"type":"sentence",
	"sentence":"John arrived .",
	"tokens":[["John","NNP","John"],["arrived","VBD","arrive"],[".",".","."]],
	"graph":[{"type":"relation",
		"subject":{"type":"entity","entity":"John","index":0,"properNoun":true},
		"predicate":{"verb":"arrived","index":1}}]
}],"error":false}`

const heSat = `{"data":[{"type":"sentence",
	"sentence":"He sat .",
	"tokens":[["He","PRP","he"],["sat","VBD","sit"],[".",".","."]],
	"graph":[{"type":"relation",
		"subject":{"type":"entity","entity":"He","index":0},
		"predicate":{"verb":"sat","index":1}}]
}],"error":false}`

const johnMetMary = `{"data":[{"type":"sentence",
	"sentence":"John met Mary .",
	"tokens":[["John","NNP","John"],["met","VBD","meet"],["Mary","NNP","Mary"],[".",".","."]],
	"graph":[{"type":"relation",
		"subject":{"type":"entity","entity":"John","index":0,"properNoun":true},
		"predicate":{"verb":"met","index":1},
		"object":{"type":"entity","entity":"Mary","index":2,"properNoun":true}}]
}],"error":false}`

const heSaidSheLeft = `{"data":[{"type":"sentence",
	"sentence":"He said she left .",
	"tokens":[["He","PRP","he"],["said","VBD","say"],["she","PRP","she"],["left","VBD","leave"],[".",".","."]],
	"graph":[{"type":"relation",
		"subject":{"type":"entity","entity":"He","index":0},
		"predicate":{"verb":"said","index":1},
		"object":{"type":"relation",
			"subject":{"type":"entity","entity":"she","index":2},
			"predicate":{"verb":"left","index":3}}}]
}],"error":false}`

var coreResponses = map[string]string{
	"Bill Gates founded Microsoft.": billGates,
	"Mary entered the kitchen.":     maryKitchen,
	"John arrived.":                 johnArrived,
	"He sat.":                       heSat,
	"John met Mary.":                johnMetMary,
	"He said she left.":             heSaidSheLeft,
}

var firstNames = map[string]string{"John": "male", "Bill": "male", "Mary": "female"}

func nameResponse(name string) string {
	gender := firstNames[name]
	return fmt.Sprintf(`{"data":{
		"isMaleName":{"value":%t,"confidence":"Certain"},
		"isFemaleName":{"value":%t,"confidence":"Certain"},
		"isFirstName":{"value":%t,"confidence":"Certain"},
		"isFamilyName":{"value":false,"confidence":"Certain"},
		"isName":{"value":%t,"confidence":"Certain"}
	},"error":false}`, gender == "male", gender == "female", gender != "", gender != "")
}

// fakeAPI answers the sapien endpoints from canned payloads.
func fakeAPI(t *testing.T) *sapien.Service {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		switch r.URL.Path {
		case "/sapien/core/":
			text, _ := body["text"].(string)
			payload, ok := coreResponses[text]
			if !ok {
				payload = `{"error":true,"errorCode":400,"message":"unexpected text"}`
			}
			_, _ = w.Write([]byte(payload))
		case "/sapien/names/":
			name, _ := body["name"].(string)
			_, _ = w.Write([]byte(nameResponse(name)))
		case "/sapien/transform/":
			_, _ = w.Write([]byte(`{"data":"leaves","error":false}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	client := plasticity.NewClient(plasticity.Config{URL: srv.URL, Token: "t"})
	return sapien.New(client)
}

func testHandlers(t *testing.T) *sapienHandlers {
	svc := fakeAPI(t)
	return &sapienHandlers{
		sapien: func() *sapien.Service { return svc },
		cortex: func() *cortex.Service { return cortex.New(svc) },
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestCoreHandlerTokens(t *testing.T) {
	h := testHandlers(t)

	result, err := h.coreHandler(context.Background(), map[string]interface{}{
		"text": "Bill Gates founded Microsoft.",
		"view": "tokens",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var groups [][]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &groups))
	assert.Equal(t, [][]string{{"Bill", "Gates", "founded", "Microsoft", "."}}, groups)
}

func TestCoreHandlerEntities(t *testing.T) {
	h := testHandlers(t)

	result, err := h.coreHandler(context.Background(), map[string]interface{}{
		"text": "Bill Gates founded Microsoft.",
		"view": "entities",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out [][][]namedEntity
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out, 1)
	require.Len(t, out[0], 1)
	require.Len(t, out[0][0], 2)
	assert.Equal(t, namedEntity{Index: 1, Text: "Bill Gates", Labels: []string{"PERSON"}, Concept: "/m/017nt"}, out[0][0][0])
	assert.Equal(t, "Microsoft", out[0][0][1].Text)
}

func TestCoreHandlerSummaryAndGraph(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	summary, err := h.coreHandler(ctx, map[string]interface{}{"text": "Bill Gates founded Microsoft."})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, summary), "Bill Gates")

	graph, err := h.coreHandler(ctx, map[string]interface{}{"text": "Bill Gates founded Microsoft.", "view": "graph"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, graph), "Sentence 1, alternative 1")
}

func TestCoreHandlerRejectsBadInput(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	result, err := h.coreHandler(ctx, map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = h.coreHandler(ctx, map[string]interface{}{"text": "Bill Gates founded Microsoft.", "view": "poetry"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "poetry")
}

func TestCoreHandlerServiceError(t *testing.T) {
	h := testHandlers(t)

	result, err := h.coreHandler(context.Background(), map[string]interface{}{"text": "something else"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unexpected text")
}

func TestNERReplaceHandler(t *testing.T) {
	h := testHandlers(t)

	result, err := h.nerReplaceHandler(context.Background(), map[string]interface{}{"text": "Bill Gates founded Microsoft."})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "PERSON")
	assert.Contains(t, resultText(t, result), "ORGANIZATION")
}

func TestNamesHandler(t *testing.T) {
	h := testHandlers(t)

	result, err := h.namesHandler(context.Background(), map[string]interface{}{"name": "Mary"})
	require.NoError(t, err)

	var out map[string]bool
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.True(t, out["is_female_name"])
	assert.True(t, out["is_first_name"])
	assert.False(t, out["is_male_name"])
}

func TestTransformHandler(t *testing.T) {
	h := testHandlers(t)

	result, err := h.transformHandler(context.Background(), map[string]interface{}{"word": "leaf", "action": "NounPlural"})
	require.NoError(t, err)
	assert.Equal(t, "leaves", resultText(t, result))

	result, err = h.transformHandler(context.Background(), map[string]interface{}{"word": "leaf"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCategoryHandler(t *testing.T) {
	h := testHandlers(t)

	result, err := h.categoryHandler(context.Background(), map[string]interface{}{"text": "Mary entered the kitchen."})
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, map[string]string{"Mary": "Person", "kitchen": "Place"}, out)
}

func TestCorefServerResolvesAcrossCalls(t *testing.T) {
	svc := fakeAPI(t)
	s := NewCorefServer(func() *sapien.Service { return svc })
	ctx := context.Background()

	_, err := s.processText(ctx, map[string]interface{}{"text": "John arrived."})
	require.NoError(t, err)

	result, err := s.processText(ctx, map[string]interface{}{"text": "He sat."})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Sentences   []ResolvedSentence `json:"sentences"`
		HistorySize int                `json:"historySize"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out.Sentences, 1)
	assert.Equal(t, "John sat .", out.Sentences[0].Resolved)
	assert.Equal(t, []string{"He"}, out.Sentences[0].Pronouns)
	assert.Equal(t, 2, out.HistorySize)

	history, err := s.getHistory(ctx, nil)
	require.NoError(t, err)
	var log []ResolvedSentence
	require.NoError(t, json.Unmarshal([]byte(resultText(t, history)), &log))
	assert.Len(t, log, 2)

	result, err = s.processText(ctx, map[string]interface{}{"text": "He sat.", "reset": true})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	assert.Equal(t, "He sat .", out.Sentences[0].Resolved)
	assert.Equal(t, 1, out.HistorySize)
}

func TestCorefServerResolvesEveryPronounInASentence(t *testing.T) {
	svc := fakeAPI(t)
	s := NewCorefServer(func() *sapien.Service { return svc })
	ctx := context.Background()

	_, err := s.processText(ctx, map[string]interface{}{"text": "John met Mary."})
	require.NoError(t, err)

	result, err := s.processText(ctx, map[string]interface{}{"text": "He said she left."})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out struct {
		Sentences []ResolvedSentence `json:"sentences"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out.Sentences, 1)
	assert.Equal(t, "John said Mary left .", out.Sentences[0].Resolved)
	assert.Equal(t, []string{"He", "she"}, out.Sentences[0].Pronouns)
}
