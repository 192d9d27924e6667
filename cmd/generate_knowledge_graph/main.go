package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/athapong/plasticity-go/pkg/graph"
	"github.com/athapong/plasticity-go/pkg/graph/algorithms"
	"github.com/athapong/plasticity-go/pkg/graph/processors"
	"github.com/athapong/plasticity-go/pkg/graph/query"
	"github.com/athapong/plasticity-go/pkg/graph/storage"
	"github.com/athapong/plasticity-go/pkg/graph/visualizer"
	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/athapong/plasticity-go/pkg/sapien"
)

var (
	inputDir        = flag.String("input", "", "Directory containing input text, HTML or PDF files")
	outputFile      = flag.String("output", "knowledge_graph.json", "Output file path for the knowledge graph")
	envFile         = flag.String("env", ".env", "Path to environment file")
	ner             = flag.Bool("ner", true, "Type entities with named entity recognition")
	batchSize       = flag.Int("batch-size", 10, "Number of documents analysed concurrently")
	useNeo4j        = flag.Bool("neo4j", false, "Also store the graph in Neo4j (NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD)")
	focus           = flag.String("focus", "", "Only keep the neighbourhood of the entity with this label")
	depth           = flag.Int("depth", 2, "Neighbourhood depth used with -focus")
	nodeTypes       = flag.String("types", "", "Comma separated entity types to keep, e.g. PERSON,ORGANIZATION")
	relationTypes   = flag.String("relations", "", "Comma separated relation types to keep")
	minWeight       = flag.Float64("min-weight", 0, "Drop relations with a lower mean confidence")
	visualize       = flag.Bool("visualize", false, "Generate an HTML visualization of the knowledge graph")
	visualizeOutput = flag.String("viz-output", "knowledge_graph.html", "Output file for the visualization")
	logLevel        = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

var contentTypes = map[string]string{
	".txt":  graph.ContentTypeText,
	".md":   graph.ContentTypeText,
	".html": graph.ContentTypeHTML,
	".htm":  graph.ContentTypeHTML,
	".pdf":  graph.ContentTypePDF,
}

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if *inputDir == "" {
		logger.Fatal("Input directory must be specified")
	}
	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	cfg, err := plasticity.ConfigFromEnv()
	if err != nil {
		logger.Fatalf("Invalid Plasticity configuration: %v", err)
	}
	if cfg.Token == "" {
		logger.Fatal("PLASTICITY_API_KEY must be set")
	}
	client := plasticity.NewClient(cfg, plasticity.WithLogger(logger))
	svc := sapien.New(client)

	pipeline := graph.NewPipeline(logger)
	pipeline.SetBatchSize(*batchSize)
	pipeline.AddProcessor(processors.NewHTMLProcessor())
	pipeline.AddProcessor(processors.NewPDFProcessor())
	pipeline.AddProcessor(processors.NewSapienProcessor(svc.Core, *ner, logger))

	ctx := context.Background()
	graphStore, closeStore := openStore(ctx, logger)
	defer closeStore()

	files, err := readInputFiles(*inputDir)
	if err != nil {
		logger.Fatalf("Failed to read input directory: %v", err)
	}
	if len(files) == 0 {
		logger.Fatal("No input files found")
	}

	logger.Infof("Processing %d input files...", len(files))

	documents := make([]*graph.Document, 0, len(files))
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Errorf("Failed to read file %s: %v", file, err)
			continue
		}

		documents = append(documents, &graph.Document{
			ID:          uuid.New().String(),
			Content:     string(content),
			ContentType: contentTypes[strings.ToLower(filepath.Ext(file))],
			Metadata: map[string]interface{}{
				"filename": filepath.Base(file),
				"filepath": file,
			},
		})
	}

	// failed documents are logged by the pipeline and left out of the graph
	if err := pipeline.BatchProcess(ctx, documents); err != nil {
		logger.Warnf("Some documents could not be processed: %v", err)
	}

	generator := graph.NewKnowledgeGraphGenerator()
	generator.SetLogger(logger)
	for _, doc := range documents {
		if doc.ProcessedAt.IsZero() {
			continue
		}
		if err := generator.AddDocument(doc); err != nil {
			logger.Errorf("Failed to add document to graph: %v", err)
		}
	}
	knowledgeGraph := generator.Generate()

	if *focus != "" {
		sub, err := algorithms.NewGraphTraversal(knowledgeGraph).Subgraph(ctx, *focus, *depth, algorithms.BFS)
		if err != nil {
			logger.Fatalf("Failed to select neighbourhood: %v", err)
		}
		sub.GeneratedAt = knowledgeGraph.GeneratedAt
		knowledgeGraph = sub
	}

	selected, err := selection().Match(knowledgeGraph)
	if err != nil {
		logger.Fatalf("Invalid selection: %v", err)
	}
	knowledgeGraph = selected

	if err := graphStore.StoreGraph(ctx, knowledgeGraph); err != nil {
		logger.Fatalf("Failed to store knowledge graph: %v", err)
	}

	logger.Infof("Knowledge graph generated with %d nodes and %d edges",
		len(knowledgeGraph.Nodes), len(knowledgeGraph.Edges))
	logger.Infof("Knowledge graph saved to %s", *outputFile)

	if *visualize {
		viz := visualizer.NewD3Visualizer(filepath.Base(*inputDir))
		if err := viz.WriteFile(*visualizeOutput, knowledgeGraph); err != nil {
			logger.Errorf("Failed to visualize knowledge graph: %v", err)
		} else {
			logger.Infof("Visualization saved to %s", *visualizeOutput)
		}
	}
}

// selection builds the query given by -types, -relations and -min-weight.
func selection() *query.Query {
	q := query.NewQuery()
	for _, t := range splitList(*nodeTypes) {
		q.AddPattern(query.Pattern{NodeType: t})
	}
	for _, r := range splitList(*relationTypes) {
		q.AddPattern(query.Pattern{RelationType: r})
	}
	if *minWeight > 0 {
		q.AddFilter(query.Filter{Field: "weight", Operator: query.GreaterEqual, Value: *minWeight})
	}
	return q
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// openStore returns the JSON file store, fanned out to Neo4j when -neo4j is
// set, and a function releasing it.
func openStore(ctx context.Context, logger *logrus.Logger) (storage.GraphStore, func()) {
	jsonStore := storage.NewJSONGraphStore(*outputFile)
	if !*useNeo4j {
		return jsonStore, func() {}
	}

	neo, err := storage.NewNeo4jStorage(os.Getenv("NEO4J_URI"), os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"), logger)
	if err != nil {
		logger.Fatalf("Failed to create Neo4j driver: %v", err)
	}
	if err := neo.Connect(ctx); err != nil {
		logger.Fatalf("Failed to connect to Neo4j: %v", err)
	}

	return storage.MultiStore{jsonStore, neo}, func() {
		if err := neo.Close(); err != nil {
			logger.Errorf("Failed to close Neo4j driver: %v", err)
		}
	}
}

// readInputFiles lists every file under inputDir with a supported extension
func readInputFiles(inputDir string) ([]string, error) {
	var files []string
	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if _, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
				files = append(files, path)
			}
		}
		return nil
	})

	return files, err
}
