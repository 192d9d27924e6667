package visualizer

import (
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/athapong/plasticity-go/pkg/graph"
)

const d3Template = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://d3js.org/d3.v7.min.js"></script>
<style>
  body { margin: 0; font-family: sans-serif; }
  svg { width: 100vw; height: 100vh; background: #fafafa; }
  line { stroke: #aaa; }
  text { font-size: 11px; pointer-events: none; }
  #legend { position: absolute; top: 8px; left: 8px; background: #fff; padding: 8px; border: 1px solid #ddd; }
</style>
</head>
<body>
<div id="legend"><strong>{{.Title}}</strong><br>{{.NodeCount}} entities, {{.EdgeCount}} relations<ul id="types"></ul></div>
<svg></svg>
<script>
const data = {{.Data}};
const svg = d3.select("svg");
const view = svg.append("g");
svg.call(d3.zoom().on("zoom", e => view.attr("transform", e.transform)));

const types = Array.from(new Set(data.nodes.map(n => n.type))).sort();
const color = d3.scaleOrdinal(d3.schemeTableau10).domain(types);
d3.select("#types").selectAll("li").data(types).join("li")
  .style("color", t => color(t)).text(t => t);

const links = data.edges.map(e => ({...e, source: e.source, target: e.target}));
const sim = d3.forceSimulation(data.nodes)
  .force("link", d3.forceLink(links).id(n => n.id).distance(90))
  .force("charge", d3.forceManyBody().strength(-250))
  .force("center", d3.forceCenter(innerWidth / 2, innerHeight / 2));

const line = view.append("g").selectAll("line").data(links).join("line")
  .attr("stroke-width", e => 1 + 2 * e.weight);
line.append("title").text(e => e.type);

const edgeLabel = view.append("g").selectAll("text").data(links).join("text")
  .attr("fill", "#777").text(e => e.type);

const node = view.append("g").selectAll("circle").data(data.nodes).join("circle")
  .attr("r", n => 5 + 2 * Math.min((n.sources || []).length, 5))
  .attr("fill", n => color(n.type))
  .call(d3.drag()
    .on("start", (e, n) => { if (!e.active) sim.alphaTarget(0.3).restart(); n.fx = n.x; n.fy = n.y; })
    .on("drag", (e, n) => { n.fx = e.x; n.fy = e.y; })
    .on("end", (e, n) => { if (!e.active) sim.alphaTarget(0); n.fx = null; n.fy = null; }));
node.append("title").text(n => n.label + " [" + n.type + "]");

const nodeLabel = view.append("g").selectAll("text").data(data.nodes).join("text")
  .attr("dx", 10).attr("dy", 4).text(n => n.label);

sim.on("tick", () => {
  line.attr("x1", e => e.source.x).attr("y1", e => e.source.y)
      .attr("x2", e => e.target.x).attr("y2", e => e.target.y);
  edgeLabel.attr("x", e => (e.source.x + e.target.x) / 2).attr("y", e => (e.source.y + e.target.y) / 2);
  node.attr("cx", n => n.x).attr("cy", n => n.y);
  nodeLabel.attr("x", n => n.x).attr("y", n => n.y);
});
</script>
</body>
</html>
`

var page = template.Must(template.New("d3").Parse(d3Template))

// D3Visualizer renders a knowledge graph as a standalone force-directed
// HTML page. Nodes are coloured by entity type and sized by the number of
// documents they were found in.
type D3Visualizer struct {
	title string
}

func NewD3Visualizer(title string) *D3Visualizer {
	if title == "" {
		title = "Knowledge Graph"
	}
	return &D3Visualizer{title: title}
}

// Render writes the HTML page for kg to w.
func (v *D3Visualizer) Render(w io.Writer, kg *graph.KnowledgeGraphData) error {
	if kg == nil {
		return errors.New("nothing to visualize")
	}

	// inserted as a JS object literal, not a quoted string
	data, err := json.Marshal(kg)
	if err != nil {
		return errors.Wrap(err, "encode graph")
	}

	return errors.Wrap(page.Execute(w, struct {
		Title     string
		Data      template.JS
		NodeCount int
		EdgeCount int
	}{v.title, template.JS(data), len(kg.Nodes), len(kg.Edges)}), "render page")
}

// WriteFile renders kg to path, creating parent directories.
func (v *D3Visualizer) WriteFile(path string, kg *graph.KnowledgeGraphData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := v.Render(f, kg); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
