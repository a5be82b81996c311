package iwl

import (
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

// ConfigurationWeights returns, for every configuration that produced a candidate, the best
// weight among its reference outcomes, together with the configurations in first-seen order.
func (result Result) ConfigurationWeights() (order []string, weights map[string]float64) {
	weights = make(map[string]float64)
	for _, candidate := range result.Candidates {
		known, ok := weights[candidate.Configuration]
		if !ok {
			order = append(order, candidate.Configuration)
		}
		if !ok || candidate.Weight > known {
			weights[candidate.Configuration] = candidate.Weight
		}
	}
	return order, weights
}

// nodeDescription returns the label of a configuration node.
func nodeDescription(configuration string, weight float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintln(configuration))
	sb.WriteString(fmt.Sprintf("w = %6.5f", weight))
	return sb.String()
}

// DrawGraph draws the configuration lattice explored by the search. An edge goes from a
// configuration to every configuration obtained by freeing one of its fixed coordinates.
// The configuration of the maximizer is drawn as a red box.
func (result Result) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create graph")
	}

	order, weights := result.ConfigurationWeights()
	nodes := make(map[string]*cgraph.Node, len(order))
	for _, configuration := range order {
		node, err := graph.CreateNode(configuration)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "create node %s", configuration)
		}
		attributes := [][3]string{{"label", nodeDescription(configuration, weights[configuration]), `\N`}}
		if configuration == result.Configuration {
			attributes = append(attributes, [3]string{"shape", "box", "ellipse"}, [3]string{"color", "red", "black"})
		}
		for _, attribute := range attributes {
			if node.SafeSet(attribute[0], attribute[1], attribute[2]) != 0 {
				return nil, nil, errors.Errorf("set %s of node %s", attribute[0], configuration)
			}
		}
		nodes[configuration] = node
	}

	for _, configuration := range order {
		for pos, ch := range configuration {
			if ch == '*' {
				continue
			}
			freed := configuration[:pos] + "*" + configuration[pos+1:]
			if target, ok := nodes[freed]; ok {
				if _, err := graph.CreateEdge("", nodes[configuration], target); err != nil {
					return nil, nil, errors.Wrapf(err, "create edge %s -> %s", configuration, freed)
				}
			}
		}
	}
	return graphViz, graph, nil
}

// RenderSearch writes the configuration lattice to picturesDirectory/dumpPrefix.figureType.
// figureType is one of png, svg, jpg or dot.
func (result Result) RenderSearch(dumpPrefix, figureType, picturesDirectory string) error {
	graphvizType, ok := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
		"dot": graphviz.XDOT,
	}[figureType]
	if !ok {
		return errors.Errorf("unknown figure type %q", figureType)
	}

	graphViz, graph, err := result.DrawGraph()
	if err != nil {
		return err
	}
	defer func() {
		_ = graph.Close()
		_ = graphViz.Close()
	}()

	filename := fmt.Sprintf("%s.%s", dumpPrefix, figureType)
	return graphViz.RenderFilename(graph, graphvizType, path.Join(picturesDirectory, filename))
}
