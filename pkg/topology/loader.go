package topology

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Topology is the on-disk node/edge universe.
type Topology struct {
	Nodes []Node
	Edges []DirectedEdge
}

// fileNode mirrors Node for decoding. Visible is a pointer so that an
// omitted field defaults to true rather than YAML's zero value.
type fileNode struct {
	ID      NodeID `yaml:"id"`
	Region  string `yaml:"region"`
	Visible *bool  `yaml:"visible"`
}

type fileTopology struct {
	Nodes []fileNode     `yaml:"nodes"`
	Edges []DirectedEdge `yaml:"edges"`
}

// Parse decodes a YAML topology document. Structural validation happens at
// snapshot construction; Parse only checks that the document decodes.
func Parse(data []byte) (*Topology, error) {
	var ft fileTopology
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("parsing topology: %w", err)
	}

	topo := &Topology{
		Nodes: make([]Node, 0, len(ft.Nodes)),
		Edges: ft.Edges,
	}
	for _, fn := range ft.Nodes {
		visible := true
		if fn.Visible != nil {
			visible = *fn.Visible
		}
		topo.Nodes = append(topo.Nodes, Node{
			ID:      fn.ID,
			Region:  fn.Region,
			Visible: visible,
		})
	}
	return topo, nil
}

// LoadFile reads and parses a YAML topology file.
func LoadFile(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topology file: %w", err)
	}
	return Parse(data)
}
