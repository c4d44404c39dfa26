package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

// AISpecialNode marks a named point of interest (patrol waypoint, cover
// spot) for bot AI, carrying no data beyond its position.
type AISpecialNode struct {
	Name     string
	Position geom.Point3F
}

func ReadAISpecialNode(r *wire.Reader) AISpecialNode {
	return AISpecialNode{Name: r.String(), Position: geom.ReadPoint3F(r)}
}

func (n AISpecialNode) Write(w *wire.Writer) {
	w.String(n.Name)
	n.Position.Write(w)
}
