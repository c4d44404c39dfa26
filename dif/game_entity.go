package dif

import (
	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

// GameEntity places a scripted object (spawn point, item, etc.) at a fixed
// position with datablock-defined properties.
type GameEntity struct {
	Datablock  string
	GameClass  string
	Position   geom.Point3F
	Properties map[string]string
}

func ReadGameEntity(r *wire.Reader) GameEntity {
	return GameEntity{
		Datablock:  r.String(),
		GameClass:  r.String(),
		Position:   geom.ReadPoint3F(r),
		Properties: r.Dictionary(),
	}
}

func (e GameEntity) Write(w *wire.Writer) {
	w.String(e.Datablock)
	w.String(e.GameClass)
	e.Position.Write(w)
	w.Dictionary(e.Properties)
}
