package dif

import (
	"bytes"
	"io"

	"github.com/vertexsoup/difbuilder/wire"
)

// Dif is the top-level container for everything a .dif file holds: one or
// more interiors (the root plus any detail sub-objects), triggers, moving
// platforms, force fields, AI nodes, an optional vehicle collision mesh,
// and static game entities.
type Dif struct {
	Interiors             []*Interior
	SubObjects            []*Interior
	Triggers              []Trigger
	InteriorPathFollowers []InteriorPathFollower
	ForceFields           []ForceField
	AISpecialNodes        []AISpecialNode
	VehicleCollision      *VehicleCollision
	GameEntities          []GameEntity
}

// ReadDif decodes a complete DIF stream and returns the Version it
// resolved along the way (engine variant, interior sub-version).
func ReadDif(data []byte) (*Dif, *Version, error) {
	v := &Version{}
	r := wire.NewReader(bytes.NewReader(data))

	v.Dif = r.U32()
	if r.Err() != nil {
		return nil, nil, r.Err()
	}
	if v.Dif != 44 {
		return nil, nil, ErrUnsupportedDifVersion
	}

	if r.U8() != 0 {
		r.PNG()
	}

	d := &Dif{}

	interiorCount := r.U32()
	for i := uint32(0); i < interiorCount && r.Err() == nil; i++ {
		in, err := ReadInterior(r, v)
		if err != nil {
			return nil, nil, err
		}
		d.Interiors = append(d.Interiors, in)
	}

	subObjectCount := r.U32()
	for i := uint32(0); i < subObjectCount && r.Err() == nil; i++ {
		in, err := ReadInterior(r, v)
		if err != nil {
			return nil, nil, err
		}
		d.SubObjects = append(d.SubObjects, in)
	}

	d.Triggers = wire.ReadVecFn(r, ReadTrigger)
	d.InteriorPathFollowers = wire.ReadVecFn(r, ReadInteriorPathFollower)
	d.ForceFields = wire.ReadVecFn(r, ReadForceField)
	d.AISpecialNodes = wire.ReadVecFn(r, ReadAISpecialNode)

	if r.U32() != 0 {
		vc := ReadVehicleCollision(r)
		d.VehicleCollision = &vc
	}

	if r.U32() == 2 {
		d.GameEntities = wire.ReadVecFn(r, ReadGameEntity)
	}

	if r.Err() != nil {
		return nil, nil, r.Err()
	}
	return d, v, nil
}

// Write encodes the Dif to w using v (normally NewMBGVersion()). The
// trailing u32(0) mirrors the reference writer's unconditional final word,
// whose purpose the upstream project never documented.
func (d *Dif) Write(w io.Writer, v *Version) error {
	wr := wire.NewWriter(w)
	wr.U32(v.Dif)
	wr.U8(0)

	wr.U32(uint32(len(d.Interiors)))
	for _, in := range d.Interiors {
		if err := in.Write(wr, v); err != nil {
			return err
		}
	}

	wr.U32(uint32(len(d.SubObjects)))
	for _, in := range d.SubObjects {
		if err := in.Write(wr, v); err != nil {
			return err
		}
	}

	wire.WriteVecFn(wr, d.Triggers, func(wr *wire.Writer, t Trigger) { t.Write(wr, v) })
	wire.WriteVecFn(wr, d.InteriorPathFollowers, func(wr *wire.Writer, p InteriorPathFollower) { p.Write(wr) })
	wire.WriteVecFn(wr, d.ForceFields, func(wr *wire.Writer, f ForceField) { f.Write(wr) })
	wire.WriteVecFn(wr, d.AISpecialNodes, func(wr *wire.Writer, n AISpecialNode) { n.Write(wr) })

	if d.VehicleCollision != nil {
		wr.U32(1)
		d.VehicleCollision.Write(wr)
	} else {
		wr.U32(0)
	}

	if len(d.GameEntities) > 0 {
		wr.U32(2)
		wire.WriteVecFn(wr, d.GameEntities, func(wr *wire.Writer, e GameEntity) { e.Write(wr) })
	} else {
		wr.U32(0)
	}
	wr.U32(0)

	return wr.Err()
}
