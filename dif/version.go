// Package dif implements the DIF binary record model: Version/EngineVersion,
// the Interior geometry record, and the Dif top-level container plus its
// Trigger/ForceField/GameEntity/AISpecialNode/InteriorPathFollower/
// VehicleCollision siblings.
//
// Field order and version gating are grounded record-for-record on
// original_source/libdif/src/{interior,dif,trigger,force_field,game_entity,
// ai_special_node,interior_path_follower,vehicle_collision,sub_object}.rs,
// since spec.md describes the model at a level that omits exact field
// order. This module targets the MBG engine variant only, per spec.md's
// explicit non-goal on alternate engine variants; the reader enforces
// interior version 0 rather than attempting the reference implementation's
// trial-read-then-rewind TGE/TGEA surface detection.
package dif

import "errors"

// EngineVersion identifies which engine variant produced a DIF stream.
type EngineVersion int

const (
	EngineUnknown EngineVersion = iota
	EngineMBG
	EngineTGE
	EngineTGEA
	EngineT3D
)

// Version tracks the sub-versions discovered while reading (or chosen while
// writing) a DIF stream. It is threaded explicitly through every Read/Write
// call rather than kept as global mutable state.
type Version struct {
	Engine            EngineVersion
	Dif               uint32
	Interior          uint32
	MaterialList      uint8
	VehicleCollision  uint32
	ForceField        uint32
}

// NewMBGVersion returns the Version a writer uses to emit an MBG DIF:
// dif=44, interior=0.
func NewMBGVersion() *Version {
	return &Version{Engine: EngineMBG, Dif: 44, Interior: 0}
}

// IsTGE reports whether the engine is MBG or TGE, mirroring the reference
// implementation's is_tge() (both variants share several field widths).
func (v *Version) IsTGE() bool {
	return v.Engine == EngineMBG || v.Engine == EngineTGE
}

var (
	ErrUnsupportedDifVersion      = errors.New("dif: unsupported top-level dif version, expected 44")
	ErrUnsupportedInteriorVersion = errors.New("dif: unsupported interior version")
	ErrNonMBGInterior             = errors.New("dif: only MBG interiors (version 0) are supported")
	ErrInvalidSurfaceFlags        = errors.New("dif: invalid surface flags byte")
	ErrSurfaceIndexOOB            = errors.New("dif: surface field index out of bounds")
)
