package dif

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertexsoup/difbuilder/geom"
	"github.com/vertexsoup/difbuilder/wire"
)

func emptyInterior() *Interior {
	return &Interior{
		BaseAmbientColor:  geom.ColorI{A: 255},
		AlarmAmbientColor: geom.ColorI{A: 255},
	}
}

func TestDifRoundTripEmpty(t *testing.T) {
	v := NewMBGVersion()
	d := &Dif{Interiors: []*Interior{emptyInterior()}}

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf, v))

	got, gotVersion, err := ReadDif(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(44), gotVersion.Dif)
	assert.Equal(t, uint32(0), gotVersion.Interior)
	require.Len(t, got.Interiors, 1)
	assert.Equal(t, EngineMBG, gotVersion.Engine)
}

func TestDifRejectsWrongVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0})
	_, _, err := ReadDif(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedDifVersion)
}

func TestDifWithTriggerAndVehicleCollision(t *testing.T) {
	v := NewMBGVersion()
	d := &Dif{
		Interiors: []*Interior{emptyInterior()},
		Triggers: []Trigger{
			{
				Name:       "teleporter0",
				Datablock:  "StandardTrigger",
				Properties: map[string]string{"text": "hello"},
				Polyhedron: Polyhedron{
					PointList: []geom.Point3F{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
				},
				Offset: geom.Point3F{X: 1, Y: 2, Z: 3},
			},
		},
		VehicleCollision: &VehicleCollision{Version: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf, v))

	got, _, err := ReadDif(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Triggers, 1)
	assert.Equal(t, "teleporter0", got.Triggers[0].Name)
	assert.Equal(t, "hello", got.Triggers[0].Properties["text"])
	require.NotNil(t, got.VehicleCollision)
}

func TestInteriorRejectsNonMBGVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0}) // interior version 1
	r := wire.NewReader(bytes.NewReader(buf.Bytes()))
	v := &Version{}
	_, err := ReadInterior(r, v)
	assert.ErrorIs(t, err, ErrNonMBGInterior)
}
