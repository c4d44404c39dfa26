package dlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageLoggerTagsEveryCallWithItsStageName(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	custom := &testLogger{}
	SetLogger(custom)

	s := Stage("export_brushes")
	s.Debug("exporting", F("triangles", 12))
	s.Warn("slow export")

	require.Len(t, custom.messages, 2)
	assert.Equal(t, "stage", custom.messages[0].fields[0].Key)
	assert.Equal(t, "export_brushes", custom.messages[0].fields[0].Value)
	assert.Equal(t, "triangles", custom.messages[0].fields[1].Key)

	assert.Equal(t, "stage", custom.messages[1].fields[0].Key)
	assert.Equal(t, "export_brushes", custom.messages[1].fields[0].Value)
}

func TestStageLoggerDoneLogsElapsedAndCallerFields(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	custom := &testLogger{}
	SetLogger(custom)

	s := Stage("raycast_coverage")
	s.Done(F("hit_area_percentage", float32(99.5)))

	require.Len(t, custom.messages, 1)
	msg := custom.messages[0]
	assert.Equal(t, "info", msg.level)
	assert.Equal(t, "stage complete", msg.msg)

	var sawStage, sawCaller, sawElapsed bool
	for _, f := range msg.fields {
		switch f.Key {
		case "stage":
			sawStage = f.Value == "raycast_coverage"
		case "hit_area_percentage":
			sawCaller = true
		case "elapsed_ms":
			sawElapsed = true
		}
	}
	assert.True(t, sawStage, "Done must still tag the stage field")
	assert.True(t, sawCaller, "Done must keep caller-supplied fields")
	assert.True(t, sawElapsed, "Done must record elapsed_ms")
}

func TestStageLoggerUsesLoggerInstalledAtCreation(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	first := &testLogger{}
	SetLogger(first)
	s := Stage("export_brushes")

	second := &testLogger{}
	SetLogger(second)
	s.Info("still using first")

	assert.Len(t, first.messages, 1)
	assert.Len(t, second.messages, 0)
}
