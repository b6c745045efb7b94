package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemorySink(t *testing.T) {
	sink := &MemorySink{}
	sink.Emit(NewSpace{SpaceID: "space#1"})
	sink.Emit(DeletePeriod{})
	sink.Emit(NewSpace{SpaceID: "space#2"})

	assert.Len(t, sink.Events(), 3)

	spaces := sink.Named("NewSpace")
	assert.Len(t, spaces, 2)
	assert.Equal(t, "space#1", spaces[0].(NewSpace).SpaceID)
	assert.Equal(t, "space#2", spaces[1].(NewSpace).SpaceID)
	assert.Empty(t, sink.Named("Buy"))
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &MemorySink{}
	b := &MemorySink{}
	multi := &MultiSink{Sinks: []Sink{a, b, NopSink{}}}

	multi.Emit(NewSpace{SpaceID: "space#1"})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
}
