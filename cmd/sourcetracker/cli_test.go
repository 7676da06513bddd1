package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gethiox/sourcetracker/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawStringLen(t *testing.T) {
	for i, tc := range []struct {
		input    string
		expected int
	}{
		{input: "", expected: 0},
		{input: "a", expected: 1},
		{input: "a\033", expected: 2},
		{input: "a\033[", expected: 3},
		{input: "a\033[2", expected: 4},
		{input: "a\033[2A", expected: 1},
		{input: "a\033[2Aa", expected: 2},
		{input: aurora.Red("abc").String(), expected: 3},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			assert.Equal(t, tc.expected, rawStringLen(tc.input))
		})
	}
}

func TestUnpack(t *testing.T) {
	data := []byte(`{"ts":1650000000000000000,"caller":"source/tracker.go:99","msg":"source detected","level":3,"source_id":7,"type":"SourceDetected"}`)

	e, err := unpack(data)
	require.Equal(t, nil, err)
	assert.Equal(t, "source detected", e.Msg)
	assert.Equal(t, logger.NotifyLvl, e.Level)
	require.NotNil(t, e.SourceID)
	assert.Equal(t, uint32(7), *e.SourceID)
	assert.Equal(t, "SourceDetected", e.Notification)
	assert.Equal(t, int64(1650000000000000000), time.Time(e.Ts).UnixNano())

	_, err = unpack([]byte("not a json"))
	assert.NotEqual(t, nil, err)
}

func TestPrepareString(t *testing.T) {
	au := aurora.NewAurora(false)
	id := uint32(3)
	ts := TimeNanosecond(time.Date(2022, 4, 1, 12, 30, 15, 250_000_000, time.Local))
	e := Entry{Ts: ts, Msg: "Grasp pressed", Level: logger.NotifyLvl, SourceID: &id}

	assert.Equal(t, "[12:30:15.250] Grasp pressed [source=3]", prepareString(e, au, -1, logger.NotifyLvl))
	assert.Equal(t, "", prepareString(e, au, -1, logger.InfoLvl), "filtered out")

	aligned := prepareString(e, au, 60, logger.NotifyLvl)
	assert.Equal(t, 60, rawStringLen(aligned))
	assert.Equal(t, "[12:30:15.250] Grasp pressed"+strings.Repeat(" ", 22)+"[source=3]", aligned)

	e.Msg = "a very long message that does not fit into the available space at all"
	truncated := prepareString(e, au, 60, logger.NotifyLvl)
	assert.Contains(t, truncated, "(…)")
	assert.Contains(t, truncated, "[source=3]")

	e.SourceID = nil
	assert.Equal(t, "[12:30:15.250] "+e.Msg, prepareString(e, au, -1, logger.NotifyLvl))
}

func TestLogBuffer(t *testing.T) {
	b := newLogBuffer(3)
	assert.Len(t, b.ReadLastMessages(5), 0)

	b.WriteMessage([]byte("1"))
	b.WriteMessage([]byte("2"))
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, b.ReadLastMessages(5))

	b.WriteMessage([]byte("3"))
	b.WriteMessage([]byte("4"))
	assert.Equal(t, [][]byte{[]byte("2"), []byte("3"), []byte("4")}, b.ReadLastMessages(5))
	assert.Equal(t, [][]byte{[]byte("4")}, b.ReadLastMessages(1))
	assert.Len(t, b.ReadLastMessages(0), 0)
}
