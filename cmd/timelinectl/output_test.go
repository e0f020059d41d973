package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
)

func TestParseCollection(t *testing.T) {
	id, err := parseCollection("root")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = parseCollection("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = parseCollection("12")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(12), *id)

	for _, raw := range []string{"0", "-4", "abc"} {
		_, err = parseCollection(raw)
		assert.Error(t, err, raw)
	}
}

func TestWriteTimelines(t *testing.T) {
	collectionID := int64(7)
	timelines := []*models.Timeline{
		{ID: 1, Name: "Releases", Icon: "star", Default: true},
		{ID: 2, CollectionID: &collectionID, Name: "Incidents", Icon: "warning", Archived: true},
	}

	var buf bytes.Buffer
	require.NoError(t, writeTimelines(&buf, timelines))

	out := buf.String()
	assert.Contains(t, out, "Releases")
	assert.Contains(t, out, "Incidents")
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "warning")
}

func TestEventTime(t *testing.T) {
	ts := time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)

	dateOnly := &models.TimelineEvent{Timestamp: ts, Timezone: "UTC"}
	assert.Equal(t, "2025-03-01", eventTime(dateOnly))

	withTime := &models.TimelineEvent{Timestamp: ts, Timezone: "UTC", TimeMatters: true}
	assert.Equal(t, "2025-03-01 14:30 UTC", eventTime(withTime))
}

func TestWriteEvents(t *testing.T) {
	events := []*models.TimelineEvent{
		{ID: 3, TimelineID: 1, Name: "Launch", Icon: "balloons", Timezone: "UTC",
			Timestamp: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 4, TimelineID: 1, Name: "Rollback", Icon: "warning", Timezone: "UTC", Archived: true,
			Timestamp: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, writeEvents(&buf, events))

	out := buf.String()
	assert.Contains(t, out, "Launch")
	assert.Contains(t, out, "2025-03-02")
	assert.Contains(t, out, string(models.EventActive))
	assert.Contains(t, out, string(models.EventArchived))
}

func TestWriteDecision(t *testing.T) {
	desc := "Web shop orders"
	p := &models.TablePopover{
		Decision: popover.Decision{
			Show:      true,
			Placement: "bottom",
			Offset:    &popover.Offset{0, 8},
		},
		Table: &models.TableInfo{DisplayName: "Orders", Description: &desc, FieldCount: 9},
	}

	var buf bytes.Buffer
	require.NoError(t, writeDecision(&buf, p))

	out := buf.String()
	assert.Contains(t, out, "bottom")
	assert.Contains(t, out, "0,8")
	assert.Contains(t, out, "Orders")
	assert.Contains(t, out, desc)
}

func TestFormatOffset(t *testing.T) {
	assert.Equal(t, "-", formatOffset(nil))
	assert.Equal(t, "-2,4", formatOffset(&popover.Offset{-2, 4}))
}
