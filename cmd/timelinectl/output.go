package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/models"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
	"github.com/yasinhessnawi1/Annotate_Backend/internal/service"
)

const timeFormat = "2006-01-02 15:04 MST"

// writeTable renders rows with a header in the shared table style.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func collectionLabel(id *int64) string {
	if id == nil {
		return constants.RootCollectionID
	}
	return strconv.FormatInt(*id, 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeTimelines(w io.Writer, timelines []*models.Timeline) error {
	rows := make([][]string, 0, len(timelines))
	for _, t := range timelines {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			collectionLabel(t.CollectionID),
			t.Name,
			t.Icon,
			yesNo(t.Default),
			yesNo(t.Archived),
		})
	}
	return writeTable(w, []string{"ID", "Collection", "Name", "Icon", "Default", "Archived"}, rows)
}

// eventTime shows the wall clock only when the time of day matters.
func eventTime(e *models.TimelineEvent) string {
	ts := e.Timestamp
	if loc, err := time.LoadLocation(e.Timezone); err == nil {
		ts = ts.In(loc)
	}
	if !e.TimeMatters {
		return ts.Format(time.DateOnly)
	}
	return ts.Format(timeFormat)
}

func writeEvents(w io.Writer, events []*models.TimelineEvent) error {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.TimelineID, 10),
			eventTime(e),
			e.Name,
			e.Icon,
			string(e.State()),
		})
	}
	return writeTable(w, []string{"ID", "Timeline", "When", "Name", "Icon", "State"}, rows)
}

func writeUsers(w io.Writer, users []*models.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Email,
			u.CommonName(),
			u.Role,
		})
	}
	return writeTable(w, []string{"ID", "Email", "Name", "Role"}, rows)
}

func formatOffset(o *popover.Offset) string {
	if o == nil {
		return "-"
	}
	return fmt.Sprintf("%d,%d", o[0], o[1])
}

func writeDecision(w io.Writer, p *models.TablePopover) error {
	rows := [][]string{
		{"show", yesNo(p.Show)},
		{"placement", p.Placement},
		{"offset", formatOffset(p.Offset)},
		{"delay", fmt.Sprintf("%s / %s", p.Delay.Show, p.Delay.Hide)},
	}
	if p.Table != nil {
		rows = append(rows, []string{"table", p.Table.DisplayName})
		if p.Table.Description != nil {
			rows = append(rows, []string{"description", *p.Table.Description})
		}
		rows = append(rows, []string{"fields", strconv.Itoa(p.Table.FieldCount)})
	}
	return writeTable(w, []string{"Key", "Value"}, rows)
}

func writePopover(w io.Writer, tables *service.TableService, id int64) error {
	decision, err := tables.Popover(rootCtx, strconv.FormatInt(id, 10), popover.Options{})
	if err != nil {
		return err
	}
	return writeDecision(w, decision)
}
