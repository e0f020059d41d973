package models

import (
	"github.com/yasinhessnawi1/Annotate_Backend/internal/popover"
)

// TableInfo is the table metadata shown inside the popover.
type TableInfo struct {
	ID          popover.TableID `json:"id"`
	DisplayName string          `json:"display_name"`
	Description *string         `json:"description"`
	FieldCount  int             `json:"field_count"`
}

// TablePopover is the popover decision for one table together with the
// metadata to display. Table is omitted when the table is unknown.
type TablePopover struct {
	popover.Decision
	Table *TableInfo `json:"table,omitempty"`
}

// Ref returns the reference the popover decision is made on.
func (t *TableInfo) Ref() popover.TableRef {
	return popover.TableRef{ID: t.ID, Description: t.Description}
}
