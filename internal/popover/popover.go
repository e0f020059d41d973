// Package popover decides whether a table reference gets an informational
// overlay and keeps overlays of the same kind mutually exclusive.
package popover

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yasinhessnawi1/Annotate_Backend/internal/constants"
)

// TableID identifies a table. Physical tables have integer ids; virtual
// tables such as saved questions used as a source have string ids
// ("card__12") and never get an overlay.
type TableID struct {
	num     int64
	str     string
	virtual bool
}

// NumericID returns the id of a physical table.
func NumericID(id int64) TableID {
	return TableID{num: id}
}

// VirtualID returns the id of a virtual table.
func VirtualID(id string) TableID {
	return TableID{str: id, virtual: true}
}

// ParseTableID interprets a path segment. Anything that is not a base-10
// integer is a virtual id.
func ParseTableID(s string) TableID {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NumericID(n)
	}
	return VirtualID(s)
}

// IsVirtual reports whether the id is a string id.
func (id TableID) IsVirtual() bool {
	return id.virtual
}

// Int64 returns the numeric id. ok is false for virtual ids.
func (id TableID) Int64() (n int64, ok bool) {
	if id.virtual {
		return 0, false
	}
	return id.num, true
}

func (id TableID) String() string {
	if id.virtual {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

// MarshalJSON implements json.Marshaler.
func (id TableID) MarshalJSON() ([]byte, error) {
	if id.virtual {
		return json.Marshal(id.str)
	}
	return []byte(strconv.FormatInt(id.num, 10)), nil
}

// UnmarshalJSON accepts either a JSON number or a JSON string. A string is
// always virtual, even when it looks numeric.
func (id *TableID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = VirtualID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("table id must be an integer or a string: %w", err)
	}
	*id = NumericID(n)
	return nil
}

// TableRef is the part of a table the popover needs.
type TableRef struct {
	ID          TableID `json:"id"`
	Description *string `json:"description,omitempty"`
}

// Offset is the overlay offset as [skidding, distance] pixels.
type Offset [2]int

// ParseOffset reads "skidding,distance".
func ParseOffset(s string) (*Offset, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("offset must be two comma separated integers, got %q", s)
	}
	var off Offset
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid offset component %q: %w", p, err)
		}
		off[i] = n
	}
	return &off, nil
}

// Delay is the pair of show and hide delays.
type Delay struct {
	Show time.Duration
	Hide time.Duration
}

// DefaultDelay is the delay used when none is configured.
var DefaultDelay = Delay{Show: constants.DefaultPopoverShowDelay, Hide: constants.DefaultPopoverHideDelay}

// MarshalJSON writes [show, hide] in milliseconds.
func (d Delay) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{d.Show.Milliseconds(), d.Hide.Milliseconds()})
}

// Options are the caller's overrides. Zero values select the defaults.
type Options struct {
	Placement string
	Offset    *Offset
	Delay     Delay
}

// Decision is the outcome for one table reference. When Show is false the
// caller renders its content without an overlay and the other fields are
// informational only.
type Decision struct {
	Show        bool    `json:"show"`
	Placement   string  `json:"placement"`
	Offset      *Offset `json:"offset,omitempty"`
	Delay       Delay   `json:"delay"`
	ClassName   string  `json:"class_name"`
	Interactive bool    `json:"interactive"`
}

// Decide shows an overlay only for a physical table with a non-empty
// description.
func Decide(table TableRef, opts Options) Decision {
	d := Decision{
		Show:        ShouldShow(table),
		Placement:   opts.Placement,
		Offset:      opts.Offset,
		Delay:       opts.Delay,
		ClassName:   constants.PopoverOverlayClass,
		Interactive: true,
	}
	if d.Placement == "" {
		d.Placement = constants.DefaultPopoverPlacement
	}
	if d.Delay == (Delay{}) {
		d.Delay = DefaultDelay
	}
	return d
}

// ShouldShow reports whether table qualifies for an overlay.
func ShouldShow(table TableRef) bool {
	if table.ID.IsVirtual() {
		return false
	}
	return table.Description != nil && *table.Description != ""
}
