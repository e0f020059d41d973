package constants

// Affordance labels are the stable strings clients and browser tests locate
// controls by. They are returned in the affordances list of timeline responses.
const (
	LabelCalendarIcon = "calendar icon"
	LabelTableIcon    = "table2 icon"
	LabelAddEvent     = "Add an event"
	LabelEventName    = "Event name"
	LabelDate         = "Date"
	LabelCreate       = "Create"
	LabelUpdate       = "Update"
	LabelEditEvent    = "Edit event"
	LabelArchiveEvent = "Archive event"
	LabelUndo         = "Undo"
	LabelEllipsis     = "ellipsis"
)

// Event list views.
const (
	ViewCalendar = "calendar"
	ViewTable    = "table"
)
