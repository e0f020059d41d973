package models

import (
	"encoding/json"
	"fmt"
)

// Known visualization setting keys. Anything else is carried through untouched.
const (
	SettingShowValues     = "graph.show_values"
	SettingStackType      = "stackable.stack_type"
	SettingXAxisTitle     = "graph.x_axis.title_text"
	SettingXAxisScale     = "graph.x_axis.scale"
	SettingXAxisEnabled   = "graph.x_axis.axis_enabled"
	SettingYAxisTitle     = "graph.y_axis.title_text"
	SettingYAxisScale     = "graph.y_axis.scale"
	SettingYAxisEnabled   = "graph.y_axis.axis_enabled"
	SettingGoalValue      = "graph.goal_value"
	SettingShowGoal       = "graph.show_goal"
	SettingGoalLabel      = "graph.goal_label"
	SettingDimensions     = "graph.dimensions"
	SettingMetrics        = "graph.metrics"
	SettingSeriesSettings = "series_settings"
	SettingSeriesOrder    = "graph.series_order"
	SettingFunnelRows     = "funnel.rows"
)

var knownSettings = map[string]bool{
	SettingShowValues:     true,
	SettingStackType:      true,
	SettingXAxisTitle:     true,
	SettingXAxisScale:     true,
	SettingXAxisEnabled:   true,
	SettingYAxisTitle:     true,
	SettingYAxisScale:     true,
	SettingYAxisEnabled:   true,
	SettingGoalValue:      true,
	SettingShowGoal:       true,
	SettingGoalLabel:      true,
	SettingDimensions:     true,
	SettingMetrics:        true,
	SettingSeriesSettings: true,
	SettingSeriesOrder:    true,
	SettingFunnelRows:     true,
}

// IsKnownSetting reports whether key has a typed accessor.
func IsKnownSetting(key string) bool {
	return knownSettings[key]
}

// StackType controls how series are stacked. The empty value means no
// stacking and is stored as JSON null.
type StackType string

const (
	StackNone       StackType = ""
	StackStacked    StackType = "stacked"
	StackNormalized StackType = "normalized"
)

// AxisScale is the y-axis scale.
type AxisScale string

const (
	ScaleLinear AxisScale = "linear"
	ScalePow    AxisScale = "pow"
	ScaleLog    AxisScale = "log"
)

// SeriesSettings holds per-series display overrides.
type SeriesSettings struct {
	Title            string  `json:"title"`
	Color            *string `json:"color,omitempty"`
	ShowSeriesValues *bool   `json:"show_series_values,omitempty"`
}

// SeriesOrderSetting is one entry of graph.series_order or funnel.rows. The
// order of entries is the order the user arranged them in.
type SeriesOrderSetting struct {
	Name    string  `json:"name"`
	Key     string  `json:"key"`
	Enabled bool    `json:"enabled"`
	Color   *string `json:"color,omitempty"`
}

// VisualizationSettings is the open-ended configuration of how a card is
// drawn. Known keys have typed accessors; every other key is kept verbatim in
// its original position so settings written by newer clients survive a
// round trip through this service.
//
// Parsing and encoding never validate values. A typed accessor returns an
// error only when its own key holds a value of the wrong shape.
type VisualizationSettings struct {
	obj Object
}

// NewVisualizationSettings returns empty settings.
func NewVisualizationSettings() VisualizationSettings {
	return VisualizationSettings{}
}

// ParseVisualizationSettings decodes stored settings. Empty input yields
// empty settings.
func ParseVisualizationSettings(data []byte) (VisualizationSettings, error) {
	var s VisualizationSettings
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return VisualizationSettings{}, fmt.Errorf("parse visualization settings: %w", err)
	}
	return s, nil
}

// Len returns the number of settings.
func (s VisualizationSettings) Len() int { return s.obj.Len() }

// Keys returns every key in order.
func (s VisualizationSettings) Keys() []string { return s.obj.Keys() }

// UnknownKeys returns the keys without a typed accessor, in order.
func (s VisualizationSettings) UnknownKeys() []string {
	var unknown []string
	for _, k := range s.obj.keys {
		if !knownSettings[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// Get returns the raw value of any key.
func (s VisualizationSettings) Get(key string) (Value, bool) { return s.obj.Get(key) }

// Set stores any value under key.
func (s *VisualizationSettings) Set(key string, v interface{}) error { return s.obj.Set(key, v) }

// SetValue stores an already-encoded value under key.
func (s *VisualizationSettings) SetValue(key string, v Value) { s.obj.SetValue(key, v) }

// Delete removes key.
func (s *VisualizationSettings) Delete(key string) { s.obj.Delete(key) }

// Clone returns an independent copy.
func (s VisualizationSettings) Clone() VisualizationSettings {
	return VisualizationSettings{obj: s.obj.Clone()}
}

// Merge overlays every key of other onto s. Keys already present keep their
// position.
func (s *VisualizationSettings) Merge(other VisualizationSettings) {
	for _, k := range other.obj.keys {
		s.obj.SetValue(k, Value{raw: other.obj.values[k]})
	}
}

// MarshalJSON implements json.Marshaler.
func (s VisualizationSettings) MarshalJSON() ([]byte, error) {
	return s.obj.MarshalJSON()
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *VisualizationSettings) UnmarshalJSON(data []byte) error {
	return s.obj.UnmarshalJSON(data)
}

// lookup decodes key into dst. It reports false when the key is absent or
// null, leaving dst untouched.
func (s VisualizationSettings) lookup(key string, want Kind, dst interface{}) (bool, error) {
	v, ok := s.obj.Get(key)
	if !ok || v.IsNull() {
		return false, nil
	}
	if err := v.Decode(want, dst); err != nil {
		return false, fmt.Errorf("visualization setting %q: %w", key, err)
	}
	return true, nil
}

func (s VisualizationSettings) optionalBool(key string) (*bool, error) {
	var b bool
	found, err := s.lookup(key, KindBool, &b)
	if !found {
		return nil, err
	}
	return &b, nil
}

func (s VisualizationSettings) optionalString(key string) (*string, error) {
	var str string
	found, err := s.lookup(key, KindString, &str)
	if !found {
		return nil, err
	}
	return &str, nil
}

func (s VisualizationSettings) stringList(key string) ([]string, error) {
	var list []string
	_, err := s.lookup(key, KindSequence, &list)
	return list, err
}

func (s VisualizationSettings) orderList(key string) ([]SeriesOrderSetting, error) {
	var list []SeriesOrderSetting
	_, err := s.lookup(key, KindSequence, &list)
	return list, err
}

// ShowValues returns graph.show_values, or nil when unset.
func (s VisualizationSettings) ShowValues() (*bool, error) {
	return s.optionalBool(SettingShowValues)
}

// SetShowValues sets graph.show_values.
func (s *VisualizationSettings) SetShowValues(show bool) error {
	return s.Set(SettingShowValues, show)
}

// StackType returns stackable.stack_type. Absent and null both mean StackNone.
func (s VisualizationSettings) StackType() (StackType, error) {
	var raw string
	found, err := s.lookup(SettingStackType, KindString, &raw)
	if !found {
		return StackNone, err
	}
	switch st := StackType(raw); st {
	case StackStacked, StackNormalized:
		return st, nil
	default:
		return StackNone, fmt.Errorf("visualization setting %q: unknown stack type %q", SettingStackType, raw)
	}
}

// SetStackType sets stackable.stack_type; StackNone is written as null.
func (s *VisualizationSettings) SetStackType(st StackType) error {
	switch st {
	case StackNone:
		return s.Set(SettingStackType, nil)
	case StackStacked, StackNormalized:
		return s.Set(SettingStackType, string(st))
	default:
		return fmt.Errorf("unknown stack type %q", st)
	}
}

// XAxisTitle returns graph.x_axis.title_text.
func (s VisualizationSettings) XAxisTitle() (*string, error) {
	return s.optionalString(SettingXAxisTitle)
}

// SetXAxisTitle sets graph.x_axis.title_text.
func (s *VisualizationSettings) SetXAxisTitle(title string) error {
	return s.Set(SettingXAxisTitle, title)
}

// YAxisTitle returns graph.y_axis.title_text.
func (s VisualizationSettings) YAxisTitle() (*string, error) {
	return s.optionalString(SettingYAxisTitle)
}

// SetYAxisTitle sets graph.y_axis.title_text.
func (s *VisualizationSettings) SetYAxisTitle(title string) error {
	return s.Set(SettingYAxisTitle, title)
}

// YAxisScale returns graph.y_axis.scale, defaulting to linear.
func (s VisualizationSettings) YAxisScale() (AxisScale, error) {
	var raw string
	found, err := s.lookup(SettingYAxisScale, KindString, &raw)
	if !found {
		return ScaleLinear, err
	}
	switch scale := AxisScale(raw); scale {
	case ScaleLinear, ScalePow, ScaleLog:
		return scale, nil
	default:
		return ScaleLinear, fmt.Errorf("visualization setting %q: unknown scale %q", SettingYAxisScale, raw)
	}
}

// SetYAxisScale sets graph.y_axis.scale.
func (s *VisualizationSettings) SetYAxisScale(scale AxisScale) error {
	switch scale {
	case ScaleLinear, ScalePow, ScaleLog:
		return s.Set(SettingYAxisScale, string(scale))
	default:
		return fmt.Errorf("unknown scale %q", scale)
	}
}

// GoalValue returns graph.goal_value.
func (s VisualizationSettings) GoalValue() (*float64, error) {
	var f float64
	found, err := s.lookup(SettingGoalValue, KindNumber, &f)
	if !found {
		return nil, err
	}
	return &f, nil
}

// SetGoal sets the goal line value, label and visibility together.
func (s *VisualizationSettings) SetGoal(value float64, label string, show bool) error {
	if err := s.Set(SettingGoalValue, value); err != nil {
		return err
	}
	if err := s.Set(SettingGoalLabel, label); err != nil {
		return err
	}
	return s.Set(SettingShowGoal, show)
}

// ShowGoal returns graph.show_goal.
func (s VisualizationSettings) ShowGoal() (*bool, error) {
	return s.optionalBool(SettingShowGoal)
}

// GoalLabel returns graph.goal_label.
func (s VisualizationSettings) GoalLabel() (*string, error) {
	return s.optionalString(SettingGoalLabel)
}

// Dimensions returns graph.dimensions.
func (s VisualizationSettings) Dimensions() ([]string, error) {
	return s.stringList(SettingDimensions)
}

// Metrics returns graph.metrics.
func (s VisualizationSettings) Metrics() ([]string, error) {
	return s.stringList(SettingMetrics)
}

// SeriesSettings returns series_settings keyed by series identifier.
func (s VisualizationSettings) SeriesSettings() (map[string]SeriesSettings, error) {
	var m map[string]SeriesSettings
	_, err := s.lookup(SettingSeriesSettings, KindMapping, &m)
	return m, err
}

// SetSeriesSettings replaces series_settings.
func (s *VisualizationSettings) SetSeriesSettings(m map[string]SeriesSettings) error {
	return s.Set(SettingSeriesSettings, m)
}

// SeriesOrder returns graph.series_order in the stored order.
func (s VisualizationSettings) SeriesOrder() ([]SeriesOrderSetting, error) {
	return s.orderList(SettingSeriesOrder)
}

// SetSeriesOrder replaces graph.series_order.
func (s *VisualizationSettings) SetSeriesOrder(order []SeriesOrderSetting) error {
	return s.Set(SettingSeriesOrder, order)
}

// FunnelRows returns funnel.rows in the stored order.
func (s VisualizationSettings) FunnelRows() ([]SeriesOrderSetting, error) {
	return s.orderList(SettingFunnelRows)
}

// SetFunnelRows replaces funnel.rows.
func (s *VisualizationSettings) SetFunnelRows(rows []SeriesOrderSetting) error {
	return s.Set(SettingFunnelRows, rows)
}
