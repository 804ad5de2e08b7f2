package model

import "time"

// TimeRange selects the event window a score is computed over.
type TimeRange string

// Supported score windows.
const (
	RangeDaily   TimeRange = "daily"
	RangeWeekly  TimeRange = "weekly"
	RangeMonthly TimeRange = "monthly"
)

// rangeDays maps each window to its length in days.
var rangeDays = map[TimeRange]int{
	RangeDaily:   1,
	RangeWeekly:  7,
	RangeMonthly: 30,
}

// Valid reports whether r is a supported time range.
func (r TimeRange) Valid() bool {
	_, ok := rangeDays[r]
	return ok
}

// Days returns the window length in days, or 0 for an unknown range.
func (r TimeRange) Days() int {
	return rangeDays[r]
}

// Window returns the [start, end] bounds for the range ending at now.
func (r TimeRange) Window(now time.Time) (start, end time.Time) {
	return now.AddDate(0, 0, -r.Days()), now
}

// Family identifies a composite metric family.
type Family string

// Composite metric families surfaced to users.
const (
	FamilyIntelligence    Family = "intelligence"
	FamilyGoalProbability Family = "goal_probability"
	FamilyBurnout         Family = "burnout"
	FamilyFocus           Family = "focus"
	FamilyMood            Family = "mood"
	FamilyProductivity    Family = "productivity"
)

// knownFamilies is the dispatch table for metric families.
var knownFamilies = map[Family]struct{}{
	FamilyIntelligence:    {},
	FamilyGoalProbability: {},
	FamilyBurnout:         {},
	FamilyFocus:           {},
	FamilyMood:            {},
	FamilyProductivity:    {},
}

// Valid reports whether f is a known metric family.
func (f Family) Valid() bool {
	_, ok := knownFamilies[f]
	return ok
}

// Families returns all known metric families.
func Families() []Family {
	out := make([]Family, 0, len(knownFamilies))
	for f := range knownFamilies {
		out = append(out, f)
	}
	return out
}

// TrendDirection classifies the movement between two baseline sub-windows.
type TrendDirection string

// Trend classifications.
const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Driver explains one component's pull on a composite score. Impact is
// used only for ranking and is never surfaced raw.
type Driver struct {
	Direction string  `json:"direction"` // "up" or "down"
	Label     string  `json:"label"`
	Detail    string  `json:"detail"`
	Impact    float64 `json:"-"`
}

// Driver directions.
const (
	DriverUp   = "up"
	DriverDown = "down"
)

// Action is one recommended next step, ranked by priority descending.
type Action struct {
	Label        string  `json:"label"`
	Detail       string  `json:"detail"`
	TargetMetric string  `json:"target_metric"`
	Priority     float64 `json:"-"`
}

// Snapshot is one immutable computation result. Snapshots are append-only:
// recomputation appends a new row with a later ComputedAt and never edits
// an existing one.
type Snapshot struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	Family      Family             `json:"family"`
	TimeRange   TimeRange          `json:"time_range"`
	ComputedAt  time.Time          `json:"computed_at"`
	Overall     float64            `json:"overall_score"` // [0,100]
	Category    string             `json:"category_label"`
	Components  map[string]int     `json:"component_metrics"` // each [0,100]
	Confidence  float64            `json:"confidence"`        // [0,1]
	Coverage    float64            `json:"coverage"`          // [0,1]
	Drivers     []Driver           `json:"drivers,omitempty"`
	NextActions []Action           `json:"next_actions,omitempty"`
	Baseline    *float64           `json:"baseline,omitempty"`
	Trend       TrendDirection     `json:"trend"`
	Evidence    map[string]float64 `json:"-"`
}

// Validate checks the snapshot invariants before it is appended.
func (s Snapshot) Validate() error {
	switch {
	case s.UserID == "":
		return ErrMissingUserID
	case !s.Family.Valid():
		return ErrUnknownFamily
	case !s.TimeRange.Valid():
		return ErrInvalidTimeRange
	case s.ComputedAt.IsZero():
		return ErrMissingTimestamp
	case s.Overall < 0 || s.Overall > 100:
		return ErrScoreOutOfRange
	case s.Confidence < 0 || s.Confidence > 1:
		return ErrConfidenceOutOfRange
	}
	for _, v := range s.Components {
		if v < 0 || v > 100 {
			return ErrScoreOutOfRange
		}
	}
	return nil
}
