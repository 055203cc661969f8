package timeline

// GanttTask is a calendar-bound task as shown on the Gantt chart.
// Dependencies are only used to draw arrows.
type GanttTask struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	StartDate    Date     `json:"startDate" yaml:"start_date"`
	EndDate      Date     `json:"endDate" yaml:"end_date"`
	Progress     int      `json:"progress" yaml:"progress"` // 0-100
	Color        string   `json:"color,omitempty" yaml:"color,omitempty"`
	Assignee     string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Options controls the chart bounds and geometry.
type Options struct {
	// Start and End bound the chart only when there are no tasks.
	Start *Date
	End   *Date

	// Today positions the today marker. Zero means the current date.
	Today Date

	UnitWidth float64 // pixels per day
	RowHeight float64 // pixels per task row
}

const (
	DefaultUnitWidth = 40
	DefaultRowHeight = 40

	leadDays      = 7
	trailDays     = 14
	emptySpanDays = 60
)

// Relative places a bar against today.
type Relative string

const (
	RelativePast    Relative = "past"
	RelativeCurrent Relative = "current"
	RelativeFuture  Relative = "future"
)

// Chart is the computed timeline layout.
type Chart struct {
	ChartStart  Date         `json:"chartStart"`
	ChartEnd    Date         `json:"chartEnd"`
	TotalDays   int          `json:"totalDays"`
	UnitWidth   float64      `json:"unitWidth"`
	RowHeight   float64      `json:"rowHeight"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	WeekMarkers []WeekMarker `json:"weekMarkers"`
	TaskBars    []TaskBar    `json:"taskBars"`
	Arrows      []Arrow      `json:"arrows"`
	TodayOffset *float64     `json:"todayOffset,omitempty"`
}

// WeekMarker is a header tick every seven days from the chart start.
type WeekMarker struct {
	Date   Date    `json:"date"`
	Offset float64 `json:"offset"`
	Label  string  `json:"label"`
}

// TaskBar is the geometry of one task on the chart.
type TaskBar struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Row           int      `json:"row"`
	Start         Date     `json:"start"`
	End           Date     `json:"end"`
	Left          float64  `json:"left"`
	Top           float64  `json:"top"`
	Width         float64  `json:"width"`
	ProgressWidth float64  `json:"progressWidth"`
	Progress      int      `json:"progress"`
	Color         string   `json:"color,omitempty"`
	Assignee      string   `json:"assignee,omitempty"`
	TodayRelative Relative `json:"todayRelative"`
}

// Arrow connects the end of a dependency bar to the start of its dependent.
type Arrow struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	FromX float64 `json:"fromX"`
	FromY float64 `json:"fromY"`
	ToX   float64 `json:"toX"`
	ToY   float64 `json:"toY"`
}
