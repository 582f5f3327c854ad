package reading

// Dashboard is the large fixed-shape document variant rendered by the
// dashboard view. All enumerable fields are drawn from fixed candidate lists
// in the synthesizer; a model backend is expected to return JSON matching
// this shape.
type Dashboard struct {
	Meta          DashboardMeta  `json:"meta"`
	Tabs          DashboardTabs  `json:"tabs"`
	Today         DashboardToday `json:"today"`
	CosmicWeather CosmicWeather  `json:"cosmicWeather"`
	Compatibility Compatibility  `json:"compatibility"`
	JournalRitual JournalRitual  `json:"journalRitual"`
	Week          DashboardWeek  `json:"week"`
	Month         DashboardMonth `json:"month"`
	Year          DashboardYear  `json:"year"`
}

type DashboardMeta struct {
	DateISO         string `json:"dateISO"`
	LocaleDateLabel string `json:"localeDateLabel"`
	GeneratedAtISO  string `json:"generatedAtISO"`
	Sign            string `json:"sign"`
	Name            string `json:"name"`
}

type DashboardTabs struct {
	ActiveDefault string `json:"activeDefault"`
}

type DashboardToday struct {
	Headline    string       `json:"headline"`
	Subhead     string       `json:"subhead"`
	Theme       string       `json:"theme"`
	EnergyScore int          `json:"energyScore"`
	BestHours   []BestHour   `json:"bestHours"`
	Ratings     DayRatings   `json:"ratings"`
	Lucky       LuckyTokens  `json:"lucky"`
	DoDont      DoDont       `json:"doDont"`
	Sections    []DaySection `json:"sections"`
}

type BestHour struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayRatings struct {
	Love   int `json:"love"`
	Work   int `json:"work"`
	Money  int `json:"money"`
	Health int `json:"health"`
}

type LuckyTokens struct {
	Color  string `json:"color"`
	Number int    `json:"number"`
	Symbol string `json:"symbol"`
}

type DoDont struct {
	Do   string `json:"do"`
	Dont string `json:"dont"`
}

type DaySection struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type CosmicWeather struct {
	Moon         MoonState `json:"moon"`
	Transits     []Transit `json:"transits"`
	AffectsToday string    `json:"affectsToday"`
}

type MoonState struct {
	Phase string `json:"phase"`
	Sign  string `json:"sign"`
}

type Transit struct {
	Title   string `json:"title"`
	Tone    string `json:"tone"`
	Meaning string `json:"meaning"`
}

type Compatibility struct {
	BestFlowWith     []string          `json:"bestFlowWith"`
	HandleGentlyWith []string          `json:"handleGentlyWith"`
	Tips             CompatibilityTips `json:"tips"`
}

type CompatibilityTips struct {
	Conflict  string `json:"conflict"`
	Affection string `json:"affection"`
}

type JournalRitual struct {
	Prompt              string     `json:"prompt"`
	Starters            []string   `json:"starters"`
	Mantra              string     `json:"mantra"`
	Ritual              string     `json:"ritual"`
	BestDayForDecisions LabeledDay `json:"bestDayForDecisions"`
}

type LabeledDay struct {
	DayLabel string `json:"dayLabel"`
	Reason   string `json:"reason"`
}

type DashboardWeek struct {
	Arc            WeekArc        `json:"arc"`
	KeyOpportunity string         `json:"keyOpportunity"`
	KeyCaution     string         `json:"keyCaution"`
	BestDayFor     WeekBestDayFor `json:"bestDayFor"`
}

type WeekArc struct {
	Start   string `json:"start"`
	Midweek string `json:"midweek"`
	Weekend string `json:"weekend"`
}

type WeekBestDayFor struct {
	Decisions     string `json:"decisions"`
	Conversations string `json:"conversations"`
	Rest          string `json:"rest"`
}

type DashboardMonth struct {
	Theme    string      `json:"theme"`
	KeyDates []KeyDate   `json:"keyDates"`
	NewMoon  MoonWindow  `json:"newMoon"`
	FullMoon MoonRelease `json:"fullMoon"`
	OneThing string      `json:"oneThing"`
}

type KeyDate struct {
	DateLabel string `json:"dateLabel"`
	Title     string `json:"title"`
	Note      string `json:"note"`
}

type MoonWindow struct {
	DateLabel string `json:"dateLabel"`
	Intention string `json:"intention"`
}

type MoonRelease struct {
	DateLabel string `json:"dateLabel"`
	Release   string `json:"release"`
}

type DashboardYear struct {
	Headline       string         `json:"headline"`
	Quarters       []YearQuarter  `json:"quarters"`
	PowerMonths    []string       `json:"powerMonths"`
	ChallengeMonth ChallengeMonth `json:"challengeMonth"`
}

type YearQuarter struct {
	Label string `json:"label"`
	Focus string `json:"focus"`
}

type ChallengeMonth struct {
	Month    string `json:"month"`
	Guidance string `json:"guidance"`
}
