package reading

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// The synthesizer is a pure function from (request, clock) to content. Two
// requests with identical (name, date, sign, mood, personality) share a seed
// and therefore produce identical text; only the timestamps differ.

var themeCandidates = []string{
	"Quiet confidence",
	"Meaningful timing",
	"Boundaries with kindness",
	"Creative listening",
	"Soft courage",
	"Steady focus",
}

var readingTitles = []string{
	"The hush before a bright idea",
	"Soft focus, clear intention",
	"A horizon you can trust",
	"The spark beneath stillness",
	"A graceful return to center",
}

var affirmations = []string{
	"I meet today with grounded curiosity.",
	"I can move gently and still be powerful.",
	"My inner compass grows clearer with every breath.",
	"I honor what I feel and choose what I need.",
}

var luckyColors = []string{
	"Moonlit Indigo",
	"Starlight Silver",
	"Luminous Lavender",
	"Sea-glass Teal",
	"Amber Mist",
}

// Synthesize produces a deterministic reading for the request. The source
// field is left at its zero value; the caller stamps it.
func Synthesize(req Request, now time.Time) Reading {
	sign := SignFor(req.Profile.Birthdate)
	rng := newSeededRand(seedFor(req, sign))

	mood := strings.ToLower(req.Profile.Mood)
	openings := []string{
		fmt.Sprintf("Today opens with a %s current that invites gentler choices.", mood),
		fmt.Sprintf("The day moves at a %s pace, offering room to breathe.", mood),
		fmt.Sprintf("You may notice a %s undertone guiding your timing.", mood),
	}
	middles := []string{
		fmt.Sprintf("As a %s, you naturally notice patterns others miss, so trust what quietly repeats.", req.Profile.Personality),
		fmt.Sprintf("Your %s instincts highlight what is worth protecting and what can soften.", strings.ToLower(req.Profile.Personality)),
		fmt.Sprintf("The %s in you is ready to translate intuition into a simple next step.", strings.ToLower(req.Profile.Personality)),
	}
	closers := []string{
		"Let small rituals ground you, and remember that clarity arrives in layers, not lightning bolts.",
		"If you pause before responding, the right phrasing will rise on its own.",
		"Choose one gentle action that honors your energy, and let that be enough.",
	}

	message := pick(rng, openings) + " " + pick(rng, middles) + " " + pick(rng, closers)

	themes := append([]string(nil), themeCandidates...)
	shuffle(rng, themes)

	return Reading{
		Date:        req.Date,
		Sign:        sign,
		Title:       pick(rng, readingTitles),
		Message:     message,
		Themes:      themes[:3],
		Affirmation: pick(rng, affirmations),
		LuckyColor:  pick(rng, luckyColors),
		LuckyNumber: int(math.Floor(float64(rng.next()*9))) + 1,
		CreatedAt:   now.Format(time.RFC3339),
	}
}

// SynthesizeDashboard produces the deterministic dashboard document.
func SynthesizeDashboard(req Request, now time.Time) Dashboard {
	sign := SignFor(req.Profile.Birthdate)
	rng := newSeededRand(seedFor(req, sign))

	title := pick(rng, []string{
		"Soft focus, clear intention",
		"The hush before a bright idea",
		"A horizon you can trust",
		"The spark beneath stillness",
		"A graceful return to center",
	})

	mood := strings.ToLower(req.Profile.Mood)
	personality := strings.ToLower(req.Profile.Personality)
	openings := []string{
		fmt.Sprintf("The day opens with a %s current that invites gentler choices.", mood),
		fmt.Sprintf("A %s undertone guides your timing and attention.", mood),
		fmt.Sprintf("You move through a %s rhythm that rewards patience.", mood),
	}
	middles := []string{
		fmt.Sprintf("As %s, your %s nature notices subtle shifts first.", sign, personality),
		fmt.Sprintf("Your %s instincts highlight what wants to soften.", personality),
		fmt.Sprintf("The %s in you translates intuition into one clear step.", personality),
	}
	closers := []string{
		"Let small rituals ground you, and let clarity arrive in layers.",
		"Pause before replying and your best phrasing will surface.",
		"Choose one gentle action that honors your energy, and let that be enough.",
	}
	message := pick(rng, openings) + " " + pick(rng, middles) + " " + pick(rng, closers)

	// Draw order is significant; it fixes the mapping from seed to content.
	theme := pick(rng, []string{"Clarity", "Patience", "Warmth", "Alignment", "Ease"})
	energyScore := int(math.Floor(float64(rng.next()*45))) + 55
	love := int(math.Floor(float64(rng.next()*3))) + 3
	work := int(math.Floor(float64(rng.next()*3))) + 3
	money := int(math.Floor(float64(rng.next()*3))) + 2
	health := int(math.Floor(float64(rng.next()*3))) + 3
	luckyColor := pick(rng, []string{"Gold", "Moonlit Indigo", "Soft Lavender", "Sea-glass Teal"})
	luckyNumber := int(math.Floor(float64(rng.next()*9))) + 1
	luckySymbol := pick(rng, []string{"★", "☾", "✦"})
	moonPhase := pick(rng, []string{"First Quarter", "Waxing Crescent", "Full Moon", "New Moon"})
	moonSign := pick(rng, []string{"Cancer", "Libra", "Scorpio", "Taurus"})

	return Dashboard{
		Meta: DashboardMeta{
			DateISO:         req.Date,
			LocaleDateLabel: dateLabel(req.Date),
			GeneratedAtISO:  now.Format(time.RFC3339),
			Sign:            sign,
			Name:            req.Profile.Name,
		},
		Tabs: DashboardTabs{ActiveDefault: "today"},
		Today: DashboardToday{
			Headline:    title,
			Subhead:     message,
			Theme:       theme,
			EnergyScore: energyScore,
			BestHours: []BestHour{
				{Label: "Morning", Start: "9:00 AM", End: "11:00 AM"},
				{Label: "Evening", Start: "5:00 PM", End: "7:00 PM"},
			},
			Ratings: DayRatings{Love: love, Work: work, Money: money, Health: health},
			Lucky:   LuckyTokens{Color: luckyColor, Number: luckyNumber, Symbol: luckySymbol},
			DoDont: DoDont{
				Do:   "Trust your instincts and keep plans simple.",
				Dont: "Overshare or rush to fill quiet moments.",
			},
			Sections: []DaySection{
				{Title: "Focus", Body: "Pick one clear priority and let the rest soften."},
				{Title: "Relationships", Body: "Lead with warmth and give others space to respond."},
				{Title: "Action", Body: "Take one grounded step that supports your long view."},
				{Title: "Reflection", Body: "Notice what feels steady and keep returning to it."},
			},
		},
		CosmicWeather: CosmicWeather{
			Moon: MoonState{Phase: moonPhase, Sign: moonSign},
			Transits: []Transit{
				{Title: "Mercury review cycle", Tone: "neutral", Meaning: "Double-check details before committing."},
				{Title: "Venus harmony", Tone: "soft", Meaning: "Gentle conversations land with ease."},
			},
			AffectsToday: "Emotional tides rise and fall; choose calm responses.",
		},
		Compatibility: Compatibility{
			BestFlowWith:     []string{"Aries", "Gemini"},
			HandleGentlyWith: []string{"Taurus"},
			Tips: CompatibilityTips{
				Conflict:  "Pause before replying to keep things kind.",
				Affection: "Playful honesty keeps the mood light.",
			},
		},
		JournalRitual: JournalRitual{
			Prompt:   "What feels most important to protect today?",
			Starters: []string{"I feel…", "I need…", "I'm avoiding…"},
			Mantra:   "I move with grace and clear intention.",
			Ritual:   "Light a candle and name one priority out loud.",
			BestDayForDecisions: LabeledDay{
				DayLabel: "Thursday",
				Reason:   "Clarity peaks in the afternoon.",
			},
		},
		Week: DashboardWeek{
			Arc: WeekArc{
				Start:   "Settle into a calm, focused rhythm.",
				Midweek: "Tune inward before making changes.",
				Weekend: "Conversations flow and ease returns.",
			},
			KeyOpportunity: "Strengthen a bond through simple honesty.",
			KeyCaution:     "Avoid overcommitting before you feel ready.",
			BestDayFor: WeekBestDayFor{
				Decisions:     "Thursday",
				Conversations: "Wednesday",
				Rest:          "Sunday",
			},
		},
		Month: DashboardMonth{
			Theme: "Clarity through gentle structure.",
			KeyDates: []KeyDate{
				{DateLabel: "Jan 9–10", Title: "New Moon", Note: "Set intentions around focus."},
				{DateLabel: "Jan 17", Title: "Personal reset", Note: "Simplify a lingering task."},
				{DateLabel: "Jan 25", Title: "Full Moon", Note: "Release what feels heavy."},
			},
			NewMoon:  MoonWindow{DateLabel: "Jan 9–10", Intention: "Commit to one steady practice."},
			FullMoon: MoonRelease{DateLabel: "Jan 25", Release: "Let go of scattered priorities."},
			OneThing: "If you do one thing, choose the gentlest next step.",
		},
		Year: DashboardYear{
			Headline: "A year to trust your timing and refine your craft.",
			Quarters: []YearQuarter{
				{Label: "Q1", Focus: "Grounded beginnings and clearing space."},
				{Label: "Q2", Focus: "Momentum builds through collaboration."},
				{Label: "Q3", Focus: "Visibility grows with steady effort."},
				{Label: "Q4", Focus: "Integration and graceful completion."},
			},
			PowerMonths:    []string{"March", "July"},
			ChallengeMonth: ChallengeMonth{Month: "October", Guidance: "Slow down and streamline."},
		},
	}
}

func seedFor(req Request, sign string) uint32 {
	material := strings.Join([]string{
		req.Profile.Name,
		req.Date,
		sign,
		req.Profile.Mood,
		req.Profile.Personality,
	}, "-")
	return hashSeed(material)
}

// SeedMaterial exposes the deterministic seed as a stable cache key.
func SeedMaterial(req Request) uint32 {
	return seedFor(req, SignFor(req.Profile.Birthdate))
}

// hashSeed is an FNV-1a variant: xor each byte, then fold with shift-adds of
// the pre-update value. Changing the fold changes every seed, so it is frozen.
func hashSeed(value string) uint32 {
	hash := uint32(2166136261)
	for _, b := range []byte(value) {
		hash ^= uint32(b)
		hash = hash + hash<<1 + hash<<4 + hash<<7 + hash<<8 + hash<<24
	}
	return hash
}

// seededRand is an XorShift32 stream mapped to [0,1) in single precision.
// Draw boundaries depend on the narrower float32 rounding, so every
// computation that consumes a draw stays in float32 until the final floor.
type seededRand struct {
	state uint32
}

func newSeededRand(seed uint32) *seededRand {
	return &seededRand{state: seed ^ 0x9e3779b9}
}

func (r *seededRand) next() float32 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 17
	r.state ^= r.state << 5
	return float32(r.state%10000) / 10000.0
}

// pick indexes into a fixed candidate list; the modulo guards float edge cases.
func pick(r *seededRand, values []string) string {
	index := int(math.Floor(float64(r.next() * float32(len(values)))))
	return values[index%len(values)]
}

// shuffle is a Fisher-Yates pass driven by the seeded stream.
func shuffle(r *seededRand, values []string) {
	for i := len(values) - 1; i >= 1; i-- {
		j := int(math.Floor(float64(r.next() * float32(i+1))))
		if j > i {
			j = i
		}
		values[i], values[j] = values[j], values[i]
	}
}

// dateLabel formats the ISO date as "Weekday, Month Day", falling back to the
// raw string when parsing fails.
func dateLabel(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2")
}
