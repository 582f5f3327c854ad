package reading

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testRequest() Request {
	return Request{
		Profile: Profile{
			Name:        "Luna",
			Birthdate:   "1990-06-01",
			Mood:        "Calm",
			Personality: "Dreamer",
		},
		Date: "2024-06-01",
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	first := Synthesize(testRequest(), now)
	second := Synthesize(testRequest(), now)
	require.Equal(t, first, second)

	// A later clock changes only the timestamp.
	later := Synthesize(testRequest(), now.Add(time.Hour))
	require.NotEqual(t, first.CreatedAt, later.CreatedAt)
	later.CreatedAt = first.CreatedAt
	require.Equal(t, first, later)
}

func TestSynthesize_SeedSensitivity(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	base := Synthesize(testRequest(), now)

	changed := testRequest()
	changed.Profile.Mood = "Restless"
	other := Synthesize(changed, now)

	require.NotEqual(t, base.Message, other.Message)
}

func TestSynthesize_FieldRanges(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	allowed := make(map[string]bool, len(themeCandidates))
	for _, theme := range themeCandidates {
		allowed[theme] = true
	}

	for i := 0; i < 10000; i++ {
		req := testRequest()
		req.Profile.Name = fmt.Sprintf("Seer-%d", i)
		got := Synthesize(req, now)

		require.GreaterOrEqual(t, got.LuckyNumber, 1)
		require.LessOrEqual(t, got.LuckyNumber, 9)
		require.Len(t, got.Themes, 3)
		for _, theme := range got.Themes {
			require.True(t, allowed[theme], "unexpected theme %q", theme)
		}
		require.Contains(t, readingTitles, got.Title)
		require.Contains(t, affirmations, got.Affirmation)
		require.Contains(t, luckyColors, got.LuckyColor)
	}
}

func TestSynthesize_MessageShape(t *testing.T) {
	got := Synthesize(testRequest(), time.Now().UTC())

	require.Equal(t, "2024-06-01", got.Date)
	require.Equal(t, "Gemini", got.Sign)
	require.True(t, strings.Contains(got.Message, "calm"), "mood should be lowercased into the message")
	require.Empty(t, got.Source, "synthesizer never stamps the source")
}

func TestSynthesizeDashboard_Deterministic(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	first := SynthesizeDashboard(testRequest(), now)
	second := SynthesizeDashboard(testRequest(), now)
	require.Equal(t, first, second)
}

func TestSynthesizeDashboard_RangesAndMeta(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 10000; i++ {
		req := testRequest()
		req.Profile.Name = fmt.Sprintf("Seer-%d", i)
		got := SynthesizeDashboard(req, now)

		require.GreaterOrEqual(t, got.Today.EnergyScore, 55)
		require.LessOrEqual(t, got.Today.EnergyScore, 99)
		for _, rating := range []int{got.Today.Ratings.Love, got.Today.Ratings.Work, got.Today.Ratings.Health} {
			require.GreaterOrEqual(t, rating, 3)
			require.LessOrEqual(t, rating, 5)
		}
		require.GreaterOrEqual(t, got.Today.Ratings.Money, 2)
		require.LessOrEqual(t, got.Today.Ratings.Money, 4)
		require.GreaterOrEqual(t, got.Today.Lucky.Number, 1)
		require.LessOrEqual(t, got.Today.Lucky.Number, 9)
	}

	got := SynthesizeDashboard(testRequest(), now)
	require.Equal(t, "2024-06-01", got.Meta.DateISO)
	require.Equal(t, "Saturday, June 1", got.Meta.LocaleDateLabel)
	require.Equal(t, "Gemini", got.Meta.Sign)
	require.Equal(t, "Luna", got.Meta.Name)
	require.Equal(t, "today", got.Tabs.ActiveDefault)
	require.Len(t, got.Year.Quarters, 4)
}

func TestDateLabel_FallsBackToRawInput(t *testing.T) {
	require.Equal(t, "soon", dateLabel("soon"))
}

func TestSeedMaterial_StableAcrossCalls(t *testing.T) {
	require.Equal(t, SeedMaterial(testRequest()), SeedMaterial(testRequest()))

	changed := testRequest()
	changed.Date = "2024-06-02"
	require.NotEqual(t, SeedMaterial(testRequest()), SeedMaterial(changed))
}

func TestSeededRand_SinglePrecisionStream(t *testing.T) {
	r := newSeededRand(hashSeed("Luna-2024-06-01-Gemini-Calm-Dreamer"))
	mirror := r.state
	for i := 0; i < 100; i++ {
		mirror ^= mirror << 13
		mirror ^= mirror >> 17
		mirror ^= mirror << 5
		want := float32(mirror%10000) / 10000.0
		require.Equal(t, want, r.next())
	}
}

func TestPick_SinglePrecisionBoundary(t *testing.T) {
	// A draw of exactly 6000/10000 over five candidates lands on index 3 in
	// float32 (0.6*5 rounds to 3.0) but index 2 in float64 (2.999...).
	var start uint32
	for s := uint32(1); ; s++ {
		x := s
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		if x%10000 == 6000 {
			start = s
			break
		}
	}
	r := &seededRand{state: start}
	require.Equal(t, "d", pick(r, []string{"a", "b", "c", "d", "e"}))
}

func TestHashSeed_KnownBaseline(t *testing.T) {
	// Empty input leaves the FNV offset basis untouched.
	require.Equal(t, uint32(2166136261), hashSeed(""))
	require.NotEqual(t, hashSeed("a"), hashSeed("b"))
}

func TestSignFor_Boundaries(t *testing.T) {
	cases := map[string]string{
		"2024-03-21": "Aries",
		"2024-03-20": "Pisces",
		"2024-04-19": "Aries",
		"2024-04-20": "Taurus",
		"2024-12-21": "Sagittarius",
		"2024-12-22": "Capricorn",
		"2024-01-19": "Capricorn",
		"2024-01-20": "Aquarius",
		"2024-02-19": "Pisces",
		"not-a-date": SignUnknown,
		"":           SignUnknown,
	}
	for date, want := range cases {
		require.Equal(t, want, SignFor(date), "date %q", date)
	}
}
