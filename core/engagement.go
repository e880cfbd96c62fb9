package core

import (
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/questlog/schema"
)

// titleAcc is one title's minutes within a period.
type titleAcc struct {
	title   string
	gameID  int64
	minutes float64
}

// periodAcc accumulates the sessions of one period.
type periodAcc struct {
	start     schema.Date
	sentiment sentimentAcc
	titles    map[string]*titleAcc
	genres    map[string]float64
}

func newPeriodAcc(start schema.Date) *periodAcc {
	return &periodAcc{
		start:  start,
		titles: make(map[string]*titleAcc),
		genres: make(map[string]float64),
	}
}

// BuildEngagement buckets sessions into calendar periods and flags spikes, dips and burnout.
// Sessions that cannot be joined to a game still count toward the timeline under
// their own title but contribute no genre minutes.
func BuildEngagement(games []schema.Game, sessions []schema.Session, opts Options) schema.EngagementSummary {
	opts = opts.withDefaults()
	idx := newGameIndex(games)
	dq := schema.DataQuality{}
	summary := schema.EngagementSummary{
		Period:   opts.Period,
		Timeline: []schema.EngagementPeriod{},
		Callouts: []schema.Callout{},
	}

	var valid []schema.Session
	var first, last schema.Date
	for _, s := range sessions {
		switch {
		case !isFinite(s.PlaytimeMinutes) || s.PlaytimeMinutes <= 0:
			dq.Add(schema.SkipNonPositiveTime)
			continue
		case s.SessionDate.IsZero():
			dq.Add(schema.SkipMissingDate)
			continue
		case !opts.Start.IsZero() && s.SessionDate.Before(opts.Start.Time),
			!opts.End.IsZero() && s.SessionDate.After(opts.End.Time):
			dq.Add(schema.SkipOutOfRange)
			continue
		}
		if first.IsZero() || s.SessionDate.Before(first.Time) {
			first = s.SessionDate
		}
		if last.IsZero() || s.SessionDate.After(last.Time) {
			last = s.SessionDate
		}
		valid = append(valid, s)
	}
	summary.DataQuality = dq
	if len(valid) == 0 {
		return summary
	}
	if !opts.Start.IsZero() {
		first = opts.Start
	}
	if !opts.End.IsZero() {
		last = opts.End
	}

	starts := periodStarts(first, last, opts.Period)
	accs := make([]*periodAcc, len(starts))
	position := make(map[string]int, len(starts))
	for i, start := range starts {
		accs[i] = newPeriodAcc(start)
		position[start.String()] = i
	}

	for _, s := range valid {
		acc := accs[position[periodStart(s.SessionDate, opts.Period).String()]]
		score, scored := opts.Weights.Score(s.Sentiment)
		if !scored {
			dq.Add(schema.SkipUnscoredSentiment)
		}
		acc.sentiment.add(s.PlaytimeMinutes, score, scored)

		gi := idx.resolve(s)
		key, title, gameID := sessionTitle(s, gi, games)
		ta, ok := acc.titles[key]
		if !ok {
			ta = &titleAcc{title: title, gameID: gameID}
			acc.titles[key] = ta
		}
		ta.minutes += s.PlaytimeMinutes
		if gi >= 0 {
			for _, genre := range idx.genresOf(gi) {
				acc.genres[genre] += s.PlaytimeMinutes
			}
		}
	}

	summary.RangeStart = starts[0]
	summary.RangeEnd = last
	for _, acc := range accs {
		summary.Timeline = append(summary.Timeline, acc.period(opts))
	}
	summary.Callouts = detectCallouts(accs, summary.Timeline, opts)
	return summary
}

// sessionTitle returns the join key, display title and game id for a session.
func sessionTitle(s schema.Session, gi int, games []schema.Game) (string, string, int64) {
	if gi >= 0 {
		g := games[gi]
		return "game:" + strconv.Itoa(gi), g.Title, g.ID
	}
	title := strings.TrimSpace(s.GameTitle)
	return "title:" + schema.TitleKey(title), title, s.GameID
}

// period renders the accumulated sessions as a timeline entry.
func (acc *periodAcc) period(opts Options) schema.EngagementPeriod {
	total := acc.sentiment.minutes
	out := schema.EngagementPeriod{
		PeriodStart:      acc.start,
		Label:            periodLabel(acc.start, opts.Period),
		TotalMinutes:     total,
		AverageSentiment: acc.sentiment.average(),
		ActiveTitles:     len(acc.titles),
		SessionCount:     acc.sentiment.sessions,
		TopTitles:        []schema.TitleShare{},
		TopGenres:        []schema.GenreShare{},
	}
	share := func(minutes float64) float64 {
		if total <= 0 {
			return 0
		}
		return minutes / total
	}

	titles := make([]*titleAcc, 0, len(acc.titles))
	for _, ta := range acc.titles {
		titles = append(titles, ta)
	}
	sort.Slice(titles, func(i, j int) bool {
		if titles[i].minutes != titles[j].minutes {
			return titles[i].minutes > titles[j].minutes
		}
		if titles[i].title != titles[j].title {
			return titles[i].title < titles[j].title
		}
		return titles[i].gameID < titles[j].gameID
	})
	k := opts.Thresholds.TopTitles
	for i, ta := range titles {
		if k > 0 && i >= k {
			rest := titles[k:]
			other := schema.TitleShare{Title: schema.OtherTitlesLabel, OtherCount: len(rest)}
			for _, r := range rest {
				other.Minutes += r.minutes
			}
			other.Share = share(other.Minutes)
			out.TopTitles = append(out.TopTitles, other)
			break
		}
		out.TopTitles = append(out.TopTitles, schema.TitleShare{
			Title:   ta.title,
			GameID:  ta.gameID,
			Minutes: ta.minutes,
			Share:   share(ta.minutes),
		})
	}

	genres := make([]schema.GenreShare, 0, len(acc.genres))
	for genre, minutes := range acc.genres {
		genres = append(genres, schema.GenreShare{Genre: genre, Minutes: minutes, Share: share(minutes)})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Minutes != genres[j].Minutes {
			return genres[i].Minutes > genres[j].Minutes
		}
		return genres[i].Genre < genres[j].Genre
	})
	if k > 0 && len(genres) > k {
		genres = genres[:k]
	}
	out.TopGenres = append(out.TopGenres, genres...)
	return out
}

// detectCallouts compares each period with the most recent earlier period that had playtime.
// An empty period is only compared when the period right before it had playtime,
// so a single drop to zero is reported once rather than on every empty period after it.
func detectCallouts(accs []*periodAcc, timeline []schema.EngagementPeriod, opts Options) []schema.Callout {
	callouts := []schema.Callout{}
	baseline := -1
	for i := range timeline {
		cur := timeline[i]
		if baseline >= 0 && (cur.TotalMinutes > 0 || baseline == i-1) {
			callouts = append(callouts, compare(accs[baseline], accs[i], timeline[baseline], cur, opts.Thresholds)...)
		}
		if cur.TotalMinutes > 0 {
			baseline = i
		}
	}
	return callouts
}

// compare evaluates one baseline/current pair. Each callout type fires at most once.
func compare(prevAcc, curAcc *periodAcc, prev, cur schema.EngagementPeriod, th schema.Thresholds) []schema.Callout {
	var out []schema.Callout
	change := cur.TotalMinutes - prev.TotalMinutes
	pct := change / prev.TotalMinutes
	newCallout := func(t schema.CalloutType) schema.Callout {
		return schema.Callout{
			Type:          t,
			PeriodStart:   cur.PeriodStart,
			Label:         cur.Label,
			BaselineStart: prev.PeriodStart,
			PercentChange: pct,
			ChangeMinutes: change,
		}
	}

	switch {
	case pct >= th.SpikePercent && change >= th.NoiseFloor:
		c := newCallout(schema.SpikeCallout)
		c.Drivers = rankDrivers(prevAcc, curAcc, true, th.DriverLimit)
		out = append(out, c)
	case pct <= -th.SpikePercent && -change >= th.NoiseFloor:
		c := newCallout(schema.DipCallout)
		c.Drivers = rankDrivers(prevAcc, curAcc, false, th.DriverLimit)
		out = append(out, c)
	}

	if change >= 0 && cur.AverageSentiment != nil && prev.AverageSentiment != nil {
		drop := *prev.AverageSentiment - *cur.AverageSentiment
		if drop > th.BurnoutDrop {
			c := newCallout(schema.BurnoutCallout)
			c.SentimentChange = floatPtr(-drop)
			c.Drivers = rankDrivers(prevAcc, curAcc, true, th.DriverLimit)
			out = append(out, c)
		}
	}
	return out
}

// rankDrivers ranks titles and genres by their minutes delta. Growth keeps positive
// deltas largest first; decline keeps negative deltas most negative first.
func rankDrivers(prev, cur *periodAcc, growth bool, limit int) schema.CalloutDrivers {
	titleMinutes := func(acc *periodAcc) map[string]driverValue {
		out := make(map[string]driverValue, len(acc.titles))
		for key, ta := range acc.titles {
			out[key] = driverValue{name: ta.title, gameID: ta.gameID, minutes: ta.minutes}
		}
		return out
	}
	genreMinutes := func(acc *periodAcc) map[string]driverValue {
		out := make(map[string]driverValue, len(acc.genres))
		for genre, minutes := range acc.genres {
			out[genre] = driverValue{name: genre, minutes: minutes}
		}
		return out
	}
	return schema.CalloutDrivers{
		Titles: diffDrivers(titleMinutes(prev), titleMinutes(cur), growth, limit),
		Genres: diffDrivers(genreMinutes(prev), genreMinutes(cur), growth, limit),
	}
}

type driverValue struct {
	name    string
	gameID  int64
	minutes float64
}

func diffDrivers(prev, cur map[string]driverValue, growth bool, limit int) []schema.Driver {
	drivers := []schema.Driver{}
	seen := make(map[string]struct{}, len(prev)+len(cur))
	for _, side := range []map[string]driverValue{cur, prev} {
		for key, v := range side {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			d := schema.Driver{
				Name:            v.name,
				GameID:          v.gameID,
				CurrentMinutes:  cur[key].minutes,
				PreviousMinutes: prev[key].minutes,
			}
			d.DeltaMinutes = d.CurrentMinutes - d.PreviousMinutes
			if (growth && d.DeltaMinutes > 0) || (!growth && d.DeltaMinutes < 0) {
				drivers = append(drivers, d)
			}
		}
	}
	sort.Slice(drivers, func(i, j int) bool {
		a, b := drivers[i], drivers[j]
		if a.DeltaMinutes != b.DeltaMinutes {
			if growth {
				return a.DeltaMinutes > b.DeltaMinutes
			}
			return a.DeltaMinutes < b.DeltaMinutes
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.GameID < b.GameID
	})
	if limit > 0 && len(drivers) > limit {
		drivers = drivers[:limit]
	}
	return drivers
}
