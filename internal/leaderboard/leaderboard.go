// Package leaderboard defines the ranked categories, how a game is scored in
// each, and the sanity bounds a submitted score has to pass.
package leaderboard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"havenvoy.game/internal/sim/state"
	"havenvoy.game/internal/sim/tuning"
)

type Category string

const (
	NetWorth            Category = "netWorth"
	DaysAtSea           Category = "daysAtSea"
	ContractsCompleted  Category = "contractsCompleted"
	QuestlinesCompleted Category = "questlinesCompleted"
	TradingProfit       Category = "tradingProfit"
)

// Categories lists every category in display order.
var Categories = []Category{NetWorth, DaysAtSea, ContractsCompleted, QuestlinesCompleted, TradingProfit}

// Info is the presentation text for a category.
type Info struct {
	ID          Category `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var infos = map[Category]Info{
	NetWorth:            {NetWorth, "Richest Captains", "Highest net worth (gold + cargo value)"},
	DaysAtSea:           {DaysAtSea, "Longest Voyages", "Most days survived at sea"},
	ContractsCompleted:  {ContractsCompleted, "Top Contractors", "Most contracts completed"},
	QuestlinesCompleted: {QuestlinesCompleted, "Legendary Captains", "Most questlines completed"},
	TradingProfit:       {TradingProfit, "Master Traders", "Highest lifetime trading profit"},
}

var (
	ErrUnknownCategory = errors.New("leaderboard: unknown category")
	ErrOutOfBounds     = errors.New("leaderboard: score failed validation")
	ErrNoName          = errors.New("leaderboard: name required")
)

const (
	MaxNameLen = 20
	maxDays    = 10000
)

func Parse(s string) (Category, error) {
	c := Category(s)
	if _, ok := infos[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Info() Info { return infos[c] }

// Value scores a game in category c. Net worth values cargo at base price.
func Value(cfg *tuning.Tuning, gs *state.GameState, c Category) (int, error) {
	p := &gs.Player
	switch c {
	case NetWorth:
		v := p.Gold
		for id, qty := range p.Cargo {
			if g, ok := cfg.Good(id); ok {
				v += int(g.BasePrice * float64(qty))
			}
		}
		return v, nil
	case DaysAtSea:
		return max(1, p.Days), nil
	case ContractsCompleted:
		return p.Stats.ContractsCompleted, nil
	case QuestlinesCompleted:
		return p.Stats.QuestlinesCompleted, nil
	case TradingProfit:
		return p.Stats.TotalProfit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
}

// Validate rejects scores no honest game could reach by the given day.
func Validate(c Category, value, day int) error {
	if value < 0 {
		return fmt.Errorf("%w: negative", ErrOutOfBounds)
	}
	day = max(1, day)
	var limit int
	switch c {
	case NetWorth:
		limit = 10 * (1000 + 500*day)
	case DaysAtSea:
		limit = maxDays
	case ContractsCompleted:
		limit = 3 * day
	case QuestlinesCompleted:
		limit = (day + 9) / 10
	case TradingProfit:
		limit = 10 * 1000 * day
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
	if value > limit {
		return fmt.Errorf("%w: %s %d > %d on day %d", ErrOutOfBounds, c, value, limit, day)
	}
	return nil
}

var (
	unsafeChars = regexp.MustCompile(`[<>"'&]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// SanitizeName trims, cuts to MaxNameLen runes, drops markup characters and
// collapses whitespace, in that order.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLen {
		name = string([]rune(name)[:MaxNameLen])
	}
	name = unsafeChars.ReplaceAllString(name, "")
	return spaceRuns.ReplaceAllString(name, " ")
}

// Entry is one submitted score.
type Entry struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Faction  string   `json:"faction"`
	Day      int      `json:"day"`
	RunID    string   `json:"run_id,omitempty"`
}

// Submission scores gs in category c for the named captain and checks it.
func Submission(cfg *tuning.Tuning, gs *state.GameState, c Category, name, runID string) (Entry, error) {
	name = SanitizeName(name)
	if name == "" {
		return Entry{}, ErrNoName
	}
	v, err := Value(cfg, gs, c)
	if err != nil {
		return Entry{}, err
	}
	day := max(1, gs.Player.Days)
	if err := Validate(c, v, day); err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Category: c, Score: v, Faction: gs.Player.Faction, Day: day, RunID: runID}, nil
}

var printer = message.NewPrinter(language.English)

// Format renders a score the way the category reads.
func Format(c Category, value int) string {
	switch c {
	case NetWorth, TradingProfit:
		return printer.Sprintf("%dg", value)
	case DaysAtSea:
		return printer.Sprintf("%d days", value)
	case ContractsCompleted:
		return printer.Sprintf("%d contracts", value)
	case QuestlinesCompleted:
		return printer.Sprintf("%d questlines", value)
	}
	return printer.Sprintf("%d", value)
}
