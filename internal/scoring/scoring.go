// Package scoring assigns signed outcomes to game perspectives. The base
// outcome is +1/-1/0 independent of configuration; the weighted outcome
// scales it by the configured magnitude for the (season type, outcome)
// combination.
package scoring

import (
	"github.com/citymood/citymood-cli/internal/config"
	"github.com/citymood/citymood-cli/internal/model"
)

// Weights holds the four outcome weights. Only their absolute values matter:
// the sign of a weighted score always comes from the base outcome.
type Weights struct {
	RegularWin  int
	RegularLoss int
	PlayoffWin  int
	PlayoffLoss int
}

// Default returns the standard weights: playoff games count triple.
func Default() Weights {
	return Weights{RegularWin: 1, RegularLoss: -1, PlayoffWin: 3, PlayoffLoss: -3}
}

// FromConfig builds Weights from configuration.
func FromConfig(cfg config.ScoringConfig) Weights {
	return Weights{
		RegularWin:  cfg.RegularWin,
		RegularLoss: cfg.RegularLoss,
		PlayoffWin:  cfg.PlayoffWin,
		PlayoffLoss: cfg.PlayoffLoss,
	}
}

func (w Weights) magnitude(season model.SeasonType, base int) int {
	var weight int
	switch {
	case base > 0 && season == model.SeasonPlayoff:
		weight = w.PlayoffWin
	case base > 0:
		weight = w.RegularWin
	case base < 0 && season == model.SeasonPlayoff:
		weight = w.PlayoffLoss
	case base < 0:
		weight = w.RegularLoss
	default:
		return 0
	}
	if weight < 0 {
		weight = -weight
	}
	return weight
}

// Perspective is one side's scored outcome.
type Perspective struct {
	Result        model.Result
	IndexScore    int
	WeightedScore int
}

// Score computes the home and away perspectives for a game. A game with a
// missing score or no recorded winner is incomplete: both sides get a neutral
// 0/0 outcome with an empty result, but the game still counts as played.
// Equal scores (possible in the NFL) also come out neutral for both sides.
func Score(g model.Game, w Weights) (home, away Perspective) {
	if !g.Decisive() {
		return Perspective{Result: model.ResultNone}, Perspective{Result: model.ResultNone}
	}

	home = perspective(g.WinningTeamID == g.HomeTeamID, g.SeasonType, w)
	away = perspective(g.WinningTeamID == g.AwayTeamID, g.SeasonType, w)
	return home, away
}

func perspective(won bool, season model.SeasonType, w Weights) Perspective {
	base := -1
	result := model.ResultLoss
	if won {
		base = 1
		result = model.ResultWin
	}
	return Perspective{
		Result:        result,
		IndexScore:    base,
		WeightedScore: base * w.magnitude(season, base),
	}
}
