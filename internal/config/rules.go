package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Brmanzo/clash-star-tracker/internal/score"
)

// Gamerules keys. The two penalty values hold either an integer or the
// negate-earned-stars sentinel string.
const (
	keyIncompletePenalty = "Incomplete Clean Dropping Penalty"
	keyIncompleteGap     = "Incomplete Clean Dropping Rank Difference"
	keyStealingPenalty   = "Stealing Lower Target Penalty"
	keyStealingGap       = "Stealing Lower Target Rank Difference"
	keyJumpBonus         = "New Star on Higher Target Bonus"
	keyJumpGap           = "New Star on Higher Target Rank Difference"
)

// LoadRules reads gamerules.json over the defaults. A missing file yields
// the defaults.
func LoadRules(path string) (score.Rules, error) {
	r := score.DefaultRules()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault(keyIncompletePenalty, penaltyValue(r.IncompleteClean))
	v.SetDefault(keyIncompleteGap, r.IncompleteCleanGap)
	v.SetDefault(keyStealingPenalty, penaltyValue(r.Stealing))
	v.SetDefault(keyStealingGap, r.StealingGap)
	v.SetDefault(keyJumpBonus, r.JumpBonus)
	v.SetDefault(keyJumpGap, r.JumpGap)

	if err := readOptional(v); err != nil {
		return r, fmt.Errorf("gamerules %s: %w", path, err)
	}

	r.IncompleteClean = penaltyAt(v, keyIncompletePenalty)
	r.IncompleteCleanGap = v.GetInt(keyIncompleteGap)
	r.Stealing = penaltyAt(v, keyStealingPenalty)
	r.StealingGap = v.GetInt(keyStealingGap)
	r.JumpBonus = v.GetInt(keyJumpBonus)
	r.JumpGap = v.GetInt(keyJumpGap)
	return r, nil
}

// SaveRules writes the full gamerules file.
func SaveRules(path string, r score.Rules) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.Set(keyIncompletePenalty, penaltyValue(r.IncompleteClean))
	v.Set(keyIncompleteGap, r.IncompleteCleanGap)
	v.Set(keyStealingPenalty, penaltyValue(r.Stealing))
	v.Set(keyStealingGap, r.StealingGap)
	v.Set(keyJumpBonus, r.JumpBonus)
	v.Set(keyJumpGap, r.JumpGap)
	return v.WriteConfigAs(path)
}

func penaltyAt(v *viper.Viper, key string) score.Penalty {
	if v.GetString(key) == score.NegateEarnedStars {
		return score.Penalty{Negate: true}
	}
	return score.Penalty{Points: v.GetInt(key)}
}

func penaltyValue(p score.Penalty) any {
	if p.Negate {
		return score.NegateEarnedStars
	}
	return p.Points
}
