package customizer

import (
	"fmt"
	"strings"

	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
)

type PenaltyPolicy uint8

const (
	// ADDITIVE_POLICY adds the penalty on top of the current effective cost. Repeated passes over the same
	// graph keep increasing affected edges.
	ADDITIVE_POLICY PenaltyPolicy = iota
	// RESET_POLICY sets custom_weight to base length plus penalty. Repeated passes are idempotent.
	RESET_POLICY
)

func ParsePenaltyPolicy(s string) (PenaltyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "additive":
		return ADDITIVE_POLICY, nil
	case "reset":
		return RESET_POLICY, nil
	default:
		return ADDITIVE_POLICY, fmt.Errorf("unknown penalty policy %q", s)
	}
}

func (p PenaltyPolicy) String() string {
	if p == RESET_POLICY {
		return "reset"
	}
	return "additive"
}

func (p PenaltyPolicy) newWeight(e da.Edge, penalty float64) float64 {
	if p == RESET_POLICY {
		return e.GetLength() + penalty
	}
	return e.EffectiveCost() + penalty
}
