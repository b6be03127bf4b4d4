package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/barreyo/ysc-redesign-ex-sub001/pkg/model"
)

var (
	// ErrNoRule means no rule at any specificity tier covers the lookup.
	ErrNoRule = errors.New("no pricing rule matches")

	// ErrAmbiguousRules means two or more rules tie at the winning tier.
	// That is a configuration fault, not a caller mistake.
	ErrAmbiguousRules = errors.New("multiple pricing rules match at the same specificity")
)

// Resolve picks the single rule governing a lookup. Specificity runs
// room-specific, then category-wide, then property-wide; the first tier with
// any candidate wins and lower tiers are never consulted. Within a tier a
// season-specific rule shadows a season-less one.
func Resolve(rules []*model.PricingRule, seasonID, roomID, categoryID string, mode model.BookingMode, basis model.RateBasis) (*model.PricingRule, error) {
	scoped := make([]*model.PricingRule, 0, len(rules))
	for _, r := range rules {
		if r.Mode != mode || r.Basis != basis {
			continue
		}
		if r.SeasonID != "" && r.SeasonID != seasonID {
			continue
		}
		scoped = append(scoped, r)
	}

	tiers := []func(*model.PricingRule) bool{
		func(r *model.PricingRule) bool { return roomID != "" && r.RoomID == roomID },
		func(r *model.PricingRule) bool {
			return categoryID != "" && r.RoomID == "" && r.CategoryID == categoryID
		},
		func(r *model.PricingRule) bool { return r.RoomID == "" && r.CategoryID == "" },
	}

	for _, matches := range tiers {
		var candidates []*model.PricingRule
		for _, r := range scoped {
			if matches(r) {
				candidates = append(candidates, r)
			}
		}
		candidates = preferSeasonal(candidates, seasonID)

		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousRules, ruleIDs(candidates))
		}
	}

	return nil, ErrNoRule
}

// preferSeasonal narrows candidates to the season-specific ones when the
// lookup has a season and at least one rule names it.
func preferSeasonal(candidates []*model.PricingRule, seasonID string) []*model.PricingRule {
	if seasonID == "" {
		return candidates
	}

	var seasonal []*model.PricingRule
	for _, r := range candidates {
		if r.SeasonID == seasonID {
			seasonal = append(seasonal, r)
		}
	}
	if len(seasonal) > 0 {
		return seasonal
	}
	return candidates
}

func ruleIDs(rules []*model.PricingRule) string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return strings.Join(ids, ", ")
}
