// Package tax holds the age-tiered price multipliers applied to a car
// category's daily price.
package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrRuleNotFound is matched by RuleNotFoundError through errors.Is.
var ErrRuleNotFound = errors.New("tax rule not found")

// Rule maps an inclusive age range to a price multiplier.
type Rule struct {
	From int             `json:"from"`
	To   int             `json:"to"`
	Then decimal.Decimal `json:"then"`
}

// Contains reports whether age falls within [From, To].
func (r Rule) Contains(age int) bool {
	return age >= r.From && age <= r.To
}

// Table is an ordered list of rules. Lookup uses list order.
type Table []Rule

// DefaultTable returns the stock age tiers.
func DefaultTable() Table {
	return Table{
		{From: 18, To: 25, Then: decimal.RequireFromString("1.1")},
		{From: 26, To: 30, Then: decimal.RequireFromString("1.5")},
		{From: 31, To: 100, Then: decimal.RequireFromString("1.3")},
	}
}

// Lookup returns the first rule whose range contains age.
// There is no fallback rule: an uncovered age is an error.
func (t Table) Lookup(age int) (Rule, error) {
	for _, r := range t {
		if r.Contains(age) {
			return r, nil
		}
	}
	return Rule{}, RuleNotFoundError{Age: age}
}

// Validate rejects inverted ranges, non-positive multipliers and
// overlapping ranges.
func (t Table) Validate() error {
	for i, r := range t {
		if r.From > r.To {
			return fmt.Errorf("tax rule %d: from %d is greater than to %d", i, r.From, r.To)
		}
		if !r.Then.IsPositive() {
			return fmt.Errorf("tax rule %d: multiplier must be positive, got %s", i, r.Then)
		}
		for j := 0; j < i; j++ {
			prev := t[j]
			if r.From <= prev.To && prev.From <= r.To {
				return fmt.Errorf("tax rule %d [%d-%d] overlaps rule %d [%d-%d]",
					i, r.From, r.To, j, prev.From, prev.To)
			}
		}
	}
	return nil
}

// RuleNotFoundError indicates no rule covers the given age.
type RuleNotFoundError struct {
	Age int
}

func (e RuleNotFoundError) Error() string {
	return fmt.Sprintf("no tax rule covers age %d", e.Age)
}

func (e RuleNotFoundError) Is(target error) bool {
	return target == ErrRuleNotFound
}
