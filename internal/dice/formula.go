package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Formula is a parsed dice expression such as "2d6+1".
type Formula struct {
	Count int
	Sides int
	Bonus int
}

func (f Formula) String() string {
	switch {
	case f.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", f.Count, f.Sides, f.Bonus)
	case f.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", f.Count, f.Sides, f.Bonus)
	}
	return fmt.Sprintf("%dd%d", f.Count, f.Sides)
}

// ParseFormula accepts "NdS", "dS", "NdS+B" and "NdS-B".
func ParseFormula(s string) (Formula, error) {
	expr := strings.ToLower(strings.ReplaceAll(s, " ", ""))

	var f Formula
	if i := strings.LastIndexAny(expr, "+-"); i > 0 {
		bonus, err := strconv.Atoi(expr[i:])
		if err != nil {
			return Formula{}, fmt.Errorf("invalid dice string %q", s)
		}
		f.Bonus = bonus
		expr = expr[:i]
	}

	count, sides, ok := strings.Cut(expr, "d")
	if !ok {
		return Formula{}, fmt.Errorf("invalid dice string %q", s)
	}

	f.Count = 1
	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil {
			return Formula{}, fmt.Errorf("invalid dice string %q", s)
		}
		f.Count = n
	}

	n, err := strconv.Atoi(sides)
	if err != nil {
		return Formula{}, fmt.Errorf("invalid dice string %q", s)
	}
	f.Sides = n

	if err := validate(f.Count, f.Sides); err != nil {
		return Formula{}, err
	}
	return f, nil
}

// RollFormula parses and rolls a dice expression.
func RollFormula(r Roller, s string) (*RollResult, error) {
	f, err := ParseFormula(s)
	if err != nil {
		return nil, err
	}
	return r.Roll(f.Count, f.Sides, f.Bonus)
}

// String renders the result as "**total** : [rolls]".
func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	return fmt.Sprintf("**%d** : %s", r.Total, compact)
}
