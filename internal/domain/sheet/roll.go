package sheet

import (
	"fmt"
	"slices"
	"strings"

	sheeterr "github.com/KirkDiggler/pgte-bot/internal/errors"
)

// RollKind identifies what a roll button is bound to.
type RollKind string

const (
	RollStat           RollKind = "stat"
	RollAspect         RollKind = "aspect"
	RollStoryDie       RollKind = "story"
	RollExtra          RollKind = "extra"
	RollPatternOfThree RollKind = "pattern"
)

// Aspect roll types.
const (
	AspectPassive = "passive"
	AspectActive  = "active"
)

// RollRequest selects a roll on the sheet. Key is the stat key or slot; Type
// is the aspect roll type; Die overrides the story die for aspect rolls.
type RollRequest struct {
	Kind RollKind
	Key  string
	Type string
	Die  DieSize
}

// RollPlan is a resolved roll: a single die plus the chat flavor text.
type RollPlan struct {
	Die    DieSize
	Sides  int
	Flavor string
}

// Formula is the dice expression shown in chat, e.g. "1d6".
func (p RollPlan) Formula() string {
	return "1" + string(p.Die)
}

// PlanRoll resolves a roll request against the document. A target without a
// rollable die size yields a validation error and nothing should be rolled.
func (d *Document) PlanRoll(req RollRequest) (RollPlan, error) {
	var die DieSize
	var flavor string
	var what string

	switch req.Kind {
	case RollStat:
		key, ok := ParseStatKey(req.Key)
		if !ok {
			return RollPlan{}, sheeterr.InvalidArgumentf("unknown stat %q", req.Key)
		}
		stat := d.Stat(key)
		die = stat.Value
		flavor = fmt.Sprintf("Rolling %s: %s", stat.Label, die)
		what = stat.Label

	case RollAspect:
		aspect, ok := d.Aspects[req.Key]
		if !ok {
			return RollPlan{}, sheeterr.InvalidArgumentf("unknown aspect slot %q", req.Key)
		}
		rollType := strings.ToLower(req.Type)
		if rollType != AspectPassive && rollType != AspectActive {
			return RollPlan{}, sheeterr.InvalidArgumentf("unknown aspect roll type %q", req.Type)
		}
		die = req.Die
		if die == "" {
			die = d.storyDie()
		}
		name := aspect.Name
		if name == "" {
			name = "Aspect"
		}
		flavor = fmt.Sprintf("**%s** (%s)", name, rollType)
		what = name

	case RollStoryDie:
		die = d.storyDie()
		flavor = fmt.Sprintf("Rolling Story Die: %s", die)
		what = "the story die"

	case RollExtra:
		if !slices.Contains(ItemSlots, req.Key) {
			return RollPlan{}, sheeterr.InvalidArgumentf("unknown bonus die slot %q", req.Key)
		}
		bonus := d.BonusDice[req.Key]
		die = bonus.Die
		flavor = fmt.Sprintf("Extra %s Roll", die)
		if bonus.Name != "" {
			flavor = bonus.Name + ": " + flavor
			what = bonus.Name
		} else {
			what = "bonus die " + req.Key
		}

	case RollPatternOfThree:
		die = d.storyDie()
		flavor = "Pattern of Three: Story Die"
		what = "the pattern of three"

	default:
		return RollPlan{}, sheeterr.InvalidArgumentf("unknown roll kind %q", req.Kind)
	}

	sides, ok := die.Sides()
	if !ok {
		return RollPlan{}, sheeterr.Validationf("No die size set for %s", what).
			WithMeta("die", string(die))
	}

	return RollPlan{Die: die, Sides: sides, Flavor: flavor}, nil
}

func (d *Document) storyDie() DieSize {
	if d.Resources.StoryDie.Value == "" {
		return DefaultDie
	}
	return d.Resources.StoryDie.Value
}
