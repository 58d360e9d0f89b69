package input

import (
	"fmt"
	"sort"
	"strings"
)

// Action represents a high-level intent in the game.
type Action int

const (
	ActionNone Action = iota

	ActionClick
	ActionBuy     // Arg: item id, or #N for the Nth shop entry
	ActionUpgrade // Arg: upgrade name, or #N for the Nth upgrade
	ActionBoost
	ActionTrap

	// Meta
	ActionWait // Arg: seconds
	ActionPause
	ActionResume
	ActionReset
	ActionStatus
	ActionHelp
	ActionQuit
)

// Intent is what the player wants to do, with its argument if it takes one.
type Intent struct {
	Action Action
	Arg    string
}

func (i Intent) String() string {
	if i.Arg == "" {
		return ActionName(i.Action)
	}
	return ActionName(i.Action) + " " + i.Arg
}

// bindings maps command words to actions. Multiple words may point to the same Action.
var bindings = map[string]Action{
	"click": ActionClick,
	"c":     ActionClick,
	"space": ActionClick,

	"buy": ActionBuy,

	"upgrade": ActionUpgrade,
	"u":       ActionUpgrade,

	"boost": ActionBoost,

	"trap": ActionTrap,
	"t":    ActionTrap,

	"wait": ActionWait,
	"w":    ActionWait,

	"pause":  ActionPause,
	"resume": ActionResume,
	"reset":  ActionReset,

	"status": ActionStatus,
	"s":      ActionStatus,

	"help": ActionHelp,
	"?":    ActionHelp,

	"quit": ActionQuit,
	"q":    ActionQuit,
	"exit": ActionQuit,
}

// needsArg lists the actions that cannot run without an argument.
var needsArg = map[Action]bool{
	ActionBuy:     true,
	ActionUpgrade: true,
	ActionWait:    true,
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionClick:
		return "click"
	case ActionBuy:
		return "buy"
	case ActionUpgrade:
		return "upgrade"
	case ActionBoost:
		return "boost"
	case ActionTrap:
		return "trap"
	case ActionWait:
		return "wait"
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	case ActionReset:
		return "reset"
	case ActionStatus:
		return "status"
	case ActionHelp:
		return "help"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Parse turns a command line into an Intent. A blank line is ActionNone.
func Parse(line string) (Intent, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Intent{}, nil
	}
	act, ok := bindings[strings.ToLower(fields[0])]
	if !ok {
		return Intent{}, fmt.Errorf("unknown command %q", fields[0])
	}
	in := Intent{Action: act, Arg: strings.Join(fields[1:], " ")}
	if needsArg[act] && in.Arg == "" {
		return Intent{}, fmt.Errorf("%s needs an argument", ActionName(act))
	}
	return in, nil
}

// GetBindingsByAction returns the command words grouped by action.
func GetBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering so help output does not shuffle.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}
