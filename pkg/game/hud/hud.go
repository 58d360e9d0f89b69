// Package hud renders session snapshots as coloured text for the terminal.
package hud

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"toiletclicker/pkg/engine/input"
	"toiletclicker/pkg/engine/track"
	"toiletclicker/pkg/game/catalog"
	"toiletclicker/pkg/game/session"
	"toiletclicker/pkg/game/upgrades"
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

// InitLocale loads translations from dir/<lang>/LC_MESSAGES/default.po.
func InitLocale(dir, lang string) {
	gotext.Configure(dir, lang, "default")
}

// Translate looks up a message key, formatting it with args.
func Translate(key string, args ...any) string {
	return dynamicGet(key, args...)
}

const (
	meterFull  = "█"
	meterEmpty = "░"
	meterWarn  = "┆"
)

// HUD formats game state for a terminal of a given width.
type HUD struct {
	width int

	colorSafe    color.Style
	colorWarn    color.Style
	colorDanger  color.Style
	colorItem    color.Style
	colorJunk    color.Style
	colorHealthy color.Style
	colorSubtle  color.Style
	colorAction  color.Style

	regexpStringFunctions *regexp.Regexp
}

func New(width int) *HUD {
	return &HUD{
		width:        width,
		colorSafe:    color.Style{color.FgGreen},
		colorWarn:    color.Style{color.FgYellow, color.OpBold},
		colorDanger:  color.Style{color.FgRed, color.OpBold},
		colorItem:    color.Style{color.FgMagenta},
		colorJunk:    color.Style{color.FgRed},
		colorHealthy: color.Style{color.FgGreen, color.OpBold},
		colorSubtle:  color.Style{color.FgGray},
		colorAction:  color.Style{color.FgMagenta, color.OpBold},

		regexpStringFunctions: regexp.MustCompile(`([A-Z_]+){([^{}]+)}`),
	}
}

// Format formats a message with the markup system:
// GT{KEY} translates, ITEM{x} WARN{x} DANGER{x} OK{x} ACTION{x} colour.
func (h *HUD) Format(msg string, args ...any) string {
	ret := fmt.Sprintf(msg, args...)

	matches := h.regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = dynamicGet(operand)
		case "ITEM":
			val = h.colorItem.Sprint(operand)
		case "WARN":
			val = h.colorWarn.Sprint(operand)
		case "DANGER":
			val = h.colorDanger.Sprint(operand)
		case "OK":
			val = h.colorSafe.Sprint(operand)
		case "ACTION":
			val = h.colorAction.Sprint(operand[0:1]) + operand[1:]
		default:
			return fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, 1)
	}

	return ret
}

// Notice translates a session notice. String arguments are translated too,
// so labels and game over reasons can be passed as keys.
func (h *HUD) Notice(n session.Notice) string {
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		if s, ok := a.(string); ok {
			a = dynamicGet(s)
		}
		args[i] = a
	}
	msg := dynamicGet(n.Key, args...)
	if n.Key == "NOTICE_GAME_OVER" || n.Key == "NOTICE_ENTERED_CRITICAL" {
		return h.colorDanger.Sprint(msg)
	}
	return msg
}

// Meter draws a labelled bar for a track with its warning line.
func (h *HUD) Meter(v session.TrackView) string {
	label := fmt.Sprintf("%-16s", dynamicGet(v.Label))
	reading := fmt.Sprintf(" %5.1f/%.0f", v.Value, v.Max)

	barWidth := max(h.width-len(label)-len(reading)-24, 10)
	filled := int(v.Value / v.Max * float64(barWidth))
	warnAt := int(v.Warn / v.Max * float64(barWidth))

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			bar.WriteString(meterFull)
		case i == warnAt:
			bar.WriteString(meterWarn)
		default:
			bar.WriteString(meterEmpty)
		}
	}

	line := label + h.stateStyle(v.State).Sprint(bar.String()) + reading
	if v.State == track.Critical && v.Grace > 0 {
		line += " " + h.colorDanger.Sprint(fmt.Sprintf("%s %.1f/%.1fs", dynamicGet("OVERLOAD"), v.OverloadTimer, v.Grace))
	}
	return line
}

func (h *HUD) stateStyle(s track.State) color.Style {
	switch s {
	case track.Critical:
		return h.colorDanger
	case track.Warning:
		return h.colorWarn
	}
	return h.colorSafe
}

// Conveyor draws the slots from the boundary outwards, cut to the HUD width.
func (h *HUD) Conveyor(snap session.Snapshot) string {
	var b strings.Builder
	used := 2
	b.WriteString(h.colorSubtle.Sprint("▶ "))
	for _, sl := range snap.Slots {
		name := sl.Name
		if name == "" {
			name = string(sl.Item)
		}
		cell := "[" + name + "]"
		if used+len(cell)+1 > h.width {
			b.WriteString(h.colorSubtle.Sprint("…"))
			break
		}
		used += len(cell) + 1

		style := h.colorJunk
		switch {
		case sl.Consumed:
			style = h.colorSubtle
		case sl.Healthy:
			style = h.colorHealthy
		}
		b.WriteString(style.Sprint(cell) + " ")
	}
	return strings.TrimRight(b.String(), " ")
}

// Status returns the lines of the main status panel.
func (h *HUD) Status(snap session.Snapshot) []string {
	lines := []string{
		h.Format("GT{%s} %s   GT{LABEL_XP} %s   x%.1f   %.1fs",
			snap.Labels.Coins, humanize.Comma(int64(snap.Coins)), humanize.Comma(int64(snap.XP)),
			snap.ClickMultiplier, snap.Elapsed),
		h.Meter(snap.Primary),
		h.Meter(snap.Secondary),
		h.Conveyor(snap),
	}

	var effects []string
	for _, u := range snap.Upgrades {
		effects = append(effects, fmt.Sprintf("%s %.1fs", u.Name, u.Remaining))
	}
	switch {
	case snap.BoostRemaining > 0:
		effects = append(effects, h.colorWarn.Sprint(fmt.Sprintf("%s %.1fs", dynamicGet("BOOST"), snap.BoostRemaining)))
	case snap.BoostReady:
		effects = append(effects, h.Format("ACTION{%s}", dynamicGet("BOOST_AVAILABLE")))
	}
	if len(effects) > 0 {
		lines = append(lines, dynamicGet("ACTIVE")+": "+strings.Join(effects, ", "))
	}

	if snap.TrapRemaining > 0 {
		lines = append(lines, h.Trap(snap.TrapDelta, snap.TrapRemaining))
	}

	if snap.Paused {
		lines = append(lines, h.Format("WARN{%s}", dynamicGet("PAUSED")))
	}
	if snap.Over != session.ReasonNone {
		lines = append(lines,
			h.colorDanger.Sprint(dynamicGet(snap.Over.Key())),
			dynamicGet("BEST_SCORE", dynamicGet(snap.Secondary.Label), snap.BestSecondary),
		)
	}
	return lines
}

// Trap describes the mystery button. A button that lowers the secondary
// track is shown as a warning, one that raises it as danger.
func (h *HUD) Trap(delta int, remaining float64) string {
	amount := fmt.Sprintf("%+d", delta)
	if delta < 0 {
		amount = h.colorWarn.Sprint(amount)
	} else {
		amount = h.colorDanger.Sprint(amount)
	}
	return dynamicGet("TRAP_SHOWING", amount, remaining)
}

// Shop lists the purchasable items and upgrades with the keys that buy them.
func (h *HUD) Shop(items []*catalog.Item, shop []upgrades.Upgrade, snap session.Snapshot) []string {
	lines := []string{dynamicGet("SHOP")}
	for i, it := range items {
		if i >= 9 {
			break
		}
		line := fmt.Sprintf(" %d) %-14s %4d  +%dxp  %+.2f", i+1, it.Name, it.Cost, it.XP, it.Impact())
		if it.Cost > snap.Coins {
			line = h.colorSubtle.Sprint(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, dynamicGet("UPGRADES"))
	for i, u := range shop {
		if i >= len(input.UpgradeKeys) {
			break
		}
		dur := dynamicGet("INSTANT")
		if !u.Instant {
			dur = fmt.Sprintf("%.0fs", u.Duration)
		}
		line := fmt.Sprintf(" %c) %-18s %4dxp  %s", input.UpgradeKeys[i], u.Name, u.Price, dur)
		if u.Price > snap.XP {
			line = h.colorSubtle.Sprint(line)
		}
		lines = append(lines, line)
	}
	return lines
}

// Help lists the commands understood in script mode.
func (h *HUD) Help() []string {
	byAction := input.GetBindingsByAction()
	lines := make([]string, 0, len(helpActions))
	for _, a := range helpActions {
		lines = append(lines, h.Format("ACTION{%s}  %s", input.ActionName(a), strings.Join(byAction[a], ", ")))
	}
	return lines
}

// KeyHelp lists the single keys of interactive mode.
func (h *HUD) KeyHelp() []string {
	byAction := input.GetKeyBindingsByAction()
	lines := []string{dynamicGet("KEYS")}
	for _, a := range helpActions {
		keys, ok := byAction[a]
		if !ok {
			continue
		}
		lines = append(lines, h.Format("ACTION{%s}  %s", input.ActionName(a), strings.Join(keys, ", ")))
	}
	return lines
}

var helpActions = []input.Action{
	input.ActionClick, input.ActionBuy, input.ActionUpgrade, input.ActionBoost,
	input.ActionTrap, input.ActionWait, input.ActionPause, input.ActionResume, input.ActionReset,
	input.ActionStatus, input.ActionHelp, input.ActionQuit,
}
