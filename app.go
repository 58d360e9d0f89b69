package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"toiletclicker/pkg/engine/input"
	"toiletclicker/pkg/engine/pool"
	"toiletclicker/pkg/game/hud"
	"toiletclicker/pkg/game/session"
	"toiletclicker/pkg/game/upgrades"
)

var errQuit = errors.New("quit")

// app dispatches player intents to a session and prints what happened.
type app struct {
	s    *session.Session
	hud  *hud.HUD
	out  io.Writer
	step float64
	eol  string

	messages hud.MessageLog
	showHelp bool
}

func newApp(s *session.Session, h *hud.HUD, out io.Writer, step float64) *app {
	return &app{s: s, hud: h, out: out, step: step, eol: "\n"}
}

func (a *app) println(line string) {
	fmt.Fprint(a.out, line+a.eol)
}

// dispatch runs one intent. It returns errQuit when the player wants to leave,
// and session errors such as session.ErrNotEnoughCoins otherwise.
func (a *app) dispatch(in input.Intent) error {
	switch in.Action {
	case input.ActionNone:
		return nil
	case input.ActionClick:
		return a.s.Click()
	case input.ActionBuy:
		id, err := a.itemArg(in.Arg)
		if err != nil {
			return err
		}
		return a.s.BuyItem(id)
	case input.ActionUpgrade:
		t, err := a.upgradeArg(in.Arg)
		if err != nil {
			return err
		}
		return a.s.BuyUpgrade(t)
	case input.ActionBoost:
		return a.s.ActivateBoost()
	case input.ActionTrap:
		return a.s.PressTrap()
	case input.ActionWait:
		secs, err := strconv.ParseFloat(in.Arg, 64)
		if err != nil || secs < 0 {
			return fmt.Errorf("wait: bad duration %q", in.Arg)
		}
		a.wait(secs)
	case input.ActionPause:
		a.s.Pause()
	case input.ActionResume:
		a.s.Resume()
	case input.ActionReset:
		a.messages.Clear()
		return a.s.Reset()
	case input.ActionStatus:
		a.printStatus()
	case input.ActionHelp:
		for _, line := range a.hud.Help() {
			a.println(line)
		}
	case input.ActionQuit:
		return errQuit
	}
	return nil
}

// wait advances the session in step sized ticks, printing notices as they come.
func (a *app) wait(secs float64) {
	for secs > 1e-9 {
		dt := min(a.step, secs)
		secs -= dt
		a.report(a.s.Tick(dt))
		if a.s.Over() != session.ReasonNone {
			return
		}
	}
}

// report prints notices and keeps them for the message pane.
func (a *app) report(notices []session.Notice) {
	for _, n := range notices {
		msg := a.hud.Notice(n)
		a.messages.Add(msg)
		a.println(msg)
	}
}

func (a *app) printStatus() {
	snap := a.s.Snapshot()
	for _, line := range a.hud.Status(snap) {
		a.println(line)
	}
	for _, line := range a.hud.Shop(a.s.Catalog().Healthy(), a.s.UpgradeShop(), snap) {
		a.println(line)
	}
}

// itemArg resolves a buy argument: an item id, or #N for the Nth shop entry.
func (a *app) itemArg(arg string) (pool.ItemID, error) {
	items := a.s.Catalog().Healthy()
	if n, ok := shopIndex(arg, len(items)); ok {
		return items[n].ID, nil
	}
	if strings.HasPrefix(arg, "#") {
		return "", fmt.Errorf("no shop item %s", arg)
	}
	return pool.ItemID(arg), nil
}

// upgradeArg resolves an upgrade argument: a type name, or #N for the Nth upgrade.
func (a *app) upgradeArg(arg string) (upgrades.Type, error) {
	shop := a.s.UpgradeShop()
	if n, ok := shopIndex(arg, len(shop)); ok {
		return shop[n].Type, nil
	}
	if strings.HasPrefix(arg, "#") {
		return 0, fmt.Errorf("no upgrade %s", arg)
	}
	return upgrades.ParseType(arg)
}

func shopIndex(arg string, size int) (int, bool) {
	if !strings.HasPrefix(arg, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(arg[1:])
	if err != nil || n < 1 || n > size {
		return 0, false
	}
	return n - 1, true
}

// runScript plays commands from r until EOF or quit. Bad lines and refused
// actions are reported and skipped.
func (a *app) runScript(r io.Reader) error {
	lines := input.NewLineReader(r)
	for {
		in, err := lines.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var lerr *input.LineError
		if errors.As(err, &lerr) {
			a.println("! " + lerr.Error())
			continue
		}
		if err != nil {
			return err
		}

		err = a.dispatch(in)
		a.report(a.s.Notices())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			a.println(fmt.Sprintf("! %s: %v", in, err))
		}
	}
}
