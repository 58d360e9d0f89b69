package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"toiletclicker/pkg/engine/input"
	"toiletclicker/pkg/engine/terminal"
	"toiletclicker/pkg/game/config"
	"toiletclicker/pkg/game/hud"
	"toiletclicker/pkg/game/session"
)

func loadConfig(path, variant string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Default(variant)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "", "YAML config file (overrides variant defaults)")
	variant := flag.String("variant", config.VariantFood, "game variant when no config file is given: food or code")
	seed := flag.Int64("seed", 0, "random seed, 0 for a time based seed")
	step := flag.Float64("step", 0.1, "simulation step in seconds")
	script := flag.String("script", "", "file of commands to play instead of the keyboard")
	lang := flag.String("lang", "en_GB", "message language")
	locales := flag.String("locales", "locales", "directory holding <lang>/LC_MESSAGES/default.po")
	verbose := flag.Bool("v", false, "log session events to stderr")
	flag.Parse()

	hud.InitLocale(*locales, *lang)

	cfg, err := loadConfig(*configPath, *variant)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *step <= 0 {
		log.Fatalf("step must be positive, got %v", *step)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var opts []session.Option
	if *verbose {
		opts = append(opts, session.WithLogger(log.New(os.Stderr, "[session] ", log.LstdFlags)))
	}
	s, err := session.New(cfg, *seed, opts...)
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	a := newApp(s, hud.New(terminal.GetWidth()), os.Stdout, *step)

	switch {
	case *script != "":
		f, err := os.Open(*script)
		if err != nil {
			log.Fatalf("script: %v", err)
		}
		defer f.Close()
		err = a.runScript(f)
		if err != nil {
			log.Fatalf("script: %v", err)
		}
		a.printStatus()
	case !terminal.IsInteractive(os.Stdin):
		if err := a.runScript(os.Stdin); err != nil {
			log.Fatalf("stdin: %v", err)
		}
		a.printStatus()
	default:
		if err := a.runInteractive(os.Stdin); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

// runInteractive plays with single key presses, redrawing every step.
func (a *app) runInteractive(stdin *os.File) error {
	keys := make(chan input.Intent)
	restore, err := input.ReadKeys(stdin, keys)
	if err != nil {
		return err
	}
	defer restore()

	// Raw mode turns off output post-processing.
	a.eol = "\r\n"
	out := a.out
	a.out = io.Discard

	ticker := time.NewTicker(time.Duration(a.step * float64(time.Second)))
	defer ticker.Stop()

	a.redraw(out)
	for {
		select {
		case in, ok := <-keys:
			if !ok {
				return nil
			}
			if errors.Is(a.handleKey(in), errQuit) {
				fmt.Fprint(out, hud.Translate("GOODBYE")+a.eol)
				return nil
			}
		case <-ticker.C:
			a.report(a.s.Tick(a.step))
		}
		a.redraw(out)
	}
}

// handleKey runs a key press. Pause and help are toggles on the keyboard,
// and refused actions go to the message pane.
func (a *app) handleKey(in input.Intent) error {
	switch in.Action {
	case input.ActionHelp:
		a.showHelp = !a.showHelp
		return nil
	case input.ActionPause:
		if a.s.Snapshot().Paused {
			in.Action = input.ActionResume
		}
	}
	err := a.dispatch(in)
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		a.messages.Add(err.Error())
	}
	a.report(a.s.Notices())
	return nil
}

func (a *app) redraw(w io.Writer) {
	terminal.Clear(w)
	snap := a.s.Snapshot()
	for _, line := range a.hud.Status(snap) {
		fmt.Fprint(w, line+a.eol)
	}
	fmt.Fprint(w, a.eol)
	for _, line := range a.hud.Shop(a.s.Catalog().Healthy(), a.s.UpgradeShop(), snap) {
		fmt.Fprint(w, line+a.eol)
	}
	fmt.Fprint(w, a.eol+hud.Translate("KEYS_HINT")+a.eol+a.eol)
	if a.showHelp {
		for _, line := range a.hud.KeyHelp() {
			fmt.Fprint(w, line+a.eol)
		}
		fmt.Fprint(w, a.eol)
	}
	for _, line := range a.messages.Lines() {
		fmt.Fprint(w, line+a.eol)
	}
}
