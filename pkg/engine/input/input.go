package input

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// LineReader reads commands one line at a time, from a script file or a pipe.
type LineReader struct {
	r    *bufio.Reader
	line int
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next returns the next command. Blank lines and lines starting with "#" are
// skipped. It returns io.EOF when the input is exhausted.
func (l *LineReader) Next() (Intent, error) {
	for {
		s, err := l.r.ReadString('\n')
		if s == "" && err != nil {
			return Intent{}, err
		}
		l.line++
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			if err != nil {
				return Intent{}, err
			}
			continue
		}
		in, perr := Parse(s)
		if perr != nil {
			return Intent{}, &LineError{Line: l.line, Err: perr}
		}
		return in, nil
	}
}

// LineError is a parse error with its position in the input.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error { return e.Err }

// keyBindings are the single-key controls of interactive mode.
var keyBindings = map[byte]Intent{
	' ': {Action: ActionClick},
	'c': {Action: ActionClick},
	'b': {Action: ActionBoost},
	't': {Action: ActionTrap},
	'p': {Action: ActionPause},
	'r': {Action: ActionReset},
	'?': {Action: ActionHelp},
	'q': {Action: ActionQuit},
	3:   {Action: ActionQuit}, // Ctrl+C
}

// keyNames spells out the keys that do not print as themselves.
var keyNames = map[byte]string{
	' ': "space",
	3:   "ctrl+c",
}

// GetKeyBindingsByAction returns the interactive keys grouped by action,
// including the digit and letter ranges that buy from the shop.
func GetKeyBindingsByAction() map[Action][]string {
	result := make(map[Action][]string)
	for b, in := range keyBindings {
		name, ok := keyNames[b]
		if !ok {
			name = string(b)
		}
		result[in.Action] = append(result[in.Action], name)
	}
	for act, keys := range result {
		sort.Strings(keys)
		result[act] = keys
	}
	result[ActionBuy] = []string{"1-9"}
	result[ActionUpgrade] = []string{strings.Join(strings.Split(UpgradeKeys, ""), " ")}
	return result
}

// UpgradeKeys are the keys that buy upgrades in interactive mode, in shop order.
const UpgradeKeys = "ASDFGHJKLZX"

// KeyIntent maps a key press to an Intent. Digits buy shop items and the
// letters of UpgradeKeys buy upgrades, both by position.
func KeyIntent(b byte) Intent {
	if in, ok := keyBindings[b]; ok {
		return in
	}
	if b >= '1' && b <= '9' {
		return Intent{Action: ActionBuy, Arg: "#" + string(b)}
	}
	if i := strings.IndexByte(UpgradeKeys, b); i >= 0 {
		return Intent{Action: ActionUpgrade, Arg: "#" + strconv.Itoa(i+1)}
	}
	return Intent{}
}

// ReadKeys puts f into raw mode and sends an Intent for every key press until
// f is closed or a quit key is pressed. Arrow keys and other escape sequences
// are ignored. The returned function restores the terminal.
func ReadKeys(f *os.File, out chan<- Intent) (restore func(), err error) {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	restore = func() { _ = term.Restore(fd, oldState) }

	go func() {
		defer close(out)
		buf := make([]byte, 16)
		for {
			n, err := f.Read(buf)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					out <- Intent{Action: ActionQuit}
				}
				return
			}
			// Escape sequences arrive in one read; drop the whole chunk.
			if buf[0] == 0x1b {
				continue
			}
			for _, b := range buf[:n] {
				in := KeyIntent(b)
				if in.Action == ActionNone {
					continue
				}
				out <- in
				if in.Action == ActionQuit {
					return
				}
			}
		}
	}()
	return restore, nil
}
