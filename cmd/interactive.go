package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// pickerState is the cursor of the result picker.
type pickerState struct {
	selected int
	count    int
}

// key is a decoded keypress.
type key int

const (
	keyNone key = iota
	keyUp
	keyDown
	keyEnter
	keyQuit
)

// readKey decodes one keypress from a raw-mode terminal. It understands ANSI
// arrow sequences and the Windows console's 0/224 prefixed scan codes.
func readKey(r *bufio.Reader) (key, error) {
	b1, err := r.ReadByte()
	if err != nil {
		return keyQuit, err
	}
	if b1 == 0 || b1 == 224 {
		b2, err := r.ReadByte()
		if err != nil {
			return keyQuit, err
		}
		switch b2 {
		case 72:
			return keyUp, nil
		case 80:
			return keyDown, nil
		case 13:
			return keyEnter, nil
		}
		return keyNone, nil
	}

	switch b1 {
	case 27: // ESC or CSI
		if r.Buffered() == 0 {
			return keyQuit, nil
		}
		if b2, _ := r.ReadByte(); b2 != '[' || r.Buffered() == 0 {
			return keyNone, nil
		}
		switch b3, _ := r.ReadByte(); b3 {
		case 'A':
			return keyUp, nil
		case 'B':
			return keyDown, nil
		}
	case '\r', '\n':
		return keyEnter, nil
	case 'k':
		return keyUp, nil
	case 'j':
		return keyDown, nil
	case 3, 'q': // Ctrl-C
		return keyQuit, nil
	}
	return keyNone, nil
}

// move applies a navigation key and reports whether the cursor moved.
func (s *pickerState) move(k key) bool {
	switch k {
	case keyUp:
		if s.selected > 0 {
			s.selected--
			return true
		}
	case keyDown:
		if s.selected < s.count-1 {
			s.selected++
			return true
		}
	}
	return false
}

// pickRecord lets the user move through lines with the arrow keys and press
// Enter to call show for the selected line. Esc, q or Ctrl-C return.
func pickRecord(in *os.File, out io.Writer, lines []string, show func(i int)) {
	if len(lines) == 0 {
		return
	}

	if runtime.GOOS == "windows" {
		enableVT()
	}

	fd := int(in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintln(out, "(interactive selection not supported on this terminal)")
		return
	}
	defer func() { term.Restore(fd, oldState) }()

	reader := bufio.NewReader(in)
	state := pickerState{count: len(lines)}

	// Raw mode needs explicit carriage returns.
	redraw := func() {
		fmt.Fprint(out, "\033[H\033[2J")
		for i, l := range lines {
			prefix := "  "
			if i == state.selected {
				prefix = "> "
			}
			fmt.Fprint(out, prefix+l+"\r\n")
		}
		fmt.Fprint(out, "(↑/↓ to navigate, Enter to view details, Esc to quit)\r\n")
	}

	redraw()

	for {
		k, err := readKey(reader)
		if err != nil {
			return
		}
		switch k {
		case keyQuit:
			fmt.Fprint(out, "\r\n")
			return
		case keyEnter:
			term.Restore(fd, oldState)
			fmt.Fprintln(out)
			show(state.selected)

			fmt.Fprint(out, "\n(press Enter to return)")
			_, _ = bufio.NewReader(in).ReadBytes('\n')

			oldState, err = term.MakeRaw(fd)
			if err != nil {
				return
			}
			reader = bufio.NewReader(in)
			redraw()
		default:
			if state.move(k) {
				redraw()
			}
		}
	}
}
