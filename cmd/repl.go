package main

import (
	"bufio"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"deedfind/internal/search"
	"deedfind/internal/session"
	"deedfind/internal/sheet"
	"deedfind/internal/types"
)

// repl is the interactive lookup loop.
type repl struct {
	sess     *session.Session
	searcher *search.Searcher
	in       *bufio.Reader
	p        printer

	// browse opens the result picker. It is nil when stdin is not a terminal.
	browse func(records []types.DeedRecord)
	now    func() time.Time
}

func newREPL(searcher *search.Searcher, sess *session.Session, in io.Reader, p printer) *repl {
	return &repl{
		sess:     sess,
		searcher: searcher,
		in:       bufio.NewReader(in),
		p:        p,
		now:      time.Now,
	}
}

// run reads commands until a blank line or end of input.
func (r *repl) run() error {
	for {
		r.prompt()
		input, err := r.in.ReadString('\n')
		line := strings.TrimSpace(input)
		if line != "" {
			r.handle(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.p.println()
				return nil
			}
			return err
		}
		if line == "" {
			return nil
		}
	}
}

func (r *repl) prompt() {
	mode := r.sess.Mode()
	switch {
	case r.sess.FullView():
		r.p.printf("[All Records] 'off' to return to search (blank to quit): ")
	case mode == search.ModeBulk:
		r.p.printf("[%s] load <file>, run, or 'help' (blank to quit): ", mode.Title())
	case mode == search.ModeCombined:
		r.p.printf("[%s] %s (%s) b=<Building No.>, or 'help' (blank to quit): ", mode.Title(), mode.Label(), mode.Placeholder())
	default:
		r.p.printf("[%s] %s (%s), or 'help' (blank to quit): ", mode.Title(), mode.Label(), mode.Placeholder())
	}
}

func (r *repl) handle(line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help", "?":
		r.help()
	case "mode":
		r.setMode(arg)
	case "load":
		r.load(arg)
	case "run":
		r.runBulk()
	case "all":
		r.sess.ShowAll(true)
		r.show()
	case "off":
		r.sess.ShowAll(false)
		r.p.println("Full view off.")
	case "export":
		r.export(arg)
	default:
		r.query(line)
	}
}

func (r *repl) help() {
	r.p.println("Commands:")
	r.p.printf("  mode <name>     switch search mode (%s)\n", strings.Join(search.ModeNames(), ", "))
	r.p.println("  load <file>     stage an .xlsx or .csv file for bulk search")
	r.p.println("  run             search the staged file")
	r.p.println("  all / off       show every record / return to search")
	r.p.println("  export [file]   save the current results as .xlsx or .csv")
	r.p.println("  <term>          search; in combined mode add b=<Building No.>")
	r.p.println("  (blank line)    quit")
}

func (r *repl) setMode(name string) {
	if name == "" {
		for _, m := range search.Modes {
			marker := "  "
			if m == r.sess.Mode() {
				marker = "* "
			}
			r.p.printf("%s%-9s %s\n", marker, m, m.Title())
		}
		return
	}
	m, err := search.ParseMode(name)
	if err != nil {
		r.p.printf("%v (choose from %s)\n", err, strings.Join(search.ModeNames(), ", "))
		return
	}
	r.sess.SetMode(m)
	r.p.printf("Mode: %s\n", m.Title())
}

func (r *repl) load(path string) {
	if path == "" {
		r.p.println("usage: load <file.xlsx|file.csv>")
		return
	}
	if r.sess.Mode() != search.ModeBulk {
		r.sess.SetMode(search.ModeBulk)
		r.p.printf("Mode: %s\n", search.ModeBulk.Title())
	}

	name := filepath.Base(path)
	grid, err := sheet.ReadGrid(path)
	if err != nil {
		r.sess.FailDecode(name, err)
		r.show()
		return
	}
	r.sess.LoadGrid(name, grid)

	cols := r.searcher.Columns()
	detected := cols.Detect(grid.Header)
	var found []string
	for _, role := range search.Roles {
		if _, ok := detected.Index(role); ok {
			found = append(found, cols.Header(role))
		}
	}
	if len(found) == 0 {
		found = []string{"none"}
	}
	r.p.printf("Loaded %s: %d row(s), columns: %s. Type 'run' to search.\n",
		name, len(grid.Rows), strings.Join(found, ", "))
}

func (r *repl) runBulk() {
	if err := r.sess.SubmitBulk(); err != nil {
		switch {
		case errors.Is(err, session.ErrNoGrid):
			r.p.println("No spreadsheet loaded; use 'load <file>' first.")
			return
		case errors.Is(err, session.ErrNotBulkMode):
			r.p.println("Switch to Excel Upload mode with 'mode bulk' first.")
			return
		case errors.Is(err, session.ErrFullView):
			r.p.println("Full view is on; type 'off' to search again.")
			return
		}
		r.p.printf("bulk search failed: %v\n", err)
		return
	}
	r.show()
}

func (r *repl) query(line string) {
	if r.sess.FullView() {
		r.p.println("Full view is on; type 'off' to search again.")
		return
	}
	if r.sess.Mode() == search.ModeBulk {
		r.p.println("Excel Upload mode: use 'load <file>' and then 'run'.")
		return
	}

	term, building := splitBuilding(line)
	if building != "" && r.sess.Mode() != search.ModeCombined {
		r.p.println("(b= is only used in combined mode; ignored)")
	}
	r.sess.Submit(term, building)
	r.show()
}

// show prints the session results and offers the picker for them.
func (r *repl) show() {
	r.p.session(r.sess, r.searcher.Columns(), r.searcher.Equivalence())

	records := r.sess.Records()
	if r.browse == nil || len(records) == 0 || r.sess.State() != session.Results {
		return
	}
	r.p.printf("Browse results? (y/N): ")
	resp, _ := r.in.ReadString('\n')
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		r.browse(records)
	}
}

func (r *repl) export(path string) {
	if path == "" {
		path = exportName(r.now())
	}
	v := viewCompact
	switch {
	case r.sess.FullView():
		v = viewFull
	case r.sess.Mode() == search.ModeBulk:
		v = viewBulk
	}
	records := r.sess.Records()
	if err := exportResults(path, records, v, r.searcher.Equivalence()); err != nil {
		r.p.printf("export failed: %v\n", err)
		return
	}
	r.p.printf("Exported %d record(s) to %s\n", len(records), path)
}

// splitBuilding separates a trailing b=<building> token from a query line.
func splitBuilding(line string) (term, building string) {
	fields := strings.Fields(line)
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if len(f) >= 2 && strings.EqualFold(f[:2], "b=") {
			building = f[2:]
			fields = append(fields[:i], fields[i+1:]...)
			break
		}
	}
	return strings.Join(fields, " "), building
}
