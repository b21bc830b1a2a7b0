// Command asm14watch is an optional terminal front end over the same
// core pipeline as asm14: it watches a directory of .as files and
// re-assembles whichever one changed, showing diagnostics and a memory
// summary live. It never touches assembly semantics; it is a thin
// tcell/tview collaborator over pipeline.Assemble.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/halevi-tools/asm14/diag"
	"github.com/halevi-tools/asm14/pipeline"
)

const pollInterval = 500 * time.Millisecond

func main() {
	log.SetFlags(0)
	dir := flag.String("dir", ".", "directory of .as files to watch")
	flag.Parse()

	w, err := newWatcher(*dir)
	if err != nil {
		log.Fatalf("asm14watch: %v", err)
	}
	w.run()
}

// watcher owns the TUI state and the per-file mtime cache used to detect
// changes, mirroring the debugger.TUI struct shape from the ARM emulator
// front end this is grounded on, scaled down to one watched directory
// instead of one running VM.
type watcher struct {
	dir string

	app        *tview.Application
	fileList   *tview.TextView
	diagView   *tview.TextView
	memoryView *tview.TextView

	mainLayout *tview.Flex

	mtimes  map[string]time.Time
	results map[string]pipeline.Result
}

func newWatcher(dir string) (*watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	w := &watcher{
		dir:     dir,
		app:     tview.NewApplication(),
		mtimes:  make(map[string]time.Time),
		results: make(map[string]pipeline.Result),
	}
	w.initializeViews()
	w.buildLayout()
	return w, nil
}

func (w *watcher) initializeViews() {
	w.fileList = tview.NewTextView().SetDynamicColors(true)
	w.fileList.SetBorder(true).SetTitle(" Watched files ")

	w.diagView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	w.diagView.SetBorder(true).SetTitle(" Diagnostics ")

	w.memoryView = tview.NewTextView().SetDynamicColors(true)
	w.memoryView.SetBorder(true).SetTitle(" Memory summary ")
}

func (w *watcher) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(w.fileList, 0, 1, false).
		AddItem(w.memoryView, 0, 1, false)

	w.mainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 0, 1, false).
		AddItem(w.diagView, 0, 2, false)

	w.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			w.app.Stop()
			return nil
		case tcell.KeyCtrlL:
			w.rescanAll()
			return nil
		}
		return event
	})
}

func (w *watcher) run() {
	go w.pollLoop()
	w.rescanAll()
	if err := w.app.SetRoot(w.mainLayout, true).Run(); err != nil {
		log.Fatalf("asm14watch: %v", err)
	}
}

// pollLoop re-scans the directory on an interval, since the pack carries
// no filesystem-notification dependency to ground an inotify-style
// watcher on.
func (w *watcher) pollLoop() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for range ticker.C {
		if w.scanChanged() {
			w.app.QueueUpdateDraw(w.refreshViews)
		}
	}
}

func (w *watcher) rescanAll() {
	w.scanChanged()
	w.app.QueueUpdateDraw(w.refreshViews)
}

// scanChanged walks dir for .as files, re-assembling any whose mtime
// advanced since the last scan. Returns true if anything changed.
func (w *watcher) scanChanged() bool {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return false
	}

	changed := false
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".as" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".as")
		if last, ok := w.mtimes[name]; ok && !info.ModTime().After(last) {
			continue
		}
		w.mtimes[name] = info.ModTime()
		w.results[name] = w.assemble(name)
		changed = true
	}
	return changed
}

func (w *watcher) assemble(name string) pipeline.Result {
	src, err := os.ReadFile(filepath.Join(w.dir, name+".as"))
	if err != nil {
		bag := diag.NewBag(name)
		bag.Add(0, "%s", err.Error())
		return pipeline.Result{Bag: bag, OK: false}
	}
	lines := strings.Split(strings.TrimRight(string(src), "\n"), "\n")
	return pipeline.Assemble(name, lines)
}

func (w *watcher) refreshViews() {
	names := make([]string, 0, len(w.results))
	for name := range w.results {
		names = append(names, name)
	}
	sort.Strings(names)

	var files, diags, mem strings.Builder
	for _, name := range names {
		r := w.results[name]
		status := "[green]OK[white]"
		if !r.OK {
			status = "[red]FAIL[white]"
		}
		fmt.Fprintf(&files, "%s  %s\n", name, status)

		for _, d := range r.Bag.Items() {
			fmt.Fprintf(&diags, "%s\n", d.String())
		}

		if r.Unit != nil {
			fmt.Fprintf(&mem, "%s: IC=%d DC=%d\n", name, len(r.Unit.Instructions), len(r.Unit.Data))
			if len(r.Unit.Data) > 0 {
				values := make([]string, len(r.Unit.Data))
				for i, w := range r.Unit.Data {
					values[i] = strconv.Itoa(w.SignedValue())
				}
				fmt.Fprintf(&mem, "  data: %s\n", strings.Join(values, " "))
			}
		}
	}

	w.fileList.SetText(files.String())
	w.diagView.SetText(diags.String())
	w.memoryView.SetText(mem.String())
}
