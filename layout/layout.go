package layout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jroimartin/gocui"
)

// View names.
const (
	InputView   = "input"
	LoggerView  = "logger"
	ManualView  = "manual"
	HistoryView = "pastcommand"
)

// Submit handles one line typed into the input box. A returned error is shown
// next to the echoed line.
type Submit func(line string) error

// pastCmd is the last submitted line waiting to be echoed.
type pastCmd struct {
	str   string
	ready bool
	m     sync.Mutex
}

// PastCmd is the ViewManager that logs past command.
type PastCmd struct {
	name string
	last *pastCmd
}

// Input box for command.
type Input struct {
	name   string
	submit Submit
	last   *pastCmd
}

type Logger struct {
	name string
}

type Manual struct {
	name  string
	usage string
}

func (pc *PastCmd) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom left corner.
	v, err := g.SetView(pc.name, 1, maxY*2/3, maxX/3, maxY-6)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true

	pc.last.m.Lock()
	defer pc.last.m.Unlock()
	if pc.last.ready {
		fmt.Fprintln(v, "> "+pc.last.str)
	}
	pc.last.ready = false
	return nil
}

func (i *Input) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Bottom, full width.
	v, err := g.SetView(i.name, 1, maxY-5, maxX-1, maxY-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Autoscroll = true
	v.Editor = i
	v.Editable = true
	return nil
}

func (l *Logger) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Right side.
	v, err := g.SetView(l.name, maxX/3+1, 1, maxX-1, maxY-6)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Autoscroll = true
	v.Wrap = true
	return nil
}

func (m *Manual) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// Top left corner.
	v, err := g.SetView(m.name, 1, 1, maxX/3, maxY*2/3-1)
	if err != nil && err != gocui.ErrUnknownView {
		return err
	}
	v.Wrap = true
	v.Clear()
	fmt.Fprintln(v, m.usage)
	return nil
}

func (i *Input) Edit(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
	switch {
	case key == gocui.KeyEnter:
		s := strings.TrimSpace(strings.Replace(v.Buffer(), "\n", "", -1))
		err := i.submit(s)
		i.last.m.Lock()
		i.last.str = s
		if err != nil {
			i.last.str = s + "\n" + err.Error()
		}
		i.last.ready = true
		i.last.m.Unlock()

		// Reset cursor.
		v.Clear()
		v.SetOrigin(0, 0)
		v.SetCursor(0, 0)
	case ch != 0 && mod == 0:
		v.EditWrite(ch)
	case key == gocui.KeySpace:
		v.EditWrite(' ')
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		v.EditDelete(true)
	}
}

func SetFocus(name string) func(g *gocui.Gui) error {
	return func(g *gocui.Gui) error {
		_, err := g.SetCurrentView(name)
		return err
	}
}

// Create a GUI whose input box hands every line to submit. usage is shown in
// the manual view.
func CreateGui(submit Submit, usage string) (*gocui.Gui, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	g.Cursor = true

	last := &pastCmd{}
	pc := &PastCmd{name: HistoryView, last: last}
	input := &Input{name: InputView, submit: submit, last: last}
	l := &Logger{name: LoggerView}
	m := &Manual{name: ManualView, usage: usage}
	focus := gocui.ManagerFunc(SetFocus(InputView))
	g.SetManager(pc, input, l, m, focus)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// Println appends a line to the logger view from any goroutine.
func Println(g *gocui.Gui, s string) {
	g.Update(func(g *gocui.Gui) error {
		v, err := g.View(LoggerView)
		if err != nil {
			return err
		}
		fmt.Fprintln(v, s)
		return nil
	})
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
