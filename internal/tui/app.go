package tui

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/dshills/findreplace/internal/engine/buffer"
	"github.com/dshills/findreplace/internal/find/result"
	"github.com/dshills/findreplace/internal/find/session"
	"github.com/dshills/findreplace/internal/input/key"
)

// Field identifies the focused find bar field.
type Field int

const (
	// FieldSearch is the search text field.
	FieldSearch Field = iota
	// FieldReplace is the replace text field.
	FieldReplace
)

// Styles are the styles the view draws with.
type Styles struct {
	Text        tcell.Style
	Match       tcell.Style
	Current     tcell.Style
	Bar         tcell.Style
	Label       tcell.Style
	OptionOn    tcell.Style
	Status      tcell.Style
	StatusError tcell.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Text:        tcell.StyleDefault,
		Match:       tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack),
		Current:     tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack).Bold(true),
		Bar:         tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite),
		Label:       tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorSilver),
		OptionOn:    tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorNavy).Bold(true),
		Status:      tcell.StyleDefault.Reverse(true),
		StatusError: tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite),
	}
}

// quitKey always exits, whatever the keymap says.
var quitKey = key.MustParse("Ctrl+Q")

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStyles sets the styles.
func WithStyles(s Styles) Option {
	return func(a *App) {
		a.styles = s
	}
}

// WithTitle sets the name shown in the status line.
func WithTitle(title string) Option {
	return func(a *App) {
		a.title = title
	}
}

// App is the terminal application.
type App struct {
	screen tcell.Screen
	sess   *session.Session
	logger *zap.Logger
	styles Styles
	title  string

	top   int
	focus Field
	err   error
	quit  bool
}

// New creates an App drawing sess on screen. The screen must be
// initialized by the caller.
func New(screen tcell.Screen, sess *session.Session, opts ...Option) *App {
	a := &App{
		screen: screen,
		sess:   sess,
		logger: zap.NewNop(),
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(a)
	}

	sess.State().Highlighted().Subscribe(func(_, h *result.Result) {
		a.scrollTo(h)
	})
	return a
}

// Cursor returns the offset of the first visible line. Searches start
// highlighting from there.
func (a *App) Cursor() buffer.ByteOffset {
	return a.sess.Buffer().LineStartOffset(uint32(a.top))
}

// Focus returns the focused find bar field.
func (a *App) Focus() Field { return a.focus }

// Top returns the first visible line.
func (a *App) Top() int { return a.top }

// Run draws and handles events until the user quits.
func (a *App) Run() error {
	a.Draw()
	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		a.HandleEvent(ev)
		a.Draw()
	}
	return nil
}

// Quit stops Run after the current event.
func (a *App) Quit() { a.quit = true }

// Post queues fn to run on the event loop. It is safe to call from any
// goroutine.
func (a *App) Post(fn func()) error {
	return a.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// HandleEvent processes one tcell event. It reports false once the app
// should exit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventKey:
		a.handleKey(ConvertKey(e))
	case *tcell.EventInterrupt:
		if fn, ok := e.Data().(func()); ok {
			fn()
		}
	}
	return !a.quit
}

func (a *App) handleKey(ev key.Event) {
	if ev.Equals(quitKey) {
		a.quit = true
		return
	}

	wasOpen := a.sess.IsOpen()
	handled, err := a.sess.HandleKey(ev)
	a.err = err
	if err != nil {
		a.logger.Warn("find action failed", zap.Stringer("key", ev), zap.Error(err))
	}
	if handled {
		if !wasOpen && a.sess.IsOpen() {
			a.focus = FieldSearch
		}
		return
	}

	if !a.sess.IsOpen() {
		a.scroll(ev)
		return
	}

	form := a.sess.Form()
	field := form.SearchText()
	set := form.TypeSearch
	if a.focus == FieldReplace {
		field = form.ReplaceText()
		set = form.TypeReplace
	}

	switch {
	case ev.Key == key.KeyTab || ev.Key == key.KeyBacktab:
		a.focus = 1 - a.focus
	case ev.Key == key.KeyBackspace:
		text := field.Get()
		if text != "" {
			_, size := utf8.DecodeLastRuneInString(text)
			set(text[:len(text)-size])
		}
	case ev.IsChar():
		set(field.Get() + string(ev.Rune))
	default:
		a.scroll(ev)
	}
}

func (a *App) scroll(ev key.Event) {
	_, h := a.viewSize()
	lines := int(a.sess.Buffer().LineCount())
	switch ev.Key {
	case key.KeyUp:
		a.top--
	case key.KeyDown:
		a.top++
	case key.KeyPageUp:
		a.top -= h
	case key.KeyPageDown:
		a.top += h
	case key.KeyHome:
		a.top = 0
	case key.KeyEnd:
		a.top = lines - h
	}
	a.clampTop(lines, h)
}

func (a *App) clampTop(lines, h int) {
	if a.top > lines-h {
		a.top = lines - h
	}
	if a.top < 0 {
		a.top = 0
	}
}

// scrollTo brings the line of r into view, keeping some context above it.
func (a *App) scrollTo(r *result.Result) {
	if r == nil {
		return
	}
	_, h := a.viewSize()
	line := int(a.sess.Buffer().OffsetToPoint(r.Range().Start).Line)
	if line >= a.top && line < a.top+h {
		return
	}
	a.top = line - h/3
	a.clampTop(int(a.sess.Buffer().LineCount()), h)
}

// barHeight is the number of rows below the document view.
func (a *App) barHeight() int {
	if a.sess.IsOpen() {
		return 3
	}
	return 1
}

func (a *App) viewSize() (int, int) {
	w, h := a.screen.Size()
	h -= a.barHeight()
	if h < 1 {
		h = 1
	}
	return w, h
}

// Draw renders the document and the find bar.
func (a *App) Draw() {
	a.screen.Clear()
	a.drawDocument()
	if a.sess.IsOpen() {
		a.drawFindBar()
	} else {
		a.screen.HideCursor()
	}
	a.drawStatus()
	a.screen.Show()
}

func (a *App) drawDocument() {
	w, h := a.viewSize()
	buf := a.sess.Buffer()
	ordered := a.sess.Ordered()
	current := a.sess.Highlighted()

	// Results are in document order, so one index walks them for all lines.
	ri := 0
	for row := 0; row < h; row++ {
		line := uint32(a.top + row)
		if line >= buf.LineCount() {
			break
		}
		start := buf.LineStartOffset(line)
		text := buf.LineText(line)

		x := 0
		for i, r := range text {
			if x >= w {
				break
			}
			off := start + buffer.ByteOffset(i)
			for ri < len(ordered) && ordered[ri].Range().End <= off {
				ri++
			}
			style := a.styles.Text
			if ri < len(ordered) && ordered[ri].Range().Contains(off) {
				style = a.styles.Match
				if ordered[ri] == current {
					style = a.styles.Current
				}
			}
			if r == '\t' {
				r = ' '
			}
			x = a.put(x, row, r, style)
		}
	}
}

// put draws r at (x, y) and returns the next column.
func (a *App) put(x, y int, r rune, style tcell.Style) int {
	width := runewidth.RuneWidth(r)
	if width <= 0 {
		width = 1
	}
	a.screen.SetContent(x, y, r, nil, style)
	return x + width
}

// putString draws s from (x, y), clipped at maxX, and returns the next column.
func (a *App) putString(x, y, maxX int, s string, style tcell.Style) int {
	for _, r := range s {
		if x+runewidth.RuneWidth(r) > maxX {
			break
		}
		x = a.put(x, y, r, style)
	}
	return x
}

func (a *App) fill(y, fromX, toX int, style tcell.Style) {
	for x := fromX; x < toX; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (a *App) drawFindBar() {
	w, h := a.screen.Size()
	form := a.sess.Form()
	opts := form.Options()
	searchRow, replaceRow := h-3, h-2

	a.fill(searchRow, 0, w, a.styles.Bar)
	a.fill(replaceRow, 0, w, a.styles.Bar)

	// Right-aligned options and counter on the search row.
	right := fmt.Sprintf(" %s ", form.Counter())
	toggles := []struct {
		label string
		on    bool
	}{{"Aa", opts.MatchCase}, {"W", opts.WholeWords}, {".*", opts.Regex}}
	rightWidth := runewidth.StringWidth(right)
	for _, t := range toggles {
		rightWidth += runewidth.StringWidth(t.label) + 1
	}
	rx := w - rightWidth
	if rx < 0 {
		rx = 0
	}
	x := a.putString(rx, searchRow, w, right, a.styles.Label)
	for _, t := range toggles {
		style := a.styles.Label
		if t.on {
			style = a.styles.OptionOn
		}
		x = a.putString(x, searchRow, w, t.label, style)
		x = a.putString(x, searchRow, w, " ", a.styles.Bar)
	}

	const labelWidth = 9
	a.putString(0, searchRow, rx, "Find:", a.styles.Label)
	sx := a.putString(labelWidth, searchRow, rx, form.SearchText().Get(), a.styles.Bar)
	a.putString(0, replaceRow, w, "Replace:", a.styles.Label)
	rxEnd := a.putString(labelWidth, replaceRow, w, form.ReplaceText().Get(), a.styles.Bar)

	if a.focus == FieldSearch {
		a.screen.ShowCursor(sx, searchRow)
	} else {
		a.screen.ShowCursor(rxEnd, replaceRow)
	}
}

func (a *App) drawStatus() {
	w, h := a.screen.Size()
	y := h - 1
	style := a.styles.Status
	var msg string
	switch {
	case a.err != nil:
		msg = a.err.Error()
		style = a.styles.StatusError
	case a.sess.IsOpen():
		msg = a.sess.Form().Message().Get()
	default:
		open, _ := a.sess.Keymap().Binding(key.ActionOpen)
		msg = fmt.Sprintf("%s  %s find  %s quit", a.title, open, quitKey)
	}
	a.fill(y, 0, w, style)
	a.putString(0, y, w, msg, style)
}
