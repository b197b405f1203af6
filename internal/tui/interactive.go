package tui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/engine"
	"github.com/san-kum/backlight/internal/export"
	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/storage"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// Grid placement inside View, in terminal cells. Each dot is two columns wide.
const (
	gridTop  = 4
	gridLeft = 4
	dotWidth = 2
	nameCols = 24
)

const playDelayStep = 25

type state int

const (
	stateEdit state = iota
	stateText
	stateName
	stateRename
	stateList
	statePlay
)

type model struct {
	state state
	ctx   context.Context

	eng      *engine.Engine
	store    *storage.Store
	exporter *export.Exporter
	palette  render.Palette
	logger   *slog.Logger

	editBuf string
	message string
	failed  bool

	records []storage.Record
	cursor  int

	player  *engine.Player
	playing storage.Record
	playGen int

	width  int
	height int
}

// Deps are the collaborators of the interactive app.
type Deps struct {
	Engine   *engine.Engine
	Store    *storage.Store
	Exporter *export.Exporter
	Palette  render.Palette
	Logger   *slog.Logger
}

func NewInteractiveApp(ctx context.Context, d Deps) *model {
	if d.Logger == nil {
		d.Logger = slog.New(slog.DiscardHandler)
	}
	return &model{
		state:    stateEdit,
		ctx:      ctx,
		eng:      d.Engine,
		store:    d.Store,
		exporter: d.Exporter,
		palette:  d.Palette,
		logger:   d.Logger,
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg struct{ tok anim.Token }

type playTickMsg struct{ gen int }

type exportDoneMsg struct {
	rec storage.Record
	err error
}

type recordsMsg struct {
	records []storage.Record
	err     error
}

func tick(interval time.Duration, tok anim.Token) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{tok: tok} })
}

func playTick(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return playTickMsg{gen: gen} })
}

// schedule turns a freshly started token into its first tick.
func (m model) schedule(tok anim.Token, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	interval, live := m.eng.Scheduler().Interval(tok.Kind)
	if !live {
		return nil
	}
	return tick(interval, tok)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		interval, ok := m.eng.Tick(msg.tok)
		if !ok {
			return m, nil
		}
		return m, tick(interval, msg.tok)
	case playTickMsg:
		if m.state != statePlay || msg.gen != m.playGen || m.player == nil {
			return m, nil
		}
		m.player.Advance()
		return m, playTick(m.player.Interval(), m.playGen)
	case exportDoneMsg:
		m.eng.FinishExport()
		if msg.err != nil {
			m.setError("export failed: %v", msg.err)
			m.logger.Error("export failed", "err", msg.err)
			return m, nil
		}
		m.setInfo("saved %s (%d frames)", msg.rec.Name, len(msg.rec.Frames))
		return m, nil
	case recordsMsg:
		m.records = msg.records
		if m.cursor >= len(m.records) {
			m.cursor = max(0, len(m.records)-1)
		}
		if msg.err != nil {
			m.setError("some records could not be read: %v", msg.err)
		}
		return m, nil
	}
	return m, nil
}

func (m *model) setInfo(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.failed = false
}

func (m *model) setError(format string, args ...any) {
	m.message = fmt.Sprintf(format, args...)
	m.failed = true
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateEdit:
		return m.editKey(msg)
	case stateText, stateName, stateRename:
		return m.inputKey(msg)
	case stateList:
		return m.listKey(msg)
	case statePlay:
		return m.playKey(msg)
	}
	return m, nil
}

func (m model) editKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t":
		m.state = stateText
		m.editBuf = ""
	case "m":
		return m, m.schedule(m.eng.ToggleMotion(anim.Marquee))
	case "r":
		return m, m.schedule(m.eng.ToggleMotion(anim.RotateCW))
	case "R":
		return m, m.schedule(m.eng.ToggleMotion(anim.RotateCCW))
	case "f":
		if _, active := m.eng.FadeFactor(); active {
			m.eng.StopFade()
			return m, nil
		}
		return m, m.schedule(m.eng.StartFade())
	case "v":
		if m.eng.Status().Revealing {
			m.eng.StopReveal()
			return m, nil
		}
		return m, m.schedule(m.eng.StartReveal())
	case "e":
		if m.eng.EditMode() == engine.Draw {
			m.eng.SetEditMode(engine.Erase)
		} else {
			m.eng.SetEditMode(engine.Draw)
		}
	case "1", "2", "3":
		m.eng.SetTextSize(grid.Size(msg.String()[0] - '0'))
	case "+", "=":
		m.eng.SetSpeed(m.eng.Speed() + 1)
	case "-", "_":
		m.eng.SetSpeed(m.eng.Speed() - 1)
	case "c":
		m.eng.Clear()
	case "x":
		m.eng.Reset()
	case "s":
		if m.eng.Exporting() || (m.exporter != nil && m.exporter.Busy()) {
			m.setError("%v", export.ErrInFlight)
			return m, nil
		}
		m.state = stateName
		m.editBuf = ""
	case "l":
		m.state = stateList
		m.cursor = 0
		return m, m.loadRecords()
	}
	return m, nil
}

func (m model) inputKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyEsc:
		m.editBuf = ""
		if m.state == stateRename {
			m.state = stateList
		} else {
			m.state = stateEdit
		}
	case tea.KeyBackspace:
		if r := []rune(m.editBuf); len(r) > 0 {
			m.editBuf = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.appendInput(" ")
	case tea.KeyRunes:
		m.appendInput(string(msg.Runes))
	}
	return m, nil
}

func (m *model) appendInput(s string) {
	if len([]rune(m.editBuf+s)) > grid.MaxTextRunes {
		return
	}
	m.editBuf += s
}

func (m model) submit() (model, tea.Cmd) {
	text := m.editBuf
	m.editBuf = ""
	switch m.state {
	case stateText:
		m.state = stateEdit
		if err := m.eng.DrawText(text); err != nil {
			m.setError("draw failed: %v", err)
		}
		return m, nil
	case stateName:
		m.state = stateEdit
		if strings.TrimSpace(text) == "" {
			m.setError("%v", storage.ErrEmptyName)
			return m, nil
		}
		job, err := m.eng.BeginExport(text, 0)
		if err != nil {
			m.setError("export failed: %v", err)
			return m, nil
		}
		m.setInfo("exporting %s…", text)
		return m, m.runExport(job)
	case stateRename:
		m.state = stateList
		if len(m.records) == 0 {
			return m, nil
		}
		if _, err := m.store.Rename(m.records[m.cursor].ID, text); err != nil {
			m.setError("rename failed: %v", err)
			return m, nil
		}
		return m, m.loadRecords()
	}
	return m, nil
}

func (m model) runExport(job export.Job) tea.Cmd {
	ex, ctx := m.exporter, m.ctx
	return func() tea.Msg {
		rec, err := ex.Run(ctx, job)
		return exportDoneMsg{rec: rec, err: err}
	}
}

func (m model) loadRecords() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		records, err := st.List()
		return recordsMsg{records: records, err: err}
	}
}

func (m model) listKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateEdit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	}
	if len(m.records) == 0 {
		return m, nil
	}
	rec := m.records[m.cursor]
	switch msg.String() {
	case "enter", " ":
		seq, err := rec.Sequence()
		if err != nil {
			m.setError("cannot play %s: %v", rec.Name, err)
			return m, nil
		}
		p, err := engine.NewPlayer(seq)
		if err != nil {
			m.setError("cannot play %s: %v", rec.Name, err)
			return m, nil
		}
		m.player = p
		m.playing = rec
		m.playGen++
		m.state = statePlay
		return m, playTick(p.Interval(), m.playGen)
	case "d":
		if err := m.store.Delete(rec.ID); err != nil {
			m.setError("delete failed: %v", err)
			return m, nil
		}
		m.setInfo("deleted %s", rec.Name)
		return m, m.loadRecords()
	case "n":
		m.state = stateRename
		m.editBuf = rec.Name
	case "+", "=", "-", "_":
		delay := rec.DelayMs + playDelayStep
		if msg.String() == "+" || msg.String() == "=" {
			delay = rec.DelayMs - playDelayStep
		}
		if _, err := m.store.SetDelay(rec.ID, delay); err != nil {
			m.setError("speed change failed: %v", err)
			return m, nil
		}
		return m, m.loadRecords()
	}
	return m, nil
}

func (m model) playKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateList
		m.player = nil
		m.playGen++
	case "+", "=":
		m.player.SetDelay(int(m.player.Interval()/time.Millisecond) - playDelayStep)
	case "-", "_":
		m.player.SetDelay(int(m.player.Interval()/time.Millisecond) + playDelayStep)
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	if m.state != stateEdit || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress && msg.Action != tea.MouseActionMotion {
		return m, nil
	}
	x, y := pointerPos(msg.X, msg.Y)
	m.eng.Pointer(render.NewLayout(m.eng.Rows(), m.eng.Cols(), 1), x, y)
	return m, nil
}

// pointerPos maps a terminal cell to layout space with one unit per dot,
// aiming at the centre of the character under the pointer.
func pointerPos(col, row int) (float64, float64) {
	x := (float64(col-gridLeft) + 0.5) / dotWidth
	y := float64(row-gridTop) + 0.5
	return x, y
}

func (m model) View() string {
	switch m.state {
	case stateList:
		return m.viewList()
	case statePlay:
		return m.viewPlay()
	}
	return m.viewEdit()
}

func (m model) header(title string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render(title) + "\n")
	b.WriteString("\n")
	return b.String()
}

func (m model) viewEdit() string {
	var b strings.Builder
	b.WriteString(m.header("b a c k l i g h t"))

	light := m.palette.Light
	if f, active := m.eng.FadeFactor(); active {
		light = m.palette.FadeColor(f)
	}
	b.WriteString(m.drawFrame(m.eng.View(), light))

	st := m.eng.Status()
	motion := "idle"
	if st.Moving {
		motion = st.Motion.String()
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    %s %s  %s %s  %s %d  %s %s\n",
		dim.Render("mode"), white.Render(st.EditMode.String()),
		dim.Render("motion"), green.Render(motion),
		dim.Render("speed"), st.Speed,
		dim.Render("size"), white.Render(st.TextSize.String())))

	var effects []string
	if st.FadeActive {
		effects = append(effects, fmt.Sprintf("fade %.2f", st.FadeFactor))
	}
	if st.Revealing {
		effects = append(effects, fmt.Sprintf("reveal %s(%d)", st.RevealPhase, st.RevealIndex))
	}
	if st.Moving && st.Motion == anim.Marquee {
		effects = append(effects, fmt.Sprintf("offset %d/%d", st.Offset, st.TotalCols))
	}
	if st.Moving && st.Motion != anim.Marquee {
		effects = append(effects, fmt.Sprintf("%.0f°", st.Degrees))
	}
	if len(effects) > 0 {
		b.WriteString("    " + magenta.Render(strings.Join(effects, "  ")) + "\n")
	}

	if src := m.eng.Preview().Source(); !src.Empty() && src.Count() > 0 {
		b.WriteString("    " + dim.Render("columns ") + cyan.Render(sparkline(src.ColumnCounts(), 40)) + "\n")
	}

	switch m.state {
	case stateText:
		b.WriteString("\n    " + yellow.Render("text: ") + white.Render(m.editBuf+"▋") + "\n")
	case stateName:
		b.WriteString("\n    " + yellow.Render("save as: ") + white.Render(m.editBuf+"▋") + "\n")
	}

	b.WriteString(m.viewMessage())
	b.WriteString("\n" + dim.Render("    t text  m marquee  r/R rotate  f fade  v reveal  e draw/erase  1-3 size") + "\n")
	b.WriteString(dim.Render("    ±speed  c clear  x reset  s save  l saved  q quit") + "\n")
	return b.String()
}

func (m model) viewMessage() string {
	if m.message == "" {
		return ""
	}
	if m.failed {
		return "\n    " + yellow.Render(m.message) + "\n"
	}
	return "\n    " + green.Render(m.message) + "\n"
}

func (m model) drawFrame(f grid.Frame, light color.RGBA) string {
	bg := lipgloss.Color(hexColor(m.palette.Background))
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(light))).Background(bg)
	off := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(m.palette.Mark))).Background(bg)

	var b strings.Builder
	for r := 0; r < f.Rows(); r++ {
		b.WriteString(strings.Repeat(" ", gridLeft))
		for c := 0; c < f.Cols(); c++ {
			if f.At(r, c) == grid.On {
				b.WriteString(on.Render("● "))
			} else {
				b.WriteString(off.Render("● "))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewList() string {
	var b strings.Builder
	b.WriteString(m.header("s a v e d"))

	if len(m.records) == 0 {
		b.WriteString("      " + dim.Render("no saved animations") + "\n")
	}
	for i, rec := range m.records {
		name := runewidth.FillRight(runewidth.Truncate(rec.Name, nameCols, "…"), nameCols)
		info := fmt.Sprintf("%3d frames  %4dms  %s", len(rec.Frames), rec.DelayMs, rec.CreatedAt.Format("2006-01-02 15:04"))
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(name) + dim.Render(info) + "\n")
		} else {
			b.WriteString("        " + dim.Render(name) + dimmer.Render(info) + "\n")
		}
	}
	if m.state == stateRename {
		b.WriteString("\n    " + yellow.Render("rename: ") + white.Render(m.editBuf+"▋") + "\n")
	}

	b.WriteString(m.viewMessage())
	b.WriteString("\n" + dim.Render("      ↑↓ select  enter play  n rename  ±speed  d delete  esc back") + "\n")
	return b.String()
}

func (m model) viewPlay() string {
	var b strings.Builder
	b.WriteString(m.header(m.playing.Name))
	if m.player != nil {
		b.WriteString(m.drawFrame(m.player.Frame(), m.palette.Light))
		b.WriteString(fmt.Sprintf("\n    %s %d/%d  %s %v\n",
			dim.Render("frame"), m.player.Index()+1, m.player.Len(),
			dim.Render("delay"), m.player.Interval()))
	}
	b.WriteString("\n" + dim.Render("    ±speed  esc back") + "\n")
	return b.String()
}

func sparkline(data []int, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	maxVal := 0
	for _, v := range data {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := data[i*step] * 7 / maxVal
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func RunInteractive(ctx context.Context, d Deps) error {
	p := tea.NewProgram(NewInteractiveApp(ctx, d), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
