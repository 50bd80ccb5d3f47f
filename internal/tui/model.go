package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/nguyentantai21042004/slide-narrator/internal/export"
	"github.com/nguyentantai21042004/slide-narrator/internal/logger"
	"github.com/nguyentantai21042004/slide-narrator/internal/pipeline"
	"github.com/nguyentantai21042004/slide-narrator/internal/publisher"
	"github.com/nguyentantai21042004/slide-narrator/internal/session"
	"github.com/nguyentantai21042004/slide-narrator/internal/units"
)

// mode is the screen the operator is on
type mode int

const (
	modeEntry mode = iota
	modeBeginning
	modeList
	modeEdit
	modeConfirm
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeWarn
	noticeError
)

type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmOverwrite
)

type confirmState struct {
	kind     confirmKind
	question string
	unitID   uuid.UUID
	reply    chan<- bool
	back     mode
}

// Options configure the interactive surface.
type Options struct {
	ExportDir string
}

// Model is the main TUI model
type Model struct {
	ctx       context.Context
	sess      *session.Session
	confirmer *session.ChannelConfirmer
	log       logger.Logger
	opts      Options

	mode   mode
	width  int
	height int

	// Entry state
	script     textarea.Model
	baseInput  textinput.Model
	entryFocus int

	// Edit state
	editor    textarea.Model
	editID    uuid.UUID
	inserting bool

	// List state
	cursor      int
	slideOrders []int
	slideIdx    int

	confirm *confirmState

	spinner  spinner.Model
	progress progress.Model

	synthBatch bool
	synthDone  int
	synthTotal int
	publishing bool
	published  int
	playing    bool

	notice     string
	noticeKind noticeKind
}

// NewModel creates the TUI model around a session.
func NewModel(ctx context.Context, sess *session.Session, confirmer *session.ChannelConfirmer, opts Options, log logger.Logger) Model {
	script := textarea.New()
	script.Placeholder = "Paste the presentation text here..."
	script.CharLimit = 0
	script.ShowLineNumbers = false
	script.SetWidth(80)
	script.SetHeight(12)
	script.Focus()

	base := textinput.New()
	base.Placeholder = "base name, e.g. lesson-1"
	base.CharLimit = 120
	base.Width = 40

	editor := textarea.New()
	editor.CharLimit = 0
	editor.ShowLineNumbers = false
	editor.SetWidth(80)
	editor.SetHeight(5)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		ctx:       ctx,
		sess:      sess,
		confirmer: confirmer,
		log:       log,
		opts:      opts,
		mode:      modeEntry,
		script:    script,
		baseInput: base,
		editor:    editor,
		spinner:   sp,
		progress:  progress.New(progress.WithDefaultGradient()),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		waitConfirm(m.confirmer.Requests()),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := max(msg.Width-4, 20)
		m.script.SetWidth(w)
		m.editor.SetWidth(w)
		m.progress.Width = min(w, 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scriptLoadedMsg:
		return m.handleScriptLoaded(msg)

	case begunMsg:
		return m.handleBegun(msg)

	case synthEventMsg:
		m.sess.Apply(m.ctx, msg.ev)
		if msg.batch {
			m.synthDone = msg.ev.Done
			m.synthTotal = msg.ev.Total
		}
		if msg.ev.Err != nil {
			m.setNotice(noticeError, "Caption %d failed: %v", msg.ev.Job.Seq, msg.ev.Err)
		} else if !msg.batch {
			m.setNotice(noticeInfo, "Caption %d regenerated", msg.ev.Job.Seq)
		}
		return m, waitSynth(msg.ch, msg.batch)

	case synthDoneMsg:
		if msg.batch {
			m.synthBatch = false
			failed := countStatus(m.sess.Store().Units(), units.Failed)
			if failed > 0 {
				m.setNotice(noticeWarn, "Generation finished: %d of %d failed", failed, m.synthTotal)
			} else {
				m.setNotice(noticeInfo, "Generation finished: %d captions ready", m.synthTotal)
			}
		}
		return m, nil

	case publishEventMsg:
		return m.handlePublishEvent(msg)

	case confirmRequestMsg:
		back := m.mode
		if m.confirm != nil {
			// an open delete dialog is dismissed as "no"
			back = m.confirm.back
		}
		m.confirm = &confirmState{
			kind:     confirmOverwrite,
			question: fmt.Sprintf("%s already exists. Overwrite? (y/n)", msg.req.Path),
			reply:    msg.req.Reply,
			back:     back,
		}
		m.mode = modeConfirm
		return m, nil

	case playedMsg:
		m.playing = false
		if msg.err != nil {
			m.setNotice(noticeError, "Playback of caption %d failed: %v", msg.seq, msg.err)
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setNotice(noticeError, "Export failed: %v", msg.err)
		} else {
			m.setNotice(noticeInfo, "Script exported to %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEntry:
			return m.updateEntry(msg)
		case modeList:
			return m.updateList(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		}
	}

	return m.forward(msg)
}

// forward passes non-key messages such as cursor blinks to the focused input
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case modeEntry:
		if m.entryFocus == 0 {
			m.script, cmd = m.script.Update(msg)
		} else {
			m.baseInput, cmd = m.baseInput.Update(msg)
		}
	case modeEdit:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m Model) handleScriptLoaded(msg scriptLoadedMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeEntry {
		m.setNotice(noticeWarn, "Ignored %s: a session is already open", filepath.Base(msg.path))
		return m, nil
	}
	m.script.SetValue(msg.text)
	if m.baseInput.Value() == "" {
		m.baseInput.SetValue(strings.TrimSuffix(filepath.Base(msg.path), filepath.Ext(msg.path)))
	}
	m.setNotice(noticeInfo, "Loaded %s", filepath.Base(msg.path))
	return m, nil
}

func (m Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		return m.toggleEntryFocus()
	case "ctrl+s":
		return m.submitEntry()
	case "enter":
		if m.entryFocus == 1 {
			return m.submitEntry()
		}
	}
	return m.forward(msg)
}

func (m Model) toggleEntryFocus() (tea.Model, tea.Cmd) {
	if m.entryFocus == 0 {
		m.entryFocus = 1
		m.script.Blur()
		return m, m.baseInput.Focus()
	}
	m.entryFocus = 0
	m.baseInput.Blur()
	return m, m.script.Focus()
}

func (m Model) submitEntry() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.script.Value())
	base := strings.TrimSpace(m.baseInput.Value())
	if text == "" {
		m.setNotice(noticeWarn, "Paste the presentation text first")
		return m, nil
	}
	if base == "" {
		m.setNotice(noticeWarn, "Enter a base name for the audio files")
		return m, nil
	}

	m.mode = modeBeginning
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, beginSession(m.ctx, m.sess, text, base))
}

func (m Model) handleBegun(msg begunMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.mode = modeEntry
		m.setNotice(noticeError, "Could not start: %v", msg.err)
		return m, nil
	}

	m.mode = modeList
	m.cursor = 0
	m.slideOrders = msg.begun.SlideOrders
	m.slideIdx = 0
	m.synthDone, m.synthTotal = 0, 0

	switch {
	case msg.begun.SlideErr != nil:
		m.setNotice(noticeError, "Could not read slides, publishing disabled: %v", msg.begun.SlideErr)
	case msg.begun.Renamed:
		m.setNotice(noticeWarn, "Base name already used, files will be saved as %s", msg.begun.BaseName)
	default:
		m.setNotice(noticeInfo, "%d captions ready", m.sess.Store().Len())
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := m.sess.Store()
	n := store.Len()

	switch msg.String() {
	case "q", "esc":
		if m.sess.SynthesisRunning() || m.sess.PublishRunning() {
			m.setNotice(noticeWarn, "Wait for the running job to finish")
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}

	case "a":
		m.inserting = true
		m.editor.SetValue("")
		m.mode = modeEdit
		return m, m.editor.Focus()

	case "e", "enter":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.inserting = false
		m.editID = u.ID
		m.editor.SetValue(u.Text)
		m.mode = modeEdit
		return m, m.editor.Focus()

	case "d":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.sess.SynthesisRunning() || m.sess.PublishRunning() {
			m.setNotice(noticeWarn, "Captions cannot be deleted while audio is generating or publishing")
			return m, nil
		}
		m.confirm = &confirmState{
			kind:     confirmDelete,
			question: fmt.Sprintf("Delete caption %d? (y/n)", u.Seq),
			unitID:   u.ID,
			back:     modeList,
		}
		m.mode = modeConfirm

	case "K", "shift+up":
		return m.move(m.sess.MoveUp)
	case "J", "shift+down":
		return m.move(m.sess.MoveDown)

	case "g":
		ch, err := m.sess.StartBatch(m.ctx)
		if err != nil {
			m.setNotice(noticeError, "Cannot generate: %v", err)
			return m, nil
		}
		m.synthBatch = true
		m.synthDone, m.synthTotal = 0, n
		m.setNotice(noticeInfo, "Generating audio for %d captions...", n)
		return m, tea.Batch(m.spinner.Tick, waitSynth(ch, true))

	case "r":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		ch, err := m.sess.StartOne(m.ctx, u.ID)
		if err != nil {
			m.setNotice(noticeError, "Cannot regenerate: %v", err)
			return m, nil
		}
		m.setNotice(noticeInfo, "Regenerating caption %d...", u.Seq)
		return m, tea.Batch(m.spinner.Tick, waitSynth(ch, false))

	case "p":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.playing {
			m.setNotice(noticeWarn, "Already playing")
			return m, nil
		}
		m.playing = true
		m.setNotice(noticeInfo, "Playing caption %d", u.Seq)
		return m, playUnit(m.ctx, m.sess, u)

	case "[":
		if len(m.slideOrders) > 0 {
			m.slideIdx = (m.slideIdx - 1 + len(m.slideOrders)) % len(m.slideOrders)
		}
	case "]":
		if len(m.slideOrders) > 0 {
			m.slideIdx = (m.slideIdx + 1) % len(m.slideOrders)
		}

	case "u":
		order, ok := m.selectedSlide()
		if !ok {
			m.setNotice(noticeWarn, "No slide available to publish to")
			return m, nil
		}
		ch, err := m.sess.StartPublish(m.ctx, order)
		if err != nil {
			m.setNotice(noticeError, "Cannot publish: %v", err)
			return m, nil
		}
		m.publishing = true
		m.published = 0
		m.setNotice(noticeInfo, "Publishing to slide %d...", order)
		return m, tea.Batch(m.spinner.Tick, waitPublish(ch))

	case "x":
		path := filepath.Join(m.opts.ExportDir, m.sess.BaseName()+".docx")
		return m, exportScript(m.sess, path)

	case "n":
		if m.sess.SynthesisRunning() || m.sess.PublishRunning() {
			m.setNotice(noticeWarn, "Wait for the running job to finish")
			return m, nil
		}
		m.mode = modeEntry
		m.entryFocus = 0
		m.baseInput.Blur()
		m.notice = ""
		return m, m.script.Focus()
	}
	return m, nil
}

func (m Model) move(fn func(context.Context, uuid.UUID) (units.Unit, error)) (tea.Model, tea.Cmd) {
	u, ok := m.selected()
	if !ok {
		return m, nil
	}
	moved, err := fn(m.ctx, u.ID)
	if err != nil {
		switch {
		case errors.Is(err, units.ErrBoundary):
			m.setNotice(noticeWarn, "Caption %d cannot move further", u.Seq)
		case errors.Is(err, session.ErrBusy):
			m.setNotice(noticeWarn, "Captions cannot be reordered while audio is generating or publishing")
		default:
			m.setNotice(noticeError, "Move failed: %v", err)
		}
		return m, nil
	}
	m.cursor = moved.Seq - 1
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.Blur()
		m.mode = modeList
		return m, nil

	case "ctrl+s":
		store := m.sess.Store()
		text := m.editor.Value()
		var (
			u   units.Unit
			err error
		)
		if m.inserting {
			u, err = store.Insert(text)
		} else {
			u, err = store.Edit(m.editID, text)
		}
		if err != nil {
			m.setNotice(noticeError, "%v", err)
			return m, nil
		}
		m.editor.Blur()
		m.mode = modeList
		m.cursor = u.Seq - 1
		if m.inserting {
			m.setNotice(noticeInfo, "Caption %d added", u.Seq)
		} else {
			m.setNotice(noticeInfo, "Caption %d updated", u.Seq)
		}
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var yes bool
	switch strings.ToLower(msg.String()) {
	case "y":
		yes = true
	case "n", "esc":
	default:
		return m, nil
	}

	c := m.confirm
	m.confirm = nil
	m.mode = c.back

	switch c.kind {
	case confirmOverwrite:
		c.reply <- yes
		return m, waitConfirm(m.confirmer.Requests())

	case confirmDelete:
		if !yes {
			return m, nil
		}
		if err := m.sess.Delete(m.ctx, c.unitID); err != nil {
			m.setNotice(noticeError, "Delete failed: %v", err)
			return m, nil
		}
		if m.cursor >= m.sess.Store().Len() {
			m.cursor = max(m.sess.Store().Len()-1, 0)
		}
		m.setNotice(noticeInfo, "Caption deleted")
	}
	return m, nil
}

func (m Model) handlePublishEvent(msg publishEventMsg) (tea.Model, tea.Cmd) {
	ev := msg.ev
	if !ev.Final {
		if ev.Outcome.Err != nil {
			m.setNotice(noticeWarn, "Caption %d skipped: %v", ev.Outcome.Seq, ev.Outcome.Err)
		} else {
			m.published++
		}
		return m, waitPublish(msg.ch)
	}

	m.publishing = false
	if errors.Is(ev.Err, publisher.ErrDocumentRead) {
		m.setNotice(noticeError, "Could not read the presentation, nothing was uploaded: %v", ev.Err)
		return m, nil
	}
	if ev.Err != nil {
		m.setNotice(noticeError, "Publish aborted: %v", ev.Err)
		return m, nil
	}
	m.setNotice(noticeInfo, "Published %d captions, %d skipped", ev.Report.Published, ev.Report.Skipped)
	return m, nil
}

func (m Model) selected() (units.Unit, bool) {
	u, err := m.sess.Store().At(m.cursor + 1)
	if err != nil {
		return units.Unit{}, false
	}
	return u, true
}

func (m Model) selectedSlide() (int, bool) {
	if m.slideIdx < 0 || m.slideIdx >= len(m.slideOrders) {
		return 0, false
	}
	return m.slideOrders[m.slideIdx], true
}

func (m *Model) setNotice(kind noticeKind, format string, args ...interface{}) {
	m.noticeKind = kind
	m.notice = fmt.Sprintf(format, args...)
	switch kind {
	case noticeError:
		m.log.Error(m.ctx, "%s", m.notice)
	case noticeWarn:
		m.log.Warn(m.ctx, "%s", m.notice)
	}
}

func countStatus(list []units.Unit, status units.Status) int {
	n := 0
	for _, u := range list {
		if u.Status == status {
			n++
		}
	}
	return n
}

// Commands

func beginSession(ctx context.Context, sess *session.Session, text, base string) tea.Cmd {
	return func() tea.Msg {
		begun, err := sess.Begin(ctx, text, base)
		return begunMsg{begun: begun, err: err}
	}
}

func waitSynth(ch <-chan pipeline.Event, batch bool) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return synthDoneMsg{batch: batch}
		}
		return synthEventMsg{ev: ev, ch: ch, batch: batch}
	}
}

func waitPublish(ch <-chan session.PublishEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return publishEventMsg{ev: ev, ch: ch}
	}
}

func waitConfirm(requests <-chan session.ConfirmRequest) tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg{req: <-requests}
	}
}

func playUnit(ctx context.Context, sess *session.Session, u units.Unit) tea.Cmd {
	return func() tea.Msg {
		return playedMsg{seq: u.Seq, err: sess.Play(ctx, u.ID)}
	}
}

func exportScript(sess *session.Session, path string) tea.Cmd {
	return func() tea.Msg {
		err := export.WriteScript("Narration script", sess.BaseName(), sess.Store().Units(), path)
		return exportedMsg{path: path, err: err}
	}
}
