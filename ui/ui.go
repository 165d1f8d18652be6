// Package ui provides the terminal player for svgaplay.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/svgaplay/internal/player"
	"github.com/dgnsrekt/svgaplay/internal/render"
	"github.com/dgnsrekt/svgaplay/internal/runloop"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"
	eventBuffer          = 64
)

// NewProgram returns a new Tea program. The program drains loop, so the
// decoder and hooks must dispatch their completions onto it.
func NewProgram(ctx context.Context, cfg Config, loop *runloop.Loop, decoder player.Decoder, hooks player.Hooks) *tea.Program {
	log.Debug("Starting svgaplay", "sources", len(cfg.Sources), "animated", cfg.Player.Animated)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(ctx, cfg, loop, decoder, hooks), opts...)
}

type (
	// workMsg carries a function dispatched onto the control goroutine.
	workMsg func()

	eventMsg player.Event

	// playIndexMsg asks the model to play the source at an index.
	playIndexMsg int

	statusMessageTimeoutMsg struct{}
)

type statusMessage struct {
	message string
	isError bool
}

type model struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	loop    *runloop.Loop
	player  *player.Player
	surface *surface
	events  *player.ChannelListener

	index   int
	history []string

	keys     keyMap
	help     help.Model
	progress progress.Model

	width  int
	height int

	statusMessage      statusMessage
	statusMessageTimer *time.Timer
}

func newModel(ctx context.Context, cfg Config, loop *runloop.Loop, decoder player.Decoder, hooks player.Hooks) model {
	ctx, cancel := context.WithCancel(ctx)

	dispatch := loop.Dispatch()
	renderer := render.NewHeadless(dispatch)
	surface := newSurface(dispatch)
	events := player.NewChannelListener(eventBuffer)

	p := player.New(decoder, renderer, cfg.Player,
		player.WithHooks(hooks),
		player.WithListener(events),
		player.WithSurface(surface),
	)

	return model{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		loop:     loop,
		player:   p,
		surface:  surface,
		events:   events,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForWork(m.ctx, m.loop),
		waitForEvent(m.ctx, m.events),
	}
	if len(m.cfg.Sources) > 0 {
		cmds = append(cmds, func() tea.Msg { return playIndexMsg(0) })
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-4, 10)

	case workMsg:
		msg()
		cmds = append(cmds, waitForWork(m.ctx, m.loop))

	case eventMsg:
		cmds = append(cmds, m.handleEvent(player.Event(msg)), waitForEvent(m.ctx, m.events))

	case playIndexMsg:
		m.playIndex(int(msg))

	case statusMessageTimeoutMsg:
		m.statusMessage = statusMessage{}
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.player.Detach()
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		switch {
		case m.player.IsPlaying(), m.player.IsLoading():
			m.player.Pause()
		case m.player.Source() == "":
			m.playIndex(m.index)
		default:
			m.player.Resume()
		}

	case key.Matches(msg, m.keys.Stop):
		m.player.Stop(false)

	case key.Matches(msg, m.keys.StopClear):
		m.player.Stop(true)

	case key.Matches(msg, m.keys.Reset):
		m.player.Reset(true)

	case key.Matches(msg, m.keys.Next):
		m.playIndex(m.index + 1)

	case key.Matches(msg, m.keys.Prev):
		m.playIndex(m.index - 1)

	case key.Matches(msg, m.keys.Reverse):
		m.player.SetReversed(!m.player.IsReversed())

	case key.Matches(msg, m.keys.MoreLoops):
		m.player.SetLoops(m.player.Loops() + 1)

	case key.Matches(msg, m.keys.LessLoops):
		m.player.SetLoops(max(m.player.Loops()-1, 0))

	case key.Matches(msg, m.keys.Copy):
		if err := clipboard.WriteAll(m.player.DebugInfo()); err != nil {
			return m, m.showStatusMessage(statusMessage{message: "Copy failed: " + err.Error(), isError: true})
		}
		return m, m.showStatusMessage(statusMessage{message: "Copied debug info"})

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// playIndex plays the source at i, wrapping around the source list.
func (m *model) playIndex(i int) {
	n := len(m.cfg.Sources)
	if n == 0 {
		return
	}
	m.index = ((i % n) + n) % n
	m.player.Play(m.cfg.Sources[m.index])
}

func (m *model) handleEvent(e player.Event) tea.Cmd {
	if e.Kind != player.EventAnimatingToFrame {
		m.record(e)
	}

	switch {
	case e.IsFailure():
		log.Warn("load failed", "source", e.Source, "event", e.Kind, "error", e.Err)
		return m.showStatusMessage(statusMessage{message: describeFailure(e), isError: true})

	case e.Kind == player.EventFinishedAll && !e.UserInitiated && m.cfg.AutoAdvance && len(m.cfg.Sources) > 1:
		m.playIndex(m.index + 1)
	}
	return nil
}

// record keeps the latest events for display.
func (m *model) record(e player.Event) {
	limit := max(m.cfg.EventHistory, 0)
	if limit == 0 {
		return
	}
	m.history = append(m.history, describeEvent(e))
	if len(m.history) > limit {
		m.history = m.history[len(m.history)-limit:]
	}
}

func (m *model) showStatusMessage(msg statusMessage) tea.Cmd {
	m.statusMessage = msg
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)

	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func describeEvent(e player.Event) string {
	switch e.Kind {
	case player.EventStatusChanged:
		return fmt.Sprintf("%s → %s", e.From, e.To)
	case player.EventReadyForPlay:
		return fmt.Sprintf("ready %s (autoplay %t)", e.Source, e.Autoplay)
	case player.EventFinishedOnce:
		return fmt.Sprintf("finished loop %d", e.LoopCount)
	case player.EventFinishedAll:
		if e.UserInitiated {
			return "stopped by user"
		}
		return "finished all loops"
	case player.EventParseDone:
		return "decoded " + e.Source
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	}
}

func describeFailure(e player.Event) string {
	if e.Kind == player.EventEntityInvalid {
		return fmt.Sprintf("%s is invalid: %s", e.Source, e.Reason)
	}
	var le *player.LoadError
	if errors.As(e.Err, &le) {
		return le.Error()
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// COMMANDS

func waitForWork(ctx context.Context, loop *runloop.Loop) tea.Cmd {
	return func() tea.Msg {
		fn, err := loop.Next(ctx)
		if err != nil {
			log.Debug("work loop finished", "error", err)
			return nil
		}
		return workMsg(fn)
	}
}

func waitForEvent(ctx context.Context, l *player.ChannelListener) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-l.Events():
			return eventMsg(e)
		case <-ctx.Done():
			return nil
		}
	}
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}
