// Package tui is the live terminal view of a run: the field with the planned
// path and the robot's trail, and the current pose and progress.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r2"

	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/viz"
)

const (
	frameInterval = 33 * time.Millisecond
	fieldWidth    = 60
	fieldHeight   = 20
	historyLen    = 40
)

// Source is what the view polls each frame.
type Source interface {
	Pose() hardware.Pose
	Elapsed() time.Duration
}

type tickMsg time.Time

type doneMsg struct{ err error }

type model struct {
	title   string
	path    []r2.Point
	planned float64
	bounds  viz.Bounds
	src     Source
	run     func(context.Context) error
	ctx     context.Context
	cancel  context.CancelFunc

	pose    hardware.Pose
	elapsed time.Duration
	trail   []r2.Point
	speeds  []float64
	frame   int
	done    bool
	err     error
}

// NewWatch builds a view that starts run when the program starts and polls
// src until run returns.
func NewWatch(ctx context.Context, title string, p path.Path, src Source, run func(context.Context) error) tea.Model {
	ctx, cancel := context.WithCancel(ctx)
	poly := p.Polyline()
	start := src.Pose()
	return model{
		title:   title,
		path:    poly,
		planned: p.Duration(),
		bounds:  viz.BoundsOf(poly, []r2.Point{{X: start.X, Y: start.Y}}),
		src:     src,
		run:     run,
		ctx:     ctx,
		cancel:  cancel,
		pose:    start,
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) start() tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: m.run(m.ctx)}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), m.start())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case tickMsg:
		m.sample()
		if m.done {
			return m, nil
		}
		return m, tick()
	case doneMsg:
		m.sample()
		m.done = true
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m *model) sample() {
	pose := m.src.Pose()
	elapsed := m.src.Elapsed()
	if dt := (elapsed - m.elapsed).Seconds(); dt > 0 {
		m.speeds = append(m.speeds, pose.DistanceTo(m.pose.X, m.pose.Y)/dt)
		if len(m.speeds) > historyLen {
			m.speeds = m.speeds[len(m.speeds)-historyLen:]
		}
	}
	m.pose = pose
	m.elapsed = elapsed
	m.trail = append(m.trail, r2.Point{X: pose.X, Y: pose.Y})
	m.frame++
}

func (m model) View() string {
	field := viz.NewField(fieldWidth, fieldHeight, m.bounds)
	field.Polyline(m.path)
	field.Polyline(m.trail)
	field.Robot(m.pose, 3)

	var status string
	switch {
	case m.done && m.err != nil:
		status = viz.StatusFailed.Render("stopped: " + m.err.Error())
	case m.done:
		status = viz.StatusDone.Render("done")
	default:
		status = viz.StatusRunning.Render(viz.Spinner(m.frame) + " running")
	}

	progress := 0.0
	if m.planned > 0 {
		progress = m.elapsed.Seconds() / m.planned
	}

	stats := strings.Join([]string{
		viz.Metric("x", "%7.2f", m.pose.X),
		viz.Metric("y", "%7.2f", m.pose.Y),
		viz.Metric("heading", "%6.1f°", m.pose.Heading),
		viz.Metric("t", "%6.2fs", m.elapsed.Seconds()),
		viz.Metric("planned", "%6.2fs", m.planned),
		viz.MetricLabel.Render("speed ") + viz.Sparkline(m.speeds, historyLen),
		viz.ProgressBar(progress, historyLen),
	}, "\n")

	header := lipgloss.JoinHorizontal(lipgloss.Top, viz.Title.Render(m.title), "  ", status)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		viz.Panel.Render(viz.TrailStyle.Render(strings.TrimRight(field.String(), "\n"))),
		" ",
		viz.Panel.Render(stats),
	)
	return fmt.Sprintf("%s\n%s\n%s\n", header, body, viz.KeyHint.Render("q quit"))
}

// Err returns the error the run finished with, if the model is a watch view.
func Err(m tea.Model) error {
	if w, ok := m.(model); ok {
		return w.err
	}
	return nil
}

// Run shows the view until the user quits and returns the final model, from
// which Err recovers how the run ended.
func Run(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}
