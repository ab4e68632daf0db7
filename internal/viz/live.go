package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cellsim/internal/cell"
)

const historyCapacity = 600

type TickMsg time.Time

// Live is the interactive terminal view of a running discharge: the
// model is stepped between frames and the voltage history is plotted.
type Live struct {
	model  cell.Model
	solver cell.Solver
	proto  cell.Protocol
	cfg    cell.Config

	x       cell.State
	t       float64
	h       float64
	coulomb float64

	stepsPerFrame int
	frameRate     int
	running       bool
	done          bool
	reason        string

	voltages []float64
	subPeak  []float64
}

func NewLive(model cell.Model, solver cell.Solver, proto cell.Protocol, cfg cell.Config, frameRate int) *Live {
	if frameRate <= 0 {
		frameRate = 30
	}
	h := cfg.Dt
	if lim, ok := model.(cell.StepLimiter); ok {
		if stable := lim.MaxStableDt(); stable > 0 && h > stable {
			h = cfg.Dt / math.Ceil(cfg.Dt/stable)
		}
	}
	// About one simulated minute per wall-clock second.
	stepsPerFrame := int(60.0 / (h * float64(frameRate)))
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	l := &Live{
		model:         model,
		solver:        solver,
		proto:         proto,
		cfg:           cfg,
		h:             h,
		x:             model.InitialState(cfg.InitialSOC),
		stepsPerFrame: stepsPerFrame,
		frameRate:     frameRate,
		running:       true,
		voltages:      make([]float64, 0, historyCapacity),
	}
	l.subPeak = make([]float64, len(model.Submodels()))
	l.trackPeaks()
	return l
}

// trackPeaks keeps the running per-submodel maximum of the mean state
// value, used to normalise the concentration gauges.
func (l *Live) trackPeaks() {
	for idx, sub := range l.model.Submodels() {
		m := sliceMean(l.x[sub.Offset : sub.Offset+sub.Len])
		if m > l.subPeak[idx] {
			l.subPeak[idx] = m
		}
	}
}

func (l *Live) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(l.frameRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (l *Live) Init() tea.Cmd {
	return l.tick()
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		}

	case TickMsg:
		if l.running && !l.done {
			l.advance()
		}
		return l, l.tick()
	}

	return l, nil
}

func (l *Live) advance() {
	for s := 0; s < l.stepsPerFrame; s++ {
		if l.t >= l.cfg.Duration {
			l.finish(cell.TermTime)
			return
		}

		i := l.proto.Current(l.t)
		v := l.model.Voltage(l.x, i)

		if l.cfg.MinVoltage > 0 && v <= l.cfg.MinVoltage {
			l.finish(cell.TermMinVoltage)
			return
		}
		if l.cfg.MaxVoltage > 0 && v >= l.cfg.MaxVoltage {
			l.finish(cell.TermMaxVoltage)
			return
		}

		l.x = l.solver.Step(l.model, l.x, i, l.t, l.h)
		l.t += l.h
		l.coulomb += i * l.h

		if !l.x.IsValid() {
			l.finish(cell.TermError)
			return
		}
	}
	l.trackPeaks()

	i := l.proto.Current(l.t)
	l.voltages = append(l.voltages, l.model.Voltage(l.x, i))
	if len(l.voltages) > historyCapacity {
		l.voltages = l.voltages[1:]
	}
}

func (l *Live) finish(reason string) {
	l.done = true
	l.reason = reason
}

func (l *Live) View() string {
	i := l.proto.Current(l.t)
	v := l.model.Voltage(l.x, i)
	temp := l.model.Temperature(l.x)

	status := StatusRunning.Render("● running")
	if l.done {
		status = StatusDone.Render("■ " + l.reason)
	} else if !l.running {
		status = StatusDone.Render("‖ paused")
	}

	header := HeaderStyle.Render(fmt.Sprintf("cellsim live: %s (%s)", l.model.Name(), l.proto.Label()))

	stats := StatsStyle.Render(
		row("time", fmt.Sprintf("%.1f s", l.t)) + "\n" +
			row("voltage", fmt.Sprintf("%.4f V", v)) + "\n" +
			row("current", fmt.Sprintf("%.3f A", i)) + "\n" +
			row("temperature", fmt.Sprintf("%.2f K", temp)) + "\n" +
			row("discharged", fmt.Sprintf("%.4f Ah", l.coulomb/3600.0)) + "\n" +
			row("status", status),
	)

	bars := ""
	if b := l.concentrationBars(); b != "" {
		bars = StatsStyle.Render(b)
	}

	graph := ""
	if len(l.voltages) >= 2 {
		graph = GraphStyle.Render(asciigraph.Plot(l.voltages,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption("terminal voltage"),
		))
	}

	help := HelpStyle.Render("space pause · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, stats, bars, graph, help)
}

const gaugeWidth = 24

// concentrationBars renders one gauge per spatial submodel, each mean
// state value scaled by its running peak.
func (l *Live) concentrationBars() string {
	out := ""
	for idx, sub := range l.model.Submodels() {
		if sub.Len < 2 {
			continue
		}
		frac := 0.0
		if l.subPeak[idx] > 0 {
			frac = sliceMean(l.x[sub.Offset:sub.Offset+sub.Len]) / l.subPeak[idx]
		}
		if out != "" {
			out += "\n"
		}
		out += row(sub.Name, gauge(frac, gaugeWidth)+fmt.Sprintf(" %3.0f%%", frac*100))
	}
	return out
}

func gauge(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func sliceMean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func row(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RunLive starts the interactive discharge view and blocks until the
// user quits.
func RunLive(model cell.Model, solver cell.Solver, proto cell.Protocol, cfg cell.Config, frameRate int) error {
	p := tea.NewProgram(NewLive(model, solver, proto, cfg, frameRate))
	_, err := p.Run()
	return err
}
