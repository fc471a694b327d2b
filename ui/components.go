package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	FaderHeight    = 10 // Number of rows for fader display
	WaveformWidth  = 80
	WaveformHeight = 8
)

// Bus is a single named signal-graph bus's current display state, the
// generalization of the teacher's fixed 8-channel mixer.Channel: instead of
// a hardcoded Volume/Pan/Mute/Solo per hardware channel, every declared bus
// gets one strip showing its most recent block's RMS level.
type Bus struct {
	Name     string
	Level    float64 // 0..1 RMS of the bus's last rendered block
	IsOutput bool
}

// RenderFader renders a vertical fader for a value 0-127
func RenderFader(value uint8, height int) string {
	// Calculate filled blocks
	filled := int(float64(value) / 127.0 * float64(height))

	var lines []string
	for i := height - 1; i >= 0; i-- {
		if i < filled {
			lines = append(lines, FaderFillStyle.Render("██"))
		} else {
			lines = append(lines, FaderTrackStyle.Render("░░"))
		}
	}

	return strings.Join(lines, "\n")
}

// RenderPanKnob renders a simple pan indicator
func RenderPanKnob(pan uint8) string {
	// Convert 0-127 to position indicator
	// 0 = full left, 64 = center, 127 = full right
	const width = 7
	pos := int(float64(pan) / 127.0 * float64(width-1))

	indicator := strings.Repeat("─", pos) + "●" + strings.Repeat("─", width-1-pos)

	label := "C"
	if pan < 54 {
		label = fmt.Sprintf("L%d", (64-int(pan))*100/64)
	} else if pan > 74 {
		label = fmt.Sprintf("R%d", (int(pan)-64)*100/63)
	}

	return PanStyle.Render(fmt.Sprintf("[%s]\n %s", indicator, label))
}

// RenderBus renders a single bus strip: name, a fader-style level meter
// driven by the bus's RMS rather than a MIDI-CC volume value, and a marker
// when it is the program's "out" bus — the direct descendant of
// RenderChannel, generalized from a fixed hardware channel to an arbitrary
// named graph bus.
func RenderBus(b Bus, selected bool) string {
	var parts []string

	name := b.Name
	if len(name) > 8 {
		name = name[:8]
	}
	parts = append(parts, ChannelNameStyle.Render(name))
	parts = append(parts, "")

	level := uint8(clamp01(b.Level) * 127)
	parts = append(parts, RenderFader(level, FaderHeight))
	parts = append(parts, ValueStyle.Render(fmt.Sprintf("%3d%%", int(clamp01(b.Level)*100))))

	if b.IsOutput {
		parts = append(parts, SoloActiveStyle.Render("OUT"))
	}

	content := strings.Join(parts, "\n")
	if selected {
		return SelectedChannelStyle.Render(content)
	}
	return ChannelStyle.Render(content)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RenderMasterFader renders the master volume fader
func RenderMasterFader(volume uint8) string {
	var parts []string

	parts = append(parts, ChannelNameStyle.Render("MASTER"))
	parts = append(parts, "")
	parts = append(parts, RenderFader(volume, FaderHeight))

	volPercent := int(float64(volume) / 127.0 * 100)
	parts = append(parts, ValueStyle.Render(fmt.Sprintf("%3d%%", volPercent)))

	return MasterStyle.Render(strings.Join(parts, "\n"))
}

// RenderSession renders every bus in program declaration order plus the
// master fader, the generalization of RenderMixer's fixed-8-channel strip
// row to however many buses a program happens to declare.
func RenderSession(buses []Bus, masterLevel float64, selected int) string {
	var views []string
	for i, b := range buses {
		views = append(views, RenderBus(b, i == selected))
	}
	views = append(views, RenderMasterFader(uint8(clamp01(masterLevel)*127)))
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// RenderHelp renders the help bar
func RenderHelp() string {
	help := "←/→: Select bus  Q: Quit"
	return HelpStyle.Render(help)
}

// RenderStatus renders the status bar with the program and voice-pool info.
func RenderStatus(programPath string, activeVoices, maxVoices int) string {
	status := fmt.Sprintf("Program: %s │ Voices: %d/%d", programPath, activeVoices, maxVoices)
	return StatusStyle.Render(status)
}

// Waveform block characters for different amplitudes
var waveBlocks = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// RenderWaveform renders a stereo waveform oscilloscope
func RenderWaveform(leftWave, rightWave []float64) string {
	if len(leftWave) == 0 || len(rightWave) == 0 {
		return ""
	}

	width := WaveformWidth
	height := WaveformHeight

	// Downsample waveform to fit width
	step := len(leftWave) / width
	if step < 1 {
		step = 1
	}

	// Build waveform display
	var lines []string

	// Header
	headerStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	lines = append(lines, headerStyle.Render("┌─ WAVEFORM ─────────────────────────────────────────────────────────────────┐"))

	// Create display buffer
	display := make([][]string, height)
	for i := range display {
		display[i] = make([]string, width)
		for j := range display[i] {
			display[i][j] = " "
		}
	}

	// Left channel (top half) - cyan
	leftStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	// Right channel (bottom half) - magenta
	rightStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#D946EF"))

	halfHeight := height / 2

	for x := 0; x < width && x*step < len(leftWave); x++ {
		// Get sample values
		lSample := leftWave[x*step]
		rSample := rightWave[x*step]

		// Scale to display coordinates
		lY := int((1 - lSample) * float64(halfHeight-1))
		rY := halfHeight + int((1-rSample)*float64(halfHeight-1))

		if lY < 0 {
			lY = 0
		}
		if lY >= halfHeight {
			lY = halfHeight - 1
		}
		if rY < halfHeight {
			rY = halfHeight
		}
		if rY >= height {
			rY = height - 1
		}

		// Draw points
		display[lY][x] = "L"
		display[rY][x] = "R"
	}

	// Render display to strings
	for y := 0; y < height; y++ {
		var line strings.Builder
		line.WriteString("│")
		for x := 0; x < width; x++ {
			char := display[y][x]
			switch char {
			case "L":
				line.WriteString(leftStyle.Render("█"))
			case "R":
				line.WriteString(rightStyle.Render("█"))
			default:
				if y == halfHeight-1 || y == halfHeight {
					line.WriteString(lipgloss.NewStyle().Foreground(ColorSurface).Render("─"))
				} else {
					line.WriteString(" ")
				}
			}
		}
		line.WriteString("│")
		lines = append(lines, line.String())
	}

	// Footer with labels
	footerStyle := lipgloss.NewStyle().Foreground(ColorTextDim)
	lines = append(lines, footerStyle.Render("└─ ")+leftStyle.Render("■ LEFT")+footerStyle.Render("  ")+rightStyle.Render("■ RIGHT")+footerStyle.Render(" ──────────────────────────────────────────────────────────┘"))

	return strings.Join(lines, "\n")
}

// RenderVUMeter renders a horizontal VU meter
func RenderVUMeter(leftWave, rightWave []float64) string {
	// Calculate RMS levels
	var leftRMS, rightRMS float64
	for i := range leftWave {
		leftRMS += leftWave[i] * leftWave[i]
		rightRMS += rightWave[i] * rightWave[i]
	}
	if len(leftWave) > 0 {
		leftRMS = math.Sqrt(leftRMS / float64(len(leftWave)))
		rightRMS = math.Sqrt(rightRMS / float64(len(rightWave)))
	}

	width := 40
	leftBars := int(leftRMS * float64(width) * 2)
	rightBars := int(rightRMS * float64(width) * 2)
	if leftBars > width {
		leftBars = width
	}
	if rightBars > width {
		rightBars = width
	}

	greenStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	yellowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	redStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle := lipgloss.NewStyle().Foreground(ColorSurface)

	renderBar := func(level int) string {
		var bar strings.Builder
		for i := 0; i < width; i++ {
			if i < level {
				if i < width*6/10 {
					bar.WriteString(greenStyle.Render("█"))
				} else if i < width*8/10 {
					bar.WriteString(yellowStyle.Render("█"))
				} else {
					bar.WriteString(redStyle.Render("█"))
				}
			} else {
				bar.WriteString(dimStyle.Render("░"))
			}
		}
		return bar.String()
	}

	leftLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Render("L ")
	rightLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("#D946EF")).Render("R ")

	return leftLabel + renderBar(leftBars) + "\n" + rightLabel + renderBar(rightBars)
}
