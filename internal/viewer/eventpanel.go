package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Shadow-Sense/internal/stealth"
)

const (
	panelWidth      = 340
	panelMaxEntries = 80
	panelLineHeight = 14
)

// PanelEntry is a single line in the event panel.
type PanelEntry struct {
	Tick     int
	Actor    string
	Category string
	Message  string
}

// EventPanel is a ring buffer of encounter events rendered beside the map.
type EventPanel struct {
	entries []PanelEntry
	head    int
	count   int
	synced  int // SimLog entries already copied in
}

// NewEventPanel creates an event panel with a fixed capacity.
func NewEventPanel() *EventPanel {
	return &EventPanel{entries: make([]PanelEntry, panelMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (p *EventPanel) Add(tick int, actor, category, msg string) {
	p.entries[p.head] = PanelEntry{Tick: tick, Actor: actor, Category: category, Message: msg}
	p.head = (p.head + 1) % panelMaxEntries
	if p.count < panelMaxEntries {
		p.count++
	}
}

// Sync copies SimLog entries recorded since the last call. Per-tick samples
// are skipped so the panel only shows discrete events.
func (p *EventPanel) Sync(log *stealth.SimLog) {
	entries := log.Entries()
	if len(entries) < p.synced {
		// Log was reset by a restart.
		p.synced = 0
	}
	for _, e := range entries[p.synced:] {
		if e.Category == "move" || (e.Category == "detect" && e.Key == "level") || (e.Category == "alert" && e.Key == "level") {
			continue
		}
		p.Add(e.Tick, e.Actor, e.Category, e.Key+" "+e.Value)
	}
	p.synced = len(entries)
}

// Reset empties the panel.
func (p *EventPanel) Reset() {
	p.head = 0
	p.count = 0
	p.synced = 0
}

// Recent returns entries oldest first.
func (p *EventPanel) Recent() []PanelEntry {
	out := make([]PanelEntry, p.count)
	for i := 0; i < p.count; i++ {
		idx := (p.head - p.count + i + panelMaxEntries) % panelMaxEntries
		out[i] = p.entries[idx]
	}
	return out
}

func categoryColor(category string) color.RGBA {
	switch category {
	case "alert":
		return colornames.Orange
	case "detect":
		return colornames.Crimson
	case "noise":
		return colornames.Gold
	case "guard":
		return colornames.Cornflowerblue
	case "object":
		return colornames.Sandybrown
	case "objective":
		return colornames.Limegreen
	case "script":
		return colornames.Orchid
	default:
		return colornames.Lightgray
	}
}

// Draw renders the panel with its left edge at panelX.
func (p *EventPanel) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, panelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, colornames.Darkslategray, false)

	vector.FillRect(screen, float32(panelX), 0, panelWidth, 16, color.RGBA{R: 20, G: 26, B: 34, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 0)

	entries := p.Recent()
	maxVisible := (panelH - 24) / panelLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), panelWidth-4, panelLineHeight, color.RGBA{R: 30, G: 36, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d %-3s %s", e.Tick, e.Actor, e.Message), panelX+12, y-2)
		y += panelLineHeight
	}
}
