// Package viewer is an interactive ebiten front end for a stealth encounter.
// It plays a built-in scenario with the player under keyboard control and
// draws guards, vision cones, lights, noise and objectives over the map.
package viewer

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/Shadow-Sense/internal/stealth"
)

const (
	pixelsPerUnit = 20
	mapMargin     = 16
	hudHeight     = 56
	coneSteps     = 24
	throwNoise    = 2.5
	tps           = 60
)

// Config selects what the viewer plays.
type Config struct {
	Scenario   string
	Seed       int64
	Difficulty int // 0 keeps the scenario's own
	Log        logrus.FieldLogger
}

// Game implements ebiten.Game around one stealth scenario.
type Game struct {
	cfg   Config
	log   logrus.FieldLogger
	scen  *stealth.Scenario
	panel *EventPanel

	width  int
	height int

	paused   bool
	status   string
	combat   *stealth.CombatRequest
	prevKeys map[ebiten.Key]bool
}

// New builds the viewer and starts the configured scenario.
func New(cfg Config) (*Game, error) {
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	g := &Game{
		cfg:      cfg,
		log:      cfg.Log.WithField("component", "viewer"),
		panel:    NewEventPanel(),
		prevKeys: make(map[ebiten.Key]bool),
	}
	if err := g.restart(); err != nil {
		return nil, err
	}
	m := g.scen.Map
	g.width = mapMargin*2 + int(m.Width*pixelsPerUnit) + panelWidth
	g.height = mapMargin*2 + int(m.Height*pixelsPerUnit) + hudHeight
	return g, nil
}

// Size returns the window size the viewer wants.
func (g *Game) Size() (int, int) { return g.width, g.height }

func (g *Game) restart() error {
	opts := []stealth.ScenarioOption{
		stealth.WithVerbose(false),
		stealth.WithEncounterOptions(
			stealth.WithSeed(g.cfg.Seed),
			stealth.WithLogger(g.cfg.Log),
			stealth.WithListener(stealth.ListenerFuncs{
				Combat: func(req stealth.CombatRequest) {
					g.combat = &req
				},
				Result: func(r stealth.Result) {
					g.status = fmt.Sprintf("%s: alert %.0f, %d/%d objectives, %d/%d guards alerted",
						r.Outcome, r.FinalAlert, r.ObjectivesCompleted, r.ObjectivesTotal, r.GuardsAlerted, r.GuardsTotal)
				},
			}),
		),
	}
	if g.cfg.Difficulty > 0 {
		opts = append(opts, stealth.WithDifficulty(g.cfg.Difficulty))
	}
	scen, err := stealth.BuiltinScenario(g.cfg.Scenario, opts...)
	if err != nil {
		return err
	}
	if !scen.Started {
		return fmt.Errorf("scenario %s did not start", g.cfg.Scenario)
	}
	g.scen = scen
	g.combat = nil
	g.status = ""
	g.panel.Reset()
	g.log.WithField("scenario", g.cfg.Scenario).Info("scenario loaded")
	return nil
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	g.panel.Sync(g.scen.SimLog)
	return nil
}

// pressed reports a key going down this frame.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() error {
	cur := map[ebiten.Key]bool{}
	defer func() { g.prevKeys = cur }()

	if g.pressed(cur, ebiten.KeyR) {
		return g.restart()
	}
	if g.pressed(cur, ebiten.KeyP) {
		g.paused = !g.paused
	}

	enc := g.scen.Enc
	if g.paused || !enc.Active() {
		return nil
	}

	dt := time.Second / tps
	dir := moveVector(
		ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)
	if dir != (stealth.Vec2{}) {
		sneak := ebiten.IsKeyPressed(ebiten.KeyShift)
		speed := stealth.WalkSpeed
		if sneak {
			speed = stealth.SneakSpeed
		}
		enc.MovePlayer(enc.PlayerPosition().Add(dir.Scale(speed*dt.Seconds())), sneak)
	}

	if g.pressed(cur, ebiten.KeyE) {
		if id, ok := nearestObject(enc.PlayerPosition(), enc.Objects(), enc.Tuning().DefaultInteractRadius); ok {
			if !enc.Interact(id) {
				g.log.WithField("object", id).Debug("interaction rejected")
			}
		}
	}
	if g.pressed(cur, ebiten.KeySpace) {
		mx, my := ebiten.CursorPosition()
		enc.EmitNoise(screenToWorld(mx, my), throwNoise)
	}

	if enc.Active() {
		enc.Tick(dt)
	}
	return nil
}

// moveVector turns held direction keys into a unit vector (y grows downward).
func moveVector(up, down, left, right bool) stealth.Vec2 {
	var v stealth.Vec2
	if up {
		v.Y--
	}
	if down {
		v.Y++
	}
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	if l := v.Len(); l > 0 {
		v = v.Scale(1 / l)
	}
	return v
}

// nearestObject picks the closest object whose use radius covers pos.
func nearestObject(pos stealth.Vec2, objs []stealth.InteractiveObject, defaultRadius float64) (string, bool) {
	best := ""
	bestDist := math.Inf(1)
	for _, o := range objs {
		r := o.Radius
		if r <= 0 {
			r = defaultRadius
		}
		d := pos.DistanceTo(o.Pos)
		if d <= r && d < bestDist {
			best, bestDist = o.ID, d
		}
	}
	return best, best != ""
}

func worldToScreen(p stealth.Vec2) (float32, float32) {
	return float32(mapMargin + p.X*pixelsPerUnit), float32(mapMargin + p.Y*pixelsPerUnit)
}

func screenToWorld(x, y int) stealth.Vec2 {
	return stealth.Vec2{
		X: float64(x-mapMargin) / pixelsPerUnit,
		Y: float64(y-mapMargin) / pixelsPerUnit,
	}
}

func guardColor(s stealth.GuardState) color.RGBA {
	switch s {
	case stealth.GuardAlert:
		return colornames.Gold
	case stealth.GuardSearch:
		return colornames.Darkorange
	case stealth.GuardCombat:
		return colornames.Red
	default:
		return colornames.Steelblue
	}
}

func surfaceColor(k stealth.SurfaceKind) color.RGBA {
	switch k {
	case stealth.SurfaceStone:
		return colornames.Dimgray
	case stealth.SurfaceGrass:
		return colornames.Darkolivegreen
	case stealth.SurfaceCarpet:
		return colornames.Maroon
	case stealth.SurfaceWood:
		return colornames.Saddlebrown
	case stealth.SurfaceGravel:
		return colornames.Gray
	case stealth.SurfaceWater:
		return colornames.Midnightblue
	case stealth.SurfaceMetal:
		return colornames.Slategray
	default:
		return color.RGBA{R: 34, G: 38, B: 40, A: 255}
	}
}

func tierColor(t stealth.AlertTier) color.RGBA {
	switch t {
	case stealth.TierSuspicious:
		return colornames.Yellow
	case stealth.TierSearching:
		return colornames.Orange
	case stealth.TierAlerted:
		return colornames.Orangered
	case stealth.TierCombat:
		return colornames.Red
	default:
		return colornames.Mediumseagreen
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 16, A: 255})
	enc := g.scen.Enc
	m := g.scen.Map

	ox, oy := worldToScreen(stealth.Vec2{})
	mw, mh := float32(m.Width*pixelsPerUnit), float32(m.Height*pixelsPerUnit)
	vector.FillRect(screen, ox, oy, mw, mh, surfaceColor(stealth.SurfaceNormal), false)
	for _, z := range m.Surfaces {
		x, y := worldToScreen(stealth.Vec2{X: z.Area.X, Y: z.Area.Y})
		vector.FillRect(screen, x, y, float32(z.Area.W*pixelsPerUnit), float32(z.Area.H*pixelsPerUnit), surfaceColor(z.Kind), false)
	}

	for _, l := range m.Lights {
		if l.ID != "" && !enc.LightActive(l.ID) {
			continue
		}
		x, y := worldToScreen(l.Pos)
		vector.FillCircle(screen, x, y, float32(l.Radius*pixelsPerUnit), color.RGBA{R: 120, G: 100, B: 40, A: 50}, true)
		vector.FillCircle(screen, x, y, 3, colornames.Lightyellow, true)
	}

	for _, o := range m.Obstacles {
		x, y := worldToScreen(stealth.Vec2{X: o.X, Y: o.Y})
		vector.FillRect(screen, x, y, float32(o.W*pixelsPerUnit), float32(o.H*pixelsPerUnit), colornames.Darkslategray, false)
		vector.StrokeRect(screen, x, y, float32(o.W*pixelsPerUnit), float32(o.H*pixelsPerUnit), 1, colornames.Slategray, false)
	}

	for _, ob := range enc.Objectives() {
		if ob.Zone == nil {
			continue
		}
		x, y := worldToScreen(stealth.Vec2{X: ob.Zone.X, Y: ob.Zone.Y})
		c := colornames.Limegreen
		if ob.Completed {
			c = colornames.Darkgreen
		}
		vector.StrokeRect(screen, x, y, float32(ob.Zone.W*pixelsPerUnit), float32(ob.Zone.H*pixelsPerUnit), 2, c, false)
	}

	for _, o := range enc.Objects() {
		g.drawObject(screen, o)
	}

	guards := enc.Guards()
	for _, gv := range guards {
		g.drawCone(screen, gv, m.Obstacles)
	}

	if n, ok := enc.LastNoise(); ok {
		x, y := worldToScreen(n)
		vector.StrokeCircle(screen, x, y, 6, 1.5, colornames.Gold, true)
	}

	for _, gv := range guards {
		x, y := worldToScreen(gv.Pos)
		vector.FillCircle(screen, x, y, 7, guardColor(gv.State), true)
		if gv.LastKnown != nil {
			lx, ly := worldToScreen(*gv.LastKnown)
			vector.StrokeLine(screen, lx-4, ly-4, lx+4, ly+4, 1, colornames.Orangered, false)
			vector.StrokeLine(screen, lx-4, ly+4, lx+4, ly-4, 1, colornames.Orangered, false)
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %.0f", gv.Label, gv.Detection), int(x)+9, int(y)-8)
	}

	px, py := worldToScreen(enc.PlayerPosition())
	vector.FillCircle(screen, px, py, 6, colornames.White, true)
	vector.StrokeCircle(screen, px, py, 8, 1, colornames.Black, true)

	g.drawHUD(screen, int(oy+mh)+8)
	g.panel.Draw(screen, g.width-panelWidth, g.height)
}

func (g *Game) drawObject(screen *ebiten.Image, o stealth.InteractiveObject) {
	x, y := worldToScreen(o.Pos)
	var c color.RGBA
	switch o.Kind {
	case stealth.ObjectDoor:
		c = colornames.Sienna
		if o.Open {
			c = colornames.Burlywood
		}
	case stealth.ObjectChest:
		c = colornames.Goldenrod
		if o.Open {
			c = colornames.Darkgoldenrod
		}
	case stealth.ObjectLever:
		c = colornames.Lightsteelblue
		if o.Active {
			c = colornames.Aqua
		}
	case stealth.ObjectDistraction:
		c = colornames.Plum
		if o.Active {
			c = colornames.Magenta
		}
	}
	vector.FillRect(screen, x-5, y-5, 10, 10, c, false)
	ebitenutil.DebugPrintAt(screen, o.ID, int(x)+7, int(y)+2)
}

func (g *Game) drawCone(screen *ebiten.Image, gv stealth.GuardView, obstacles []stealth.Rect) {
	half := gv.VisionAngle / 2
	var path vector.Path
	sx, sy := worldToScreen(gv.Pos)
	path.MoveTo(sx, sy)
	for i := 0; i <= coneSteps; i++ {
		a := gv.Facing - half + gv.VisionAngle*float64(i)/coneSteps
		x, y := worldToScreen(stealth.ClipRay(gv.Pos, a, gv.VisionRange, obstacles))
		path.LineTo(x, y)
	}
	path.Close()

	c := guardColor(gv.State)
	dop := &vector.DrawPathOptions{AntiAlias: true}
	dop.ColorScale.ScaleWithColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 60})
	vector.FillPath(screen, &path, &vector.FillOptions{}, dop)

	if gv.CanSmell {
		vector.StrokeCircle(screen, sx, sy, float32(gv.SmellRange*pixelsPerUnit), 1, color.RGBA{R: 160, G: 120, B: 60, A: 120}, true)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, y int) {
	enc := g.scen.Enc
	tier := enc.AlertTier()
	barW := float32(200)
	vector.FillRect(screen, mapMargin, float32(y), barW, 10, colornames.Darkslategray, false)
	vector.FillRect(screen, mapMargin, float32(y), barW*float32(enc.AlertLevel()/100), 10, tierColor(tier), false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("alert %.0f (%s)  difficulty %d  t=%.1fs", enc.AlertLevel(), tier, enc.Difficulty(), enc.Elapsed().Seconds()), mapMargin+210, y-3)

	line := "WASD move  Shift sneak  E use  Space throw noise at cursor  P pause  R restart"
	switch {
	case g.combat != nil:
		line = fmt.Sprintf("COMBAT with %d guard(s). %s  [R] restart", len(g.combat.Enemies), g.status)
	case g.status != "":
		line = g.status + "  [R] restart"
	case g.paused:
		line = "PAUSED  " + line
	}
	ebitenutil.DebugPrintAt(screen, line, mapMargin, y+14)

	done := 0
	objs := enc.Objectives()
	for _, o := range objs {
		if o.Completed {
			done++
		}
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("objectives %d/%d  scenario %s", done, len(objs), g.scen.Name), mapMargin, y+30)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
