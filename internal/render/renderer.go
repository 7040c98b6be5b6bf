// Package render draws simulation and field snapshots into images with
// gg. Used by the demo command and available to external streamers.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/1toe/zen-zen/internal/sim"
	"github.com/1toe/zen-zen/internal/sim/field"
)

// energyColors maps energy type names to their base colors.
var energyColors = map[string]color.RGBA{
	"calm":    {110, 200, 255, 255},
	"vibrant": {255, 190, 80, 255},
	"intense": {255, 105, 140, 255},
}

// Renderer draws frames at a fixed resolution. Not safe for concurrent
// use; give each goroutine its own renderer.
type Renderer struct {
	width  int
	height int
	dc     *gg.Context
}

func New(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		dc:     gg.NewContext(width, height),
	}
}

// Frame draws one complete frame and returns the image. The returned
// image is reused by the next Frame call; encode or copy before then.
func (r *Renderer) Frame(snap *sim.Snapshot, fs field.Snapshot) image.Image {
	dc := r.dc

	r.drawBackground(dc)
	r.drawField(dc, fs)
	r.drawWaves(dc, snap.Waves)
	r.drawConnections(dc, snap)
	r.drawResonators(dc, snap.Resonators)
	r.drawDissonances(dc, snap.Dissonances)
	r.drawAmplifiers(dc, snap.Amplifiers)
	r.drawCore(dc, snap.Core)
	r.drawHUD(dc, snap)

	return dc.Image()
}

// SavePNG draws a frame and writes it to path.
func (r *Renderer) SavePNG(path string, snap *sim.Snapshot, fs field.Snapshot) error {
	r.Frame(snap, fs)
	return r.dc.SavePNG(path)
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{10, 14, 26, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()
}

// drawField shades the interference grid and draws the vortex motes.
func (r *Renderer) drawField(dc *gg.Context, fs field.Snapshot) {
	if fs.GridCols == 0 || fs.GridRows == 0 {
		return
	}
	cellW := float64(r.width) / float64(fs.GridCols)
	cellH := float64(r.height) / float64(fs.GridRows)

	for row := 0; row < fs.GridRows; row++ {
		for col := 0; col < fs.GridCols; col++ {
			v := fs.Grid[row*fs.GridCols+col] // roughly [-2, 2]
			a := uint8(clamp01(math.Abs(v)*0.4) * 70)
			if a == 0 {
				continue
			}
			if v > 0 {
				dc.SetColor(color.RGBA{70, 110, 190, a})
			} else {
				dc.SetColor(color.RGBA{120, 70, 170, a})
			}
			dc.DrawRectangle(float64(col)*cellW, float64(row)*cellH, cellW, cellH)
			dc.Fill()
		}
	}

	for _, p := range fs.Particles {
		a := uint8(clamp01(p.Life) * 180)
		dc.SetColor(color.RGBA{200, 220, 255, a})
		dc.DrawCircle(p.X, p.Y, p.Size)
		dc.Fill()
	}
}

func (r *Renderer) drawWaves(dc *gg.Context, waves []sim.WaveSnapshot) {
	dc.SetLineWidth(2)
	for _, w := range waves {
		c := energyColor(w.Energy)
		c.A = uint8(clamp01(w.Opacity) * 255)
		dc.SetColor(c)
		dc.DrawCircle(w.Origin.X, w.Origin.Y, w.Radius)
		dc.Stroke()
	}
}

func (r *Renderer) drawConnections(dc *gg.Context, snap *sim.Snapshot) {
	pos := make(map[string]sim.Vec, len(snap.Resonators))
	for _, res := range snap.Resonators {
		pos[res.ID] = res.Pos
	}
	dc.SetLineWidth(1.5)
	for _, c := range snap.Connections {
		a, okA := pos[c.Resonators[0]]
		b, okB := pos[c.Resonators[1]]
		if !okA || !okB {
			continue
		}
		col := energyColor(c.Energy)
		col.A = uint8(clamp01(c.Intensity) * 200)
		dc.SetColor(col)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}
}

func (r *Renderer) drawResonators(dc *gg.Context, resonators []sim.ResonatorSnapshot) {
	for _, res := range resonators {
		c := energyColor(res.Energy)
		if res.Activated {
			// Glow ring scaled by intensity
			glow := c
			glow.A = uint8(clamp01(res.Intensity) * 90)
			dc.SetColor(glow)
			dc.DrawCircle(res.Pos.X, res.Pos.Y, res.Radius*1.8)
			dc.Fill()
		} else {
			c.A = 120
		}
		dc.SetColor(c)
		dc.DrawCircle(res.Pos.X, res.Pos.Y, res.Radius)
		dc.Fill()
	}
}

func (r *Renderer) drawDissonances(dc *gg.Context, dissonances []sim.DissonanceSnapshot) {
	for _, d := range dissonances {
		a := uint8(clamp01(d.Opacity) * 255)
		dc.Push()
		dc.RotateAbout(d.Rotation, d.Pos.X, d.Pos.Y)
		dc.SetColor(color.RGBA{190, 60, 70, a})
		switch d.Shape {
		case "square":
			dc.DrawRectangle(d.Pos.X-d.Radius, d.Pos.Y-d.Radius, d.Radius*2, d.Radius*2)
		case "triangle":
			drawPolygon(dc, d.Pos.X, d.Pos.Y, d.Radius, 3)
		case "spike":
			drawPolygon(dc, d.Pos.X, d.Pos.Y, d.Radius, 5)
		default: // shard
			drawPolygon(dc, d.Pos.X, d.Pos.Y, d.Radius, 4)
		}
		dc.Fill()
		dc.Pop()
	}
}

func (r *Renderer) drawAmplifiers(dc *gg.Context, amplifiers []sim.AmplifierSnapshot) {
	for _, a := range amplifiers {
		c := energyColor(a.Energy)
		dc.SetColor(color.RGBA{c.R, c.G, c.B, 70})
		dc.DrawCircle(a.Pos.X, a.Pos.Y, a.Radius*1.6)
		dc.Fill()
		dc.SetColor(c)
		dc.DrawCircle(a.Pos.X, a.Pos.Y, a.Radius)
		dc.Fill()
	}
}

func (r *Renderer) drawCore(dc *gg.Context, core sim.CoreSnapshot) {
	if core.ID == "" {
		return
	}
	b := clamp01(core.Brightness)
	// Halo
	dc.SetColor(color.RGBA{230, 240, 255, uint8(b * 60)})
	dc.DrawCircle(core.Pos.X, core.Pos.Y, core.Radius*1.7)
	dc.Fill()
	// Body
	dc.SetColor(color.RGBA{
		uint8(160 + 95*b),
		uint8(180 + 75*b),
		255, 255,
	})
	dc.DrawCircle(core.Pos.X, core.Pos.Y, core.Radius)
	dc.Fill()
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *sim.Snapshot) {
	dc.SetColor(color.RGBA{220, 230, 245, 230})
	dc.DrawString(fmt.Sprintf("score %.0f", snap.Score), 12, 22)
	dc.DrawString(fmt.Sprintf("harmony %d", snap.Core.Harmony), 12, 40)
	if snap.Phase != "playing" {
		dc.DrawString(snap.Phase, float64(r.width)/2-20, 30)
	}

	// Energy bar
	frac := 0.0
	if snap.Core.MaxEnergy > 0 {
		frac = clamp01(snap.Core.Energy / snap.Core.MaxEnergy)
	}
	barW := 160.0
	dc.SetColor(color.RGBA{60, 70, 90, 200})
	dc.DrawRectangle(12, float64(r.height)-26, barW, 12)
	dc.Fill()
	dc.SetColor(color.RGBA{120, 220, 160, 230})
	dc.DrawRectangle(12, float64(r.height)-26, barW*frac, 12)
	dc.Fill()
}

func drawPolygon(dc *gg.Context, x, y, radius float64, sides int) {
	for i := 0; i <= sides; i++ {
		angle := 2*math.Pi*float64(i)/float64(sides) - math.Pi/2
		px := x + math.Cos(angle)*radius
		py := y + math.Sin(angle)*radius
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
}

func energyColor(name string) color.RGBA {
	if c, ok := energyColors[name]; ok {
		return c
	}
	return color.RGBA{200, 200, 200, 255}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
