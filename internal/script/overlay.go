package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/udisondev/togglebot/internal/event"
	"github.com/udisondev/togglebot/internal/host"
)

// Shape selects the primitive drawn by Overlay.
type Shape int32

const (
	ShapeFilledRect Shape = iota
	ShapeOutlinedRect
	ShapeCircle
)

// String returns the config name of the shape
func (s Shape) String() string {
	switch s {
	case ShapeFilledRect:
		return "filled_rect"
	case ShapeOutlinedRect:
		return "outlined_rect"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// ParseShape converts a config name to Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(name) {
	case "filled_rect", "rect":
		return ShapeFilledRect, nil
	case "outlined_rect", "outline":
		return ShapeOutlinedRect, nil
	case "circle":
		return ShapeCircle, nil
	default:
		return 0, fmt.Errorf("unknown shape %q", name)
	}
}

// OverlayConfig describes what Overlay draws.
type OverlayConfig struct {
	Enabled   bool
	Shape     Shape
	Bounds    host.Rect
	Color     host.Color
	Thickness float32
}

// Overlay draws one configured shape on every render pass.
type Overlay struct {
	cfg      OverlayConfig
	renderer host.Renderer
}

// NewOverlay creates an overlay script.
func NewOverlay(cfg OverlayConfig, renderer host.Renderer) *Overlay {
	if cfg.Thickness <= 0 {
		cfg.Thickness = 1
	}
	return &Overlay{cfg: cfg, renderer: renderer}
}

// Name implements Script.
func (o *Overlay) Name() string { return "overlay" }

// Register implements Script.
func (o *Overlay) Register(bus *event.Bus) {
	bus.Subscribe(event.KindDraw, o.Name(), o.onDraw)
}

func (o *Overlay) onDraw(_ context.Context, _ event.Event) error {
	if !o.cfg.Enabled {
		return nil
	}

	b := o.cfg.Bounds
	switch o.cfg.Shape {
	case ShapeFilledRect:
		o.renderer.FilledRect(b, o.cfg.Color)
	case ShapeOutlinedRect:
		o.renderer.OutlinedRect(b, o.cfg.Color, o.cfg.Thickness)
	case ShapeCircle:
		center := host.Point{X: b.X + b.W/2, Y: b.Y + b.H/2}
		o.renderer.Circle(center, min(b.W, b.H)/2, o.cfg.Color, true)
	default:
		return fmt.Errorf("drawing overlay: unknown shape %d", o.cfg.Shape)
	}
	return nil
}
