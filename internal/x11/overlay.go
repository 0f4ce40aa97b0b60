package x11

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// Overlay colors.
const (
	colorPanelBg     = 0x1f2933
	colorCellEmpty   = 0x3e4c59
	colorCellVisited = 0x7f8c8d
	colorCellCurrent = 0x3498db
	colorCellPreview = 0x27ae60
	colorLabelText   = 0xf5f7fa
)

const (
	overlayPadding  = 12
	overlayCellGap  = 6
	overlayLineGap  = 20
	labelLineHeight = 16
)

// GridCell addresses one cell on the overlay.
type GridCell struct {
	X int
	Y int
}

// GridOverlay is an on-screen view of the workspace grid rendered as
// a single override-redirect window, bypassing the window manager so
// it floats above everything. It auto-hides after a delay unless
// pinned.
type GridOverlay struct {
	conn     *Connection
	cellSize int

	mu        sync.Mutex
	window    xproto.Window
	gc        xproto.Gcontext
	font      xproto.Font
	created   bool
	mapped    bool
	disabled  bool
	pinned    bool
	hideDelay time.Duration
	hideTimer *time.Timer
}

// NewGridOverlay creates an overlay sized cellSize pixels per cell
// that hides hideDelay after the last update.
func NewGridOverlay(conn *Connection, cellSize int, hideDelay time.Duration) *GridOverlay {
	if cellSize < 16 {
		cellSize = 16
	}
	return &GridOverlay{
		conn:      conn,
		cellSize:  cellSize,
		hideDelay: hideDelay,
	}
}

// SetPinned pins or unpins the overlay. A pinned overlay stays mapped
// until unpinned.
func (o *GridOverlay) SetPinned(pinned bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pinned = pinned
	if pinned {
		o.stopHideTimer()
	} else {
		o.scheduleHide()
	}
}

// ShowPosition renders the grid with the current cell highlighted.
func (o *GridOverlay) ShowPosition(cols, rows int, current GridCell, visited []GridCell) error {
	return o.show(cols, rows, current, visited, nil, fmt.Sprintf("workspace %d,%d", current.X, current.Y))
}

// ShowPreview renders an in-flight gesture: the candidate target cell
// is tinted and the label reports progress.
func (o *GridOverlay) ShowPreview(cols, rows int, current GridCell, visited []GridCell, target GridCell, progress float64) error {
	label := fmt.Sprintf("%.0f%%", progress*100)
	return o.show(cols, rows, current, visited, &target, label)
}

func (o *GridOverlay) show(cols, rows int, current GridCell, visited []GridCell, preview *GridCell, label string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.disabled {
		return nil
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	if err := o.ensureResources(); err != nil {
		o.disabled = true
		return err
	}

	conn := o.conn.XUtil.Conn()
	screen := o.conn.XUtil.Screen()

	width := cols*o.cellSize + (cols+1)*overlayCellGap
	height := rows*o.cellSize + (rows+1)*overlayCellGap + overlayLineGap
	width += 2 * overlayPadding
	height += 2 * overlayPadding

	// Top center of the screen.
	x := (int(screen.WidthInPixels) - width) / 2
	if x < 0 {
		x = 0
	}
	y := overlayPadding

	xproto.ConfigureWindow(
		conn,
		o.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(x),
			uint32(y),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove,
		},
	)
	xproto.ChangeWindowAttributes(conn, o.window, xproto.CwBackPixel, []uint32{colorPanelBg})
	xproto.ClearArea(conn, false, o.window, 0, 0, 0, 0)
	xproto.MapWindow(conn, o.window)
	o.mapped = true

	visitedSet := make(map[GridCell]bool, len(visited))
	for _, c := range visited {
		visitedSet[c] = true
	}

	for gy := 0; gy < rows; gy++ {
		for gx := 0; gx < cols; gx++ {
			cell := GridCell{X: gx, Y: gy}
			color := uint32(colorCellEmpty)
			switch {
			case preview != nil && cell == *preview:
				color = colorCellPreview
			case cell == current:
				color = colorCellCurrent
			case visitedSet[cell]:
				color = colorCellVisited
			}

			px := overlayPadding + overlayCellGap + gx*(o.cellSize+overlayCellGap)
			py := overlayPadding + overlayCellGap + gy*(o.cellSize+overlayCellGap)
			o.fillRect(px, py, o.cellSize, o.cellSize, color)
		}
	}

	if label != "" {
		if len(label) > 255 {
			label = label[:255]
		}
		xproto.ChangeGC(conn, o.gc,
			xproto.GcForeground|xproto.GcBackground,
			[]uint32{colorLabelText, colorPanelBg})
		baseline := height - overlayPadding - (overlayLineGap-labelLineHeight)/2
		xproto.ImageText8(
			conn,
			byte(len(label)),
			xproto.Drawable(o.window),
			o.gc,
			int16(overlayPadding+overlayCellGap),
			int16(baseline),
			label,
		)
	}

	if !o.pinned {
		o.scheduleHide()
	}
	return nil
}

func (o *GridOverlay) fillRect(x, y, w, h int, color uint32) {
	conn := o.conn.XUtil.Conn()
	xproto.ChangeGC(conn, o.gc, xproto.GcForeground, []uint32{color})
	xproto.PolyFillRectangle(conn, xproto.Drawable(o.window), o.gc, []xproto.Rectangle{{
		X:      int16(x),
		Y:      int16(y),
		Width:  uint16(w),
		Height: uint16(h),
	}})
}

// Hide unmaps the overlay without destroying its resources.
func (o *GridOverlay) Hide() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.hideLocked()
}

func (o *GridOverlay) hideLocked() {
	o.stopHideTimer()
	if !o.mapped {
		return
	}
	xproto.UnmapWindow(o.conn.XUtil.Conn(), o.window)
	o.mapped = false
}

func (o *GridOverlay) scheduleHide() {
	o.stopHideTimer()
	if o.hideDelay <= 0 {
		return
	}
	o.hideTimer = time.AfterFunc(o.hideDelay, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.pinned {
			o.hideLocked()
		}
	})
}

func (o *GridOverlay) stopHideTimer() {
	if o.hideTimer != nil {
		o.hideTimer.Stop()
		o.hideTimer = nil
	}
}

// Destroy releases the window, GC and font.
func (o *GridOverlay) Destroy() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stopHideTimer()
	if !o.created {
		return
	}

	conn := o.conn.XUtil.Conn()
	if o.gc != 0 {
		xproto.FreeGC(conn, o.gc)
	}
	if o.font != 0 {
		xproto.CloseFont(conn, o.font)
	}
	if o.window != 0 {
		xproto.DestroyWindow(conn, o.window)
	}

	o.window = 0
	o.gc = 0
	o.font = 0
	o.created = false
	o.mapped = false
}

func (o *GridOverlay) ensureResources() error {
	if o.created {
		return nil
	}

	conn := o.conn.XUtil.Conn()
	screen := o.conn.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}

	// override_redirect bypasses the window manager entirely.
	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		o.conn.Root,
		0, 0,
		1, 1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Value list order follows the bit positions of the mask.
		// CwBackPixel comes before CwOverrideRedirect, so it is first.
		[]uint32{colorPanelBg, 1},
	).Check()
	if err != nil {
		return err
	}

	font, err := xproto.NewFontId(conn)
	if err != nil {
		xproto.DestroyWindow(conn, wid)
		return err
	}

	fontNames := []string{"fixed", "9x15", "8x13", "6x13"}
	opened := false
	for _, fontName := range fontNames {
		if err := xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		xproto.DestroyWindow(conn, wid)
		return fmt.Errorf("no usable core font")
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		xproto.DestroyWindow(conn, wid)
		return err
	}

	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(wid),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			colorLabelText,
			colorPanelBg,
			uint32(font),
			0,
		},
	).Check()
	if err != nil {
		xproto.FreeGC(conn, gc)
		xproto.CloseFont(conn, font)
		xproto.DestroyWindow(conn, wid)
		return err
	}

	o.window = wid
	o.gc = gc
	o.font = font
	o.created = true
	return nil
}
