// Package mapview provides a terminal map that implements driven.MapSurface.
//
// The map is drawn as a character grid around a centre coordinate. Each column
// spans the longitude an 8px-wide web map tile column would at the same zoom, and
// each row twice that in latitude, scaled by the Mercator factor of the centre.
package mapview

import (
	"fmt"
	"math"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/localfinder/localfinder-cli/internal/adapters/driving/tui/styles"
	"github.com/localfinder/localfinder-cli/internal/core/domain"
	"github.com/localfinder/localfinder-cli/internal/core/ports/driven"
)

// Zoom bounds.
const (
	MinZoom = 3
	MaxZoom = 19
)

// degreesPerColumnAtZoom0 is 360° over 256px tiles, times 8px per column.
const degreesPerColumnAtZoom0 = 360.0 / 256 * 8

// Glyphs drawn on the grid.
const (
	glyphLand      = '·'
	glyphCrosshair = '+'
)

var markerGlyphs = map[domain.MarkerKind]rune{
	domain.MarkerProvider: '●',
	domain.MarkerUser:     '◉',
	domain.MarkerSaved:    '■',
	domain.MarkerCursor:   '✚',
}

// Map is a scrollable, zoomable terminal map. It is safe for concurrent use:
// services draw on it from their own goroutines while the TUI renders it.
type Map struct {
	mu      sync.Mutex
	styles  *styles.Styles
	center  domain.Point
	zoom    int
	markers []domain.MapMarker
	onClick func(domain.Point)

	// cursorX and cursorY are the cursor offset in cells from the centre.
	cursorX int
	cursorY int

	width   int
	height  int
	focused bool
}

// Ensure Map implements the interface.
var _ driven.MapSurface = (*Map)(nil)

// New creates a map centred on center.
func New(s *styles.Styles, center domain.Point) *Map {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Map{
		styles: s,
		center: center,
		zoom:   domain.DefaultZoom,
		width:  40,
		height: 12,
	}
}

// RenderMarkers replaces every marker on the map.
func (m *Map) RenderMarkers(markers []domain.MapMarker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append([]domain.MapMarker(nil), markers...)
}

// SetCenter moves the viewport centre and puts the cursor on it.
func (m *Map) SetCenter(p domain.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = p
	m.cursorX, m.cursorY = 0, 0
}

// SetZoom sets the zoom level, clamped to MinZoom..MaxZoom.
func (m *Map) SetZoom(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoom = clampZoom(level)
}

// OnClick registers the handler Click invokes.
func (m *Map) OnClick(fn func(domain.Point)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = fn
}

// Click reports the coordinate under the cursor to the click handler and returns it.
// The handler runs on the caller's goroutine without the map locked.
func (m *Map) Click() domain.Point {
	m.mu.Lock()
	fn := m.onClick
	p := m.pointAtLocked(m.cursorX, m.cursorY)
	m.mu.Unlock()

	if fn != nil {
		fn(p)
	}
	return p
}

// HasClickHandler reports whether a click handler is registered.
func (m *Map) HasClickHandler() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onClick != nil
}

// Center returns the viewport centre.
func (m *Map) Center() domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center
}

// Zoom returns the zoom level.
func (m *Map) Zoom() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoom
}

// Markers returns a copy of the drawn markers.
func (m *Map) Markers() []domain.MapMarker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.MapMarker(nil), m.markers...)
}

// CursorPoint returns the coordinate under the cursor.
func (m *Map) CursorPoint() domain.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pointAtLocked(m.cursorX, m.cursorY)
}

// MoveCursor moves the cursor by dx columns and dy rows. At the viewport edge
// the map pans instead.
func (m *Map) MoveCursor(dx, dy int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	halfW, halfH := m.width/2, m.height/2
	x, y := m.cursorX+dx, m.cursorY+dy
	colDeg, rowDeg := m.cellDegreesLocked()

	if x < -halfW || x > m.width-1-halfW {
		m.center.Lng += float64(dx) * colDeg
		x = m.cursorX
	}
	if y < -halfH || y > m.height-1-halfH {
		m.center.Lat -= float64(dy) * rowDeg
		y = m.cursorY
	}
	m.cursorX, m.cursorY = x, y
}

// ZoomBy changes the zoom level by delta, keeping the cursor coordinate in view.
func (m *Map) ZoomBy(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target := m.pointAtLocked(m.cursorX, m.cursorY)
	m.zoom = clampZoom(m.zoom + delta)
	m.center = target
	m.cursorX, m.cursorY = 0, 0
}

// MarkerAtCursor returns the marker drawn nearest the cursor, within one cell.
// Provider markers win ties.
func (m *Map) MarkerAtCursor() (domain.MapMarker, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cx, cy := m.width/2+m.cursorX, m.height/2+m.cursorY
	best, bestDist, found := domain.MapMarker{}, math.MaxInt, false
	for _, mk := range m.markers {
		col, row, ok := m.projectLocked(mk.Position)
		if !ok {
			continue
		}
		d := abs(col-cx) + abs(row-cy)
		if d > 1 {
			continue
		}
		if d < bestDist || (d == bestDist && mk.Kind == domain.MarkerProvider && best.Kind != domain.MarkerProvider) {
			best, bestDist, found = mk, d, true
		}
	}
	return best, found
}

// Update handles cursor and zoom keys. Other keys are ignored.
func (m *Map) Update(msg tea.Msg) (*Map, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "up", "k":
		m.MoveCursor(0, -1)
	case "down", "j":
		m.MoveCursor(0, 1)
	case "left", "h":
		m.MoveCursor(-1, 0)
	case "right", "l":
		m.MoveCursor(1, 0)
	case "+", "=":
		m.ZoomBy(1)
	case "-", "_":
		m.ZoomBy(-1)
	}
	return m, nil
}

// SetDimensions sets the grid size in cells. The legend is drawn below it.
func (m *Map) SetDimensions(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width < 10 {
		width = 10
	}
	if height < 4 {
		height = 4
	}
	m.width, m.height = width, height
	m.cursorX = clamp(m.cursorX, -width/2, width-1-width/2)
	m.cursorY = clamp(m.cursorY, -height/2, height-1-height/2)
}

// SetFocused toggles the crosshair.
func (m *Map) SetFocused(focused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = focused
}

// Focused reports whether the map shows its crosshair.
func (m *Map) Focused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// View renders the grid followed by a legend line.
func (m *Map) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	grid := make([][]rune, m.height)
	kinds := make([][]domain.MarkerKind, m.height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(string(glyphLand), m.width))
		kinds[r] = make([]domain.MarkerKind, m.width)
	}

	offscreen := 0
	for _, mk := range m.markers {
		col, row, ok := m.projectLocked(mk.Position)
		if !ok {
			offscreen++
			continue
		}
		// Later markers in the list do not hide the user or cursor pins.
		if grid[row][col] != glyphLand && kinds[row][col] != domain.MarkerProvider {
			continue
		}
		grid[row][col] = markerGlyphs[mk.Kind]
		kinds[row][col] = mk.Kind
	}

	cx, cy := m.width/2+m.cursorX, m.height/2+m.cursorY

	var b strings.Builder
	for r := range grid {
		var land strings.Builder
		flush := func() {
			if land.Len() > 0 {
				b.WriteString(m.styles.Land.Render(land.String()))
				land.Reset()
			}
		}
		for c, g := range grid[r] {
			switch {
			case m.focused && r == cy && c == cx && g == glyphLand:
				flush()
				b.WriteString(m.styles.Crosshair.Render(string(glyphCrosshair)))
			case g == glyphLand:
				land.WriteRune(g)
			default:
				flush()
				st := m.styles.Marker(kinds[r][c])
				if m.focused && r == cy && c == cx {
					st = st.Reverse(true)
				}
				b.WriteString(st.Render(string(g)))
			}
		}
		flush()
		b.WriteByte('\n')
	}
	b.WriteString(m.legendLocked(offscreen))
	return b.String()
}

// legendLocked describes the cursor position, zoom and hidden markers.
func (m *Map) legendLocked(offscreen int) string {
	parts := []string{m.pointAtLocked(m.cursorX, m.cursorY).String(), fmt.Sprintf("zoom %d", m.zoom)}
	if offscreen > 0 {
		parts = append(parts, fmt.Sprintf("%d off-screen", offscreen))
	}
	return m.styles.Muted.Render(strings.Join(parts, "  ·  "))
}

// cellDegreesLocked returns the longitude per column and latitude per row.
func (m *Map) cellDegreesLocked() (float64, float64) {
	col := degreesPerColumnAtZoom0 / math.Exp2(float64(m.zoom))
	row := 2 * col * math.Cos(m.center.Lat*math.Pi/180)
	return col, row
}

// projectLocked returns the grid cell for p. ok is false outside the viewport.
func (m *Map) projectLocked(p domain.Point) (int, int, bool) {
	colDeg, rowDeg := m.cellDegreesLocked()
	col := m.width/2 + int(math.Round((p.Lng-m.center.Lng)/colDeg))
	row := m.height/2 + int(math.Round((m.center.Lat-p.Lat)/rowDeg))
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		return col, row, false
	}
	return col, row, true
}

// pointAtLocked returns the coordinate of the cell dx, dy from the centre.
func (m *Map) pointAtLocked(dx, dy int) domain.Point {
	colDeg, rowDeg := m.cellDegreesLocked()
	return domain.Point{
		Lat: m.center.Lat - float64(dy)*rowDeg,
		Lng: m.center.Lng + float64(dx)*colDeg,
	}
}

func clampZoom(z int) int {
	return clamp(z, MinZoom, MaxZoom)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
