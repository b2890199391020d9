package gallery

// Default layout values. The breakpoints match the small and medium
// breakpoints of the site's stylesheet.
const (
	DefaultSmallBreakpoint  = 640.0
	DefaultMediumBreakpoint = 768.0
	DefaultGutter           = 20.0
	DefaultViewport         = 1024.0

	// DefaultFallbackRatio estimates cells without known dimensions (3:2)
	// until the host measures the loaded image.
	DefaultFallbackRatio = 3.0 / 2.0

	// MaxColumns is the column count at or above the medium breakpoint.
	MaxColumns = 3
)

// balanceIterations bounds the binary search for the balanced column height.
const balanceIterations = 64

const epsilon = 1e-6

// Breakpoints are the viewport widths at which the grid switches from one to
// two columns (Small) and from two to three (Medium).
type Breakpoints struct {
	Small  float64 `json:"small" toml:"small"`
	Medium float64 `json:"medium" toml:"medium"`
}

// DefaultBreakpoints returns the site's standard breakpoints.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{Small: DefaultSmallBreakpoint, Medium: DefaultMediumBreakpoint}
}

// Columns returns the number of columns for a viewport width: 1 below Small,
// 2 below Medium, 3 otherwise.
func (b Breakpoints) Columns(viewport float64) int {
	switch {
	case viewport < b.Small:
		return 1
	case viewport < b.Medium:
		return 2
	default:
		return MaxColumns
	}
}

// Valid reports whether the breakpoints are positive and ordered.
func (b Breakpoints) Valid() bool {
	return b.Small > 0 && b.Medium >= b.Small
}

// LayoutOptions configures [ComputeLayout]. Zero fields take defaults.
type LayoutOptions struct {
	Viewport      float64
	Breakpoints   Breakpoints
	Gutter        float64
	FallbackRatio float64

	// Eager disables lazy loading hints. It never changes positions.
	Eager bool
}

func (o *LayoutOptions) setDefaults() {
	if o.Viewport <= 0 {
		o.Viewport = DefaultViewport
	}
	if !o.Breakpoints.Valid() {
		o.Breakpoints = DefaultBreakpoints()
	}
	if o.Gutter < 0 {
		o.Gutter = 0
	} else if o.Gutter == 0 {
		o.Gutter = DefaultGutter
	}
	if o.FallbackRatio <= 0 {
		o.FallbackRatio = DefaultFallbackRatio
	}
}

// Cell is the placed box of one record. Index refers to the record's
// position in the input sequence.
type Cell struct {
	Index  int     `json:"index"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Ratio is the reserved width/height ratio, or 0 when the cell is
	// unconstrained and Height is only an estimate.
	Ratio float64 `json:"ratio,omitempty"`
	Lazy  bool    `json:"lazy"`
}

// Fixed reports whether the cell reserves a known aspect ratio.
func (c Cell) Fixed() bool { return c.Ratio > 0 }

// Layout is the computed masonry arrangement. Cells are in input order.
type Layout struct {
	Viewport      float64   `json:"viewport"`
	Columns       int       `json:"columns"`
	ColumnWidth   float64   `json:"column_width"`
	Gutter        float64   `json:"gutter"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	ColumnHeights []float64 `json:"column_heights,omitempty"`
	Cells         []Cell    `json:"cells"`
}

// Empty reports whether the layout has no cells.
func (l Layout) Empty() bool { return len(l.Cells) == 0 }

// Column returns the cells of column c from top to bottom.
func (l Layout) Column(c int) []Cell {
	var out []Cell
	for _, cell := range l.Cells {
		if cell.Column == c {
			out = append(out, cell)
		}
	}
	return out
}

// ComputeLayout arranges records into balanced columns. It reads records only
// and returns an empty Layout when there are none.
func ComputeLayout(records []ImageRecord, opts LayoutOptions) Layout {
	opts.setDefaults()
	if len(records) == 0 {
		return Layout{Viewport: opts.Viewport, Gutter: opts.Gutter}
	}

	cols := opts.Breakpoints.Columns(opts.Viewport)
	colWidth := (opts.Viewport - opts.Gutter*float64(cols-1)) / float64(cols)
	if colWidth < 0 {
		colWidth = 0
	}

	heights := make([]float64, len(records))
	ratios := make([]float64, len(records))
	for i, r := range records {
		ratio, ok := r.AspectRatio()
		if ok {
			ratios[i] = ratio
		} else {
			ratio = opts.FallbackRatio
		}
		heights[i] = colWidth / ratio
	}

	limit := balancedHeight(heights, cols, opts.Gutter)

	l := Layout{
		Viewport:      opts.Viewport,
		Columns:       cols,
		ColumnWidth:   colWidth,
		Gutter:        opts.Gutter,
		Width:         opts.Viewport,
		ColumnHeights: make([]float64, cols),
		Cells:         make([]Cell, len(records)),
	}

	col, y := 0, 0.0
	for i, h := range heights {
		if y > 0 && y+h > limit+epsilon && col < cols-1 {
			col++
			y = 0
		}
		l.Cells[i] = Cell{
			Index:  i,
			Column: col,
			X:      float64(col) * (colWidth + opts.Gutter),
			Y:      y,
			Width:  colWidth,
			Height: h,
			Ratio:  ratios[i],
			Lazy:   !opts.Eager,
		}
		l.ColumnHeights[col] = y + h
		y += h + opts.Gutter
	}

	for _, h := range l.ColumnHeights {
		if h > l.Height {
			l.Height = h
		}
	}
	return l
}

// balancedHeight finds the smallest column height that lets the items,
// taken in order, fit into cols columns.
func balancedHeight(heights []float64, cols int, gutter float64) float64 {
	lo, hi := 0.0, 0.0
	for _, h := range heights {
		if h > lo {
			lo = h
		}
		hi += h
	}
	hi += gutter * float64(len(heights)-1)
	if cols <= 1 {
		return hi
	}

	for i := 0; i < balanceIterations && hi-lo > epsilon; i++ {
		mid := (lo + hi) / 2
		if columnsNeeded(heights, mid, gutter) <= cols {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

func columnsNeeded(heights []float64, limit, gutter float64) int {
	n, y := 1, 0.0
	for _, h := range heights {
		if y > 0 && y+h > limit+epsilon {
			n++
			y = 0
		}
		y += h + gutter
	}
	return n
}
