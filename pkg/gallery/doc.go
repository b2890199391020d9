// Package gallery implements the masonry gallery viewer: a grid layout engine
// that flows images into responsive columns, and a lightbox navigator that
// tracks which image (if any) is shown full screen.
//
// # Overview
//
// The package consumes a plain ordered sequence of [ImageRecord] values and
// nothing more. It never decodes or fetches image bytes; the host (a browser,
// the terminal browser, the preview server) loads bytes when a renderer asks
// for them.
//
//   - [ComputeLayout] places records into 1, 2 or 3 columns depending on the
//     viewport width and the configured [Breakpoints].
//   - [Navigator] is a small state machine over the focused index, with
//     wraparound navigation and dismissal.
//
// # Layout
//
// Items fill columns top to bottom, left to right (column-major), with the
// break point between columns chosen so column heights balance. Items are
// atomic and never split across columns. When a record carries both width
// and height, its cell reserves exactly that aspect ratio; otherwise the cell
// has no fixed ratio and the layout uses an estimate that the host replaces
// once the image loads.
//
//	l := gallery.ComputeLayout(records, gallery.LayoutOptions{Viewport: 1280})
//	for _, c := range l.Cells {
//	    fmt.Println(c.Index, c.Column, c.Height)
//	}
//
// An empty sequence yields an empty [Layout]; renderers emit nothing for it.
//
// # Lightbox
//
// The navigator is either inactive (focused index -1) or active on a valid
// index. Next and Previous wrap around; Dismiss returns to inactive. All
// three are no-ops while inactive.
//
//	nav := gallery.NewNavigator(gallery.Images(records))
//	nav.Activate(2)
//	nav.Next()                  // wraps to 0 when len(records) == 3
//	fmt.Println(nav.Indicator()) // "1 / 3"
//	nav.Dismiss()
//
// The navigator holds a keyboard subscription only while active. Hosts pass
// a [KeySource] with [WithKeySource]; the navigator subscribes on activation
// and cancels on dismissal or [Navigator.Close].
//
// The navigator is not safe for concurrent use. Hosts that share one across
// goroutines must serialise access.
package gallery
