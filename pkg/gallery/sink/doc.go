// Package sink renders a computed gallery layout to output formats.
//
//   - [RenderHTML]: the responsive grid plus, when a navigator is active, the
//     lightbox overlay. Column counts come from CSS media queries at the
//     layout's breakpoints; cells reserve their aspect ratio.
//   - [RenderSVG]: a static masonry preview at the layout's viewport width.
//   - [RenderJSON]: the layout itself.
//   - [NavigatorDOT] and [RenderDOT]: the lightbox state machine as a
//     Graphviz diagram.
//
// An empty layout renders to no bytes in every format except JSON.
package sink
