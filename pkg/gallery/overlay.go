package gallery

// Overlay is what the full-screen lightbox shows for the focused image.
type Overlay struct {
	Index     int
	Total     int
	Indicator string
	Image     ImageRecord
	Alt       string
	Caption   string
}

// Overlay returns the lightbox view for the focused image, or false while
// inactive.
func (n *Navigator) Overlay() (Overlay, bool) {
	img, ok := n.Current()
	if !ok {
		return Overlay{}, false
	}
	i := n.Focused()
	return Overlay{
		Index:     i,
		Total:     n.len(),
		Indicator: n.Indicator(),
		Image:     img,
		Alt:       img.Alt(i),
		Caption:   img.Title,
	}, true
}
