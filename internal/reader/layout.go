package reader

// Layout holds the dimensions of the post view.
type Layout struct {
	BodyWidth    int
	OutlineWidth int
	Height       int
	StatusHeight int
}

// ComputeLayout splits the window between the post body and the outline
// column. The outline is dropped when the window is too narrow for both.
func ComputeLayout(totalWidth, totalHeight int, showOutline bool, outlineWidth int) Layout {
	// Some terminals report 0 or negative sizes mid-resize.
	if totalWidth < 1 {
		totalWidth = 1
	}
	if totalHeight < 2 { // content + status
		totalHeight = 2
	}

	l := Layout{
		StatusHeight: 1,
		Height:       totalHeight - 1,
		BodyWidth:    totalWidth,
	}

	if showOutline && totalWidth >= minOutlineWindow {
		l.OutlineWidth = outlineWidth
		if l.OutlineWidth > totalWidth/3 {
			l.OutlineWidth = totalWidth / 3
		}
		l.BodyWidth = totalWidth - l.OutlineWidth
	}

	if l.BodyWidth < 1 {
		l.BodyWidth = 1
	}
	return l
}

const (
	minOutlineWindow = 80
	outlineWidth     = 28
)
