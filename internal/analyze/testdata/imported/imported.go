package imported

import "selfref-generator/internal/analyze/testdata/widgetlib"

//selfref:generate Assembly
type assemblySchema struct {
	Part  *widget.Part
	Parts []*widget.Part `borrows:"Part"`
}
