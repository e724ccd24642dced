package models

// Margins are page margins in inches.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// PageLayout represents the print setup of a sheet.
type PageLayout struct {
	// Orientation is "portrait" or "landscape".
	Orientation string `json:"orientation"`
	// FitToWidth is the fit-to page count across (0 when unset).
	FitToWidth int `json:"fit_to_width"`
	// FitToHeight is the fit-to page count down (0 when unset).
	FitToHeight int `json:"fit_to_height"`
	// Margins are the page margins.
	Margins Margins `json:"margins"`
}

// Sections holds the three parts of a header or footer.
type Sections struct {
	Left   string `json:"left,omitempty"`
	Center string `json:"center,omitempty"`
	Right  string `json:"right,omitempty"`
}

// Section returns the named section ("left", "center", "right").
func (s Sections) Section(name string) (string, bool) {
	switch name {
	case "left":
		return s.Left, true
	case "center", "centre":
		return s.Center, true
	case "right":
		return s.Right, true
	}
	return "", false
}

// HeaderFooter holds the odd-page header and footer of a sheet.
type HeaderFooter struct {
	Header Sections `json:"header"`
	Footer Sections `json:"footer"`
}

// ViewOptions holds sheet view flags.
type ViewOptions struct {
	// GridLines is true when grid lines are shown.
	GridLines bool `json:"grid_lines"`
	// Headings is true when row and column headings are shown.
	Headings bool `json:"headings"`
}
