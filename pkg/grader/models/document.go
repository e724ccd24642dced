package models

// Document is the read-only view of one workbook. It is built once by a
// loader and never mutated afterwards, so it is safe for concurrent reads.
type Document struct {
	// Name is the workbook file name (no path).
	Name string `json:"name"`
	// Sheets holds sheets in workbook order.
	Sheets []*Sheet `json:"sheets"`
	// Active is the name of the active sheet.
	Active string `json:"active"`
	// Names maps defined names to ranges.
	Names map[string]NamedRange `json:"names,omitempty"`

	index map[string]*Sheet
}

// NewDocument assembles a Document. An empty active name selects the first sheet.
func NewDocument(name, active string, sheets []*Sheet, names map[string]NamedRange) *Document {
	d := &Document{
		Name:   name,
		Sheets: sheets,
		Active: active,
		Names:  names,
		index:  make(map[string]*Sheet, len(sheets)),
	}
	for _, s := range sheets {
		d.index[s.Name] = s
	}
	if d.Active == "" && len(sheets) > 0 {
		d.Active = sheets[0].Name
	}
	if d.Names == nil {
		d.Names = map[string]NamedRange{}
	}
	return d
}

func (d *Document) sheet(name string) (*Sheet, bool) {
	if name == "" {
		name = d.Active
	}
	if d.index == nil {
		for _, s := range d.Sheets {
			if s.Name == name {
				return s, true
			}
		}
		return nil, false
	}
	s, ok := d.index[name]
	return s, ok
}

// SheetNames returns sheet names in workbook order.
func (d *Document) SheetNames() []string {
	out := make([]string, 0, len(d.Sheets))
	for _, s := range d.Sheets {
		out = append(out, s.Name)
	}
	return out
}

// ActiveSheet returns the active sheet name.
func (d *Document) ActiveSheet() string { return d.Active }

// HasSheet reports whether the sheet exists. The empty name is the active sheet.
func (d *Document) HasSheet(name string) bool {
	_, ok := d.sheet(name)
	return ok
}

func (d *Document) cell(sheet, addr string) (Cell, *Sheet, bool) {
	s, ok := d.sheet(sheet)
	if !ok {
		return Cell{}, nil, false
	}
	name, ok := NormalizeCell(addr)
	if !ok {
		return Cell{}, nil, false
	}
	c, ok := s.Cells[name]
	if !ok {
		return Cell{Value: Empty(), Style: s.DefaultStyle}, s, true
	}
	return c, s, true
}

// Value returns the cached value of a cell. Blank cells of an existing sheet
// yield the empty value; a missing sheet or malformed address yields false.
func (d *Document) Value(sheet, addr string) (Value, bool) {
	c, _, ok := d.cell(sheet, addr)
	if !ok {
		return Value{}, false
	}
	if c.Value.Kind == "" {
		return Empty(), true
	}
	return c.Value, true
}

// Formula returns the normalised formula of a cell, false if it holds none.
func (d *Document) Formula(sheet, addr string) (string, bool) {
	c, _, ok := d.cell(sheet, addr)
	if !ok || c.Formula == "" {
		return "", false
	}
	return c.Formula, true
}

// Style returns the style of a cell.
func (d *Document) Style(sheet, addr string) (Style, bool) {
	c, _, ok := d.cell(sheet, addr)
	if !ok {
		return Style{}, false
	}
	return c.Style, true
}

// NamedRange looks up a defined name.
func (d *Document) NamedRange(name string) (NamedRange, bool) {
	nr, ok := d.Names[name]
	return nr, ok
}

// TableCount returns the number of tables on a sheet.
func (d *Document) TableCount(sheet string) (int, bool) {
	s, ok := d.sheet(sheet)
	if !ok {
		return 0, false
	}
	return s.Tables, true
}

// RowCount returns the last used row of a sheet.
func (d *Document) RowCount(sheet string) (int, bool) {
	s, ok := d.sheet(sheet)
	if !ok {
		return 0, false
	}
	return s.MaxRow, true
}

// PageLayout returns the page setup of a sheet.
func (d *Document) PageLayout(sheet string) (PageLayout, bool) {
	s, ok := d.sheet(sheet)
	if !ok {
		return PageLayout{}, false
	}
	return s.Layout, true
}

// HeaderFooter returns the header and footer of a sheet.
func (d *Document) HeaderFooter(sheet string) (HeaderFooter, bool) {
	s, ok := d.sheet(sheet)
	if !ok {
		return HeaderFooter{}, false
	}
	return s.HeaderFooter, true
}

// View returns the view options of a sheet.
func (d *Document) View(sheet string) (ViewOptions, bool) {
	s, ok := d.sheet(sheet)
	if !ok {
		return ViewOptions{}, false
	}
	return s.View, true
}

// FreezePane returns the frozen pane's top-left cell, false when nothing is frozen.
func (d *Document) FreezePane(sheet string) (string, bool) {
	s, ok := d.sheet(sheet)
	if !ok || s.FreezePane == "" {
		return "", false
	}
	return s.FreezePane, true
}

// RowHeight returns the height of a row in points.
func (d *Document) RowHeight(sheet string, row int) (float64, bool) {
	s, ok := d.sheet(sheet)
	if !ok || row < 1 {
		return 0, false
	}
	if h, ok := s.RowHeights[row]; ok {
		return h, true
	}
	return s.DefaultRowHeight, true
}

// ColumnWidth returns the width of a column.
func (d *Document) ColumnWidth(sheet string, col int) (float64, bool) {
	s, ok := d.sheet(sheet)
	if !ok || col < 1 {
		return 0, false
	}
	if w, ok := s.ColWidths[col]; ok {
		return w, true
	}
	return s.DefaultColWidth, true
}
