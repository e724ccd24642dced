package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"unicode"

	"github.com/cotten321/Excel-Grader/pkg/grader/models"
)

// SheetParts holds worksheet attributes read straight from the OOXML parts.
type SheetParts struct {
	// HeaderFooter is the odd-page header and footer split into sections.
	HeaderFooter models.HeaderFooter
	// Tables is the number of table parts attached to the sheet.
	Tables int
	// FreezePane is the top-left cell of the scrolling pane, empty unless frozen.
	FreezePane string
}

// ExtractSheetParts reads header/footer, table parts and frozen panes for
// every worksheet of an xlsx file.
func ExtractSheetParts(xlsxPath string) (map[string]SheetParts, error) {
	zr, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	paths, err := worksheetPaths(&zr.Reader)
	if err != nil {
		return nil, err
	}

	parts := make(map[string]SheetParts, len(paths))
	for name, path := range paths {
		data, err := readZipFile(&zr.Reader, path)
		if err != nil || data == nil {
			// Chart sheets and broken parts get zero values.
			parts[name] = SheetParts{}
			continue
		}
		parts[name] = parseWorksheetXML(data)
	}
	return parts, nil
}

// worksheetPaths maps sheet names to their worksheet part paths.
func worksheetPaths(r *zip.Reader) (map[string]string, error) {
	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil {
		return nil, err
	}
	byRel := parseWorkbookSheets(workbookXML)
	if len(byRel) == 0 {
		return map[string]string{}, nil
	}

	relsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil, err
	}
	return parseWorkbookRels(relsXML, byRel), nil
}

// parseWorksheetXML scans a worksheet part for the elements graders inspect.
func parseWorksheetXML(data []byte) SheetParts {
	var parts SheetParts
	paneSeen := false

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch se.Name.Local {
		case "pane":
			// Only the first sheet view counts.
			if paneSeen {
				continue
			}
			paneSeen = true
			parts.FreezePane = frozenTopLeft(se)
		case "oddHeader":
			text, _ := readElementText(decoder)
			parts.HeaderFooter.Header = SplitSections(text)
		case "oddFooter":
			text, _ := readElementText(decoder)
			parts.HeaderFooter.Footer = SplitSections(text)
		case "tablePart":
			parts.Tables++
		}
	}

	return parts
}

// frozenTopLeft returns the top-left cell of a frozen pane element.
func frozenTopLeft(se xml.StartElement) string {
	var state, topLeft string
	var xSplit, ySplit float64
	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "state":
			state = attr.Value
		case "topLeftCell":
			topLeft = attr.Value
		case "xSplit":
			xSplit, _ = strconv.ParseFloat(attr.Value, 64)
		case "ySplit":
			ySplit, _ = strconv.ParseFloat(attr.Value, 64)
		}
	}
	if state != "frozen" && state != "frozenSplit" {
		return ""
	}
	if topLeft != "" {
		if name, ok := models.NormalizeCell(topLeft); ok {
			return name
		}
	}
	return models.CellName(int(xSplit)+1, int(ySplit)+1)
}

// SplitSections splits header/footer text into its left, center and right
// parts. "&L", "&C" and "&R" switch sections; text before any of them
// belongs to the center; "&&" is a literal ampersand. Font ("&\"Arial,Bold\""),
// size ("&12") and colour ("&KFF0000") codes are dropped. Other codes such as
// "&D" or "&P" are kept verbatim.
func SplitSections(text string) models.Sections {
	var left, center, right strings.Builder
	cur := &center

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '&' || i+1 >= len(runes) {
			cur.WriteRune(runes[i])
			continue
		}
		switch runes[i+1] {
		case 'L':
			cur = &left
		case 'C':
			cur = &center
		case 'R':
			cur = &right
		case '&':
			cur.WriteRune('&')
		case '"':
			// &"Font,Style"
			i += 2
			for i < len(runes) && runes[i] != '"' {
				i++
			}
			continue
		case 'K':
			// &Krrggbb colour
			i = min(i+1+6, len(runes)-1)
			continue
		default:
			if unicode.IsDigit(runes[i+1]) {
				// &12 font size
				i++
				for i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
					i++
				}
				continue
			}
			cur.WriteRune('&')
			cur.WriteRune(runes[i+1])
		}
		i++
	}

	return models.Sections{
		Left:   left.String(),
		Center: center.String(),
		Right:  right.String(),
	}
}

// readZipFile returns the content of a part, or nil when it does not exist.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	rc, err := r.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// resolvePartPath resolves a relationship target relative to xl/.
func resolvePartPath(target string) string {
	if rest, ok := strings.CutPrefix(target, "/"); ok {
		return rest
	}
	for strings.HasPrefix(target, "../") {
		target = target[len("../"):]
	}
	return "xl/" + target
}

// eachElement calls fn with the attributes of every element named local.
func eachElement(data []byte, local string, fn func(attrs map[string]string)) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != local {
			continue
		}
		attrs := make(map[string]string, len(se.Attr))
		for _, a := range se.Attr {
			attrs[a.Name.Local] = a.Value
		}
		fn(attrs)
	}
}

// parseWorkbookSheets maps relationship IDs to sheet names.
func parseWorkbookSheets(data []byte) map[string]string {
	byRel := make(map[string]string)
	eachElement(data, "sheet", func(attrs map[string]string) {
		if attrs["name"] != "" && attrs["id"] != "" {
			byRel[attrs["id"]] = attrs["name"]
		}
	})
	return byRel
}

// parseWorkbookRels maps sheet names to their worksheet part paths.
func parseWorkbookRels(data []byte, byRel map[string]string) map[string]string {
	paths := make(map[string]string)
	eachElement(data, "Relationship", func(attrs map[string]string) {
		name, ok := byRel[attrs["Id"]]
		if ok && strings.Contains(strings.ToLower(attrs["Target"]), "worksheet") {
			paths[name] = resolvePartPath(attrs["Target"])
		}
	})
	return paths
}
