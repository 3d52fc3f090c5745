package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/thurmanmarka/astrowheel"
	"github.com/thurmanmarka/astrowheel/internal/zodiac"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat accepts the names above, case-sensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatTSV, FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("render: unknown format %q", s)
}

var tableHeader = []string{
	"body", "sign", "degree", "nakshatra", "pada", "house", "longitude", "tropical", "latitude", "speed", "retrograde",
}

// WriteTable writes one row per placement, comma separated for FormatCSV and
// tab separated for FormatTSV. Names use the chart's label script.
func WriteTable(w io.Writer, c astrowheel.Chart, f Format) error {
	cw := csv.NewWriter(w)
	switch f {
	case FormatCSV:
	case FormatTSV:
		cw.Comma = '\t'
	default:
		return fmt.Errorf("render: %q is not a table format", f)
	}

	script := c.Config.LabelScript
	if err := cw.Write(tableHeader); err != nil {
		return err
	}
	for _, p := range c.Placements {
		house := ""
		if p.House > 0 {
			house = strconv.Itoa(p.House)
		}
		rec := []string{
			p.Body.String(),
			p.SignName(script),
			zodiac.FormatDM(zodiac.SignOf(p.Longitude)),
			p.NakshatraName(script),
			strconv.Itoa(p.Pada),
			house,
			strconv.FormatFloat(p.Longitude, 'f', 6, 64),
			strconv.FormatFloat(p.Tropical, 'f', 6, 64),
			strconv.FormatFloat(p.Latitude, 'f', 6, 64),
			strconv.FormatFloat(p.Speed, 'f', 6, 64),
			strconv.FormatBool(p.Retrograde),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write encodes c in format f. size applies to the SVG and PNG wheels.
func Write(w io.Writer, c astrowheel.Chart, f Format, size float64) error {
	switch f {
	case FormatCSV, FormatTSV:
		return WriteTable(w, c, f)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatSVG:
		_, err := w.Write(RenderSVG(Build(c, size), WithTitle()))
		return err
	case FormatPNG:
		b, err := RenderPNG(Build(c, size))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("render: unknown format %q", f)
	}
}
