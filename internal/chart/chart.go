package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"StockLens/internal/model"
)

// Kind selects the chart variant.
type Kind string

const (
	Line   Kind = "line"
	Area   Kind = "area"
	Candle Kind = "candle"
)

// ErrUnknownKind is returned by ParseKind for anything but line, area or candle.
var ErrUnknownKind = errors.New("unknown chart kind")

// Kinds lists the supported variants in display order.
var Kinds = []Kind{Line, Area, Candle}

// ParseKind maps a form value to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Title is the chart heading for the kind.
func (k Kind) Title() string {
	switch k {
	case Line:
		return "Line Chart Interactive"
	case Area:
		return "Area Chart Interactive"
	case Candle:
		return "Candle Chart Interactive"
	}
	return ""
}

// ElementID is the id of the div the chart is drawn into.
const ElementID = "stocklens-chart"

const dateLayout = "2006-01-02"

// Marker colors for the signal traces.
const (
	SpikeColor = "red"
	HighColor  = "green"
	LowColor   = "blue"
)

type marker struct {
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
}

type trace struct {
	Type   string    `json:"type"`
	Name   string    `json:"name"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y,omitempty"`
	Open   []float64 `json:"open,omitempty"`
	High   []float64 `json:"high,omitempty"`
	Low    []float64 `json:"low,omitempty"`
	Close  []float64 `json:"close,omitempty"`
	Mode   string    `json:"mode,omitempty"`
	Fill   string    `json:"fill,omitempty"`
	Marker *marker   `json:"marker,omitempty"`
}

type layout struct {
	Title     string `json:"title"`
	HoverMode string `json:"hovermode"`
	XAxis     struct {
		Title           string `json:"title"`
		RangeSlider struct {
			Visible bool `json:"visible"`
		} `json:"rangeslider"`
	} `json:"xaxis"`
	YAxis struct {
		Title string `json:"title"`
	} `json:"yaxis"`
}

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []trace `json:"data"`
	Layout layout  `json:"layout"`
}

func dates(days []model.Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Date().Format(dateLayout)
	}
	return out
}

func closes(days []model.Day) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.Close
	}
	return out
}

func markerTrace(name, color string, size int, days []model.Day) trace {
	return trace{
		Type:   "scatter",
		Name:   name,
		X:      dates(days),
		Y:      closes(days),
		Mode:   "markers",
		Marker: &marker{Color: color, Size: size},
	}
}

// Build assembles the figure for kind: the price trace followed by
// spike, 6-month high and 6-month low markers.
func Build(kind Kind, a *model.Analysis) (*Figure, error) {
	if a == nil {
		return nil, errors.New("nil analysis")
	}

	var base trace
	markerSize := 0
	switch kind {
	case Line:
		base = trace{Type: "scatter", Name: "Close", X: dates(a.Days), Y: closes(a.Days), Mode: "lines"}
	case Area:
		base = trace{Type: "scatter", Name: "Close", X: dates(a.Days), Y: closes(a.Days), Mode: "lines", Fill: "tozeroy"}
	case Candle:
		base = trace{Type: "candlestick", Name: a.Symbol, X: dates(a.Days)}
		base.Open = make([]float64, len(a.Days))
		base.High = make([]float64, len(a.Days))
		base.Low = make([]float64, len(a.Days))
		base.Close = make([]float64, len(a.Days))
		for i, d := range a.Days {
			base.Open[i], base.High[i], base.Low[i], base.Close[i] = d.Open, d.High, d.Low, d.Close
		}
		markerSize = 8
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}

	fig := &Figure{Data: []trace{
		base,
		markerTrace("Spike", SpikeColor, markerSize, a.Spikes),
		markerTrace("6-month High", HighColor, markerSize, a.Highs),
		markerTrace("6-month Low", LowColor, markerSize, a.Lows),
	}}
	fig.Layout.Title = fmt.Sprintf("%s · %s", kind.Title(), a.Symbol)
	fig.Layout.HoverMode = "x"
	fig.Layout.XAxis.Title = "Date"
	fig.Layout.YAxis.Title = "Close"
	return fig, nil
}

// Render returns an embeddable HTML fragment drawing the chart with Plotly.
// The page must load plotly.js.
func Render(kind Kind, a *model.Analysis) (template.HTML, error) {
	fig, err := Build(kind, a)
	if err != nil {
		return "", err
	}
	// json.Marshal escapes <, > and &, so the payload is safe inside a script tag.
	payload, err := json.Marshal(fig)
	if err != nil {
		return "", fmt.Errorf("marshal figure: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="chart"></div>`, ElementID)
	b.WriteString("\n<script>\n")
	fmt.Fprintf(&b, "(function(){var fig=%s;Plotly.newPlot(%q,fig.data,fig.layout,{responsive:true});})();\n", payload, ElementID)
	b.WriteString("</script>")
	return template.HTML(b.String()), nil
}
