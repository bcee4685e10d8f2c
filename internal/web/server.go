package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// User-facing messages.
const (
	MsgInvalidTicker    = "Invalid ticker. Please try again."
	MsgInvalidChartType = "Invalid chart type. Please try again."
)

// Analyzer produces the analysis for a symbol.
type Analyzer interface {
	Collect(ctx context.Context, symbol string) (*model.Analysis, error)
}

// HealthSource reports the latest data source probe.
type HealthSource interface {
	LastProbe() (model.ProbeStatus, bool)
}

// Server serves the ticker form, the chart page and a health endpoint.
type Server struct {
	Analyzer Analyzer
	Health   HealthSource
	tmpl     *template.Template
}

// NewServer parses the embedded templates. health may be nil.
func NewServer(analyzer Analyzer, health HealthSource) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"price": formatPrice,
		"pct":   formatPercent,
		"date":  func(d model.Day) string { return d.Date().Format("2006-01-02") },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{Analyzer: analyzer, Health: health, tmpl: tmpl}, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleSubmit)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func formatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatPercent(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

type indexPage struct {
	Error     string
	Ticker    string
	ChartType string
	Kinds     []chart.Kind
}

type chartPage struct {
	Analysis *model.Analysis
	Kind     chart.Kind
	Title    string
	Chart    template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderIndex(w, http.StatusOK, indexPage{ChartType: string(chart.Line)})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, indexPage{Error: MsgInvalidTicker})
		return
	}
	page := indexPage{
		Ticker:    r.PostFormValue("ticker"),
		ChartType: r.PostFormValue("chart_type"),
	}

	kind, err := chart.ParseKind(page.ChartType)
	if err != nil {
		page.Error = MsgInvalidChartType
		s.renderIndex(w, http.StatusBadRequest, page)
		return
	}

	analysis, err := s.Analyzer.Collect(r.Context(), page.Ticker)
	if err != nil {
		page.Error = MsgInvalidTicker
		switch {
		case errors.Is(err, collector.ErrInvalidSymbol):
			s.renderIndex(w, http.StatusBadRequest, page)
		case errors.Is(err, collector.ErrNoData):
			log.Printf("[INFO] %v", err)
			s.renderIndex(w, http.StatusNotFound, page)
		default:
			log.Printf("[ERROR] collect %q: %v", page.Ticker, err)
			s.renderIndex(w, http.StatusBadGateway, page)
		}
		return
	}

	fragment, err := chart.Render(kind, analysis)
	if err != nil {
		log.Printf("[ERROR] render %s chart for %s: %v", kind, analysis.Symbol, err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusOK, "chart.html", chartPage{
		Analysis: analysis,
		Kind:     kind,
		Title:    kind.Title(),
		Chart:    fragment,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := struct {
		Status string             `json:"status"`
		Probe  *model.ProbeStatus `json:"probe,omitempty"`
	}{Status: "ok"}
	code := http.StatusOK

	if s.Health != nil {
		if probe, ok := s.Health.LastProbe(); ok {
			resp.Probe = &probe
			if !probe.OK {
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[WARN] write health response: %v", err)
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, code int, page indexPage) {
	page.Kinds = chart.Kinds
	s.render(w, code, "index.html", page)
}

func (s *Server) render(w http.ResponseWriter, code int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[ERROR] execute template %s: %v", name, err)
	}
}
