// Package report renders the weekly summary from the analysis result
// document, as plain text and HTML email alternatives.
package report

import (
	"bytes"
	"fmt"
	html "html/template"
	"strings"
	text "text/template"
	"time"

	"github.com/knhuang/robotaxi-safety-tracker/core/analysis"
)

// FleetStatus is the latest observed fleet composition, shown when the
// snapshot file carries it.
type FleetStatus struct {
	Austin  int
	BayArea int
}

// PreviousRun is the prior run's headline numbers, for week-over-week
// movement. Zero value means no history exists yet.
type PreviousRun struct {
	CumulativeMPI float64
	IncidentCount int
}

// Input bundles everything the renderer reads.
type Input struct {
	Doc      *analysis.Document
	Fleet    *FleetStatus
	Previous *PreviousRun
	// TrackerURL links the live dashboard; optional.
	TrackerURL string
	Now        time.Time
}

// Summary is the rendered output.
type Summary struct {
	Subject string
	Text    string
	HTML    string
}

// view is the template context. Every numeric field is pre-formatted so
// both templates render identical values.
type view struct {
	Date           string
	LatestMPI      string
	CumulativeMPI  string
	TotalIncidents string
	TotalMiles     string
	DoublingTime   string
	RSquared       string
	BestModel      string
	Trend          string
	TrendColor     string
	FleetLine      string
	WeekDelta      string
	Stoppages      []string
	TrackerURL     string
	HasData        bool
}

// Build renders the weekly summary. A nil or empty document still
// renders, with every metric shown as N/A: partial output is the rule
// across the pipeline.
func Build(in Input) (Summary, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	v := buildView(in, now)

	var textBuf, htmlBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, v); err != nil {
		return Summary{}, fmt.Errorf("render text: %w", err)
	}
	if err := htmlTmpl.Execute(&htmlBuf, v); err != nil {
		return Summary{}, fmt.Errorf("render html: %w", err)
	}
	return Summary{
		Subject: fmt.Sprintf("Robotaxi Safety Update - %s", now.Format("Jan 02, 2006")),
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

func buildView(in Input, now time.Time) view {
	v := view{
		Date:           now.Format("January 02, 2006"),
		LatestMPI:      "N/A",
		CumulativeMPI:  "N/A",
		TotalIncidents: "N/A",
		TotalMiles:     "N/A",
		DoublingTime:   "N/A",
		RSquared:       "N/A",
		BestModel:      "N/A",
		Trend:          "N/A",
		TrendColor:     "#f59e0b",
		TrackerURL:     in.TrackerURL,
	}
	doc := in.Doc
	if doc == nil || len(doc.Incidents) == 0 {
		return v
	}
	v.HasData = true
	v.LatestMPI = commas(doc.Summary.LatestIntervalMPI)
	v.CumulativeMPI = commas(int(doc.Summary.CumulativeMPI))
	v.TotalIncidents = fmt.Sprintf("%d", doc.Summary.IncidentCount)
	v.TotalMiles = commas(doc.Summary.TotalMiles)

	if ta := doc.TrendAnalysis; ta != nil && ta.BestFit != nil {
		v.BestModel = ta.BestModel
		if ta.BestFit.RSquared != nil {
			v.RSquared = fmt.Sprintf("%.3f", *ta.BestFit.RSquared)
		}
		v.Trend = ta.BestFit.CurrentTrend
		switch v.Trend {
		case "improving":
			v.TrendColor = "#22c55e"
		case "worsening":
			v.TrendColor = "#ef4444"
		}
		if exp, ok := ta.AllModels["exponential"]; ok && exp.DoublingTimeDays != nil {
			v.DoublingTime = fmt.Sprintf("%.0f", *exp.DoublingTimeDays)
		}
	}

	if in.Fleet != nil {
		total := in.Fleet.Austin + in.Fleet.BayArea
		v.FleetLine = fmt.Sprintf("%d Austin (autonomous) + %d Bay Area (w/ safety driver) = %d total",
			in.Fleet.Austin, in.Fleet.BayArea, total)
	}
	if in.Previous != nil && in.Previous.CumulativeMPI > 0 {
		delta := doc.Summary.CumulativeMPI - in.Previous.CumulativeMPI
		word := "up"
		if delta < 0 {
			word, delta = "down", -delta
		}
		v.WeekDelta = fmt.Sprintf("Cumulative MPI is %s %s vs. the previous run.", word, commas(int(delta)))
	}
	for _, s := range doc.ServiceStoppages {
		v.Stoppages = append(v.Stoppages, s.Reason)
	}
	return v
}

// commas formats an integer with thousands separators.
func commas(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

var textTmpl = text.Must(text.New("text").Parse(`Robotaxi Safety Tracker - Weekly Update ({{.Date}})
=======================================================

{{if .HasData -}}
Latest Interval:    {{.LatestMPI}} miles/incident
Cumulative MPI:     {{.CumulativeMPI}} miles/incident
Total Incidents:    {{.TotalIncidents}}
Total Miles Driven: {{.TotalMiles}}
Safety Doubling:    ~{{.DoublingTime}} days
Current Trend:      {{.Trend}}
Best Model:         {{.BestModel}} (R^2 = {{.RSquared}})
{{if .FleetLine}}
Fleet: {{.FleetLine}}
{{end -}}
{{if .WeekDelta}}
{{.WeekDelta}}
{{end -}}
{{range .Stoppages}}
Service Note: {{.}}
{{end -}}
{{else -}}
Analysis data not available. Visit the dashboard for the latest.
{{end}}
{{- if .TrackerURL}}
View the live dashboard: {{.TrackerURL}}
{{end}}
Data sourced from NHTSA SGO reports.

---
Unsubscribe: Reply to this email with "Unsubscribe" in the subject.
`))

var htmlTmpl = html.Must(html.New("html").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"></head>
<body style="margin:0; padding:0; background:#0a0a0a; font-family:'Helvetica Neue',Arial,sans-serif;">
  <div style="max-width:600px; margin:0 auto; padding:32px 20px;">
    <div style="text-align:center; margin-bottom:32px;">
      <h1 style="color:#3b82f6; font-size:22px; margin:0 0 4px;">Robotaxi Safety Tracker</h1>
      <p style="color:#71717a; font-size:13px; margin:0;">Weekly Update &mdash; {{.Date}}</p>
    </div>
{{if .HasData}}
    <div style="background:#161616; border:1px solid #27272a; border-radius:12px; padding:24px; margin-bottom:24px;">
      <table style="width:100%; border-collapse:collapse;">
        <tr>
          <td style="padding:12px 8px;">
            <span style="color:#a1a1aa; font-size:11px; text-transform:uppercase;">Latest Interval</span><br>
            <span style="color:#3b82f6; font-size:24px; font-weight:700;">{{.LatestMPI}}</span>
            <span style="color:#71717a; font-size:13px;"> mi/incident</span>
          </td>
          <td style="padding:12px 8px; text-align:right;">
            <span style="color:#a1a1aa; font-size:11px; text-transform:uppercase;">Cumulative MPI</span><br>
            <span style="color:#8b5cf6; font-size:24px; font-weight:700;">{{.CumulativeMPI}}</span>
            <span style="color:#71717a; font-size:13px;"> mi/incident</span>
          </td>
        </tr>
        <tr>
          <td style="padding:12px 8px;">
            <span style="color:#a1a1aa; font-size:11px; text-transform:uppercase;">Total Incidents</span><br>
            <span style="color:#ffffff; font-size:24px; font-weight:700;">{{.TotalIncidents}}</span>
          </td>
          <td style="padding:12px 8px; text-align:right;">
            <span style="color:#a1a1aa; font-size:11px; text-transform:uppercase;">Total Miles Driven</span><br>
            <span style="color:#ffffff; font-size:24px; font-weight:700;">{{.TotalMiles}}</span>
          </td>
        </tr>
        <tr>
          <td style="padding:12px 8px;">
            <span style="color:#a1a1aa; font-size:11px; text-transform:uppercase;">Safety Doubling Time</span><br>
            <span style="color:#22c55e; font-size:20px; font-weight:600;">{{.DoublingTime}}</span>
            <span style="color:#71717a; font-size:13px;"> days</span>
          </td>
          <td style="padding:12px 8px; text-align:right;">
            <span style="color:#a1a1aa; font-size:11px; text-transform:uppercase;">Current Trend</span><br>
            <span style="color:{{.TrendColor}}; font-size:20px; font-weight:600;">{{.Trend}}</span>
          </td>
        </tr>
      </table>
    </div>
{{if .FleetLine}}
    <div style="background:#161616; border:1px solid #27272a; border-radius:12px; padding:20px; margin-bottom:24px;">
      <h3 style="color:#ffffff; font-size:14px; margin:0 0 10px;">Fleet Status</h3>
      <p style="color:#a1a1aa; font-size:14px; margin:0;">{{.FleetLine}}</p>
    </div>
{{end}}
{{if .WeekDelta}}
    <div style="background:#161616; border:1px solid #27272a; border-radius:12px; padding:20px; margin-bottom:24px;">
      <p style="color:#a1a1aa; font-size:14px; margin:0;">{{.WeekDelta}}</p>
    </div>
{{end}}
{{range .Stoppages}}
    <div style="background:#1c1917; border:1px solid #44403c; border-radius:8px; padding:14px 16px; margin-bottom:24px;">
      <p style="color:#a8a29e; font-size:13px; margin:0;">
        <strong style="color:#fbbf24;">Service Note:</strong> {{.}}.
        These dates are excluded from mileage calculations.
      </p>
    </div>
{{end}}
{{else}}
    <div style="background:#161616; border:1px solid #27272a; border-radius:12px; padding:20px; margin-bottom:24px;">
      <p style="color:#a1a1aa; font-size:14px; margin:0;">Analysis data is not yet available.</p>
    </div>
{{end}}
{{if .TrackerURL}}
    <div style="text-align:center; margin-bottom:32px;">
      <a href="{{.TrackerURL}}" style="display:inline-block; padding:12px 28px; background:#3b82f6; color:#ffffff; text-decoration:none; border-radius:8px; font-weight:600; font-size:14px;">View Live Dashboard</a>
    </div>
{{end}}
    <div style="text-align:center; border-top:1px solid #27272a; padding-top:20px;">
      <p style="color:#52525b; font-size:11px; margin:0 0 8px;">Data sourced from NHTSA SGO reports.</p>
      <p style="color:#71717a; font-size:12px; margin:0;">You received this because you subscribed to safety tracker updates.</p>
    </div>
  </div>
</body>
</html>
`))
