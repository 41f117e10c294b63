package legend

import (
	"encoding/json"
	"html/template"
	"strings"
)

// Document is the legend description served by ESRI MapServer legend
// endpoints: base64 swatches plus labels, nested under layers.
type Document struct {
	Layers []DocumentLayer `json:"layers"`
}

// DocumentLayer holds the legend rows for one published sublayer.
type DocumentLayer struct {
	Legend []Item `json:"legend"`
}

// Item is one categorical legend row.
type Item struct {
	Label       string `json:"label"`
	ImageData   string `json:"imageData"`
	ContentType string `json:"contentType"`
}

// ParseDocument decodes a legend document. Missing keys decode to empty
// slices, which render as a title-only fragment downstream.
func ParseDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

var categoricalTmpl = template.Must(template.New("categorical").Parse(`<b>{{.Title}}</b><br>
{{- range .Rows}}
<div style="display:flex;align-items:center;margin:2px 0;">
<img src="{{.Src}}" style="width:20px;height:20px;margin-right:5px;"/>
<span style="font-size:12px;">{{.Label}}</span>
</div>
{{- end}}`))

var imageTmpl = template.Must(template.New("image").Parse(
	`<b style="font-size:11px;">{{.Title}}</b><br><img src="{{.Src}}" style="max-width:100%;height:auto;"/>`))

var gradientTmpl = template.Must(template.New("gradient").Parse(`<b>{{.Title}}</b><br>
<div style="display:flex;height:12px;margin:4px 0;">
{{- range .Colors}}<span style="flex:1;background:{{.}};"></span>{{- end}}
</div>
<div style="display:flex;justify-content:space-between;font-size:11px;">
<span>{{.Min}}</span><span>{{.Max}}</span>
</div>`))

type categoricalRow struct {
	Src   template.URL
	Label string
}

// BuildCategorical renders swatch+label rows for the first layer of a
// legend document, in input order. An empty document produces a title-only
// fragment rather than an error.
func BuildCategorical(title string, doc Document) string {
	var rows []categoricalRow
	if len(doc.Layers) > 0 {
		for _, item := range doc.Layers[0].Legend {
			ct := item.ContentType
			if ct == "" {
				ct = "image/png"
			}
			rows = append(rows, categoricalRow{
				Src:   template.URL("data:" + ct + ";base64," + item.ImageData),
				Label: item.Label,
			})
		}
	}

	var b strings.Builder
	if err := categoricalTmpl.Execute(&b, struct {
		Title string
		Rows  []categoricalRow
	}{title, rows}); err != nil {
		return ""
	}
	return b.String()
}

// BuildImage renders an externally hosted legend image. GIBS publishes both
// raster and vector variants of each legend; the SVG scales better in the
// panel, so .png URLs are rewritten.
func BuildImage(title, url string) string {
	url = strings.ReplaceAll(url, ".png", ".svg")

	var b strings.Builder
	if err := imageTmpl.Execute(&b, struct {
		Title string
		Src   template.URL
	}{title, template.URL(url)}); err != nil {
		return ""
	}
	return b.String()
}

// BuildGradient renders a sampled ramp as a horizontal colorbar with the
// data range labelled at the ends.
func BuildGradient(title string, r Ramp, n int) string {
	var b strings.Builder
	if err := gradientTmpl.Execute(&b, struct {
		Title    string
		Colors   []string
		Min, Max float64
	}{title, r.Sample(n), r.Vmin, r.Vmax}); err != nil {
		return ""
	}
	return b.String()
}
