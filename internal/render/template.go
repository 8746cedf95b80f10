package render

import (
	"bytes"
	"fmt"
	"html/template"
)

// The page document uses only inline styles and system fonts: nothing is
// fetched over the network, which keeps render time bounded and lets the
// renderer block all resource loading outright.
const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; padding: 0; }
  .page {
    position: relative;
    width: {{.Width}}px;
    height: {{.Height}}px;
    box-sizing: border-box;
    padding: {{.Margin}}px;
    background-color: {{.Background}};
    display: flex;
    align-items: center;
    justify-content: center;
    overflow: hidden;
  }
  .content {
    color: {{.TextColor}};
    font-family: {{.FontFamily}};
    font-size: {{.FontSize}}px;
    line-height: 1.5;
    text-align: center;
    white-space: pre-wrap;
    overflow-wrap: break-word;
    max-width: 100%;
  }
  .label {
    position: absolute;
    right: 36px;
    bottom: 28px;
    color: {{.TextColor}};
    opacity: 0.45;
    font-family: {{.FontFamily}};
    font-size: {{.LabelSize}}px;
  }
</style>
</head>
<body>
<div class="page">
  <div class="content">{{.Text}}</div>
  {{if .Label}}<div class="label">{{.Label}}</div>{{end}}
</div>
</body>
</html>`

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	Width      int
	Height     int
	Margin     int
	FontSize   int
	LabelSize  int
	Background template.CSS
	TextColor  template.CSS
	FontFamily template.CSS
	Text       string
	Label      string
}

// buildHTML lays out one page document. opts must already be normalized;
// normalization validated the color and font values injected as CSS, and
// html/template escapes the text nodes.
func buildHTML(text string, opts Options) (string, error) {
	data := pageData{
		Width:      opts.Width,
		Height:     opts.Height,
		Margin:     opts.Margin,
		FontSize:   opts.FontSize,
		LabelSize:  opts.FontSize * 2 / 5,
		Background: template.CSS(opts.BackgroundColor),
		TextColor:  template.CSS(opts.TextColor),
		FontFamily: template.CSS(opts.FontFamily),
		Text:       text,
		Label:      opts.PageNumberLabel,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return buf.String(), nil
}
