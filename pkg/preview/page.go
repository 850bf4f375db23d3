package preview

import (
	"bytes"
	"html/template"

	"web-cloner-go/pkg/render"
)

type modeLink struct {
	Label  string
	Href   string
	Active bool
}

type pageData struct {
	Token      string
	Mode       render.ViewMode
	ModeLabel  string
	Width      string
	Height     string
	Fluid      bool
	HTML       string
	Modes      []modeLink
	CodeHref   string
	Download   string
	DownloadAs string
}

var pageTmpl = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Cloned website preview</title>
    <style>
      :root {
        --bg: #0b1020;
        --panel: #111832;
        --text: #e9edf7;
        --muted: #a5b0cc;
        --border: rgba(255, 255, 255, 0.10);
        --accent: #7aa2ff;
        --sans: ui-sans-serif, system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial;
      }
      * { box-sizing: border-box; }
      html, body { height: 100%; margin: 0; }
      body { font-family: var(--sans); color: var(--text); background: var(--bg); display: flex; flex-direction: column; }
      header { display: flex; gap: 12px; align-items: center; padding: 10px 16px; border-bottom: 1px solid var(--border); background: var(--panel); }
      header .title { font-weight: 600; margin-right: auto; }
      header a { color: var(--muted); text-decoration: none; padding: 4px 10px; border-radius: 8px; border: 1px solid var(--border); }
      header a.active { color: var(--text); border-color: var(--accent); }
      main { flex: 1; display: flex; justify-content: center; align-items: flex-start; padding: 16px; overflow: auto; }
      main.fluid { padding: 0; }
      iframe { border: 1px solid var(--border); background: #fff; }
      main.fluid iframe { border: 0; }
    </style>
  </head>
  <body>
    <header>
      <span class="title">{{.ModeLabel}}</span>
      {{range .Modes}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
      {{end}}<a href="{{.CodeHref}}">Code</a>
      <a href="{{.Download}}" download="{{.DownloadAs}}">Download</a>
    </header>
    <main{{if .Fluid}} class="fluid"{{end}}>
      <iframe title="Cloned website preview" sandbox="allow-scripts" style="width: {{.Width}}; height: {{.Height}};" srcdoc="{{.HTML}}"></iframe>
    </main>
  </body>
</html>
`))

func renderPage(token string, mode render.ViewMode, html string) ([]byte, error) {
	dims := mode.Dimensions()
	data := pageData{
		Token:      token,
		Mode:       mode,
		ModeLabel:  mode.Label(),
		Width:      dims.CSSWidth(),
		Height:     dims.CSSHeight(),
		Fluid:      dims.Fluid,
		HTML:       html,
		CodeHref:   pagePath(token) + "/code",
		Download:   pagePath(token) + "/download",
		DownloadAs: render.DownloadFileName,
	}
	for _, m := range render.ViewModes {
		data.Modes = append(data.Modes, modeLink{
			Label:  string(m),
			Href:   pageURL("", token, m),
			Active: m == mode,
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pagePath(token string) string {
	return "/preview/" + token
}

func pageURL(base, token string, mode render.ViewMode) string {
	return base + pagePath(token) + "?view=" + string(mode)
}
