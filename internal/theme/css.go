package theme

import (
	"strings"
	"text/template"
)

var cssTemplate = template.Must(template.New("css").Parse(`
.json-document {
  padding: 1em 2em;
  margin: 0;
  font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace;
  color: {{.Foreground}};
  background: {{.Background}};
}
ul.json-dict, ol.json-array {
  list-style-type: none;
  margin: 0 0 0 1px;
  border-left: 1px dotted {{.Placeholder}};
  padding-left: 2em;
}
.json-string {
  color: {{.String}};
}
a.json-string {
  color: {{.Link}};
}
.json-literal {
  color: {{.Literal}};
  font-weight: bold;
}
a.json-toggle {
  position: relative;
  color: inherit;
  text-decoration: none;
}
a.json-toggle:focus {
  outline: none;
}
a.json-toggle:before {
  font-size: 1.1em;
  color: {{.Toggle}};
  content: "\25BC";
  position: absolute;
  display: inline-block;
  width: 1em;
  text-align: center;
  line-height: 1em;
  left: -1.2em;
}
a.json-toggle:hover:before {
  color: {{.Key}};
}
a.json-toggle.collapsed:before {
  transform: rotate(-90deg);
}
ul.json-dict.collapsed, ol.json-array.collapsed {
  display: none;
}
a.json-placeholder {
  color: {{.Placeholder}};
  padding: 0 1em;
  text-decoration: none;
}
a.json-placeholder:hover {
  text-decoration: underline;
}
`))

// CSS returns the stylesheet styling the viewer's class contract with th.
func (th Theme) CSS() string {
	data := struct {
		Background, Foreground, Key, String, Literal, Link, Toggle, Placeholder string
	}{
		Background:  cssColor(Hex(th.Background), "transparent"),
		Foreground:  cssColor(Hex(th.Foreground), "inherit"),
		Key:         cssColor(Hex(th.Key), "inherit"),
		String:      cssColor(Hex(th.String), "inherit"),
		Literal:     cssColor(Hex(th.Literal), "inherit"),
		Link:        cssColor(Hex(th.Link), "inherit"),
		Toggle:      cssColor(Hex(th.Toggle), "inherit"),
		Placeholder: cssColor(Hex(th.Placeholder), "#888888"),
	}
	var b strings.Builder
	// Hex output and the fallbacks are fixed tokens, so execution cannot fail.
	_ = cssTemplate.Execute(&b, data)
	return strings.TrimLeft(b.String(), "\n")
}

func cssColor(hex, fallback string) string {
	if hex == "" {
		return fallback
	}
	return hex
}
