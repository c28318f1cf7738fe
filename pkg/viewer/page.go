package viewer

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/jsonview/internal/dom"
	"github.com/oakwood-commons/jsonview/internal/render"
	"github.com/oakwood-commons/jsonview/internal/theme"
)

// ErrNilInstance is returned when writing a nil instance.
var ErrNilInstance = errors.New("nil viewer instance")

// PageOptions controls WritePage.
type PageOptions struct {
	// Title is the document title. Empty uses "JSON".
	Title string
	// Caption is markdown rendered above the tree.
	Caption string
	// CSS replaces the default stylesheet.
	CSS string
	// Static omits the script that makes toggles clickable in a browser.
	Static bool
}

// DefaultCSS returns the stylesheet of the fallback theme.
func DefaultCSS() string { return theme.Fallback().CSS() }

// toggleScript mirrors the collapse controller for pages opened in a
// browser. It relies on the same sibling layout Attach reads.
const toggleScript = `(function () {
  function container(toggle) {
    for (var n = toggle.nextElementSibling; n; n = n.nextElementSibling) {
      if (n.matches("ul.json-dict, ol.json-array")) return n;
    }
    return null;
  }
  function flip(toggle) {
    var list = container(toggle);
    if (!list) return;
    var next = list.nextElementSibling;
    if (toggle.classList.toggle("collapsed")) {
      list.classList.add("collapsed");
      var n = list.children.length;
      var ph = document.createElement("a");
      ph.className = "json-placeholder";
      ph.href = "#";
      ph.textContent = n + (n > 1 ? " items" : " item");
      list.after(ph);
    } else {
      list.classList.remove("collapsed");
      if (next && next.classList.contains("json-placeholder")) next.remove();
    }
  }
  function onClick(ev) {
    var t = ev.target;
    if (t.classList.contains("json-toggle")) {
      ev.preventDefault();
      flip(t);
    } else if (t.classList.contains("json-placeholder")) {
      ev.preventDefault();
      var list = t.previousElementSibling;
      for (var n = list && list.previousElementSibling; n; n = n.previousElementSibling) {
        if (n.classList.contains("json-toggle")) { flip(n); break; }
      }
    }
  }
  var docs = document.querySelectorAll(".json-document");
  for (var i = 0; i < docs.length; i++) docs[i].addEventListener("click", onClick);
})();`

// WritePage writes a complete HTML5 document containing the rendered tree.
// Pending chunks are not run; drain the instance first for a complete tree.
func WritePage(w io.Writer, inst *Instance, opts PageOptions) error {
	if inst == nil {
		return ErrNilInstance
	}
	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "JSON"
	}
	css := opts.CSS
	if css == "" {
		css = DefaultCSS()
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	bw.WriteString("<title>" + render.HTMLEscape(title) + "</title>\n")
	bw.WriteString("<style>\n" + css + "</style>\n</head>\n<body>\n")
	if caption := strings.TrimSpace(opts.Caption); caption != "" {
		bw.WriteString("<div class=\"json-caption\">\n")
		bw.Write(renderMarkdown(caption))
		bw.WriteString("</div>\n")
	}
	if err := dom.Render(bw, inst.container); err != nil {
		return err
	}
	bw.WriteString("\n")
	if !opts.Static {
		bw.WriteString("<script>\n" + toggleScript + "\n</script>\n")
	}
	bw.WriteString("</body>\n</html>\n")
	return bw.Flush()
}

// WriteFragment writes only the container subtree.
func WriteFragment(w io.Writer, inst *Instance) error {
	if inst == nil {
		return ErrNilInstance
	}
	bw := bufio.NewWriter(w)
	if err := dom.Render(bw, inst.container); err != nil {
		return err
	}
	bw.WriteString("\n")
	return bw.Flush()
}

func renderMarkdown(src string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(src))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}
