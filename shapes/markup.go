package shapes

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Custom per-cell markup is user input injected into the SVG document, so it
// is validated before insertion: it must be well-formed XML, use only the
// allowed drawing elements, and carry no scriptable attributes. A cell whose
// markup fails validation renders the fallback shape instead; the frame is
// never aborted.

// Plain drawing elements only; <use>, <script>, <foreignObject> and friends
// stay out.
var allowedElements = map[string]bool{
	"g":        true,
	"path":     true,
	"line":     true,
	"polyline": true,
	"polygon":  true,
	"rect":     true,
	"circle":   true,
	"ellipse":  true,
}

var ErrEmptyMarkup = errors.New("custom markup is empty")

// ValidateMarkup checks user-supplied SVG fragment markup. A nil return
// means the fragment is safe to inject verbatim into the per-cell group.
func ValidateMarkup(markup string) error {
	if strings.TrimSpace(markup) == "" {
		return ErrEmptyMarkup
	}

	lexer := xml.NewLexer(parse.NewInputString(markup))
	depth := 0
	for {
		tt, _ := lexer.Next()
		switch tt {
		case xml.ErrorToken:
			if lexer.Err() != io.EOF {
				return fmt.Errorf("malformed markup: %w", lexer.Err())
			}
			if depth != 0 {
				return fmt.Errorf("unbalanced markup: %d unclosed elements", depth)
			}
			return nil
		case xml.StartTagToken:
			name := strings.ToLower(string(lexer.Text()))
			if !allowedElements[name] {
				return fmt.Errorf("element %q is not allowed in custom markup", name)
			}
			depth++
		case xml.StartTagCloseVoidToken:
			depth--
		case xml.EndTagToken:
			depth--
			if depth < 0 {
				return errors.New("unbalanced markup: close tag without open")
			}
		case xml.AttributeToken:
			attr := strings.ToLower(string(lexer.Text()))
			if strings.HasPrefix(attr, "on") {
				return fmt.Errorf("attribute %q is not allowed in custom markup", attr)
			}
			val := strings.ToLower(string(lexer.AttrVal()))
			if strings.Contains(val, "javascript:") || strings.Contains(val, "data:text/html") {
				return fmt.Errorf("attribute %q carries a scriptable value", attr)
			}
		case xml.StartTagPIToken, xml.DOCTYPEToken, xml.CDATAToken:
			return errors.New("processing instructions, doctypes and CDATA are not allowed")
		}
	}
}
