// fastview implements a builder pattern for live server-side views:
// given an input data format, apply a transformation to a view-model,
// and then multiplex that data to one or more views.
package fastview

import (
	"html/template"
)

// EleUpdate is an element identifier and a set of operations to apply to its
// attributes or content.
type EleUpdate struct {
	// The id by which to find the element.
	EleId string
	// Op keys are attrib keys or one of the reserved keys, values are the
	// strings to which these are set. Example: ('transform','rotate(45)')
	// means 'set attribute transform to rotate(45)'. Reserved keys:
	// 'textContent' sets ele.textContent, 'innerHTML' replaces the element's
	// children wholesale (used when a view's structure changes, e.g. resize).
	Ops []Op
}

// Op is a key and value. For example an html attribute and its new value.
type Op struct {
	Key   string
	Value string
}

// ViewComponent implements server side views: Parse writes their initial form
// into the page template and Updates yields the chan by which ele-updates are
// notified.
type ViewComponent interface {
	Updates() <-chan []EleUpdate
	// Parse parses the view-component and adds it to the passed parent
	// template, inheriting its definitions (func-map, etc). This allows
	// recursively defined view-components.
	Parse(*template.Template) (string, error)
}
