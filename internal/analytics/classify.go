package analytics

import "strings"

// Element is a platform-neutral description of the UI element an
// interaction landed on: its tag, identity, and ancestry.
type Element struct {
	Tag       string
	ID        string
	Classes   []string
	Text      string
	Href      string
	Ancestors []Element
}

// hasClass reports whether the element carries the class.
func (e Element) hasClass(name string) bool {
	for _, c := range e.Classes {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// selfOrAncestor reports whether the predicate holds for the element or any
// of its ancestors.
func (e Element) selfOrAncestor(pred func(Element) bool) bool {
	if pred(e) {
		return true
	}
	for _, a := range e.Ancestors {
		if pred(a) {
			return true
		}
	}
	return false
}

// Classify maps an interaction to its sub-event name based on the clicked
// element's tag and ancestry. Job cards win over navigation, which wins
// over plain buttons and links; anything else is a generic click.
func Classify(el Element) (string, map[string]any) {
	props := map[string]any{
		"tag": strings.ToLower(el.Tag),
	}
	if el.ID != "" {
		props["element_id"] = el.ID
	}
	if text := strings.TrimSpace(el.Text); text != "" {
		props["text"] = truncate(text, 100)
	}

	switch {
	case el.selfOrAncestor(func(e Element) bool { return e.hasClass("job-card") }):
		return "job_card_click", props
	case el.selfOrAncestor(func(e Element) bool { return strings.EqualFold(e.Tag, "nav") }):
		return "navigation_click", props
	case el.selfOrAncestor(func(e Element) bool { return strings.EqualFold(e.Tag, "button") }):
		return "button_click", props
	case strings.EqualFold(el.Tag, "a"):
		if el.Href != "" {
			props["href"] = el.Href
		}
		return "link_click", props
	}
	return "click", props
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
