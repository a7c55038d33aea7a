// Package template holds chord diagram templates as an arena of XML nodes.
//
// Parsing indexes every element with an id attribute once, so anchor lookups
// are a map access and a missing anchor surfaces as a single
// UnresolvedAnchorError instead of a failed tree search.
//
// A [Template] is read-only after [Parse] and safe for concurrent use. Renders
// call [Template.Document] to get their own mutable copy:
//
//	tmpl, err := template.Load("chord_base.svg")
//	doc := tmpl.Document()
//	title, err := doc.Lookup(template.TitleID)
//	doc.SetText(title, "Am")
//	doc.WriteTo(os.Stdout)
//
// # Anchors
//
// Chord templates use a fixed id scheme: title, string1-6, fret1-4, open1-6,
// mute1-6, note1-6, finger1-4, thumb, and barre2-6. The finger, thumb and
// barre elements are prototypes: they sit off-canvas and are cloned into
// place. The first child element of a prototype (a circle) is its reference
// point.
package template
