// Package diagram lays out chord fingerings on a diagram template.
//
// Rendering happens in two steps. [Plan] decides everything that depends only
// on the chord: note names and their spelling, the four-fret window and its
// labels, and which fingers become barres. [Apply] writes a plan into a
// template document: it hides markers, relabels frets and notes, and clones
// the finger, thumb and barre prototypes into place. [Render] does both on a
// fresh copy of a template.
//
// # Fret Window
//
// A diagram shows four frets. Fingerings whose fretted strings span more than
// four frets fail with *errors.SpanTooWideError. When the highest fret is
// above the fourth, the window starts at the lowest fretted fret, and the top
// label is drawn in [NotNutFill] to show it is not the nut.
//
// # Barres
//
// A finger that presses two or more strings, all at one fret, is a barre. It
// spans from its lowest to its highest string, whatever lies between. The
// template must provide a barre<span> shape; otherwise the finger is drawn as
// ordinary dots. The barre handle is placed on the rightmost string of the
// span for right-handed templates and the leftmost for left-handed ones.
//
// # Placement
//
// Marks are positioned with a translate transform. The reference point of a
// prototype is the center of its first child shape. A string's x is the
// center of its string<N> element. A row's y is the y of its fret<N> label.
package diagram
