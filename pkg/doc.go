// Package pkg provides the core libraries for chordgen guitar chord diagrams.
//
// # Overview
//
// Chordgen draws a chord fingering onto a fixed SVG template: it places
// finger dots and barres, marks open and muted strings, labels the fret
// window and names every sounded note. The pkg directory is organized into
// these areas:
//
//  1. [core] - Domain logic (chord model, note names, templates, layout)
//  2. [render] - Raster conversion of finished SVGs
//  3. [cache] and [library] - Artifact cache and chord storage
//  4. [pipeline] - Orchestration (layout, diagram, convert)
//  5. [io] and [assets] - Chord files and the embedded defaults
//
// # Architecture
//
// The typical data flow through chordgen:
//
//	Chord (name + six strings)
//	         ↓
//	    [core/diagram.Plan] (fret window, marks, notes)
//	         ↓
//	    [core/diagram.Apply] (edit a copy of the template)
//	         ↓
//	    [render] (SVG passes through; PNG/PDF via rsvg or inkscape)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/chordgen/pkg/assets"
//	    "github.com/matzehuels/chordgen/pkg/core/chord"
//	    "github.com/matzehuels/chordgen/pkg/pipeline"
//	    "github.com/matzehuels/chordgen/pkg/render"
//	)
//
//	templates, _ := assets.Templates()
//	conv, _ := render.NewConverter("auto")
//	runner := pipeline.NewRunner(templates, conv, nil, nil, nil)
//
//	strings, _ := chord.ParseStrings("O,1:1,O,2:2,3:3,X")
//	res, _ := runner.Execute(ctx, chord.Chord{Name: "C", Strings: strings}, pipeline.Options{
//	    Formats: []render.Format{render.FormatSVG, render.FormatPNG},
//	})
//	png := res.Artifacts[render.FormatPNG]
//
// # Packages
//
//   - core/chord: fingering model and its YAML/JSON form
//   - core/pitch: key inference and note spelling
//   - core/template: SVG template parsing, lookup and editing
//   - core/diagram: the layout engine
//   - errors: coded errors shared by every package
//   - config: TOML configuration
//   - observability: render, cache and HTTP hooks
//   - buildinfo: version information
package pkg
