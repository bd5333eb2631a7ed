// Package provider implements smart-translation backends.
//
// A provider takes a raw text block plus the learner's vocabulary and
// returns mixed text with the known words already swapped, letting an AI
// model handle inflections and word order that literal matching cannot.
// Providers are interchangeable strategies selected by configuration; the
// core engine never calls them directly.
package provider

import "github.com/wordseed/wordseed"

// Translator is the strategy interface for smart-translation backends.
// This is an alias to the main package interface for convenience.
type Translator = wordseed.Translator

// TranslateRequest is an alias to the main package type.
type TranslateRequest = wordseed.TranslateRequest
