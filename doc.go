// Package wordseed provides an incremental vocabulary overlay engine for
// HTML documents and subtitle streams.
//
// Wordseed scans text content for occurrences of a learner's known-word set
// (including multi-token compounds), resolves overlapping matches
// deterministically, and rewrites matched spans in place as interactive
// annotation units while leaving the surrounding text and markup untouched.
// It keeps this correct as the document mutates by tracking processed nodes
// and rescanning only newly-added subtrees.
//
// Basic usage:
//
//	import (
//	    "github.com/wordseed/wordseed"
//	)
//
//	func main() {
//	    idx := wordseed.NewIndex()
//	    rw := wordseed.NewRewriter(idx,
//	        wordseed.WithMode(wordseed.ModeLearn),
//	        wordseed.WithCompounds(wordseed.NewCompoundResolver(compounds)),
//	    )
//
//	    idx.RebuildIfNeeded(vocabulary)
//
//	    result, stats, err := rw.RewriteHTML(`<p>Hello, world!</p>`)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result) // <p><span ...>你好</span>, <span ...>世界</span>!</p>
//	    fmt.Println(stats.Units)
//	}
//
// For live documents, feed newly-inserted subtrees to a Coordinator, which
// debounces bursts of mutations into single rewriter passes:
//
//	co := wordseed.NewCoordinator(rw, wordseed.WithDebounce(250*time.Millisecond))
//	co.Enqueue(addedNode)
//	defer co.Stop()
package wordseed
