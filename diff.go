package wordseed

import "golang.org/x/net/html"

// Snapshot diffing supports hosts that cannot report mutations directly:
// fingerprint the document before and after a change, diff the two sets,
// and enqueue only the parents of added text for the Coordinator.

// TextFingerprint identifies one translatable text node by content hash.
type TextFingerprint struct {
	Hash string
	Text string
	Node *html.Node
}

// Fingerprints extracts fingerprints for every translatable text node
// under root, in document order, using the rewriter's traversal rules
// (skipped tags, generated units and opt-outs excluded).
func Fingerprints(root *html.Node) []TextFingerprint {
	var textNodes []*html.Node
	collectTextNodes(root, &textNodes)

	fps := make([]TextFingerprint, 0, len(textNodes))
	for _, n := range textNodes {
		fps = append(fps, TextFingerprint{
			Hash: HashText(n.Data),
			Text: n.Data,
			Node: n,
		})
	}
	return fps
}

// SnapshotDiff is the difference between two document snapshots.
type SnapshotDiff struct {
	// Added contains text that appears only in the new snapshot.
	Added []TextFingerprint

	// Removed contains text that appears only in the old snapshot.
	Removed []TextFingerprint

	// Unchanged contains text present in both snapshots.
	Unchanged []TextFingerprint
}

// HasChanges returns true if the snapshots differ.
func (d *SnapshotDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// AddedRoots returns the deduplicated parent elements of the added text
// nodes, in capture order. These are the subtree roots to feed to
// Coordinator.Enqueue; text without a parent is reported as itself.
func (d *SnapshotDiff) AddedRoots() []*html.Node {
	seen := make(map[*html.Node]bool)
	var roots []*html.Node
	for _, fp := range d.Added {
		root := fp.Node
		if root == nil {
			continue
		}
		if root.Parent != nil {
			root = root.Parent
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}

// DiffSnapshots compares two fingerprint sets by content hash. Duplicate
// text is tracked by count, so "the third identical paragraph appeared"
// still registers as an addition.
func DiffSnapshots(oldFps, newFps []TextFingerprint) *SnapshotDiff {
	oldCounts := make(map[string]int)
	for _, fp := range oldFps {
		oldCounts[fp.Hash]++
	}

	diff := &SnapshotDiff{}
	remaining := make(map[string]int, len(oldCounts))
	for h, c := range oldCounts {
		remaining[h] = c
	}

	for _, fp := range newFps {
		if remaining[fp.Hash] > 0 {
			remaining[fp.Hash]--
			diff.Unchanged = append(diff.Unchanged, fp)
		} else {
			diff.Added = append(diff.Added, fp)
		}
	}

	// Whatever counts remain were removed.
	for _, fp := range oldFps {
		if remaining[fp.Hash] > 0 {
			remaining[fp.Hash]--
			diff.Removed = append(diff.Removed, fp)
		}
	}

	return diff
}
