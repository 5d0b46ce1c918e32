// Package chunk resolves segmenter output into the chunks that are rendered
// as break-free spans.
//
// # Basic Usage
//
//	l, err := chunk.FromTokens(tokens, chunk.SyntaxRule)
//	if err != nil {
//	    return err
//	}
//	if err := l.GroupByEntities(entities); err != nil {
//	    return err
//	}
//	l.ResolveDependencies()
//
//	out, err := chunk.HTMLSerialize(l, map[string]string{"class": "chunk"}, 0)
//
// # Resolution
//
// Each word chunk may depend on a neighbor: Forward attaches it to the next
// chunk, Backward to the previous one. ResolveDependencies makes two passes:
//
//   - Forward, left to right: forward dependents are held until the next
//     chunk that is not one, and the run is merged into that chunk.
//   - Backward, right to left: backward dependents and all spaces are held
//     until the next chunk that is not one, and the run is merged into it.
//
// The merged chunk takes the metadata of the chunk that ended the run.
// Finally every CJK chunk ending in a space has the space replaced by a
// breakline chunk, which offers the browser a break opportunity there.
//
// # Offsets
//
// All offsets and lengths are counted in Unicode code points over the
// concatenation of chunk words. GetOverlaps skips one leading space, since
// annotation offsets sometimes point at the space before a word.
//
// # Identity
//
// A List stores chunks in an arena and keeps the order as refs into it.
// Swap works on refs, so two chunks with the same word are never confused.
package chunk
