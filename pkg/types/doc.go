// Package types provides shared type definitions for gobudou.
//
// These are the values exchanged between segmenter backends and the chunk
// engine: tokens with dependency labels, entity spans, and inline HTML
// elements. All offsets are counted in Unicode code points.
//
// # Tokens
//
// A segmenter returns tokens in text order:
//
//	tok := types.Token{
//	    Content:        "は",
//	    BeginOffset:    2,
//	    Label:          "PRT",
//	    PartOfSpeech:   "PRT",
//	    HeadTokenIndex: 0,
//	    TokenIndex:     1,
//	}
//
// # Directions
//
// Direction is the merge intent of a chunk: Forward attaches to the next
// chunk, Backward to the previous one. It encodes to JSON as its name.
package types
