// Package parser turns HTML fragments into chunked HTML.
//
// A parse preprocesses the fragment to plain text, segments it, builds a
// chunk list, optionally groups entities and inline elements, resolves
// dependencies and serializes the result.
//
// # Basic Usage
//
//	seg, err := segmenter.NewFromEnv(cache.NewMemory(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p := parser.New(seg, nil)
//
//	res, err := p.Parse(ctx, "今日も元気です", parser.Options{Language: "ja"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.HTML)
//	// <span class="chunk">今日も</span><span class="chunk">元気です</span>
//
// # Batches
//
// ParseBatch runs independent parses on a bounded worker pool. Each parse
// owns its chunk list, so nothing is shared between workers except the
// segmenter and its cache.
//
// # Markup
//
// Only text survives by default. With Options.KeepMarkup, inline elements
// such as <a>, <b> or <ruby> are merged into single chunks and rendered with
// sanitized attributes inside the chunk spans.
package parser
