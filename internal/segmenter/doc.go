// Package segmenter provides the tokenizers that feed the chunk resolver.
//
// Every segmenter returns tokens with code-point offsets into the input
// text together with the dependency rule that interprets their labels.
//
// # Segmenters
//
//   - nlapi: remote syntax annotation service (ja, ko, zh, zh-TW, zh-CN, zh-HK),
//     also an EntityExtractor
//   - mecab: external MeCab process with the ChaSen output format (ja)
//   - whitespace: splits on white space (ko)
//
// # Basic Usage
//
//	seg, err := segmenter.NewFromEnv(cache.NewMemory(0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := seg.Segment(ctx, "今日も元気です", "ja")
//	if err != nil {
//	    return err
//	}
//	chunks, err := chunk.FromTokens(res.Tokens, seg.Rule())
//
// # Languages
//
// Language codes are normalized as BCP 47 tags before they are checked
// against SupportedLanguages, so "zh-tw" and "zh-TW" are equivalent.
// An empty code lets the segmenter decide.
//
// # Caching
//
// The nlapi segmenter consults the cache.Cache it was constructed with
// before every remote call and stores responses afterwards. Retries use
// exponential backoff and stop early on client errors.
package segmenter
