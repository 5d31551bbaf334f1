// Package glossify mixes foreign-language reading material with
// native-language glosses: it replaces a sampled subset of dictionary-
// recognized words in running text with short English translations, in a
// way that is reversible and safe to re-run as the content mutates.
//
// The dictionary is paginated into buckets loaded lazily through a
// dict.Fetcher (files, HTTP, or Redis). A greedy longest-match segmenter
// turns each text run into literal and token spans; a sampling policy
// picks which tokens to surface; and a spacing-aware renderer emits
// revertible replacement units. Content processors apply the pipeline to
// whole documents, and a Tracker coalesces mutation signals into
// debounced reprocessing passes.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/glossify"
//	    "github.com/ZaguanLabs/glossify/dict"
//	    "github.com/ZaguanLabs/glossify/processor"
//	)
//
//	func main() {
//	    store := dict.NewStore(&dict.FileFetcher{Dir: "dictionary"})
//	    engine := glossify.NewEngine(store, glossify.WithRatio(0.2))
//
//	    p := processor.NewHTMLProcessor()
//	    result, err := p.Gloss(context.Background(), "<p>你好，世界</p>", engine)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Content)
//	}
package glossify
