package crawler

import (
	"bytes"
	"sync"

	"github.com/mycok/wander/pipeline"
)

var (
	_ pipeline.Payload = (*crawlerPayload)(nil)

	payloadPool = sync.Pool{
		New: func() interface{} {
			return new(crawlerPayload)
		},
	}
)

type keywordCount struct {
	Keyword string
	Count   int
}

type crawlerPayload struct {
	URL        string         // populated by the frontier source.
	RawContent bytes.Buffer   // populated by the page fetcher.
	Links      []string       // populated by the content extractor.
	Keywords   []keywordCount // populated by the content extractor.

	// Signalled once the payload leaves the pipeline so the source can
	// release the next URL.
	done chan<- struct{}
}

// MarkAsProcessed is invoked when the payload either reaches the sink or is
// dropped by one of the stages.
func (p *crawlerPayload) MarkAsProcessed() {
	done := p.done

	p.URL = p.URL[:0]
	p.RawContent.Reset()
	p.Links = p.Links[:0]
	p.Keywords = p.Keywords[:0]
	p.done = nil

	payloadPool.Put(p)

	if done != nil {
		select {
		case done <- struct{}{}:
		default:
		}
	}
}
