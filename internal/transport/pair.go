package transport

import "github.com/tracklet/tracklet/internal/record"

// Pair bundles the owner-side ends of the two queues: the producer half of
// the record queue and the consumer half of the result queue. The worker
// holds the opposite halves.
type Pair struct {
	Records Producer[*record.Record]
	Results Consumer[*record.Result]
}

// Close closes the record queue and then the result queue. Both closes are
// attempted even if the first fails; callers guard against calling this
// twice, and a second close of either queue is an error.
func (p *Pair) Close() error {
	recErr := p.Records.Close()
	resErr := p.Results.Close()
	if recErr != nil {
		return recErr
	}
	return resErr
}
