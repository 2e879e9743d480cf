package worker

import (
	"encoding/json"
	"os"

	"github.com/tracklet/tracklet/internal/errors"
	"github.com/tracklet/tracklet/internal/record"
	"github.com/tracklet/tracklet/internal/settings"
	"github.com/tracklet/tracklet/internal/transport"
)

// RunFromEntry is the process-mode entry point, reached when main detects
// the worker entry mark. The mark payload is the sanitized settings; the
// record queue arrives on stdin and results leave on stdout.
func RunFromEntry(payload string) error {
	set, err := DecodeSettings(payload)
	if err != nil {
		return err
	}

	recordQ := transport.NewStreamConsumer[*record.Record](os.Stdin)
	resultQ := transport.NewStreamProducer[*record.Result](os.Stdout)
	return Run(set, recordQ, resultQ)
}

// DecodeSettings parses the entry mark payload back into settings.
func DecodeSettings(payload string) (set settings.Settings, err error) {
	if jsonErr := json.Unmarshal([]byte(payload), &set); jsonErr != nil {
		return set, errors.WrapWithCode(jsonErr, errors.ErrWorker,
			"Worker received an unreadable settings payload",
			"The launching tracklet version may not match this binary")
	}
	return set, nil
}
