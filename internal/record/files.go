package record

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"
)

const sinkPoolSize = 10

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileSink dumps webhook responses as JSON files into a directory for offline
// debugging. Writes happen asynchronously on a bounded pool and failures are
// only logged: response persistence must never slow down or fail a delivery.
type FileSink struct {
	dir  string
	pool *ants.Pool
	log  logze.Logger
}

// NewFileSink creates a sink writing into dir.
func NewFileSink(dir string) (*FileSink, error) {
	pool, err := ants.NewPool(sinkPoolSize)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create ants pool")
	}

	return &FileSink{
		dir:  dir,
		pool: pool,
		log:  logze.With("component", "file_sink"),
	}, nil
}

// Save schedules an asynchronous write of the response.
func (s *FileSink) Save(resp model.WebhookResponse) {
	err := s.pool.Submit(func() {
		if err := s.write(resp); err != nil {
			s.log.Err(err, "failed to save webhook response")
		}
	})
	if err != nil {
		s.log.Err(err, "failed to schedule webhook response write")
	}
}

// Stop releases the worker pool.
func (s *FileSink) Stop() {
	s.pool.Release()
}

func (s *FileSink) write(resp model.WebhookResponse) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errm.Wrap(err, "failed to create sink directory")
	}

	prNumber := 0
	if resp.Summary != nil {
		prNumber = resp.Summary.PRNumber
	}
	name := fmt.Sprintf("webhook_pr%d_%s.json", prNumber, time.Now().Format("20060102_150405"))

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return errm.Wrap(err, "failed to marshal webhook response")
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errm.Wrap(err, "failed to write webhook response file")
	}

	s.log.Debug("webhook response saved", "path", path)
	return nil
}
