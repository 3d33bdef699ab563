package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/pdf-extract/internal/core"
)

// Job is one queued extraction run.
type Job struct {
	Request     core.Request
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
