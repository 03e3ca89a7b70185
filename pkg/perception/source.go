// Package perception supplies landmark frames from an external detector
// process. The detector itself (camera, ML model) is out of scope; this
// package only defines how its results reach the pipeline.
package perception

import (
	"context"

	"github.com/jwiersma/telehand/pkg/landmark"
)

// Source produces perception frames. A frame with a missing hand or pose
// set is a valid, expected result, not an error. Next returns io.EOF
// when the stream is exhausted and ctx.Err() when the context ends.
type Source interface {
	Next(ctx context.Context) (landmark.Frame, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (landmark.Frame, error)

func (f SourceFunc) Next(ctx context.Context) (landmark.Frame, error) {
	return f(ctx)
}
