package recordpipe

import "context"

// Runner drives a record migration to completion.
// The concrete implementation lives in the pipeline package; this interface
// exists so callers and tests can substitute their own.
type Runner interface {
	// Run blocks until either the scan sequence is fully consumed and all
	// dispatched migrations have resolved, or a fatal (non-record-level)
	// error occurs.
	//
	// Record-level failures never surface here: a record whose migration
	// fails on every retry attempt is logged, counted as abandoned, and the
	// run continues. A segment scan failure is fatal and is returned wrapped
	// in ErrScanFailed.
	//
	// The returned Summary is valid even when err is non-nil and reflects
	// the work completed before the failure.
	Run(ctx context.Context) (Summary, error)
}
