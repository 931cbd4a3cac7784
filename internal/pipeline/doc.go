// Package pipeline provides a framework for executing flatten steps in
// sequence.
//
// A run moves through fixed stages: loading the raw export, extracting
// result records, tidying the election and voting-method tables, and
// writing the outputs. Each stage is a Step that receives the current
// run state and fills in its part.
//
// The pipeline stops on the first step failure unless configured
// otherwise; the flatten transform is deliberately fail-fast, so a
// malformed record aborts the whole run instead of producing a partial
// table. Batch processing of multiple input files uses errgroup with a
// concurrency limit; the transform itself stays single-threaded per input.
package pipeline
