// Package pipeline provides a framework for executing run steps in sequence.
//
// The pipeline pattern is used to take seed sites through the full
// workflow: crawling, archiving, aggregation, and batch-file output.
// Each stage is implemented as a Step that receives the current run
// state and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between sites and stages
//
// Steps always execute one at a time; sites are crawled strictly in
// seed-file order so the politeness delay is honored across the run.
package pipeline
