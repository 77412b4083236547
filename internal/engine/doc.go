// Package engine owns one capture session: it routes captured timed-text
// payloads to the right cue producer, keeps per-track cue state, feeds the
// translation queue, and answers render ticks with the text pair to display.
//
// All session state is mutated synchronously by the caller (or by the Loop
// run goroutine); nothing here takes a lock. A session is torn down and
// rebuilt whenever capture restarts.
package engine
