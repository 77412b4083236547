// Package translate moves cue text through an external translation backend.
//
// The Queue is the set machine shared by every cue producer: a cue id is
// pending, inflight, or translated, the three sets are always disjoint, and
// translated is terminal. The Dispatcher drains the queue in bounded batches,
// consults the cache tiers, calls the backend with retry and backoff, and
// requeues batches that fail terminally. Results land in a cue-id to
// translated-text map read by the render policy.
package translate
