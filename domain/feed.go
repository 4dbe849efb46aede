package domain

// FeedCache is the process-wide single-slot cache for the rendered
// global feed. Get returns the cached bytes verbatim on a hit. Clear
// must be called exactly on post creation and deletion; group, comment
// and follow mutations leave the slot alone.
type FeedCache interface {
	Get() ([]byte, bool)
	Set(rendered []byte)
	Clear()
}
