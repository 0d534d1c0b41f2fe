package preempt

// Handle is the identity token a [Cell] compares against to decide who its
// current holder is. Every [Task] embeds exactly one Handle and hands out
// its address; equality is always pointer identity (`==` on *Handle), never
// the Label.
//
// A Handle's address must never move once a [Task] embedding it has been
// passed to [Examine]: cells remember that address, not a copy of the
// value. In practice this just means a *Task is always used by pointer and
// never dereferenced-and-reassigned, which is already how every
// constructor in this package returns it.
type Handle struct {
	// Label is a human-readable name for diagnostics (logging, error
	// messages). It plays no part in identity comparison.
	Label string
}
