package cli

// Options is the fully-parsed configuration for a single invocation.
//
// It supports both:
// - a single positional path: mersge <FILE>
// - no-args mode: discover conflicted files in the current git repo
type Options struct {
	Path string

	ApplyAll string // local|incoming
	Check    bool

	Backup  bool
	Verbose bool
}
