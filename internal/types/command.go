package types

// CommandSpec describes one external process invocation.
type CommandSpec struct {
	// Label is the human-readable scope name used for status reporting.
	Label      string
	Executable string
	Args       []string
	Dir        string
}

// CommandResult is the immutable outcome of one invocation. A nonzero exit
// code is not an error at the runner level; callers decide fatality.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (r CommandResult) Succeeded() bool {
	return r.ExitCode == 0
}
