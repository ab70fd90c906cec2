package main

// Exit codes for the gosling-screenshot CLI.
// Partial success is still success; --strict turns any job failure into ExitFailure.
const (
	ExitSuccess = 0 // All discovered inputs processed (some may have failed)
	ExitFailure = 1 // Usage, configuration, discovery or strict-mode failure
)

// exitCodeFor returns the exit code for an error returned by a command.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
