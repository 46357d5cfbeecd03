package pantheon

// Release is the semantic version of the contracts and the ledger. It is
// written into every contract version record, so it never carries build
// details.
const Release = "0.3.0"

// GitCommit is set by build flags.
var GitCommit = ""

// Version returns the release, followed by the commit when the binary was
// built from a known one.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
