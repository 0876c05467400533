package livetl

// Name is the program name used in the User-Agent and version output.
const Name = "livetl"

// Version is the release version. Builds override it, e.g.:
//
//	go build -ldflags "-X github.com/ZaguanLabs/livetl.Version=1.2.0 -X github.com/ZaguanLabs/livetl.GitCommit=$(git rev-parse HEAD)"
var Version = "0.1.0"

// Build metadata stamped through ldflags; empty when unknown.
var (
	GitCommit string
	BuildDate string
)

// FullVersion returns Version with the short commit appended when known,
// e.g. "0.1.0+3f2c1ab".
func FullVersion() string {
	if GitCommit == "" {
		return Version
	}
	short := GitCommit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}

// UserAgent identifies HTTP requests made by the client.
func UserAgent() string {
	return Name + "/" + Version
}
