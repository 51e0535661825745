package version

var (
	Version   = "1.0.0"
	GitCommit = "dev"
	BuildDate = "20260829120000"
)

// String returns a human-readable version string.
func String() string {
	return "reconx " + Version + " (" + GitCommit + ", " + BuildDate + ")"
}
