package version

// Info holds build information, stamped in at compile time via ldflags.
type Info struct {
	GitVersion string `json:"gitVersion" yaml:"gitVersion"`
	GitCommit  string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate  string `json:"buildDate" yaml:"buildDate"`
}

var (
	gitVersion = "devel"
	gitCommit  = "unknown"
	buildDate  = "unknown"
)

// Get returns the version information for this build.
func Get() Info {
	return Info{
		GitVersion: gitVersion,
		GitCommit:  gitCommit,
		BuildDate:  buildDate,
	}
}
