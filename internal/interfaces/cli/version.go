package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/turtacn/qsim/pkg/client"
)

// VersionInfo is what `qsim version` prints.
type VersionInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	SDKVersion string `json:"sdk_version"`
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("qsim %s (commit: %s, built: %s, %s, sdk %s)",
		v.Version, v.GitCommit, v.BuildDate, v.GoVersion, v.SDKVersion)
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, VersionInfo{
				Version:    Version,
				GitCommit:  GitCommit,
				BuildDate:  BuildDate,
				GoVersion:  runtime.Version(),
				SDKVersion: client.Version,
			})
		},
	}
}

//Personal.AI order the ending
