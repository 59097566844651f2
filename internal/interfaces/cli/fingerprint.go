package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/qsim/internal/domain/molecule"
)

// FingerprintView is what `qsim fingerprint` prints.
type FingerprintView struct {
	Key       string `json:"key"`
	Name      string `json:"molecule_name"`
	AtomCount int    `json:"atom_count"`
}

func (v *FingerprintView) String() string { return v.Key }

func (v *FingerprintView) TableHeaders() []string {
	return []string{"MOLECULE", "ATOMS", "KEY"}
}

func (v *FingerprintView) TableRows() [][]string {
	return [][]string{{v.Name, itoa(v.AtomCount), v.Key}}
}

// NewFingerprintCmd prints the result-cache key of a molecule without
// simulating it.
func NewFingerprintCmd() *cobra.Command {
	in := &moleculeInput{}

	cmd := &cobra.Command{
		Use:     "fingerprint",
		Aliases: []string{"key"},
		Short:   "Print the cache key of a molecule",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := in.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return PrintResult(cmd, &FingerprintView{
				Key:       molecule.DeriveKey(m),
				Name:      m.Name(),
				AtomCount: m.AtomCount(),
			})
		},
	}
	in.register(cmd)
	return cmd
}

//Personal.AI order the ending
