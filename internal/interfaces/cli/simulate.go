package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/qsim/internal/app"
	appsim "github.com/turtacn/qsim/internal/application/simulation"
	"github.com/turtacn/qsim/internal/config"
	"github.com/turtacn/qsim/internal/domain/molecule"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/client"
	"github.com/turtacn/qsim/pkg/errors"
)

// Files written by --save-dir.
const (
	MoleculeImageFile = "molecule.svg"
	EnergyPlotFile    = "energy_plot.svg"
)

// ─────────────────────────────────────────────────────────────────────────────
// Molecule input
// ─────────────────────────────────────────────────────────────────────────────

type moleculeInput struct {
	file   string
	atoms  []string
	charge int
	spin   int
}

func (in *moleculeInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "molecule JSON file ('-' reads stdin)")
	cmd.Flags().StringArrayVarP(&in.atoms, "atom", "a", nil, "atom as ELEMENT,X,Y,Z in Ångström (repeatable)")
	cmd.Flags().IntVar(&in.charge, "charge", 0, "total charge (with --atom)")
	cmd.Flags().IntVar(&in.spin, "spin", 0, "spin multiplicity (with --atom)")
}

// read builds the molecule from --file or --atom.  stdin backs "-".
func (in *moleculeInput) read(stdin io.Reader) (*molecule.Molecule, error) {
	switch {
	case in.file != "" && len(in.atoms) > 0:
		return nil, errors.InvalidParam("use either --file or --atom, not both")
	case in.file != "":
		var (
			body []byte
			err  error
		)
		if in.file == "-" {
			body, err = io.ReadAll(stdin)
		} else {
			body, err = os.ReadFile(in.file)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read molecule file")
		}
		return molecule.DecodeMolecule(body)
	case len(in.atoms) > 0:
		m := &molecule.Molecule{Charge: in.charge, Spin: in.spin}
		for _, raw := range in.atoms {
			a, err := parseAtom(raw)
			if err != nil {
				return nil, err
			}
			m.Atoms = append(m.Atoms, a)
		}
		if err := molecule.Validate(m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.New(errors.ErrCodeEmptyAtomList, molecule.MsgAtomsRequired)
	}
}

// parseAtom reads "ELEMENT,X,Y,Z".
func parseAtom(raw string) (molecule.Atom, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return molecule.Atom{}, errors.New(errors.ErrCodeInvalidCoordinate, molecule.MsgAtomStructure).
			WithDetail(fmt.Sprintf("%q is not ELEMENT,X,Y,Z", raw))
	}
	a := molecule.Atom{Element: strings.TrimSpace(parts[0])}
	coords := [3]*float64{&a.X, &a.Y, &a.Z}
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return molecule.Atom{}, errors.New(errors.ErrCodeInvalidCoordinate, molecule.MsgAtomStructure).
				WithDetail(fmt.Sprintf("%q: %v", raw, err))
		}
		*coords[i] = v
	}
	return a, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Result view
// ─────────────────────────────────────────────────────────────────────────────

// SimulationView is what `qsim simulate` prints.  Images are never inlined;
// --save-dir writes them to files listed in SavedFiles.
type SimulationView struct {
	Key string `json:"key,omitempty"`
	*client.SimulationResult
	SavedFiles []string `json:"saved_files,omitempty"`
}

func (v *SimulationView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Molecule:     %s\n", v.MoleculeName)
	if v.Key != "" {
		fmt.Fprintf(&sb, "Fingerprint:  %s\n", v.Key)
	}
	fmt.Fprintf(&sb, "Source:       %s", v.Source)
	if v.CachedAt != nil {
		fmt.Fprintf(&sb, " (cached at %s)", v.CachedAt.Format(time.RFC3339))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Qubits:       %d\n", v.QubitCount)
	fmt.Fprintf(&sb, "Ansatz:       %s\n", v.AnsatzType)
	fmt.Fprintf(&sb, "Exact energy: %.6f Ha\n", v.ExactEnergy)
	fmt.Fprintf(&sb, "VQE energy:   %.6f Ha\n", v.VQEEnergy)
	if len(v.Distances) > 0 {
		fmt.Fprintf(&sb, "Curve points: %d\n", len(v.Distances))
	}
	if v.Suggestion != "" {
		fmt.Fprintf(&sb, "Suggestion:   %s\n", v.Suggestion)
	}
	for _, f := range v.SavedFiles {
		fmt.Fprintf(&sb, "Saved:        %s\n", f)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (v *SimulationView) TableHeaders() []string {
	return []string{"DISTANCE", "ENERGY"}
}

func (v *SimulationView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Distances))
	for i := range v.Distances {
		if i >= len(v.EnergyValues) {
			break
		}
		rows = append(rows, []string{
			strconv.FormatFloat(v.Distances[i], 'f', 4, 64),
			strconv.FormatFloat(v.EnergyValues[i], 'f', 6, 64),
		})
	}
	return rows
}

// fromOutput converts a local service result into the wire shape.
func fromOutput(out *appsim.Output) *client.SimulationResult {
	r := out.Result
	res := &client.SimulationResult{
		Status:          "success",
		Source:          out.Source,
		CachedAt:        out.CachedAt,
		MoleculeName:    r.MoleculeName,
		QubitCount:      r.QubitCount,
		AnsatzType:      r.AnsatzType,
		ExactEnergy:     r.ExactEnergy,
		VQEEnergy:       r.VQEEnergy,
		Distances:       r.Distances,
		EnergyValues:    r.EnergyValues,
		OrbitalEnergies: r.OrbitalEnergies,
		MoleculeImage:   r.MoleculeImage,
		EnergyPlot:      r.EnergyPlot,
		Elements:        r.Elements,
		Suggestion:      r.Suggestion,
	}
	if d := r.DipoleMoment; d != nil {
		res.DipoleMoment = &client.DipoleMoment{X: d.X, Y: d.Y, Z: d.Z, Total: d.Total}
	}
	return res
}

func toClientMolecule(m *molecule.Molecule) *client.Molecule {
	out := &client.Molecule{Charge: m.Charge, Spin: m.Spin, Atoms: make([]client.Atom, len(m.Atoms))}
	for i, a := range m.Atoms {
		out.Atoms[i] = client.Atom{Element: a.Element, X: a.X, Y: a.Y, Z: a.Z}
	}
	return out
}

// saveImages decodes the base64 artifacts into dir and strips them from res.
func saveImages(res *client.SimulationResult, dir string) ([]string, error) {
	artifacts := []struct {
		name string
		data *string
	}{
		{MoleculeImageFile, &res.MoleculeImage},
		{EnergyPlotFile, &res.EnergyPlot},
	}

	var saved []string
	for _, a := range artifacts {
		if *a.data == "" {
			continue
		}
		if dir != "" {
			raw, err := base64.StdEncoding.DecodeString(*a.data)
			if err != nil {
				return saved, fmt.Errorf("decode %s: %w", a.name, err)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return saved, err
			}
			path := filepath.Join(dir, a.name)
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return saved, err
			}
			saved = append(saved, path)
		}
		*a.data = ""
	}
	return saved, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Command
// ─────────────────────────────────────────────────────────────────────────────

type simulateOptions struct {
	input   moleculeInput
	remote  bool
	saveDir string
	backend string
}

// NewSimulateCmd runs one simulation, locally through the configured result
// cache or against a server with --remote.
func NewSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a molecule",
		Example: "  qsim simulate --atom H,0,0,0 --atom H,0,0,0.74\n" +
			"  qsim simulate -f water.json --save-dir ./out\n" +
			"  qsim simulate -f water.json --remote --server http://localhost:8000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cache") && !config.IsCacheBackend(opts.backend) {
				return errors.InvalidParam(fmt.Sprintf("--cache %q is invalid; expected %s",
					opts.backend, strings.Join(config.CacheBackends, "|")))
			}
			m, err := opts.input.read(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			view := &SimulationView{Key: molecule.DeriveKey(m)}
			if opts.remote {
				c, err := cliCtx.remoteClient()
				if err != nil {
					return err
				}
				if view.SimulationResult, err = c.Simulate(ctx, toClientMolecule(m)); err != nil {
					return err
				}
			} else {
				if cmd.Flags().Changed("cache") {
					cliCtx.Config.Cache.Backend = opts.backend
				}
				svcs, err := app.NewServices(ctx, cliCtx.Config, cliCtx.Logger, nil)
				if err != nil {
					return err
				}
				defer func() {
					if err := svcs.Close(); err != nil {
						cliCtx.Logger.Warn("Error releasing dependencies", logging.Err(err))
					}
				}()
				out, err := svcs.Simulation.Simulate(ctx, m)
				if err != nil {
					return err
				}
				view.SimulationResult = fromOutput(out)
			}

			if view.SavedFiles, err = saveImages(view.SimulationResult, opts.saveDir); err != nil {
				return err
			}
			return PrintResult(cmd, view)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "send the request to --server instead of computing locally")
	cmd.Flags().StringVar(&opts.saveDir, "save-dir", "", "write the molecule image and energy plot SVGs here")
	cmd.Flags().StringVar(&opts.backend, "cache", "", "local result cache back end: redis, postgres, memory or none")
	return cmd
}

//Personal.AI order the ending
