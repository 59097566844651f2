package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apppred "github.com/turtacn/qsim/internal/application/prediction"
	domainPred "github.com/turtacn/qsim/internal/domain/prediction"
	domainSim "github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/pkg/client"
	"github.com/turtacn/qsim/pkg/errors"
)

// PredictionView is what `qsim predict` prints.
type PredictionView struct {
	Prediction string                 `json:"prediction"`
	Confidence float64                `json:"confidence"`
	Features   map[string]interface{} `json:"features"`
}

func (v *PredictionView) String() string {
	return fmt.Sprintf("%s (confidence %.3f)", v.Prediction, v.Confidence)
}

func (v *PredictionView) TableHeaders() []string {
	return []string{"FEATURE", "VALUE"}
}

func (v *PredictionView) TableRows() [][]string {
	keys := make([]string, 0, len(v.Features))
	for k := range v.Features {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := [][]string{
		{"prediction", v.Prediction},
		{"confidence", strconv.FormatFloat(v.Confidence, 'f', 4, 64)},
	}
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(v.Features[k])})
	}
	return rows
}

type predictOptions struct {
	file     string
	features []string
	remote   bool
	seed     int64
}

// readFeatures builds the feature set from --file or --feature pairs.
func (o *predictOptions) readFeatures(stdin io.Reader) (domainPred.Features, error) {
	switch {
	case o.file != "" && len(o.features) > 0:
		return nil, errors.New(errors.ErrCodeBadRequest, "use either --file or --feature, not both")
	case o.file != "":
		var (
			body []byte
			err  error
		)
		if o.file == "-" {
			body, err = io.ReadAll(stdin)
		} else {
			body, err = os.ReadFile(o.file)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read features file")
		}
		return domainPred.DecodeFeatures(body)
	case len(o.features) > 0:
		f := make(domainPred.Features, len(o.features))
		for _, pair := range o.features {
			k, v, ok := strings.Cut(pair, "=")
			k = strings.TrimSpace(k)
			if !ok || k == "" {
				return nil, errors.New(errors.ErrCodeInvalidFeatures, domainPred.MsgFeaturesRequired).
					WithDetail(fmt.Sprintf("%q is not NAME=VALUE", pair))
			}
			f[k] = parseFeatureValue(strings.TrimSpace(v))
		}
		return f, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFeatures, domainPred.MsgFeaturesRequired)
	}
}

// parseFeatureValue keeps numbers numeric so the echo matches the HTTP API.
func parseFeatureValue(s string) interface{} {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

// NewPredictCmd scores a feature set with the prediction model.
func NewPredictCmd() *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict whether a problem favours a quantum or classical method",
		Example: "  qsim predict --feature molecular_complexity=6 --feature num_qubits=8\n" +
			"  qsim predict -f features.json --remote",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			features, err := opts.readFeatures(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()

			view := &PredictionView{}
			if opts.remote {
				c, err := cliCtx.remoteClient()
				if err != nil {
					return err
				}
				res, err := c.Predict(ctx, client.Features(features))
				if err != nil {
					return err
				}
				view.Prediction, view.Confidence, view.Features = res.Prediction, res.Confidence, res.Features
			} else {
				seed := cliCtx.Config.Simulation.Seed
				if cmd.Flags().Changed("seed") {
					seed = opts.seed
				}
				svc := apppred.NewService(domainPred.NewEngine(domainSim.NewLockedSource(seed)), cliCtx.Logger)
				out, err := svc.Predict(ctx, features)
				if err != nil {
					return err
				}
				view.Prediction, view.Confidence, view.Features = out.Prediction, out.Confidence, out.Features
			}
			return PrintResult(cmd, view)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", `JSON file with a "features" object ('-' reads stdin)`)
	cmd.Flags().StringArrayVar(&opts.features, "feature", nil, "feature as NAME=VALUE (repeatable)")
	cmd.Flags().BoolVar(&opts.remote, "remote", false, "send the request to --server instead of scoring locally")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "jitter seed for local scoring (0 seeds from the clock)")
	return cmd
}

//Personal.AI order the ending
