package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/patrikhermansson/ensuresimd/core"
	"github.com/patrikhermansson/ensuresimd/internal/baseline"
	"github.com/patrikhermansson/ensuresimd/internal/hostcpu"
)

// hostReport is what the report command prints.
type hostReport struct {
	Compiled           baseline.Baseline   `json:"compiled" yaml:"compiled"`
	Runtime            baseline.FeatureSet `json:"runtime" yaml:"runtime"`
	State              baseline.State      `json:"state" yaml:"state"`
	Mismatch           string              `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
	Host               hostcpu.Info        `json:"host" yaml:"host"`
	RecommendedGOAMD64 string              `json:"recommended_goamd64,omitempty" yaml:"recommended_goamd64,omitempty"`
}

func buildReport() hostReport {
	info := hostcpu.Describe()
	r := hostReport{
		Compiled:           core.Compiled(),
		Runtime:            core.HostFeatures(),
		Host:               info,
		RecommendedGOAMD64: info.RecommendedGOAMD64(),
	}
	err := core.Verify()
	r.State = baseline.StateOf(err)
	if err != nil {
		r.Mismatch = err.Error()
	}
	return r
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report the compiled baseline and the host CPU capabilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeReport(cmd.OutOrStdout(), cfg.Report.Format, buildReport())
	},
}

func writeReport(w io.Writer, format string, r hostReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(w, "Compiled baseline:   %s\n", r.Compiled)
		fmt.Fprintf(w, "Runtime features:    %s\n", r.Runtime)
		fmt.Fprintf(w, "Verifier state:      %s\n", r.State)
		if r.Mismatch != "" {
			fmt.Fprintf(w, "Mismatch:            %s\n", r.Mismatch)
		}
		fmt.Fprintf(w, "Host:                %s/%s\n", r.Host.GOOS, r.Host.GOARCH)
		fmt.Fprintf(w, "CPU:                 %s (%s)\n", r.Host.Brand, r.Host.Vendor)
		fmt.Fprintf(w, "Logical cores:       %d\n", r.Host.Cores)
		if r.RecommendedGOAMD64 != "" {
			fmt.Fprintf(w, "x86-64 level:        v%d\n", r.Host.X64Level)
			fmt.Fprintf(w, "Recommended GOAMD64: %s\n", r.RecommendedGOAMD64)
		}
		return nil
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func init() {
	reportCmd.Flags().String("format", "text", "output format (text, json, yaml)")
	if err := viper.BindPFlag("report.format", reportCmd.Flags().Lookup("format")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flag: %v\n", err)
	}
	rootCmd.AddCommand(reportCmd)
}
