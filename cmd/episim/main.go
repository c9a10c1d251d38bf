// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command episim runs a simulation scenario described in YAML and prints the
// result set as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	episim "github.com/petenewcomb/episim-go"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "Stochastic network-process simulation",
		Long: `episim simulates stochastic processes such as epidemics over networks.

A scenario file names the network generator, the process model, the
scheduling strategy, and the parameters of the run.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("episim version %s\n", version)
		},
	}
}

// scenario is the YAML shape of a run description.
type scenario struct {
	Seed     *uint64                   `yaml:"seed"`
	Dynamics string                    `yaml:"dynamics"`
	Network  networkSpec               `yaml:"network"`
	Model    modelSpec                 `yaml:"model"`
	Monitor  bool                      `yaml:"monitor"`
	Params   map[string]any            `yaml:"params"`
	Instance map[string]map[string]any `yaml:"instances"`
}

type networkSpec struct {
	Type  string   `yaml:"type"` // er | ba
	N     int      `yaml:"n"`
	Phi   *float64 `yaml:"phi"`
	KMean *float64 `yaml:"kmean"`
	M     *int     `yaml:"m"`
}

type modelSpec struct {
	Type    string   `yaml:"type"` // sir | sis | seir
	MaxTime *float64 `yaml:"maxTime"`
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run the scenario described in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var sc scenario
			if err := yaml.Unmarshal(data, &sc); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			params, err := buildParams(&sc)
			if err != nil {
				return err
			}
			gen, err := buildGenerator(&sc)
			if err != nil {
				return err
			}
			procs, err := buildProcesses(&sc)
			if err != nil {
				return err
			}

			var exp episim.Experiment
			switch sc.Dynamics {
			case "", "stochastic":
				d := episim.NewStochasticDynamics(gen, procs...)
				if sc.Seed != nil {
					d.SetSeed(*sc.Seed)
				}
				exp = d
			case "synchronous":
				d := episim.NewSynchronousDynamics(gen, procs...)
				if sc.Seed != nil {
					d.SetSeed(*sc.Seed)
				}
				exp = d
			default:
				return fmt.Errorf("unknown dynamics %q (want stochastic or synchronous)", sc.Dynamics)
			}

			rs := episim.Run(exp, params)
			out, err := json.MarshalIndent(rs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if !rs.Metadata.Succeeded {
				return fmt.Errorf("run failed: %s", rs.Metadata.Error)
			}
			return nil
		},
	}
}

func buildParams(sc *scenario) (*episim.Params, error) {
	p := episim.NewParams()
	for k, v := range sc.Params {
		p.Set(k, v)
	}
	for instance, ns := range sc.Instance {
		for k, v := range ns {
			p.SetFor(instance, k, v)
		}
	}
	p.Set("N", sc.Network.N)
	if sc.Network.Phi != nil {
		p.Set("phi", *sc.Network.Phi)
	}
	if sc.Network.KMean != nil {
		p.Set("kmean", *sc.Network.KMean)
	}
	if sc.Network.M != nil {
		p.Set("M", *sc.Network.M)
	}
	return p, nil
}

func buildGenerator(sc *scenario) (episim.Generator, error) {
	switch sc.Network.Type {
	case "", "er":
		return episim.ERNetwork{}, nil
	case "ba":
		return episim.BANetwork{}, nil
	}
	return nil, fmt.Errorf("unknown network type %q (want er or ba)", sc.Network.Type)
}

func buildProcesses(sc *scenario) ([]episim.Process, error) {
	var model episim.Process
	switch sc.Model.Type {
	case "sir":
		model = episim.NewSIR()
	case "sis":
		model = episim.NewSIS()
	case "seir":
		model = episim.NewSEIR()
	default:
		return nil, fmt.Errorf("unknown model %q (want sir, sis, or seir)", sc.Model.Type)
	}
	if sc.Model.MaxTime != nil {
		model.(interface{ SetMaxTime(float64) }).SetMaxTime(*sc.Model.MaxTime)
	}
	procs := []episim.Process{model}
	if sc.Monitor {
		procs = append(procs, &episim.Monitor{})
	}
	return procs, nil
}
