/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/rotblauer/drivesafe/api"
	"github.com/rotblauer/drivesafe/common"
	"github.com/rotblauer/drivesafe/params"
	"github.com/spf13/cobra"
)

var (
	optScanView    string
	optScanScope   string
	optScanPage    int
	optScanPerPage int
)

// scanCmd computes one view and prints it as JSON.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Compute a view of the source and print it as JSON",
	Long: `Reads the source and prints one of the views to stdout:

  safety  running safety metrics (avg/max speed, sharp turns, anomalies)
  trips   per-trip summaries
  routes  popular starts, ends and start/end pairs

--scope first reads only the first batch, as the HTTP trip and route views do.`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		scope, err := api.ParseScope(optScanScope)
		if err != nil {
			log.Fatalln(err)
		}
		source, err := sourceConfig()
		if err != nil {
			log.Fatalln(err)
		}
		safetyConf, err := safetyConfig()
		if err != nil {
			log.Fatalln(err)
		}
		analyzer := api.NewAnalyzer(source, safetyConf, params.DefaultRouteConfig())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			sig := <-common.Interrupted()
			slog.Warn("Received signal", "signal", sig)
			cancel()
		}()

		var out any
		switch optScanView {
		case "safety":
			out, err = analyzer.SafetyMetrics(ctx, scope)
		case "trips":
			if optScanPage > 0 {
				out, err = analyzer.TripPage(ctx, scope, optScanPage, optScanPerPage)
			} else {
				out, err = analyzer.TripDetails(ctx, scope)
			}
		case "routes":
			out, err = analyzer.PopularRoutes(ctx, scope)
		default:
			err = fmt.Errorf("unknown view %q", optScanView)
		}
		if err != nil {
			log.Fatalln(err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	flags := scanCmd.Flags()
	flags.StringVar(&optScanView, "view", "safety", "View to compute: safety, trips or routes")
	flags.StringVar(&optScanScope, "scope", api.FullScan.String(), "Batches to read: full or first")
	flags.IntVar(&optScanPage, "page", 0, "Page of trips to print (trips view; 0 prints all)")
	flags.IntVar(&optScanPerPage, "per-page", params.DefaultTripDetailsConfig().DefaultPerPage, "Trips per page")
}
