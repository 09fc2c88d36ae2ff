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
	"log"
	"log/slog"

	"github.com/rotblauer/drivesafe/common"
	"github.com/rotblauer/drivesafe/daemon/webd"
	"github.com/rotblauer/drivesafe/params"
	"github.com/spf13/cobra"
)

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long: `Serves the safety metrics, trip details and popular routes views over HTTP.
Safety metrics read the whole source; trip details and popular routes read its first batch.`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		config, err := webDaemonConfig()
		if err != nil {
			log.Fatalln(err)
		}
		server, err := webd.NewWebDaemon(config)
		if err != nil {
			log.Fatalln(err)
		}
		if err := server.Start(); err != nil {
			log.Fatalln(err)
		}

		sig := <-common.Interrupted()
		slog.Warn("Received signal", "signal", sig)
		server.Interrupt()
		server.Wait()
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.String("address", defaults.Address, "HTTP address to listen on")
	pFlags.Int("per-page", defaults.Details.DefaultPerPage, "Default trip details page size")
	bindFlags(pFlags, "address", "per-page")
}
