package main

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"odidscan/internal/app"
	"odidscan/internal/odid"
)

func main() {
	rootCmd := newRootCommand(func(config app.Config) error {
		return app.NewApplication(config).Start()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI; run receives the resolved configuration
func newRootCommand(run func(app.Config) error) *cobra.Command {
	config := app.DefaultConfig()
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "odidscan",
		Short: "Wi-Fi Remote ID scanner",
		Long: `Wi-Fi Remote ID scanner (ASTM F3411 / ASD-STAN prEN 4709-002).

Captures 802.11 management frames from a monitor-mode interface or a pcap
file, locates the Open Drone ID vendor element and decodes every message
in its message pack.

Example usage:
  odidscan --pcap capture.pcapng
  odidscan --interface wlan0mon --monitor --repeat --db odid.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}

			if configPath != "" {
				if err := applyConfigFile(cmd, &config, configPath); err != nil {
					return err
				}
			}

			return run(config)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&config.PcapFile, "pcap", "r", "", "Read frames from a pcap or pcapng file")
	flags.StringVarP(&config.Interface, "interface", "i", "", "Capture from a network interface")
	flags.BoolVar(&config.Monitor, "monitor", false, "Put the interface into monitor mode")
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.IntVarP(&config.Frequency, "frequency", "f", app.DefaultFrequency, "Frequency (MHz) when the capture carries none")
	flags.IntVar(&config.MinRSSI, "min-rssi", app.DefaultMinRSSI, "Drop frames below this signal strength (dBm)")
	flags.BoolVar(&config.Repeat, "repeat", false, "Scan repeatedly until interrupted")
	flags.DurationVar(&config.ScanInterval, "scan-interval", app.DefaultScanInterval, "Pause between scan passes")
	flags.DurationVar(&config.ScanDuration, "scan-duration", app.DefaultScanDuration, "Length of one live scan pass")
	flags.Float64Var(&config.ReplaySpeed, "replay-speed", 0, "Replay pcap files at this multiple of real time (0 = as fast as possible)")
	flags.IntVarP(&config.Workers, "workers", "w", app.DefaultWorkers, "Number of decoding workers")
	flags.StringVarP(&config.LogDir, "log-dir", "l", app.DefaultLogDir, "Record log directory (empty disables)")
	flags.BoolVarP(&config.LogRotateUTC, "utc", "u", true, "Use UTC for record log rotation")
	flags.IntVar(&config.LogRetentionDays, "log-retention", 0, "Remove record log files older than this many days (0 keeps all)")
	flags.StringVar(&config.DBPath, "db", "", "SQLite database for decoded messages")
	flags.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flags.BoolVarP(&config.Quiet, "quiet", "q", false, "Do not print decoded frames to stdout")
	flags.StringVar(&config.LogFormat, "log-format", app.DefaultLogFormat, "Log format: text or json")
	flags.DurationVar(&config.StatsInterval, "stats-interval", app.DefaultStatsInterval, "Statistics log interval (0 disables)")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging and hex dumps")
	flags.BoolVar(&config.ShowVersion, "version", false, "Show version information")

	rootCmd.AddCommand(newDecodeCommand())

	return rootCmd
}

// applyConfigFile loads the file into config; flags given on the command
// line keep precedence over the file.
func applyConfigFile(cmd *cobra.Command, config *app.Config, path string) error {
	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	loaded, err := app.LoadConfig(path, app.DefaultConfig())
	if err != nil {
		return err
	}
	*config = loaded

	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("failed to reapply --%s: %w", name, err)
		}
	}
	return nil
}

// newDecodeCommand decodes a single frame given as hex
func newDecodeCommand() *cobra.Command {
	var (
		frequency int
		rssi      int
		hexdump   bool
	)

	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode one 802.11 frame given as hex",
		Long: `Decode one 802.11 frame given as hex. Spaces and colons are ignored.

Example usage:
  odidscan decode "80 00 00 00 ff ff ff ff ff ff ... fa 0b bc 0d ..."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseHex(strings.Join(args, ""))
			if err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())

			frame := odid.RawFrame{Data: data, RSSI: rssi, Frequency: frequency}
			if len(data) >= 16 {
				frame.Transmitter = append(net.HardwareAddr{}, data[10:16]...)
			}

			result := odid.NewDecoder(logger).DecodeFrame(frame)
			if !result.Found() {
				return odid.ErrSignatureNotFound
			}

			return app.NewTextSink(cmd.OutOrStdout(), hexdump).Write(cmd.Context(), result)
		},
	}

	cmd.Flags().IntVarP(&frequency, "frequency", "f", app.DefaultFrequency, "Frequency (MHz) shown in the output")
	cmd.Flags().IntVar(&rssi, "rssi", 0, "Signal strength (dBm) shown in the output")
	cmd.Flags().BoolVar(&hexdump, "hexdump", false, "Print the frame bytes")

	return cmd
}

// parseHex decodes hex text, ignoring whitespace and colons
func parseHex(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)

	data, err := hex.DecodeString(strings.TrimPrefix(cleaned, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex frame: %w", err)
	}
	return data, nil
}
