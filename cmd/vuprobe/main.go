// Command vuprobe runs the meter headless: live readings in the terminal,
// PNG snapshots of the dial, and config scaffolding.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.aimuz.me/vumeter/config"
	"go.aimuz.me/vumeter/internal/logging"
)

var (
	version = "dev"
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vuprobe",
	Short: "Headless VU meter probe",
	Long:  `vuprobe reads the default audio input and reports what the VU meter would show.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cfgFile)
		if err != nil {
			return err
		}
		logging.Init(cfg.Log.Format, cfg.Log.Level, os.Stderr)
		return nil
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vuprobe %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is the app's config.json)")
	flags.String("log-format", "", "log format: text or json")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Float64("preamp", 0, "preamp in dB")
	flags.Float64("motion-cutoff", 0, "needle ballistics cutoff in Hz (0 disables)")
	flags.Bool("synthetic", false, "use a 440 Hz test tone instead of the audio input")

	bindFlag("log.format", "log-format")
	bindFlag("log.level", "log-level")
	bindFlag("meter.preamp_db", "preamp")
	bindFlag("meter.motion_cutoff_hz", "motion-cutoff")
	bindFlag("synthetic", "synthetic")

	viper.SetEnvPrefix("VUMETER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(meterCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// loadConfig reads the config file and applies flag and VUMETER_* overrides.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return nil, err
		}
	}
	c, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	overlay(viper.GetViper(), c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func overlay(v *viper.Viper, c *config.Config) {
	if v.IsSet("log.format") && v.GetString("log.format") != "" {
		c.Log.Format = v.GetString("log.format")
	}
	if v.IsSet("log.level") && v.GetString("log.level") != "" {
		c.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("meter.preamp_db") {
		c.Meter.PreampDB = v.GetFloat64("meter.preamp_db")
	}
	if v.IsSet("meter.motion_cutoff_hz") {
		c.Meter.MotionCutoffHz = v.GetFloat64("meter.motion_cutoff_hz")
	}
	if v.IsSet("audio.sample_rate") {
		c.Audio.SampleRate = v.GetInt("audio.sample_rate")
	}
	if v.IsSet("dial_path") {
		c.DialPath = v.GetString("dial_path")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
