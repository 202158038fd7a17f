package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/drone-sonar/configs"
	"github.com/RyanBlaney/drone-sonar/logging"
)

const envPrefix = "DRONE_SONAR"

var (
	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string
	precision    int
	workers      int

	// appConfig is populated before any subcommand runs
	appConfig *configs.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dronefeat",
	Short: "Acoustic feature extraction for drone detection",
	Long: `dronefeat computes the 19-dimensional unit-norm acoustic descriptor used to
match drone recordings against labelled prototypes.

The extraction is deterministic: the same waveform and sample rate always give
a bit-identical vector. The tool can synthesise test signals, check
determinism under concurrency and verify the golden corpus shared with
scripts/reference_features.py.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error(xerrors.New(err), "Command failed", logging.Fields{
			"command": strings.Join(os.Args[1:], " "),
		})
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/dronefeat/dronefeat.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", configs.FormatTable,
		"output format (json, yaml, table)")
	rootCmd.PersistentFlags().IntVar(&precision, "precision", 6,
		"decimal places in table output")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0,
		"concurrent extractions (default is the number of CPUs)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("output.precision", rootCmd.PersistentFlags().Lookup("precision"))
	viper.BindPFlag("extraction.workers", rootCmd.PersistentFlags().Lookup("workers"))
}

// initConfig reads in .env, the config file and ENV variables if set
func initConfig() {
	// A missing .env is normal
	_ = godotenv.Load()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dronefeat"))
		}
		viper.AddConfigPath("/etc/dronefeat")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("dronefeat")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// initializeConfig binds the command's local flags, then loads and validates
// the configuration and installs the global logger
func initializeConfig(cmd *cobra.Command) error {
	if err := bindFlags(cmd, viper.GetViper()); err != nil {
		return err
	}

	config, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	appConfig = config

	logger := logging.NewDefaultLogger()
	level := logging.ParseLevel(config.LogLevel)
	if config.Verbose {
		level = logging.DebugLevel
	}
	logger.SetLevel(level)
	if !config.Output.Colors {
		logger.SetColors(false)
	}
	logging.SetGlobalLogger(logger)

	return nil
}

// bindFlags binds each local cobra flag to viper under the command's name, so
// "golden verify --path" reads "golden.path" from the config file when the
// flag is not given
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	section := cmd.Name()
	if parent := cmd.Parent(); parent != nil && parent.HasParent() {
		section = parent.Name()
	}

	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := section + "." + strings.ReplaceAll(f.Name, "-", "_")

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(key) {
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(key))); err != nil {
				lastErr = err
			}
		}
	})

	return lastErr
}
