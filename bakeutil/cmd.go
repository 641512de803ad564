// Package bakeutil contains the command-line interface for baking atmosphere lookup tables.
package bakeutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/Carmen-Shannon/oxy-atmos/engine/atmosphere"
	"github.com/Carmen-Shannon/oxy-atmos/engine/lutio"
	"github.com/Carmen-Shannon/oxy-atmos/engine/renderer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is the version of atmosbake.
const Version = "0.1.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

type configOption struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []configOption

func init() {
	earth := atmosphere.EarthParams()

	// Options are the configuration options available to atmosbake.
	options = []configOption{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the logging level (trace, debug, info, warn, error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory the tables and their manifest are written to.`,
			shorthand:  "o",
			defaultVal: "atmosphere_lut",
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Previews",
			usage: `
              Previews specifies whether to also write PNG heat maps of the tables.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Upload",
			usage: `
              Upload specifies whether to upload the baked tables to a headless
              GPU device as a check that they are usable as textures.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "ForceSoftwareRenderer",
			usage: `
              ForceSoftwareRenderer requests a software fallback adapter for --Upload.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Profile",
			usage: `
              Profile specifies whether to log throughput and memory statistics while baking.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of workers table rows are spread across.
              0 uses one less than the number of CPUs.`,
			shorthand:  "w",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Steps.Transmittance",
			usage: `
              Steps.Transmittance is the number of quadrature steps per transmittance ray.`,
			defaultVal: atmosphere.DefaultTransmittanceSteps,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Steps.View",
			usage: `
              Steps.View is the number of samples along each view ray of the scattering table.`,
			defaultVal: atmosphere.DefaultViewSteps,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Steps.Sun",
			usage: `
              Steps.Sun is the number of quadrature steps toward the sun per view-ray sample.`,
			defaultVal: atmosphere.DefaultSunSteps,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Steps.Irradiance",
			usage: `
              Steps.Irradiance is the number of quadrature steps per sun ray of the irradiance table.`,
			defaultVal: atmosphere.DefaultTransmittanceSteps,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Planet.GroundRadius",
			usage: `
              Planet.GroundRadius is the planet radius in meters.`,
			defaultVal: earth.GroundRadius,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Planet.AtmosphereHeight",
			usage: `
              Planet.AtmosphereHeight is the thickness of the atmosphere in meters.`,
			defaultVal: earth.AtmosphereHeight,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Rayleigh.Scattering",
			usage: `
              Rayleigh.Scattering is the red, green and blue Rayleigh scattering
              coefficient at sea level, per meter.`,
			defaultVal: formatRGB(earth.RayleighScattering),
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Rayleigh.ScaleHeight",
			usage: `
              Rayleigh.ScaleHeight is the exponential scale height of air molecules in meters.`,
			defaultVal: earth.RayleighDensity.Layers[1].Scale,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Mie.Scattering",
			usage: `
              Mie.Scattering is the red, green and blue aerosol scattering
              coefficient at sea level, per meter.`,
			defaultVal: formatRGB(earth.MieScattering),
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Mie.Extinction",
			usage: `
              Mie.Extinction is the red, green and blue aerosol extinction
              coefficient at sea level, per meter.`,
			defaultVal: formatRGB(earth.MieExtinction),
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Mie.ScaleHeight",
			usage: `
              Mie.ScaleHeight is the exponential scale height of aerosols in meters.`,
			defaultVal: earth.MieDensity.Layers[1].Scale,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Mie.Asymmetry",
			usage: `
              Mie.Asymmetry is the g parameter of the aerosol phase function.`,
			defaultVal: earth.MieAsymmetry,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Ozone.Absorption",
			usage: `
              Ozone.Absorption is the red, green and blue ozone absorption
              coefficient at peak density, per meter.`,
			defaultVal: formatRGB(earth.OzoneAbsorption),
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Ozone.Enabled",
			usage: `
              Ozone.Enabled specifies whether to include the ozone layer between 10 and 40 km.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Ground.Albedo",
			usage: `
              Ground.Albedo is the red, green and blue ground reflectance.`,
			defaultVal: formatRGB(earth.GroundAlbedo),
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Sun.Irradiance",
			usage: `
              Sun.Irradiance is the red, green and blue solar irradiance at the
              top of the atmosphere.`,
			defaultVal: formatRGB(earth.SolarIrradiance),
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Sun.AngularRadius",
			usage: `
              Sun.AngularRadius is the angular radius of the sun in radians.`,
			defaultVal: earth.SunAngularRadius,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Tables.Transmittance",
			usage: `
              Tables.Transmittance is the width (view cosine) and height (radius)
              of the transmittance table.`,
			defaultVal: []int{earth.Transmittance.Width, earth.Transmittance.Height},
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Tables.Scattering",
			usage: `
              Tables.Scattering is the r, mu, mu_s and nu resolution of the
              scattering table.`,
			defaultVal: []int{earth.Scattering.R, earth.Scattering.Mu, earth.Scattering.MuS, earth.Scattering.Nu},
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "Tables.Irradiance",
			usage: `
              Tables.Irradiance is the width (sun cosine) and height (radius)
              of the irradiance table.`,
			defaultVal: []int{earth.Irradiance.Width, earth.Irradiance.Height},
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
		{
			name: "ScatteringOrders",
			usage: `
              ScatteringOrders is the number of scattering orders requested.
              Only single scattering is baked; larger values log a warning.`,
			defaultVal: earth.ScatteringOrders,
			flagsets:   []*pflag.FlagSet{bakeCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ATMOSBAKE")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
			case int:
				set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
			case []int:
				set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(bakeCmd)
}

// setConfig finds and reads in the configuration file, if there is one, and applies the log level.
func setConfig(cmd *cobra.Command) error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("atmosbake: problem reading configuration file: %w", err)
		}
	}

	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("atmosbake: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "atmosbake",
	Short: "Bake atmospheric scattering lookup tables.",
	Long: `atmosbake precomputes the transmittance, single-scattering and direct-irradiance
lookup tables used to render a planetary atmosphere in real time.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ATMOSBAKE_var' where 'var' is the
name of the variable to be set, with dots replaced by underscores
(for example ATMOSBAKE_PLANET_GROUNDRADIUS).`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return setConfig(cmd) },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of atmosbake.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("atmosbake v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

// bakeCmd bakes the tables and writes them to OutputDir.
var bakeCmd = &cobra.Command{
	Use:   "bake",
	Short: "Bake the lookup tables.",
	Long: `bake computes the transmittance, single-scattering and direct-irradiance tables
for the configured atmosphere and writes them as raw little-endian float32 files
with a TOML manifest to OutputDir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return Bake(ctx, Cfg, cmd)
	},
	DisableAutoGenTag: true,
}

// BakerOptionsFromConfig returns the baker options selected by a configuration.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - []atmosphere.BakerBuilderOption: the options
func BakerOptionsFromConfig(cfg *viper.Viper) []atmosphere.BakerBuilderOption {
	return []atmosphere.BakerBuilderOption{
		atmosphere.WithWorkers(cfg.GetInt("Workers")),
		atmosphere.WithTransmittanceSteps(cfg.GetInt("Steps.Transmittance")),
		atmosphere.WithScatteringSteps(cfg.GetInt("Steps.View"), cfg.GetInt("Steps.Sun")),
		atmosphere.WithIrradianceSteps(cfg.GetInt("Steps.Irradiance")),
		atmosphere.WithProfiling(cfg.GetBool("Profile")),
		atmosphere.WithLogger(logrus.StandardLogger()),
	}
}

// Bake runs a bake as configured by cfg and writes the result. Progress is logged and a
// summary of each table is printed to cmd's output.
//
// Parameters:
//   - ctx: cancels the bake
//   - cfg: the configuration
//   - cmd: the command whose output receives the summary
//
// Returns:
//   - error: an error if configuration, baking, writing or uploading fails
func Bake(ctx context.Context, cfg *viper.Viper, cmd *cobra.Command) error {
	params, err := ParamsFromConfig(cfg)
	if err != nil {
		return err
	}

	baker := atmosphere.NewBaker(BakerOptionsFromConfig(cfg)...)
	defer baker.Close()

	result, err := baker.Bake(ctx, params)
	if err != nil {
		return err
	}
	defer result.Release()

	summary := atmosphere.Summarize(result)
	for _, table := range []struct {
		name  string
		stats atmosphere.TableStats
	}{
		{"transmittance", summary.Transmittance},
		{"scattering", summary.Scattering},
		{"irradiance", summary.Irradiance},
	} {
		cmd.Printf("%-14s min %-12.6g max %-12.6g mean %-12.6g non-finite %d\n",
			table.name, table.stats.Min, table.stats.Max, table.stats.Mean, table.stats.NonFinite)
	}

	dir := cfg.GetString("OutputDir")
	if err := lutio.Write(dir, params, result); err != nil {
		return err
	}
	logrus.WithField("dir", dir).Info("atmosbake: tables written")

	if cfg.GetBool("Previews") {
		if err := lutio.WritePreviews(dir, params, result); err != nil {
			return err
		}
	}

	if cfg.GetBool("Upload") {
		if err := upload(result, cfg.GetBool("ForceSoftwareRenderer")); err != nil {
			return err
		}
	}
	return nil
}

// upload creates the GPU textures on a headless device and releases them again.
func upload(result *atmosphere.AtmosResult, forceSoftware bool) error {
	r, err := renderer.NewRenderer(renderer.WithForceSoftwareRenderer(forceSoftware))
	if err != nil {
		return err
	}
	defer r.Release()

	textures, err := r.UploadAtmosphere(result)
	if err != nil {
		return err
	}
	textures.Release()
	logrus.WithField("backend", r.Backend().String()).Info("atmosbake: tables uploaded")
	return nil
}
