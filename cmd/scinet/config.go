package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/scinet/internal/config"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the configuration after defaults, scinet.yml, .env and environment
overrides are applied. The OpenAlex API key is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default scinet.yml in the current directory",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Root      string                `json:"root"`
	DataDir   string                `json:"data_dir"`
	RawDir    string                `json:"raw_dir"`
	OutputDir string                `json:"output_dir"`
	Catalog   string                `json:"catalog"`
	Filter    config.FilterConfig   `json:"filter"`
	OpenAlex  config.OpenAlexConfig `json:"openalex"`
	Server    config.ServerConfig   `json:"server"`
	Log       config.LogConfig      `json:"log"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	oa := cfg.OpenAlex
	if oa.APIKey != "" {
		oa.APIKey = "***"
	}
	resp := ConfigResponse{
		Root:      cfg.Root,
		DataDir:   cfg.DataPath(),
		RawDir:    cfg.RawPath(),
		OutputDir: cfg.OutputPath(),
		Catalog:   cfg.CatalogPath(),
		Filter:    cfg.Filter,
		OpenAlex:  oa,
		Server:    cfg.Server,
		Log:       cfg.Log,
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	outputHuman("root:        %s\n", resp.Root)
	outputHuman("data dir:    %s\n", resp.DataDir)
	outputHuman("raw dir:     %s\n", resp.RawDir)
	outputHuman("output dir:  %s\n", resp.OutputDir)
	outputHuman("catalog:     %s\n", resp.Catalog)
	outputHuman("years:       %d-%d\n", cfg.Filter.YearFrom, cfg.Filter.YearTo)
	outputHuman("topic:       %q (min %d matches)\n", cfg.Filter.Topic, cfg.Filter.MinTopical)
	outputHuman("institution: %s (%s), max %d works\n", oa.Institution, oa.InstitutionID, oa.MaxWorks)
	outputHuman("server:      %s\n", cfg.Server.Addr)
	outputHuman("log:         %s/%s\n", cfg.Log.Mode, cfg.Log.Level)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	if config.IsProject(cwd) {
		exitWithError(ExitConfigError, "%s already exists", config.ConfigPath(cwd))
	}

	cfg := config.Default(cwd)
	if err := cfg.Save(); err != nil {
		return err
	}

	if humanOutput {
		outputHuman("Wrote %s\n", config.ConfigPath(cwd))
		return nil
	}
	return outputJSON(StatusResponse{Status: "created", Path: config.ConfigPath(cwd)})
}
