package main

import (
	"testing"

	"github.com/matsen/scinet/internal/config"
)

func TestApplyBuildFlags(t *testing.T) {
	if err := buildAuthorCmd.ParseFlags([]string{"--year-from", "2022", "--topic", ""}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := config.Default(t.TempDir())
	if err := applyBuildFlags(buildAuthorCmd, cfg); err != nil {
		t.Fatalf("applyBuildFlags: %v", err)
	}

	if cfg.Filter.YearFrom != 2022 {
		t.Errorf("YearFrom = %d, want 2022", cfg.Filter.YearFrom)
	}
	if cfg.Filter.YearTo != config.DefaultYearTo {
		t.Errorf("YearTo = %d, want unchanged %d", cfg.Filter.YearTo, config.DefaultYearTo)
	}
	if cfg.Filter.Topic != "" {
		t.Errorf("Topic = %q, want empty (explicitly set)", cfg.Filter.Topic)
	}
	if cfg.Filter.MinTopical != config.DefaultMinTopical {
		t.Errorf("MinTopical = %d, want unchanged", cfg.Filter.MinTopical)
	}
}

func TestApplyBuildFlagsInvalidRange(t *testing.T) {
	if err := buildCitationCmd.ParseFlags([]string{"--year-from", "2030"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if err := applyBuildFlags(buildCitationCmd, config.Default(t.TempDir())); err == nil {
		t.Error("expected error for year_from after year_to")
	}
}
