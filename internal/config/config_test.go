package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_DSN", "APP_ENV", "TVA_RATE", "STAMP_FEE",
		"CURRENCY", "EXPORT_DIR", "LEDGER_FILE", "ISSUER_NAME", "ISSUER_LINE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "4000" {
		t.Fatalf("port default: %q", cfg.Port)
	}
	if cfg.DatabaseDSN != "invoices.db" {
		t.Fatalf("dsn default: %q", cfg.DatabaseDSN)
	}
	if !cfg.TVARate.Equal(decimal.RequireFromString("0.19")) {
		t.Fatalf("tva default: %s", cfg.TVARate)
	}
	if !cfg.StampFee.Equal(decimal.RequireFromString("1")) {
		t.Fatalf("stamp default: %s", cfg.StampFee)
	}
	if cfg.Currency.Code != "DZD" || cfg.Currency.Symbol != "DA" {
		t.Fatalf("currency default: %+v", cfg.Currency)
	}
	if cfg.LedgerFile != "factures.xlsx" {
		t.Fatalf("ledger default: %q", cfg.LedgerFile)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("TVA_RATE", "0.20")
	t.Setenv("STAMP_FEE", "0")
	t.Setenv("CURRENCY", "EUR")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port override: %q", cfg.Port)
	}
	if !cfg.TVARate.Equal(decimal.RequireFromString("0.20")) {
		t.Fatalf("tva override: %s", cfg.TVARate)
	}
	if !cfg.StampFee.IsZero() {
		t.Fatalf("stamp override: %s", cfg.StampFee)
	}
	if cfg.Currency.Symbol != "€" || cfg.Currency.UnitWord != "euros" {
		t.Fatalf("currency override: %+v", cfg.Currency)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TVA_RATE", "not-a-number")
	t.Setenv("CURRENCY", "XXX")
	cfg := Load()
	if !cfg.TVARate.Equal(decimal.RequireFromString("0.19")) {
		t.Fatalf("bad tva must fall back: %s", cfg.TVARate)
	}
	if cfg.Currency.Code != "DZD" {
		t.Fatalf("unknown currency must fall back: %+v", cfg.Currency)
	}
}

func TestParseBool(t *testing.T) {
	t.Setenv("FLAG", "")
	if ParseBool("FLAG", true) != true {
		t.Fatal("unset flag must use default")
	}
	t.Setenv("FLAG", "1")
	if !ParseBool("FLAG", false) {
		t.Fatal("flag=1 must be true")
	}
	t.Setenv("FLAG", "nope")
	if ParseBool("FLAG", false) {
		t.Fatal("invalid flag must use default")
	}
}
