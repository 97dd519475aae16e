package config

import (
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Currency is the display/fiscal currency threaded explicitly into the
// calculator, the words converter and the renderer. No ambient state.
type Currency struct {
	Code     string
	Symbol   string
	UnitWord string // pluriel, pour la somme en lettres ("euros", "dinars")
	CentWord string // "centimes"
}

var currencies = map[string]Currency{
	"EUR": {Code: "EUR", Symbol: "€", UnitWord: "euros", CentWord: "centimes"},
	"DZD": {Code: "DZD", Symbol: "DA", UnitWord: "dinars", CentWord: "centimes"},
}

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	// Fiscal constants. The reference rates: TVA 19%, timbre fiscal 1 unit.
	TVARate  decimal.Decimal
	StampFee decimal.Decimal

	Currency   Currency
	ExportDir  string
	LedgerFile string
	IssuerName string
	IssuerLine string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "4000")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "invoices.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.TVARate = getDecimal("TVA_RATE", "0.19")
	cfg.StampFee = getDecimal("STAMP_FEE", "1")
	cfg.Currency = getCurrency("CURRENCY", "DZD")
	cfg.ExportDir = getEnv("EXPORT_DIR", "exports")
	cfg.LedgerFile = getEnv("LEDGER_FILE", "factures.xlsx")
	cfg.IssuerName = getEnv("ISSUER_NAME", "Garage Auto Services")
	cfg.IssuerLine = getEnv("ISSUER_LINE", "Entretien et réparation toutes marques")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDecimal(key, def string) decimal.Decimal {
	raw := getEnv(key, def)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("invalid decimal for %s: %s, using default %s", key, raw, def)
		return decimal.RequireFromString(def)
	}
	return d
}

func getCurrency(key, def string) Currency {
	code := getEnv(key, def)
	if c, ok := currencies[code]; ok {
		return c
	}
	log.Printf("unknown currency %s, using default %s", code, def)
	return currencies[def]
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
