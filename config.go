package criptofiscal

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries the run-wide knobs, loaded from a .env file and the
// environment with sensible defaults.
type Config struct {
	Precision      int32  // fractional digits for every division site
	CachePath      string // sqlite price cache, empty disables persistence
	KlinesURL      string // Binance klines endpoint
	FrankfurterURL string // ECB rates endpoint
	Fiat           []string
	Stables        []string
}

// LoadConfig reads CRIPTOFISCAL_* variables, after loading a .env file if
// one is present.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("no .env file loaded:", err)
	}
	return Config{
		Precision:      int32(getEnvAsInt("CRIPTOFISCAL_PRECISION", 18)),
		CachePath:      getEnv("CRIPTOFISCAL_CACHE", "prices.db"),
		KlinesURL:      getEnv("CRIPTOFISCAL_KLINES_URL", "https://api.binance.com/api/v3/klines"),
		FrankfurterURL: getEnv("CRIPTOFISCAL_FRANKFURTER_URL", "https://api.frankfurter.app"),
		Fiat:           getEnvAsList("CRIPTOFISCAL_FIAT", []string{"EUR", "USD"}),
		Stables:        getEnvAsList("CRIPTOFISCAL_STABLES", []string{"USDC", "USDT"}),
	}
}

// FiatSet returns the fiat list as a membership set.
func (c Config) FiatSet() map[string]bool { return toSet(c.Fiat) }

// StableSet returns the stablecoin list as a membership set.
func (c Config) StableSet() map[string]bool { return toSet(c.Stables) }

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("invalid integer for %s (%q), using default %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var list []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
