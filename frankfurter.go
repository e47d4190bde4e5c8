package criptofiscal

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// Frankfurter serves the daily ECB USD to EUR reference rate from the
// frankfurter.app API, with the same two cache layers as Klines.
type Frankfurter struct {
	Client *http.Client
	Base   string
	DB     *PriceDB
	mem    *cache.Cache
}

// NewFrankfurter returns a rate source over the Frankfurter API.
func NewFrankfurter(cfg Config, db *PriceDB) *Frankfurter {
	return &Frankfurter{
		Client: new(http.Client),
		Base:   cfg.FrankfurterURL,
		DB:     db,
		mem:    cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// UsdEur implements PriceSource for the USD leg valuation.
func (f *Frankfurter) UsdEur(day string) (decimal.Decimal, error) {
	key := "USD_EUR_" + day
	if cached, ok := f.mem.Get(key); ok {
		return cached.(decimal.Decimal), nil
	}
	if cached, ok := f.DB.Get(key); ok {
		rate, err := decimal.NewFromString(cached)
		if err == nil {
			f.mem.Set(key, rate, cache.DefaultExpiration)
			return rate, nil
		}
		log.Printf("corrupt cache entry %q=%q, refetching", key, cached)
	}

	addr := fmt.Sprintf("%s/%s?from=USD&to=EUR", f.Base, day)
	// json.Number keeps the rate exact down to the decimal conversion.
	var payload struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := jwgetRetry(f.Client, addr, &payload, retryAttempts); err != nil {
		return decimal.Zero, err
	}
	raw, ok := payload.Rates["EUR"]
	if !ok {
		return decimal.Zero, fmt.Errorf("no EUR rate for %s in frankfurter response", day)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid EUR rate %q for %s: %w", raw, day, err)
	}

	if err := f.DB.Put(key, rate.String()); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	f.mem.Set(key, rate, cache.DefaultExpiration)
	return rate, nil
}

// Oracle combines the two price providers into the PriceSource the valuation
// stage needs.
type Oracle struct {
	*Klines
	*Frankfurter
}

// NewOracle wires the kline and FX providers over a shared persistent cache.
func NewOracle(cfg Config, db *PriceDB) Oracle {
	return Oracle{Klines: NewKlines(cfg, db), Frankfurter: NewFrankfurter(cfg, db)}
}
