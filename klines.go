package criptofiscal

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// retryAttempts bounds the exponential backoff at the oracle boundary.
const retryAttempts = 4

// Klines prices assets in EUR from Binance 1-minute candles.
//
// Stablecoins have no direct EUR market worth trusting, so they are priced
// through the BTC bridge: stable/EUR = BTCEUR close / BTC{stable} close at
// the same minute. Lookups go through an in-process cache and then the
// persistent PriceDB before touching the network.
type Klines struct {
	Client    *http.Client
	Base      string
	Stables   map[string]bool
	Precision int32
	DB        *PriceDB
	mem       *cache.Cache
}

// NewKlines returns a pricer over the Binance public API.
func NewKlines(cfg Config, db *PriceDB) *Klines {
	return &Klines{
		Client:    new(http.Client),
		Base:      cfg.KlinesURL,
		Stables:   cfg.StableSet(),
		Precision: cfg.Precision,
		DB:        db,
		mem:       cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// PriceEUR implements PriceSource for every non-fiat asset.
func (k *Klines) PriceEUR(asset string, at Timestamp) (decimal.Decimal, error) {
	if !k.Stables[asset] {
		return k.close(asset, "EUR", at)
	}
	btcFiat, err := k.close("BTC", "EUR", at)
	if err != nil {
		return decimal.Zero, err
	}
	btcStable, err := k.close("BTC", asset, at)
	if err != nil {
		return decimal.Zero, err
	}
	if btcStable.IsZero() {
		return decimal.Zero, fmt.Errorf("zero BTC%s close at %s", asset, at)
	}
	return btcFiat.DivRound(btcStable, k.Precision), nil
}

// close returns the 1m candle close for the symbol/vs pair covering at.
func (k *Klines) close(symbol, vs string, at Timestamp) (decimal.Decimal, error) {
	key := fmt.Sprintf("%s_%s_%s", symbol, vs, at.Minute())
	if cached, ok := k.mem.Get(key); ok {
		return cached.(decimal.Decimal), nil
	}
	if cached, ok := k.DB.Get(key); ok {
		price, err := decimal.NewFromString(cached)
		if err == nil {
			k.mem.Set(key, price, cache.DefaultExpiration)
			return price, nil
		}
		log.Printf("corrupt cache entry %q=%q, refetching", key, cached)
	}

	start := at.UnixMilli()
	addr := fmt.Sprintf("%s?symbol=%s%s&interval=1m&startTime=%d&endTime=%d",
		k.Base, symbol, vs, start, start+60_000)
	var jobj any
	if err := jwgetRetry(k.Client, addr, &jobj, retryAttempts); err != nil {
		return decimal.Zero, err
	}
	if jlist, ok := jobj.([]any); !ok || len(jlist) == 0 {
		return decimal.Zero, fmt.Errorf("no %s%s candle at %s", symbol, vs, at.Minute())
	}
	// The close is the 5th field of the first candle, sent as a string.
	jval, err := jsonpath.Get("$[0][4]", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot extract %s%s close: %w", symbol, vs, err)
	}
	closeStr, ok := jval.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected %s%s close %v", symbol, vs, jval)
	}
	price, err := decimal.NewFromString(closeStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s%s close %q: %w", symbol, vs, closeStr, err)
	}

	if err := k.DB.Put(key, price.String()); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	k.mem.Set(key, price, cache.DefaultExpiration)
	return price, nil
}
