package service

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// GeocodeCache 逆ジオコーディング結果のキャッシュ
// キーは緯度経度を小数点以下3桁（約110m）に丸めたもの
// maxEntries が0以下なら上限なし、ttl が0以下なら期限なし
type GeocodeCache struct {
	entries *expirable.LRU[string, string]
}

// NewGeocodeCache 新しいキャッシュを作成
func NewGeocodeCache(maxEntries int, ttl time.Duration) *GeocodeCache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	if ttl < 0 {
		ttl = 0
	}
	return &GeocodeCache{
		entries: expirable.NewLRU[string, string](maxEntries, nil, ttl),
	}
}

// GeocodeCacheKey キャッシュキーを生成する（例: "40.417_-3.704"）
func GeocodeCacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.3f_%.3f", lat, lng)
}

func (c *GeocodeCache) Get(lat, lng float64) (string, bool) {
	return c.entries.Get(GeocodeCacheKey(lat, lng))
}

func (c *GeocodeCache) Put(lat, lng float64, address string) {
	c.entries.Add(GeocodeCacheKey(lat, lng), address)
}

func (c *GeocodeCache) Clear() {
	c.entries.Purge()
}

func (c *GeocodeCache) Len() int {
	return c.entries.Len()
}
