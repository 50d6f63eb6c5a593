package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"reflect"
	"strings"
	"time"

	"storefront-backend/pkg/logger"
)

// ListingKeyPrefix đứng trước mọi key sinh bởi CanonicalKey
const ListingKeyPrefix = "listing:"

// Producer tính giá trị khi cache miss
type Producer[T any] func(ctx context.Context) (T, error)

// Remember trả về giá trị cached cho key, nếu miss thì gọi producer rồi lưu lại với TTL.
//
// Lỗi từ cache store (Get/Set) chỉ được log, request vẫn chạy bằng producer.
// Giá trị nil (pointer/slice/map) không được cache.
// store = nil nghĩa là không có cache, gọi thẳng producer.
func Remember[T any](ctx context.Context, store Cache, key string, ttl time.Duration, producer Producer[T]) (T, error) {
	if store != nil && key != "" {
		var cached T
		found, err := store.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("Cache GET failed, falling back to source", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		} else if found {
			logger.Debug("Cache HIT: " + key)
			return cached, nil
		}
	}

	logger.Debug("Cache MISS: " + key)

	value, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if store != nil && key != "" && !isNilValue(value) {
		if err := store.Set(ctx, key, value, ttl); err != nil {
			logger.Warn("Cache SET failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return value, nil
}

// Forget xóa keys khỏi cache. Phải gọi SAU khi transaction đã commit.
func Forget(ctx context.Context, store Cache, keys ...string) {
	if store == nil {
		return
	}

	filtered := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			filtered = append(filtered, k)
		}
	}
	if len(filtered) == 0 {
		return
	}

	if err := store.Delete(ctx, filtered...); err != nil {
		logger.Warn("Cache DELETE failed", map[string]interface{}{
			"keys":  filtered,
			"error": err.Error(),
		})
	}
}

// CanonicalKey sinh cache key cho listing request:
// sha1(url + "?" + query đã sort theo tên param + suffix)
//
// url.Values.Encode sort theo key nên ?a=1&b=2 và ?b=2&a=1 cho cùng một key.
// Query string có sẵn trong rawURL bị bỏ qua, chỉ dùng query truyền vào.
func CanonicalKey(rawURL string, query url.Values, suffix string) string {
	base := rawURL
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}

	encoded := ""
	if query != nil {
		encoded = query.Encode()
	}

	sum := sha1.Sum([]byte(base + "?" + encoded + suffix))
	return ListingKeyPrefix + hex.EncodeToString(sum[:])
}

func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
