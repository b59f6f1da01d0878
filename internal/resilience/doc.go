// Package resilience provides fault tolerance patterns for the application.
//
// The circuitbreaker subpackage wraps sony/gobreaker. The cache layer uses it
// to stop calling an unhealthy Redis and fall back to the loader:
//
//	cb := circuitbreaker.New(circuitbreaker.CacheConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return client.Get(ctx, key).Bytes()
//	})
package resilience
