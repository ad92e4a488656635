// Package cache holds loaded objects that are expensive to read again,
// such as puzzle sets, keyed by name.
package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/gambit/config"
)

type objectCache struct {
	sync.Mutex
	objects map[string]any
}

var global = &objectCache{objects: make(map[string]any)}

// LoadFunc reads the object stored under key.
type LoadFunc[T any] func(cfg *config.Config, key string) (T, error)

// Load returns the object cached under key, calling fn to load it the first
// time. Concurrent callers for the same key wait for one load.
func Load[T any](cfg *config.Config, key string, fn LoadFunc[T]) (T, error) {
	global.Lock()
	defer global.Unlock()
	if obj, ok := global.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting-obj-from-cache")
		t, ok := obj.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("cached object %q is a %T", key, obj)
		}
		return t, nil
	}
	log.Debug().Str("key", key).Msg("loading-into-cache")
	obj, err := fn(cfg, key)
	if err != nil {
		return obj, err
	}
	global.objects[key] = obj
	return obj, nil
}

// Evict drops key so the next Load reads it again.
func Evict(key string) {
	global.Lock()
	defer global.Unlock()
	delete(global.objects, key)
}
