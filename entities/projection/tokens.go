//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2025 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package projection

import "sync"

// TokenRegistry resolves label and relationship type names to stable, dense
// small integers. Tokens are never removed.
type TokenRegistry struct {
	sync.RWMutex
	ids   map[string]int32
	names []string
}

func NewTokenRegistry() *TokenRegistry {
	return &TokenRegistry{ids: map[string]int32{}}
}

// Resolve returns the token of name, registering it on first use.
func (r *TokenRegistry) Resolve(name string) int32 {
	r.RLock()
	id, ok := r.ids[name]
	r.RUnlock()
	if ok {
		return id
	}

	r.Lock()
	defer r.Unlock()
	if id, ok := r.ids[name]; ok {
		return id
	}
	id = int32(len(r.names))
	r.ids[name] = id
	r.names = append(r.names, name)
	return id
}

// Lookup returns the token of name without registering it.
func (r *TokenRegistry) Lookup(name string) (int32, bool) {
	r.RLock()
	defer r.RUnlock()
	id, ok := r.ids[name]
	return id, ok
}

func (r *TokenRegistry) Name(token int32) string {
	r.RLock()
	defer r.RUnlock()
	if token < 0 || int(token) >= len(r.names) {
		return ""
	}
	return r.names[token]
}

func (r *TokenRegistry) Names() []string {
	r.RLock()
	defer r.RUnlock()
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *TokenRegistry) Len() int {
	r.RLock()
	defer r.RUnlock()
	return len(r.names)
}
