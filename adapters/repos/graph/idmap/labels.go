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

package idmap

import (
	"sort"
	"sync"

	"github.com/weaviate/sroar"

	"github.com/weaviate/graphcore/entities/projection"
)

type labelBitmap struct {
	sync.Mutex
	bm *sroar.Bitmap
}

// LabelIndexBuilder records which internal node ids carry which label.
// Bitmaps are not safe for concurrent writers, so each label has its own
// lock.
type LabelIndexBuilder struct {
	tokens *projection.TokenRegistry

	sync.RWMutex
	bitmaps map[int32]*labelBitmap
}

func NewLabelIndexBuilder(tokens *projection.TokenRegistry) *LabelIndexBuilder {
	return &LabelIndexBuilder{
		tokens:  tokens,
		bitmaps: map[int32]*labelBitmap{},
	}
}

func (b *LabelIndexBuilder) bitmapFor(token int32) *labelBitmap {
	b.RLock()
	lb, ok := b.bitmaps[token]
	b.RUnlock()
	if ok {
		return lb
	}

	b.Lock()
	defer b.Unlock()
	if lb, ok := b.bitmaps[token]; ok {
		return lb
	}
	lb = &labelBitmap{bm: sroar.NewBitmap()}
	b.bitmaps[token] = lb
	return lb
}

func (b *LabelIndexBuilder) Add(internalID uint64, labels []string) {
	for _, label := range labels {
		lb := b.bitmapFor(b.tokens.Resolve(label))
		lb.Lock()
		lb.bm.Set(internalID)
		lb.Unlock()
	}
}

func (b *LabelIndexBuilder) Build() *LabelIndex {
	b.Lock()
	defer b.Unlock()

	bitmaps := make(map[int32]*sroar.Bitmap, len(b.bitmaps))
	for token, lb := range b.bitmaps {
		bitmaps[token] = lb.bm
	}
	return &LabelIndex{tokens: b.tokens, bitmaps: bitmaps}
}

// LabelIndex is the frozen label -> nodes index.
type LabelIndex struct {
	tokens  *projection.TokenRegistry
	bitmaps map[int32]*sroar.Bitmap
}

func (l *LabelIndex) bitmap(label string) *sroar.Bitmap {
	token, ok := l.tokens.Lookup(label)
	if !ok {
		return nil
	}
	return l.bitmaps[token]
}

// Labels returns the labels that occur on at least one node, sorted.
func (l *LabelIndex) Labels() []string {
	out := make([]string, 0, len(l.bitmaps))
	for token := range l.bitmaps {
		out = append(out, l.tokens.Name(token))
	}
	sort.Strings(out)
	return out
}

func (l *LabelIndex) HasLabel(internalID uint64, label string) bool {
	bm := l.bitmap(label)
	return bm != nil && bm.Contains(internalID)
}

// Nodes returns the ascending internal ids carrying label.
func (l *LabelIndex) Nodes(label string) []uint64 {
	bm := l.bitmap(label)
	if bm == nil {
		return nil
	}
	return bm.ToArray()
}

func (l *LabelIndex) Count(label string) int {
	bm := l.bitmap(label)
	if bm == nil {
		return 0
	}
	return bm.GetCardinality()
}
