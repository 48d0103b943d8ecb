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

package concurrency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, 8, BudgetFromCtx(ctx, 8))
	assert.Equal(t, 3, BudgetFromCtx(CtxWithBudget(ctx, 3), 8))
	assert.Equal(t, 8, BudgetFromCtx(CtxWithBudget(ctx, 0), 8))

	half := ContextWithFractionalBudget(CtxWithBudget(ctx, 8), 2, 1)
	assert.Equal(t, 4, BudgetFromCtx(half, 1))

	assert.Equal(t, 1, FractionOf(1, 4))
	assert.Equal(t, 5, FractionOf(10, 2))
	assert.Equal(t, 10, FractionOf(10, 0))

	assert.Equal(t, 4, Effective(ctx, 4))
	assert.Equal(t, 2, Effective(CtxWithBudget(ctx, 2), 4))
	assert.Equal(t, 4, Effective(CtxWithBudget(ctx, 16), 4))
}
