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
	"runtime"
)

// NUMCPU is the default worker count when nothing else is configured.
var NUMCPU = runtime.GOMAXPROCS(0)

type budgetKey struct{}

func (budgetKey) String() string {
	return "concurrency_budget"
}

func CtxWithBudget(ctx context.Context, budget int) context.Context {
	return context.WithValue(ctx, budgetKey{}, budget)
}

// BudgetFromCtx returns the budget stored in ctx, or fallback if none is set
// or the stored budget is not positive.
func BudgetFromCtx(ctx context.Context, fallback int) int {
	budget, ok := ctx.Value(budgetKey{}).(int)
	if !ok || budget < 1 {
		return fallback
	}

	return budget
}

func ContextWithFractionalBudget(ctx context.Context, factor, fallback int) context.Context {
	budget := BudgetFromCtx(ctx, fallback)
	newBudget := FractionOf(budget, factor)

	return CtxWithBudget(ctx, newBudget)
}

// FractionOf divides budget by factor and never returns less than 1.
func FractionOf(budget, factor int) int {
	if factor < 1 {
		factor = 1
	}
	if out := budget / factor; out > 0 {
		return out
	}
	return 1
}

// Effective caps the configured worker count with the budget in ctx, if any.
func Effective(ctx context.Context, configured int) int {
	budget := BudgetFromCtx(ctx, configured)
	if budget < configured {
		return budget
	}
	return configured
}
