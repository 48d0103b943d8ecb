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

package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphErrors(t *testing.T) {
	t.Run("sentinels survive wrapping", func(t *testing.T) {
		assert.ErrorIs(t, NewConfigurationError("concurrency must be > 0, got %d", 0), ErrConfiguration)
		assert.ErrorIs(t, NewCapacityExceeded("id %d", 20), ErrCapacityExceeded)
		assert.ErrorIs(t, NewCancelled(context.Canceled), ErrCancelled)
		assert.ErrorIs(t, NewCancelled(nil), ErrCancelled)
		assert.ErrorIs(t, NewNodeNotFound("target %d", 3), ErrNodeNotFound)
	})

	t.Run("allocation failure is transient", func(t *testing.T) {
		err := NewAllocationFailure("page directory full")
		assert.ErrorIs(t, err, ErrAllocationFailure)
		assert.True(t, IsTransient(err))
		assert.False(t, IsTransient(ErrConfiguration))
	})

	t.Run("missing property errors name the ids", func(t *testing.T) {
		var err error = &MissingPropertyError{Property: "weight", Source: 4, Target: 7}
		assert.Equal(t, `missing required property "weight" on relationship (4)->(7)`, err.Error())

		err = &MissingNodePropertyError{Property: "age", NodeID: 42}
		var target *MissingNodePropertyError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, uint64(42), target.NodeID)
	})
}

func TestErrorGroupWrapper(t *testing.T) {
	logger, hook := test.NewNullLogger()

	t.Run("first error wins", func(t *testing.T) {
		eg := NewErrorGroupWrapper(logger)
		eg.Go(func() error { return ErrCapacityExceeded })
		eg.Go(func() error { return nil })
		assert.ErrorIs(t, eg.Wait(), ErrCapacityExceeded)
	})

	t.Run("panic is turned into an error", func(t *testing.T) {
		hook.Reset()
		eg := NewErrorGroupWrapper(logger)
		eg.Go(func() error { panic("boom") })
		err := eg.Wait()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.NotEmpty(t, hook.AllEntries())
	})

	t.Run("context is cancelled on error", func(t *testing.T) {
		eg, ctx := NewErrorGroupWithContextWrapper(logger, context.Background())
		eg.Go(func() error { return ErrConfiguration })
		eg.Go(func() error {
			<-ctx.Done()
			return ctx.Err()
		})
		assert.ErrorIs(t, eg.Wait(), ErrConfiguration)
	})
}
