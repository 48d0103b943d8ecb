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

package errorcompounder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCompounder(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ec := New()
		ec.Add(nil)
		ec.AddWrapf(nil, "ignored")
		assert.True(t, ec.Empty())
		assert.Nil(t, ec.ToError())
		assert.Nil(t, ec.First())
	})

	t.Run("joins messages in order", func(t *testing.T) {
		ec := New()
		ec.Addf("concurrency must be positive")
		ec.AddWrapf(fmt.Errorf("too small"), "page size")
		ec.Add(fmt.Errorf("third"))

		assert.Equal(t, 3, ec.Len())
		assert.EqualError(t, ec.First(), "concurrency must be positive")
		assert.EqualError(t, ec.ToError(),
			"concurrency must be positive, page size: too small, third")
	})
}
