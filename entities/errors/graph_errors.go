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
	"errors"
	"fmt"
)

var (
	ErrConfiguration    = errors.New("invalid configuration")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrCancelled        = errors.New("graph construction cancelled")
	ErrNodeNotFound     = errors.New("node not found")

	errOutOfMemory       = errors.New("not enough memory")
	ErrAllocationFailure = fmt.Errorf("allocation failure: %w", errOutOfMemory)
)

// IsTransient reports whether running the same construction again could
// succeed once memory frees up.
func IsTransient(err error) bool {
	return errors.Is(err, errOutOfMemory)
}

func NewConfigurationError(format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrConfiguration)
}

func NewCapacityExceeded(format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrCapacityExceeded)
}

func NewCancelled(cause error) error {
	if cause == nil {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %v", ErrCancelled, cause)
}

func NewAllocationFailure(format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrAllocationFailure)
}

func NewNodeNotFound(format string, a ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, a...), ErrNodeNotFound)
}

// MissingPropertyError is returned when a relationship lacks a property the
// projection requires. Source and Target are original node ids.
type MissingPropertyError struct {
	Property string
	Source   uint64
	Target   uint64
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing required property %q on relationship (%d)->(%d)",
		e.Property, e.Source, e.Target)
}

// MissingNodePropertyError is returned when a node lacks a property the
// projection requires. NodeID is the original node id.
type MissingNodePropertyError struct {
	Property string
	NodeID   uint64
}

func (e *MissingNodePropertyError) Error() string {
	return fmt.Sprintf("missing required property %q on node %d", e.Property, e.NodeID)
}
