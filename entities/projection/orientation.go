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

import (
	"fmt"
	"strings"
)

type Orientation uint8

const (
	OrientationNatural Orientation = iota
	OrientationReverse
	OrientationUndirected
)

func (o Orientation) String() string {
	switch o {
	case OrientationNatural:
		return "NATURAL"
	case OrientationReverse:
		return "REVERSE"
	case OrientationUndirected:
		return "UNDIRECTED"
	default:
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
}

func ParseOrientation(in string) (Orientation, error) {
	switch strings.ToUpper(strings.TrimSpace(in)) {
	case "NATURAL", "":
		return OrientationNatural, nil
	case "REVERSE":
		return OrientationReverse, nil
	case "UNDIRECTED":
		return OrientationUndirected, nil
	default:
		return OrientationNatural, fmt.Errorf("unknown orientation %q", in)
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
