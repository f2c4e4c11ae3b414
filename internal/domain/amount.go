package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a monetary value in whole currency units. The wire is
// inconsistent about numbers: most endpoints send them as JSON numbers but
// the payments list sometimes carries numeric strings, which the original
// client re-parsed element by element in every view. Normalizing once at
// the decode boundary keeps the rest of the code on int64.
type Amount int64

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(a), 10)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = 0
		return nil
	}

	s = strings.Trim(s, `"`)
	if s == "" {
		*a = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", s, err)
	}

	*a = Amount(math.Round(f))

	return nil
}
