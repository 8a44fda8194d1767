// AngelaMos | 2026
// summary.go

package rating

import (
	"errors"
	"fmt"
	"math"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

const (
	MinValue = 1
	MaxValue = 5
)

var ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")

// Summary is the derived view of a store's ratings. It is never stored.
type Summary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
}

// Summarize divides an integer sum by its count and rounds half away
// from zero to two decimals. No ratings yields a zero average.
func Summarize(sum, count int64) Summary {
	if count <= 0 {
		return Summary{}
	}

	return Summary{
		AverageRating: float64(roundHundredths(sum, count)) / 100,
		RatingCount:   count,
	}
}

// roundHundredths returns round(sum/count * 100) computed in integers,
// so exact halves such as 41/40 round correctly.
func roundHundredths(sum, count int64) int64 {
	if sum < 0 {
		return -roundHundredths(-sum, count)
	}
	return (200*sum + count) / (2 * count)
}

// SummarizeValues is Summarize over individual rating rows.
func SummarizeValues[T interface{ score() int }](rows []T) Summary {
	var sum int64
	for _, r := range rows {
		sum += int64(r.score())
	}
	return Summarize(sum, int64(len(rows)))
}

func (r Rating) score() int { return r.Value }

// ValidateValue accepts only whole numbers in [MinValue, MaxValue].
func ValidateValue(v float64) (int, error) {
	if v != math.Trunc(v) || v < MinValue || v > MaxValue {
		return 0, fmt.Errorf("%w: got %v: %w", ErrInvalidRating, v, core.ErrInvalidInput)
	}
	return int(v), nil
}
