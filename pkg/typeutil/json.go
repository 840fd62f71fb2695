package typeutil

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// JSONDuration is a time.Duration that gets marshaled into its human readable
// form (eg "1.5s").
type JSONDuration struct {
	time.Duration
}

func (j JSONDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Duration.String())
}

// JSONBytes is a byte size that gets marshaled into a human readable form
// with binary prefixes (eg "1.306KiB").
type JSONBytes struct {
	Size int64
}

func (j JSONBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.String())
}

func (j JSONBytes) String() string {
	if j.Size <= 0 {
		return "0B"
	}

	var (
		pre = []string{"B", "KiB", "MiB", "GiB", "TiB"}

		bits = math.Log2(float64(j.Size))
		pos  = min(math.Floor(bits/10), float64(len(pre)-1))
		exp  = math.Pow(1024, pos)

		short = float64(j.Size) / exp
		sufix = pre[int(pos)]
	)

	if pos == 0 {
		return fmt.Sprintf("%.0f%s", short, sufix)
	}

	if short < 10 {
		return fmt.Sprintf("%.3f%s", short, sufix)
	}

	if short < 100 {
		return fmt.Sprintf("%.2f%s", short, sufix)
	}

	return fmt.Sprintf("%.1f%s", short, sufix)
}
