package bankreg

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders v as it appears in error messages: whole numbers keep
// a trailing ".0", very small or very large magnitudes switch to E notation.
func FormatAmount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// 'E' with shortest precision yields e.g. "1E+07" or "1.5E-04"
	mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 64), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mant + "E" + strconv.Itoa(e)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// floatAmount converts d for use with Account. ok is false when d does not
// fit in a finite float64.
func floatAmount(d decimal.Decimal) (v float64, ok bool) {
	v = d.InexactFloat64()
	return v, isFinite(v)
}

// decimalAmount is the inverse of floatAmount. decimal cannot represent
// infinities or NaN, so those are reported instead of converted.
func decimalAmount(v float64) (decimal.Decimal, error) {
	if !isFinite(v) {
		return decimal.Decimal{}, ErrInvalidArgument{Message: "Amount out of range: " + FormatAmount(v)}
	}
	return decimal.NewFromFloat(v), nil
}
