package util

import (
	"fmt"
	"math/big"
	"time"

	"github.com/dustin/go-humanize"

	"staking/domain"
)

func TokenString(amount uint64) string {
	return fmt.Sprintf("%v tokens", humanize.BigComma(new(big.Int).SetUint64(amount)))
}

func SharesString(shares domain.U128) string {
	return fmt.Sprintf("%v shares", humanize.BigComma(shares.Big()))
}

func CommissionString(bps uint16) string {
	return fmt.Sprintf("%v%%", humanize.FtoaWithDigits(float64(bps)/100, 2))
}

// DeadlineString renders a unix timestamp with its distance from now.
func DeadlineString(unix int64) string {
	t := time.Unix(unix, 0)
	return fmt.Sprintf("%v (%v)", t.UTC().Format(time.RFC1123), humanize.Time(t))
}
