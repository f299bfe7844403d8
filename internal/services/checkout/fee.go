package checkout

// ApplicationFee is the platform's cut of total: total*percent/100 rounded
// half-up, in one pass over the whole total.
func ApplicationFee(total, percent int64) int64 {
	return (total*percent + 50) / 100
}
