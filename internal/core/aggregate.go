package core

// SumByDay totals the amounts of every expense dated exactly d.
// Dates are compared as pure calendar dates; no zone conversion happens here
// or anywhere upstream.
func SumByDay(expenses []Expense, d Date) Money {
	var cents int64
	for _, e := range expenses {
		if e.Date.Equal(d.Time) {
			cents += e.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// SumAll totals every expense amount.
func SumAll(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// BucketByDate partitions expenses by calendar date. The input order is
// preserved within each bucket, so a store that returns rows in insertion
// order keeps that order per day.
func BucketByDate(expenses []Expense) map[Date][]Expense {
	buckets := make(map[Date][]Expense)
	for _, e := range expenses {
		buckets[e.Date] = append(buckets[e.Date], e)
	}
	return buckets
}
