package scheduler

import "sort"

// nullWorkCenterBucket is the partition key for operations with no
// assigned work center — §4.8 treats null as its own bucket.
const nullWorkCenterBucket = ""

// AssignPriorities partitions scheduled operations by work center
// (null is its own bucket) and, within each bucket, sorts by
// StartDate ascending (nulls last), then JobPriority ascending (null
// treated as 0), then DeadlineType rank, assigning 1..n in that order
// (§4.8). Mutates AssignedPriority on each operation in place.
func AssignPriorities(ops []*ScheduledOperation) {
	buckets := make(map[string][]*ScheduledOperation)
	for _, op := range ops {
		key := nullWorkCenterBucket
		if op.WorkCenterID != nil {
			key = *op.WorkCenterID
		}
		buckets[key] = append(buckets[key], op)
	}

	for _, bucket := range buckets {
		sort.SliceStable(bucket, func(i, j int) bool {
			a, b := bucket[i], bucket[j]

			if a.StartDate.IsZero() != b.StartDate.IsZero() {
				return b.StartDate.IsZero()
			}
			if !a.StartDate.Equal(b.StartDate) {
				return a.StartDate.Before(b.StartDate)
			}

			ajp, bjp := 0, 0
			if a.JobPriority != nil {
				ajp = *a.JobPriority
			}
			if b.JobPriority != nil {
				bjp = *b.JobPriority
			}
			if ajp != bjp {
				return ajp < bjp
			}

			return a.DeadlineType.Rank() < b.DeadlineType.Rank()
		})

		for i, op := range bucket {
			op.AssignedPriority = i + 1
		}
	}
}

// CalculateFractionalPriority returns the midpoint priority between
// two existing ranks, for inserting one operation between them
// without renumbering the whole bucket (§4.8). Used by the
// reprioritize endpoint (SPEC_FULL.md) rather than by the batch flow.
func CalculateFractionalPriority(before, after int) float64 {
	return float64(before+after) / 2
}
