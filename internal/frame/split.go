package frame

import (
	"fmt"
	"math"
	"math/rand"
)

// Split shuffles rows with a seeded permutation and returns train and test
// partitions. The test partition takes ceil(testRatio*n) rows.
func (f *Frame) Split(testRatio float64, seed int64) (train, test *Frame, err error) {
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in (0,1), got %v", testRatio)
	}
	n := len(f.rows)
	nTest := int(math.Ceil(testRatio * float64(n)))
	if n > 0 && nTest >= n {
		return nil, nil, fmt.Errorf("test ratio %v leaves no training rows out of %d", testRatio, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return f.subset(perm[nTest:]), f.subset(perm[:nTest]), nil
}
