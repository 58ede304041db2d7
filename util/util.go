package util

import (
	"fmt"
	"math/rand"
)

var R = rand.New(rand.NewSource(1138))

var guidCounters = map[string]int{}

func ResetGuids() {
	guidCounters = map[string]int{}
}

func NewGuid(prefix string) string {
	guidCounters[prefix]++
	return fmt.Sprintf("%s-%d", prefix, guidCounters[prefix])
}

func RandomIntIn(min, max int) int {
	return R.Intn(max-min) + min
}
