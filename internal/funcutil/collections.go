// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package funcutil contains small generic helpers over slices, maps and map-represented sets.
package funcutil

import (
	"sort"
	"sync"

	"golang.org/x/exp/constraints"
)

// Union returns the union of map-represented sets a and b. This mutates map a
// @mutates a
func Union[T comparable](a map[T]bool, b map[T]bool) map[T]bool {
	for x, in := range b {
		if in {
			a[x] = true
		}
	}
	return a
}

// AddAll adds all the elements of xs to the set a and returns true if a changed.
// @mutates a
func AddAll[T comparable](a map[T]bool, xs ...T) bool {
	changed := false
	for _, x := range xs {
		if !a[x] {
			a[x] = true
			changed = true
		}
	}
	return changed
}

// SetOf returns the map-represented set of the elements of xs.
func SetOf[T comparable](xs ...T) map[T]bool {
	s := make(map[T]bool, len(xs))
	AddAll(s, xs...)
	return s
}

// SetEqual returns true when a and b contain the same elements. Keys mapped to false are not members.
func SetEqual[T comparable](a map[T]bool, b map[T]bool) bool {
	return IsSubset(a, b) && IsSubset(b, a)
}

// IsSubset returns true when every member of a is a member of b.
func IsSubset[T comparable](a map[T]bool, b map[T]bool) bool {
	for x, in := range a {
		if in && !b[x] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the set a, dropping the keys mapped to false.
func Clone[T comparable](a map[T]bool) map[T]bool {
	c := make(map[T]bool, len(a))
	return Union(c, a)
}

// SetToOrderedSlice converts a set represented as a map from elements to booleans into a slice.
// Sorts the result in increasing order
func SetToOrderedSlice[T constraints.Ordered](set map[T]bool) []T {
	var s []T
	for r, b := range set {
		if b {
			s = append(s, r)
		}
	}
	sort.Slice(s, func(i int, j int) bool { return s[i] < s[j] })
	return s
}

// Map returns a new slice b such for any i <= len(a), b[i] = f(a[i])
func Map[T any, S any](a []T, f func(T) S) []S {
	var b []S
	for _, x := range a {
		b = append(b, f(x))
	}
	return b
}

// Filter returns the elements x of a such that f(x), in order.
func Filter[T any](a []T, f func(T) bool) []T {
	var b []T
	for _, x := range a {
		if f(x) {
			b = append(b, x)
		}
	}
	return b
}

// MapParallel is a parallel version of Map using numRoutines goroutines. The order of the results matches the
// order of the inputs.
func MapParallel[T any, S any](a []T, f func(T) S, numRoutines int) []S {
	if numRoutines <= 0 {
		numRoutines = 1
	}
	res := make([]S, len(a))
	in := make(chan int)
	go func() {
		defer close(in)
		for i := range a {
			in <- i
		}
	}()

	wg := &sync.WaitGroup{}
	wg.Add(numRoutines)
	for i := 0; i < numRoutines; i++ {
		go func() {
			defer wg.Done()
			for idx := range in {
				// each index is written by exactly one goroutine
				res[idx] = f(a[idx])
			}
		}()
	}
	wg.Wait()
	return res
}

// Exists returns true when there exists some x in slice a such that f(x), otherwise false.
func Exists[T any](a []T, f func(T) bool) bool {
	for _, x := range a {
		if f(x) {
			return true
		}
	}
	return false
}

// Contains returns true when there is some y in slice a such that x == y
func Contains[T comparable](a []T, x T) bool {
	return Exists(a, func(y T) bool { return x == y })
}
