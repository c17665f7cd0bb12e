// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package quotassign

import (
	"math/rand/v2"
	"sort"
)

// pcgStream is the fixed PCG increment used for seeded generators.
const pcgStream = 0x9e3779b97f4a7c15

// NewRand returns the generator for one run. A nil seed draws a random one.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(*seed), pcgStream))
}

type shuffleAssigner struct {
	globalShuffle bool
}

// ShuffleAssigner pairs a uniform permutation of each type's customers with
// that type's quota labels. When globalShuffle is set, the combined result is
// shuffled once more so that types interleave in the output.
func ShuffleAssigner(globalShuffle bool) Assigner {
	return shuffleAssigner{globalShuffle}
}

func (a shuffleAssigner) Assign(in *Input, r *rand.Rand) ([]AssignedCustomer, error) {
	labels := labelsByType(in)

	byType := make(map[string][]Customer)
	for _, c := range in.Customers {
		byType[c.Type] = append(byType[c.Type], c)
	}

	// Draw order follows the sorted type list so that a seed is reproducible.
	types := make([]string, 0, len(labels))
	for t := range labels {
		types = append(types, t)
	}
	for t := range byType {
		if _, ok := labels[t]; !ok {
			types = append(types, t)
		}
	}
	sort.Strings(types)

	assigned := make([]AssignedCustomer, 0, len(in.Customers))
	for _, t := range types {
		sub, ls := byType[t], labels[t]
		if len(ls) != len(sub) {
			return nil, &LabelCountError{Type: t, Labels: len(ls), Customers: len(sub)}
		}
		for i, p := range r.Perm(len(sub)) {
			assigned = append(assigned, AssignedCustomer{Customer: sub[p], Group: ls[i]})
		}
	}

	if a.globalShuffle {
		g := rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))
		g.Shuffle(len(assigned), func(i, j int) {
			assigned[i], assigned[j] = assigned[j], assigned[i]
		})
	}

	return assigned, nil
}

// labelsByType expands the quotas of each type into an ordered label list:
// groups in canonical order, each repeated by its summed size.
func labelsByType(in *Input) map[string][]string {
	sizes := make(map[string]map[string]int)
	for _, q := range in.Quotas {
		if sizes[q.Type] == nil {
			sizes[q.Type] = make(map[string]int)
		}
		sizes[q.Type][q.GroupName] += q.Size
	}

	labels := make(map[string][]string, len(sizes))
	for t, bySize := range sizes {
		ls := []string{}
		for _, g := range in.Groups {
			for n := bySize[g.Name]; n > 0; n-- {
				ls = append(ls, g.Name)
			}
		}
		labels[t] = ls
	}
	return labels
}

// Tally counts assigned customers per type and group.
func Tally(assigned []AssignedCustomer) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	for _, a := range assigned {
		if counts[a.Type] == nil {
			counts[a.Type] = make(map[string]int)
		}
		counts[a.Type][a.Group]++
	}
	return counts
}
