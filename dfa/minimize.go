package dfa

import "sort"

// Minimize collapses equivalent states of d via partition refinement.
//
// The initial partition groups states by (accepting?, rule index) rather
// than the coarser (accepting?) split the reference minimizer uses —
// the reference groups every accepting state together regardless of
// which rule it accepts, which would fold two different rules' accept
// states into one and corrupt which action fires. Refinement then
// repeatedly splits any group whose members disagree on their
// per-byte target group, recomputed against the current partition each
// round, until a full round produces no further split. Recomputing
// against a whole-partition fixpoint (rather than visiting each group
// once, as the reference minimizer does) is required for soundness:
// visiting a group once can leave it wrongly merged if one of its
// transition targets is only split apart in a later round.
func Minimize(d *DFA) *DFA {
	ids := sortedStateIDs(d)
	groupOf := initialPartition(d, ids)

	for {
		changed := false
		members := groupsByID(groupOf, ids)
		nextID := 0
		for gid := range members {
			if gid >= nextID {
				nextID = gid + 1
			}
		}

		for _, gid := range sortedIntKeys(members) {
			group := members[gid]
			if len(group) < 2 {
				continue
			}
			buckets, order := splitByTransitions(d, group, groupOf)
			if len(order) < 2 {
				continue
			}
			changed = true
			for i, key := range order {
				sub := buckets[key]
				var id int
				if i == 0 {
					id = gid
				} else {
					id = nextID
					nextID++
				}
				for _, s := range sub {
					groupOf[s] = id
				}
			}
		}

		if !changed {
			break
		}
	}

	return buildFromPartition(d, groupOf, ids)
}

func sortedStateIDs(d *DFA) []int {
	ids := make([]int, 0, len(d.States))
	for id := range d.States {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedIntKeys(m map[int][]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func initialPartition(d *DFA, ids []int) map[int]int {
	tagGroup := map[string]int{}
	nonAccept := -1
	nextID := 0
	groupOf := make(map[int]int, len(ids))

	for _, id := range ids {
		tag, ok := d.Accept[id]
		if !ok {
			if nonAccept == -1 {
				nonAccept = nextID
				nextID++
			}
			groupOf[id] = nonAccept
			continue
		}

		key := "a" + string(appendInt(nil, tag.RuleIndex))
		gid, exists := tagGroup[key]
		if !exists {
			gid = nextID
			nextID++
			tagGroup[key] = gid
		}
		groupOf[id] = gid
	}
	return groupOf
}

func groupsByID(groupOf map[int]int, ids []int) map[int][]int {
	groups := map[int][]int{}
	for _, id := range ids {
		gid := groupOf[id]
		groups[gid] = append(groups[gid], id)
	}
	return groups
}

// transitionVector renders a state's byte -> group-id table (over the
// full 1..127 alphabet, absent transitions written as -1) as a string
// key, so two states can be compared for "same group under every
// input" by simple string equality.
func transitionVector(d *DFA, id int, groupOf map[int]int) string {
	buf := make([]byte, 0, 127*4)
	st := d.States[id]
	for c := 1; c <= 127; c++ {
		target, ok := st.Trans[byte(c)]
		var g int
		if ok {
			g = groupOf[target]
		} else {
			g = -1
		}
		buf = appendInt(buf, g)
		buf = append(buf, ',')
	}
	return string(buf)
}

func appendInt(buf []byte, v int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	if v == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	end := len(buf) - 1
	for start < end {
		buf[start], buf[end] = buf[end], buf[start]
		start++
		end--
	}
	return buf
}

func splitByTransitions(d *DFA, group []int, groupOf map[int]int) (map[string][]int, []string) {
	buckets := map[string][]int{}
	var order []string
	for _, id := range group {
		key := transitionVector(d, id, groupOf)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], id)
	}
	return buckets, order
}

func buildFromPartition(d *DFA, groupOf map[int]int, ids []int) *DFA {
	groups := groupsByID(groupOf, ids)

	states := make(map[int]*State, len(groups))
	for gid := range groups {
		states[gid] = &State{ID: gid, Trans: map[byte]int{}}
	}

	for _, gid := range sortedIntKeys(groups) {
		rep := groups[gid][0]
		for c := 1; c <= 127; c++ {
			target, ok := d.States[rep].Trans[byte(c)]
			if !ok {
				continue
			}
			states[gid].Trans[byte(c)] = groupOf[target]
		}
	}

	accept := map[int]Tag{}
	for gid, members := range groups {
		if tag, ok := d.Accept[members[0]]; ok {
			accept[gid] = tag
		}
	}

	start := groupOf[d.Start]

	reachable := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, target := range states[id].Trans {
			if !reachable[target] {
				reachable[target] = true
				queue = append(queue, target)
			}
		}
	}
	for gid := range states {
		if !reachable[gid] {
			delete(states, gid)
			delete(accept, gid)
		}
	}

	return &DFA{States: states, Start: start, Accept: accept}
}
