package dag

// roundMap indexes arena positions by round and creator.
type roundMap struct {
	content [][][]int
	width   uint16
	top     int
}

func newRoundMap(width uint16, initialLen int) *roundMap {
	rm := &roundMap{width: width, top: -1}
	rm.extendTo(initialLen - 1)
	return rm
}

func (rm *roundMap) extendTo(round int) {
	for len(rm.content) <= round {
		rm.content = append(rm.content, make([][]int, rm.width))
	}
}

func (rm *roundMap) add(round int, creator uint16, id int) {
	rm.extendTo(round)
	rm.content[round][creator] = append(rm.content[round][creator], id)
	if round > rm.top {
		rm.top = round
	}
}

func (rm *roundMap) get(round int) [][]int {
	if round < 0 || round >= len(rm.content) {
		return make([][]int, rm.width)
	}
	return rm.content[round]
}

func (rm *roundMap) slot(round int, creator uint16) []int {
	if round < 0 || round >= len(rm.content) {
		return nil
	}
	return rm.content[round][creator]
}

func (rm *roundMap) maxRound() int {
	return rm.top
}
