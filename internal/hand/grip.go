package hand

// fingers lists (pip, tip) landmark pairs for the four non-thumb fingers.
var fingers = [4][2]int{
	{IndexPIP, IndexTip},
	{MiddlePIP, MiddleTip},
	{RingPIP, RingTip},
	{PinkyPIP, PinkyTip},
}

// DefaultGripQuorum is how many of the four fingers must be curled to count as a grip.
const DefaultGripQuorum = 3

// CurledFingers counts non-thumb fingers whose tip is closer to the wrist than their
// middle joint, which is what a curled finger looks like from any camera angle.
func CurledFingers(lm *[LandmarkCount]Landmark) int {
	wrist := lm[Wrist].Vec()
	curled := 0
	for _, f := range fingers {
		pip := lm[f[0]].Vec().Sub(wrist).Len()
		tip := lm[f[1]].Vec().Sub(wrist).Len()
		if tip < pip {
			curled++
		}
	}
	return curled
}

// IsGripping reports whether at least quorum fingers are curled.
// A quorum outside [1,4] falls back to DefaultGripQuorum.
func IsGripping(lm *[LandmarkCount]Landmark, quorum int) bool {
	if quorum < 1 || quorum > len(fingers) {
		quorum = DefaultGripQuorum
	}
	return CurledFingers(lm) >= quorum
}
